// Package query turns a free-text tactical question into typed retrieval
// actions, runs them against the metrics store, and renders the results as
// deterministic observation text.
package query

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pable/go-cricket-metrics/internal/model"
)

// abbreviations maps well-known short forms to the full name they stand for.
// The full name is then resolved against the dataset's player keys like any
// other alias, so an abbreviation for a player absent from the data matches
// nothing.
var abbreviations = map[string]string{
	"abd":     "ab de villiers",
	"msd":     "ms dhoni",
	"vk":      "virat kohli",
	"dk":      "dinesh karthik",
	"sky":     "suryakumar yadav",
	"hitman":  "rohit sharma",
	"king":    "virat kohli",
	"mahi":    "ms dhoni",
	"pandya":  "hardik pandya",
	"russell": "andre russell",
}

// concepts the dataset does not carry. A question touching one of these gets
// a capability note instead of a plan built on data that is not there.
var outOfBoundsConcepts = map[string][]string{
	"venue":         {"ground", "stadium", "venue", "pitch"},
	"weather":       {"weather", "rain", "dew"},
	"toss":          {"toss"},
	"fielding":      {"fielding", "catches", "catch", "field placement"},
	"match outcome": {"win", "loss", "victory", "result"},
}

var overRangeRe = regexp.MustCompile(`\bovers?\s+(\d{1,2})(?:\s*(?:-|to)\s*(\d{1,2}))?\b`)

// Extractor resolves question text against the player keys of one dataset
// plus the static alias and keyword dictionaries.
type Extractor struct {
	// alias -> canonical keys it could mean, sorted. An alias shared by
	// several players keeps all of them so ambiguity stays visible.
	aliases map[string][]string
}

// NewExtractor indexes the given canonical player keys. Each key is reachable
// by its full lowercase form and by each of its name tokens.
func NewExtractor(players []string) *Extractor {
	e := &Extractor{aliases: make(map[string][]string)}
	for _, p := range players {
		full := strings.ToLower(strings.TrimSpace(p))
		if full == "" {
			continue
		}
		e.addAlias(full, p)
		for _, tok := range strings.Fields(full) {
			if len(tok) >= 3 {
				e.addAlias(tok, p)
			}
		}
	}
	for short, full := range abbreviations {
		if keys := e.aliases[full]; len(keys) > 0 {
			for _, k := range keys {
				e.addAlias(short, k)
			}
		}
	}
	for a := range e.aliases {
		sort.Strings(e.aliases[a])
	}
	return e
}

func (e *Extractor) addAlias(alias, key string) {
	for _, existing := range e.aliases[alias] {
		if existing == key {
			return
		}
	}
	e.aliases[alias] = append(e.aliases[alias], key)
}

// Extract pulls players, bowling types, phases, and intent out of a question.
// Nothing matching is not an error; the empty bundle degrades the plan to a
// default ranking lookup.
func (e *Extractor) Extract(question string) model.EntityBundle {
	norm := normalize(question)
	padded := " " + norm + " "

	bundle := model.EntityBundle{Intent: intentOf(padded)}

	playerSeen := make(map[string]struct{})
	for alias, keys := range e.aliases {
		if !strings.Contains(padded, " "+alias+" ") {
			continue
		}
		for _, k := range keys {
			if _, ok := playerSeen[k]; !ok {
				playerSeen[k] = struct{}{}
				bundle.Players = append(bundle.Players, k)
			}
		}
	}
	sort.Strings(bundle.Players)

	if containsAny(padded, "spin", "spinner", "spinners", "orthodox") {
		bundle.BowlingTypes = append(bundle.BowlingTypes, model.BowlingSpin)
	}
	if containsAny(padded, "pace", "pacer", "pacers", "fast", "seam") {
		bundle.BowlingTypes = append(bundle.BowlingTypes, model.BowlingPace)
	}

	bundle.Phases = phasesOf(padded, norm)

	for concept, words := range outOfBoundsConcepts {
		if containsAny(padded, words...) {
			bundle.OutOfBounds = append(bundle.OutOfBounds, concept)
		}
	}
	sort.Strings(bundle.OutOfBounds)

	return bundle
}

func intentOf(padded string) model.Intent {
	if containsAny(padded, "should", "deploy", "recommend", "play", "when") {
		return model.IntentDeployment
	}
	if containsAny(padded, "compare", "vs", "versus") {
		return model.IntentComparison
	}
	return model.IntentGeneral
}

func phasesOf(padded, norm string) []model.Phase {
	var phases []model.Phase
	add := func(p model.Phase) {
		for _, got := range phases {
			if got == p {
				return
			}
		}
		phases = append(phases, p)
	}

	if containsAny(padded, "powerplay", "power play", "opening overs") {
		add(model.PhasePowerplay)
	}
	if containsAny(padded, "middle", "middle overs") {
		add(model.PhaseMiddle)
	}
	if containsAny(padded, "death", "death overs", "final over", "final overs", "last over", "last overs", "finisher", "finishers") {
		add(model.PhaseDeath)
	}

	// Explicit over numbers map through the phase boundaries, so "overs 16
	// to 20" lands on Death without naming it.
	for _, m := range overRangeRe.FindAllStringSubmatch(norm, -1) {
		lo, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		hi := lo
		if m[2] != "" {
			if v, err := strconv.Atoi(m[2]); err == nil {
				hi = v
			}
		}
		if lo >= 1 && lo <= 20 {
			add(model.PhaseForOver(lo))
		}
		if hi >= 1 && hi <= 20 && hi != lo {
			add(model.PhaseForOver(hi))
		}
	}
	return phases
}

// normalize lowercases and strips punctuation so alias matching works on
// word boundaries.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func containsAny(padded string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(padded, " "+w+" ") {
			return true
		}
	}
	return false
}
