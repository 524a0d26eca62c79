package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pable/go-cricket-metrics/internal/model"
)

// obsWriter accumulates observation text and remembers every numeric token
// written through it, so the grounding check can demand verbatim citation.
type obsWriter struct {
	b       strings.Builder
	numbers []string
}

func (w *obsWriter) line(format string, args ...any) {
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteByte('\n')
}

// rate formats a float to one decimal place and records it.
func (w *obsWriter) rate(v float64) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	w.numbers = append(w.numbers, s)
	return s
}

// count formats an integer and records it.
func (w *obsWriter) count(n int) string {
	s := strconv.Itoa(n)
	w.numbers = append(w.numbers, s)
	return s
}

func (w *obsWriter) done(header string) model.Observation {
	return model.Observation{
		Header:  header,
		Text:    w.b.String(),
		Numbers: w.numbers,
	}
}

func topPerformersHeader(a model.PlannedAction) string {
	if a.Heuristic {
		return fmt.Sprintf("TOP PERFORMERS FOR %s PHASE (HEURISTIC PROXY FOR %s)",
			strings.ToUpper(a.Phase.String()), strings.ToUpper(a.BowlingProxy.String()))
	}
	if a.Phase == model.PhaseUnknown {
		return "TOP PERFORMERS OVERALL"
	}
	return fmt.Sprintf("TOP PERFORMERS FOR %s PHASE", strings.ToUpper(a.Phase.String()))
}

func formatTopPerformers(a model.PlannedAction, standings []model.PhaseStanding, minMatches int) model.Observation {
	header := topPerformersHeader(a)
	if len(standings) == 0 {
		return insufficientSample(header, a.Phase, minMatches)
	}

	w := &obsWriter{}
	w.line("%s:", header)
	if a.Heuristic {
		w.line("NOTE: ranked by entry phase as a stated proxy for %s bowling; this is not a per-delivery bowling matchup.",
			strings.ToLower(a.BowlingProxy.String()))
	}
	for i, s := range standings {
		w.line("  %d. %s (SR: %s, %s matches, Avg Runs: %s)",
			i+1, s.Player, w.rate(s.MeanStrikeRate), w.count(s.Matches), w.rate(s.MeanRuns))
	}
	w.line("Total players analyzed: %d", len(standings))
	return w.done(header)
}

// insufficientSample replaces an empty ranking section so the generator has
// something true to say instead of inventing a player.
func insufficientSample(header string, phase model.Phase, minMatches int) model.Observation {
	scope := "overall"
	if phase != model.PhaseUnknown {
		scope = "the " + strings.ToLower(phase.String()) + " phase"
	}
	return model.Observation{
		Header: header,
		Text: fmt.Sprintf("%s:\nINSUFFICIENT SAMPLE: no player reached the minimum of %d qualifying matches for %s.\n",
			header, minMatches, scope),
		Empty: true,
	}
}

func formatProfile(p *model.PlayerProfile) model.Observation {
	header := fmt.Sprintf("PLAYER DATA FOR %s", strings.ToUpper(p.Player))
	w := &obsWriter{}
	w.line("%s:", header)
	w.line("- Total Matches: %s", w.count(p.Matches))
	if len(p.Teams) > 0 {
		w.line("- Teams: %s", strings.Join(p.Teams, ", "))
	}
	w.line("- Most Recent Season: %s", w.count(p.Recency.MostRecentYear))
	w.line("- Recency Status: %s (Score: %s)", p.Recency.Status, w.rate(p.Recency.Status.Score()))
	w.line("- Average Entry Over: %s", w.rate(p.MeanEntryOver))
	w.line("- Average Innings Duration: %s overs", w.rate(p.MeanDuration))
	w.line("- Average Strike Rate: %s", w.rate(p.MeanStrikeRate))
	w.line("- Best Strike Rate: %s", w.rate(p.BestStrikeRate))
	w.line("- Average Dot Ball %%: %s%%", w.rate(p.MeanDotPct))
	w.line("- Average Boundary %%: %s%%", w.rate(p.MeanBndPct))
	w.line("- Total Runs: %s", w.count(p.TotalRuns))
	w.line("- Avg Runs per Match: %s", w.rate(p.MeanRuns))
	w.line("- Phase Breakdown: Powerplay=%s, Middle=%s, Death=%s",
		w.count(p.PhaseMatches[model.PhasePowerplay]),
		w.count(p.PhaseMatches[model.PhaseMiddle]),
		w.count(p.PhaseMatches[model.PhaseDeath]))

	if p.ChaseMatches > 0 {
		w.line("- Chase Matches: %s", w.count(p.ChaseMatches))
		w.line("- Avg Personal Impact: %s runs/over vs required rate", w.rate(p.MeanPersonalImpact))
		w.line("- Avg Contribution: %s%% of the entry-point requirement", w.rate(p.MeanContributionPct))
	}

	for _, m := range p.Matchups {
		w.line("- vs %s: SR %s over %s balls, %s dismissals",
			m.Class, w.rate(m.StrikeRate()), w.count(m.Balls), w.count(m.Dismissals))
	}

	if p.Recent != nil {
		w.line("- RECENT (%s): %s matches, Avg SR %s, Avg Runs %s",
			joinYears(p.Recent.Years), w.count(p.Recent.Matches),
			w.rate(p.Recent.MeanStrikeRate), w.rate(p.Recent.MeanRuns))
	}
	if p.Historical != nil {
		w.line("- HISTORICAL (%s): %s matches, Avg SR %s, Avg Runs %s",
			joinYears(p.Historical.Years), w.count(p.Historical.Matches),
			w.rate(p.Historical.MeanStrikeRate), w.rate(p.Historical.MeanRuns))
	}
	return w.done(header)
}

func formatMissingPlayer(player string) model.Observation {
	header := fmt.Sprintf("NO DATA FOR %s", strings.ToUpper(player))
	return model.Observation{
		Header: header,
		Text:   fmt.Sprintf("%s: no deliveries recorded for this player in the dataset.\n", header),
		Empty:  true,
	}
}

func formatComparison(profiles []*model.PlayerProfile) model.Observation {
	names := make([]string, len(profiles))
	for i, p := range profiles {
		names[i] = strings.ToUpper(p.Player)
	}
	header := fmt.Sprintf("PLAYER COMPARISON: %s", strings.Join(names, " VS "))

	w := &obsWriter{}
	w.line("%s:", header)
	for _, p := range profiles {
		w.line("%s: %s matches, Avg SR %s, Avg Runs %s, Dot%% %s, Bnd%% %s, Avg Entry Over %s, Recency %s",
			strings.ToUpper(p.Player), w.count(p.Matches), w.rate(p.MeanStrikeRate),
			w.rate(p.MeanRuns), w.rate(p.MeanDotPct), w.rate(p.MeanBndPct),
			w.rate(p.MeanEntryOver), p.Recency.Status)
	}
	return w.done(header)
}

// LimitationNote tells the generator which asked-about concepts the dataset
// does not carry, so the answer acknowledges the gap instead of guessing.
func LimitationNote(concepts []string) model.Observation {
	return model.Observation{
		Header: "DATA LIMITATION",
		Text: fmt.Sprintf("DATA LIMITATION: the dataset has no %s information; the analysis below covers batting entry points, phases, chases, and bowling-class matchups only.\n",
			strings.Join(concepts, ", ")),
	}
}

func joinYears(years []int) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return strings.Join(parts, ", ")
}

// ObservationText concatenates observations in planner order for prompting
// and fallback synthesis.
func ObservationText(obs []model.Observation) string {
	var b strings.Builder
	for i, o := range obs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(o.Text)
	}
	return b.String()
}

// AllNumbers flattens every numeric token across the observations.
func AllNumbers(obs []model.Observation) []string {
	var out []string
	for _, o := range obs {
		out = append(out, o.Numbers...)
	}
	return out
}

// AllEmpty reports whether no observation carried data.
func AllEmpty(obs []model.Observation) bool {
	for _, o := range obs {
		if !o.Empty && len(o.Numbers) > 0 {
			return false
		}
	}
	return true
}
