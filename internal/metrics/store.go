package metrics

import (
	"sort"

	"github.com/pable/go-cricket-metrics/internal/model"
)

// Store holds the derived tables for one build of the dataset. It is
// immutable after construction; concurrent readers need no locks. A data
// refresh builds a whole new Store and swaps it in atomically.
type Store struct {
	entries  []model.EntryRecord
	impacts  []model.ChaseImpact
	matchups []model.MatchupRecord
	recency  map[string]model.RecencyRecord
	maxYear  int

	entriesByPlayer  map[string][]model.EntryRecord
	impactsByPlayer  map[string][]model.ChaseImpact
	matchupsByPlayer map[string][]model.MatchupRecord
	players          []string // sorted
}

func newStore(entries []model.EntryRecord, impacts []model.ChaseImpact,
	matchups []model.MatchupRecord, recency map[string]model.RecencyRecord, maxYear int) *Store {

	s := &Store{
		entries:          entries,
		impacts:          impacts,
		matchups:         matchups,
		recency:          recency,
		maxYear:          maxYear,
		entriesByPlayer:  make(map[string][]model.EntryRecord),
		impactsByPlayer:  make(map[string][]model.ChaseImpact),
		matchupsByPlayer: make(map[string][]model.MatchupRecord),
	}
	for _, e := range entries {
		s.entriesByPlayer[e.Player] = append(s.entriesByPlayer[e.Player], e)
	}
	for _, im := range impacts {
		s.impactsByPlayer[im.Player] = append(s.impactsByPlayer[im.Player], im)
	}
	for _, m := range matchups {
		s.matchupsByPlayer[m.Player] = append(s.matchupsByPlayer[m.Player], m)
	}
	s.players = make([]string, 0, len(s.entriesByPlayer))
	for p := range s.entriesByPlayer {
		s.players = append(s.players, p)
	}
	sort.Strings(s.players)
	return s
}

// Restore rebuilds a Store from previously persisted derived tables, without
// re-reading raw events. The inputs must come from a prior Build.
func Restore(entries []model.EntryRecord, impacts []model.ChaseImpact,
	matchups []model.MatchupRecord, recency []model.RecencyRecord, maxYear int) *Store {
	byPlayer := make(map[string]model.RecencyRecord, len(recency))
	for _, r := range recency {
		byPlayer[r.Player] = r
	}
	return newStore(entries, impacts, matchups, byPlayer, maxYear)
}

// Players returns all player keys in the store, sorted.
func (s *Store) Players() []string { return s.players }

// Entries returns the full entry-point table.
func (s *Store) Entries() []model.EntryRecord { return s.entries }

// Impacts returns the full chase-impact table.
func (s *Store) Impacts() []model.ChaseImpact { return s.impacts }

// Matchups returns the full bowling-matchup table.
func (s *Store) Matchups() []model.MatchupRecord { return s.matchups }

// MaxYear returns the most recent season in the dataset.
func (s *Store) MaxYear() int { return s.maxYear }

// RecencyRecords returns the per-player recency table, sorted by player.
func (s *Store) RecencyRecords() []model.RecencyRecord {
	out := make([]model.RecencyRecord, 0, len(s.recency))
	for _, p := range s.players {
		if r, ok := s.recency[p]; ok {
			out = append(out, r)
		}
	}
	return out
}

// TopPerformers ranks players who entered in the given phase by mean strike
// rate. PhaseUnknown ranks across all entries. Players with fewer than
// minMatches qualifying matches are excluded outright; the caller renders an
// insufficient-sample note when nothing survives the floor. Ties break by
// higher match count, then player key ascending, making the order a pure
// function of the table.
func (s *Store) TopPerformers(phase model.Phase, minMatches, topN int) []model.PhaseStanding {
	type accum struct {
		srSum, runSum, dotSum, bndSum float64
		n                             int
	}
	byPlayer := make(map[string]*accum)
	for i := range s.entries {
		r := &s.entries[i]
		if phase != model.PhaseUnknown && r.Phase != phase {
			continue
		}
		a := byPlayer[r.Player]
		if a == nil {
			a = &accum{}
			byPlayer[r.Player] = a
		}
		a.srSum += r.StrikeRate()
		a.runSum += float64(r.Runs)
		a.dotSum += r.DotPct()
		a.bndSum += r.BoundaryPct()
		a.n++
	}

	standings := make([]model.PhaseStanding, 0, len(byPlayer))
	for player, a := range byPlayer {
		if a.n < minMatches {
			continue
		}
		n := float64(a.n)
		standings = append(standings, model.PhaseStanding{
			Player:         player,
			MeanStrikeRate: a.srSum / n,
			MeanRuns:       a.runSum / n,
			MeanDotPct:     a.dotSum / n,
			MeanBndPct:     a.bndSum / n,
			Matches:        a.n,
		})
	}

	sort.Slice(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.MeanStrikeRate != b.MeanStrikeRate {
			return a.MeanStrikeRate > b.MeanStrikeRate
		}
		if a.Matches != b.Matches {
			return a.Matches > b.Matches
		}
		return a.Player < b.Player
	})

	if topN > 0 && len(standings) > topN {
		standings = standings[:topN]
	}
	return standings
}

// Profile builds the cross-match aggregate for one player key. The key must
// match exactly (the extractor resolves aliases before this point); zero
// records is PlayerNotFoundError.
func (s *Store) Profile(player string) (*model.PlayerProfile, error) {
	recs := s.entriesByPlayer[player]
	if len(recs) == 0 {
		return nil, &model.PlayerNotFoundError{Player: player}
	}

	p := &model.PlayerProfile{
		Player:       player,
		Matches:      len(recs),
		PhaseMatches: make(map[model.Phase]int),
		Recency:      s.recency[player],
	}

	teamSeen := make(map[string]struct{})
	var entrySum, srSum, dotSum, bndSum, durSum float64
	for i := range recs {
		r := &recs[i]
		entrySum += float64(r.EntryOver)
		sr := r.StrikeRate()
		srSum += sr
		if sr > p.BestStrikeRate {
			p.BestStrikeRate = sr
		}
		dotSum += r.DotPct()
		bndSum += r.BoundaryPct()
		durSum += float64(r.Duration())
		p.TotalRuns += r.Runs
		p.PhaseMatches[r.Phase]++
		if r.Team != "" {
			if _, ok := teamSeen[r.Team]; !ok {
				teamSeen[r.Team] = struct{}{}
				p.Teams = append(p.Teams, r.Team)
			}
		}
	}
	n := float64(len(recs))
	p.MeanEntryOver = entrySum / n
	p.MeanStrikeRate = srSum / n
	p.MeanDotPct = dotSum / n
	p.MeanBndPct = bndSum / n
	p.MeanDuration = durSum / n
	p.MeanRuns = float64(p.TotalRuns) / n
	sort.Strings(p.Teams)

	if impacts := s.impactsByPlayer[player]; len(impacts) > 0 {
		var impactSum, contribSum float64
		for _, im := range impacts {
			impactSum += im.PersonalImpact
			contribSum += im.ContributionPct
		}
		p.ChaseMatches = len(impacts)
		p.MeanPersonalImpact = impactSum / float64(len(impacts))
		p.MeanContributionPct = contribSum / float64(len(impacts))
	}

	p.Matchups = append(p.Matchups, s.matchupsByPlayer[player]...)
	p.Recent, p.Historical = splitBySpan(recs)
	return p, nil
}

// splitBySpan separates a player's records into their last two seasons and
// everything earlier. Either side may be nil when it holds no matches.
func splitBySpan(recs []model.EntryRecord) (recent, historical *model.SpanStats) {
	yearSet := make(map[int]struct{})
	for i := range recs {
		if recs[i].Year > 0 {
			yearSet[recs[i].Year] = struct{}{}
		}
	}
	if len(yearSet) < 2 {
		return nil, nil
	}
	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	recentYears := map[int]struct{}{years[0]: {}, years[1]: {}}

	span := func(pick func(int) bool) *model.SpanStats {
		st := &model.SpanStats{}
		var srSum, runSum float64
		seen := make(map[int]struct{})
		for i := range recs {
			r := &recs[i]
			if !pick(r.Year) {
				continue
			}
			st.Matches++
			srSum += r.StrikeRate()
			runSum += float64(r.Runs)
			if _, ok := seen[r.Year]; !ok {
				seen[r.Year] = struct{}{}
				st.Years = append(st.Years, r.Year)
			}
		}
		if st.Matches == 0 {
			return nil
		}
		sort.Sort(sort.Reverse(sort.IntSlice(st.Years)))
		st.MeanStrikeRate = srSum / float64(st.Matches)
		st.MeanRuns = runSum / float64(st.Matches)
		return st
	}

	recent = span(func(y int) bool { _, ok := recentYears[y]; return ok })
	historical = span(func(y int) bool { _, ok := recentYears[y]; return !ok && y > 0 })
	return recent, historical
}
