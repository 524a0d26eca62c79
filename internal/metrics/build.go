// Package metrics derives per-player situational performance tables from raw
// ball-by-ball events and serves ranked queries over them.
package metrics

import (
	"sort"

	"github.com/pable/go-cricket-metrics/internal/model"
)

// Build computes the derived tables from a raw event set. The event slice is
// read-only input; the returned Store owns every derived record. Building
// twice from the same events yields identical tables.
func Build(events []model.BallEvent) (*Store, error) {
	if len(events) == 0 {
		return nil, model.ErrEmptyDataset
	}

	// ---- Pass 1: per-(player, match) entry records. ----

	type entryKey struct{ player, match string }

	type entryAccum struct {
		team string
		year int

		entryOver, exitOver int
		// position of the earliest delivery seen, to capture chase context
		// at the moment of entry
		entryBall int

		balls, runs, dots, boundaries int

		chasing       bool
		entryRequired float64
		chaseTarget   int
	}

	accums := make(map[entryKey]*entryAccum)
	for _, ev := range events {
		k := entryKey{ev.Batsman, ev.MatchID}
		acc := accums[k]
		if acc == nil {
			acc = &entryAccum{
				team:      ev.Team,
				year:      ev.Year,
				entryOver: ev.Over,
				exitOver:  ev.Over,
				entryBall: ev.BallInOver,
			}
			accums[k] = acc
			if ev.Innings == 2 && ev.HasChaseContext {
				acc.chasing = true
				acc.entryRequired = ev.RequiredRunRate
				acc.chaseTarget = ev.ChaseTarget
			}
		}

		// Entry over is the minimum over faced, not a row count. Earlier
		// deliveries can arrive out of order in the log, so the entry-ball
		// chase context follows the (over, ball) minimum.
		if ev.Over < acc.entryOver || (ev.Over == acc.entryOver && ev.BallInOver < acc.entryBall) {
			acc.entryOver = ev.Over
			acc.entryBall = ev.BallInOver
			if ev.Innings == 2 && ev.HasChaseContext {
				acc.chasing = true
				acc.entryRequired = ev.RequiredRunRate
				acc.chaseTarget = ev.ChaseTarget
			} else {
				acc.chasing = false
				acc.entryRequired = 0
				acc.chaseTarget = 0
			}
		}
		if ev.Over > acc.exitOver {
			acc.exitOver = ev.Over
		}

		acc.balls++
		acc.runs += ev.Runs
		if ev.IsDot {
			acc.dots++
		}
		if ev.IsBoundary {
			acc.boundaries++
		}
	}

	entries := make([]model.EntryRecord, 0, len(accums))
	for k, acc := range accums {
		entries = append(entries, model.EntryRecord{
			Player:          k.player,
			Team:            acc.team,
			MatchID:         k.match,
			Year:            acc.year,
			EntryOver:       acc.entryOver,
			ExitOver:        acc.exitOver,
			Phase:           model.PhaseForOver(acc.entryOver),
			BallsFaced:      acc.balls,
			Runs:            acc.runs,
			Dots:            acc.dots,
			Boundaries:      acc.boundaries,
			HasChaseContext: acc.chasing,
			EntryRequired:   acc.entryRequired,
			ChaseTarget:     acc.chaseTarget,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Player != entries[j].Player {
			return entries[i].Player < entries[j].Player
		}
		return entries[i].MatchID < entries[j].MatchID
	})

	// ---- Pass 2: chase impact for qualifying entry records. ----
	// Setting-innings records have no required rate; their absence here is
	// expected, not a data error. requiredRuns == 0 or balls == 0 leaves the
	// metric undefined rather than emitting a zero-valued record.

	var impacts []model.ChaseImpact
	for i := range entries {
		r := &entries[i]
		if !r.HasChaseContext || r.BallsFaced == 0 {
			continue
		}
		requiredRuns := r.EntryRequired * float64(r.BallsFaced) / 6
		if requiredRuns <= 0 {
			continue
		}
		playerRate := r.StrikeRate() / 100 * 6
		impacts = append(impacts, model.ChaseImpact{
			Player:          r.Player,
			MatchID:         r.MatchID,
			EntryRequired:   r.EntryRequired,
			PlayerRunRate:   playerRate,
			PersonalImpact:  playerRate - r.EntryRequired,
			RequiredRuns:    requiredRuns,
			ContributionPct: float64(r.Runs) / requiredRuns * 100,
			ImpactRuns:      float64(r.Runs) - requiredRuns,
		})
	}

	// ---- Pass 3: bowling matchups by (player, class). ----

	type matchupKey struct {
		player string
		class  model.BowlingClass
	}
	mAccums := make(map[matchupKey]*model.MatchupRecord)
	for _, ev := range events {
		class := ev.BowlingClassOf()
		if class == model.BowlingUnknown {
			continue
		}
		k := matchupKey{ev.Batsman, class}
		m := mAccums[k]
		if m == nil {
			m = &model.MatchupRecord{Player: ev.Batsman, Class: class}
			mAccums[k] = m
		}
		m.Balls++
		m.Runs += ev.Runs
		if ev.IsWicket {
			m.Dismissals++
		}
	}
	matchups := make([]model.MatchupRecord, 0, len(mAccums))
	for _, m := range mAccums {
		matchups = append(matchups, *m)
	}
	sort.Slice(matchups, func(i, j int) bool {
		if matchups[i].Player != matchups[j].Player {
			return matchups[i].Player < matchups[j].Player
		}
		return matchups[i].Class < matchups[j].Class
	})

	// ---- Pass 4: recency per player. ----

	maxYearByPlayer := make(map[string]int)
	datasetMaxYear := 0
	for _, ev := range events {
		if ev.Year > maxYearByPlayer[ev.Batsman] {
			maxYearByPlayer[ev.Batsman] = ev.Year
		}
		if ev.Year > datasetMaxYear {
			datasetMaxYear = ev.Year
		}
	}
	recency := make(map[string]model.RecencyRecord, len(maxYearByPlayer))
	for player, year := range maxYearByPlayer {
		gap := datasetMaxYear - year
		recency[player] = model.RecencyRecord{
			Player:         player,
			MostRecentYear: year,
			YearsSinceLast: gap,
			Status:         model.RecencyForGap(gap),
		}
	}

	return newStore(entries, impacts, matchups, recency, datasetMaxYear), nil
}
