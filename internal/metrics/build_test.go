package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-cricket-metrics/internal/model"
)

type ballOpt func(*model.BallEvent)

func withDot() ballOpt      { return func(e *model.BallEvent) { e.IsDot = true } }
func withBoundary() ballOpt { return func(e *model.BallEvent) { e.IsBoundary = true } }
func withWicket() ballOpt   { return func(e *model.BallEvent) { e.IsWicket = true } }

func withChase(rrr float64) ballOpt {
	return func(e *model.BallEvent) {
		e.HasChaseContext = true
		e.RequiredRunRate = rrr
		e.Innings = 2
	}
}

func withStyle(style string) ballOpt {
	return func(e *model.BallEvent) { e.BowlingStyle = style }
}

func ball(match string, year, over, ballNo int, batsman string, runs int, opts ...ballOpt) model.BallEvent {
	e := model.BallEvent{
		MatchID:    match,
		Year:       year,
		Over:       over,
		BallInOver: ballNo,
		Batsman:    batsman,
		Team:       "CSK",
		Runs:       runs,
		Innings:    1,
	}
	if runs == 0 {
		e.IsDot = true
	}
	if runs == 4 || runs == 6 {
		e.IsBoundary = true
	}
	for _, o := range opts {
		o(&e)
	}
	return e
}

// innings emits n deliveries for one batsman starting at the given over,
// one run each, advancing a ball at a time.
func innings(match string, year, startOver int, batsman string, n int) []model.BallEvent {
	events := make([]model.BallEvent, 0, n)
	over, b := startOver, 1
	for i := 0; i < n; i++ {
		events = append(events, ball(match, year, over, b, batsman, 1))
		b++
		if b > 6 {
			b = 1
			over++
		}
	}
	return events
}

func TestBuildEntryPhases(t *testing.T) {
	var events []model.BallEvent
	events = append(events, innings("m1", 2023, 1, "dhoni", 6)...)
	events = append(events, innings("m2", 2023, 5, "dhoni", 6)...)
	events = append(events, innings("m3", 2023, 9, "dhoni", 6)...)

	store, err := Build(events)
	require.NoError(t, err)

	entries := store.Entries()
	require.Len(t, entries, 3)

	got := map[string]model.Phase{}
	for _, e := range entries {
		got[e.MatchID] = e.Phase
	}
	assert.Equal(t, model.PhasePowerplay, got["m1"])
	assert.Equal(t, model.PhasePowerplay, got["m2"])
	assert.Equal(t, model.PhaseMiddle, got["m3"])
}

func TestBuildEntryIsMinimumOver(t *testing.T) {
	// Deliveries arrive out of order; entry must still be the earliest ball.
	events := []model.BallEvent{
		ball("m1", 2023, 14, 3, "jadeja", 4),
		ball("m1", 2023, 8, 2, "jadeja", 1),
		ball("m1", 2023, 11, 5, "jadeja", 2),
	}

	store, err := Build(events)
	require.NoError(t, err)

	entries := store.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 8, entries[0].EntryOver)
	assert.Equal(t, 14, entries[0].ExitOver)
	assert.Equal(t, model.PhaseMiddle, entries[0].Phase)
	assert.Equal(t, 3, entries[0].BallsFaced)
	assert.Equal(t, 7, entries[0].Runs)
}

func TestBuildChaseImpact(t *testing.T) {
	// 30 runs off 12 balls entering at a required rate of 12.0.
	var events []model.BallEvent
	over, b := 16, 1
	for i := 0; i < 12; i++ {
		runs := 2
		if i%2 == 0 {
			runs = 3
		}
		events = append(events, ball("m1", 2023, over, b, "russell", runs, withChase(12.0)))
		b++
		if b > 6 {
			b = 1
			over++
		}
	}

	store, err := Build(events)
	require.NoError(t, err)

	impacts := store.Impacts()
	require.Len(t, impacts, 1)
	im := impacts[0]
	assert.Equal(t, "russell", im.Player)
	assert.InDelta(t, 12.0, im.EntryRequired, 1e-9)
	assert.InDelta(t, 24.0, im.RequiredRuns, 1e-9)  // 12.0 * 12 / 6
	assert.InDelta(t, 15.0, im.PlayerRunRate, 1e-9) // SR 250 -> 15 rpo
	assert.InDelta(t, 3.0, im.PersonalImpact, 1e-9)
	assert.InDelta(t, 125.0, im.ContributionPct, 1e-9)
	assert.InDelta(t, 6.0, im.ImpactRuns, 1e-9)
}

func TestBuildNoChaseImpactWithoutContext(t *testing.T) {
	store, err := Build(innings("m1", 2023, 3, "dhoni", 10))
	require.NoError(t, err)
	assert.Empty(t, store.Impacts())
}

func TestBuildMatchups(t *testing.T) {
	events := []model.BallEvent{
		ball("m1", 2023, 7, 1, "dhoni", 4, withStyle("Right-arm fast")),
		ball("m1", 2023, 7, 2, "dhoni", 1, withStyle("Right-arm fast")),
		ball("m1", 2023, 8, 1, "dhoni", 0, withStyle("Left-arm orthodox"), withWicket()),
		ball("m1", 2023, 9, 1, "dhoni", 2, withStyle("")),
	}

	store, err := Build(events)
	require.NoError(t, err)

	matchups := store.Matchups()
	require.Len(t, matchups, 2) // unknown style excluded

	pace, spin := matchups[0], matchups[1]
	assert.Equal(t, model.BowlingPace, pace.Class)
	assert.Equal(t, 2, pace.Balls)
	assert.Equal(t, 5, pace.Runs)
	assert.Equal(t, model.BowlingSpin, spin.Class)
	assert.Equal(t, 1, spin.Dismissals)
	assert.InDelta(t, 0.0, spin.StrikeRate(), 1e-9)
}

func TestBuildRecency(t *testing.T) {
	var events []model.BallEvent
	events = append(events, innings("m1", 2024, 1, "dhoni", 6)...)
	events = append(events, innings("m2", 2021, 1, "gayle", 6)...)
	events = append(events, innings("m3", 2023, 1, "kohli", 6)...)

	store, err := Build(events)
	require.NoError(t, err)
	assert.Equal(t, 2024, store.MaxYear())

	p, err := store.Profile("dhoni")
	require.NoError(t, err)
	assert.Equal(t, model.RecencyActive, p.Recency.Status)
	assert.InDelta(t, 1.0, p.Recency.Status.Score(), 1e-9)

	p, err = store.Profile("kohli")
	require.NoError(t, err)
	assert.Equal(t, model.RecencyRecent, p.Recency.Status)

	p, err = store.Profile("gayle")
	require.NoError(t, err)
	assert.Equal(t, model.RecencyHistorical, p.Recency.Status)
	assert.InDelta(t, 0.3, p.Recency.Status.Score(), 1e-9)
}

func TestBuildEmptyDataset(t *testing.T) {
	_, err := Build(nil)
	assert.ErrorIs(t, err, model.ErrEmptyDataset)
}

func TestBuildDeterministic(t *testing.T) {
	var events []model.BallEvent
	events = append(events, innings("m1", 2023, 2, "dhoni", 8)...)
	events = append(events, innings("m1", 2023, 4, "jadeja", 8)...)
	events = append(events, innings("m2", 2023, 1, "dhoni", 8)...)

	a, err := Build(events)
	require.NoError(t, err)

	// Reversed input order must produce the same tables.
	reversed := make([]model.BallEvent, len(events))
	for i, e := range events {
		reversed[len(events)-1-i] = e
	}
	b, err := Build(reversed)
	require.NoError(t, err)

	assert.Equal(t, a.Entries(), b.Entries())
	assert.Equal(t, a.Impacts(), b.Impacts())
	assert.Equal(t, a.Matchups(), b.Matchups())
	assert.Equal(t, a.Players(), b.Players())
}

func TestTopPerformersReliabilityFloor(t *testing.T) {
	var events []model.BallEvent
	// dhoni: 3 powerplay entries, modest strike rate.
	for _, m := range []string{"m1", "m2", "m3"} {
		events = append(events, innings(m, 2023, 2, "dhoni", 10)...)
	}
	// gayle: 1 powerplay entry at a huge strike rate.
	events = append(events,
		ball("m4", 2023, 1, 1, "gayle", 6),
		ball("m4", 2023, 1, 2, "gayle", 6),
	)

	store, err := Build(events)
	require.NoError(t, err)

	standings := store.TopPerformers(model.PhasePowerplay, 3, 10)
	require.Len(t, standings, 1)
	assert.Equal(t, "dhoni", standings[0].Player)
	assert.Equal(t, 3, standings[0].Matches)

	// With the floor lowered the small sample ranks first.
	standings = store.TopPerformers(model.PhasePowerplay, 1, 10)
	require.Len(t, standings, 2)
	assert.Equal(t, "gayle", standings[0].Player)
}

func TestTopPerformersTieBreaks(t *testing.T) {
	var events []model.BallEvent
	// Identical per-match lines for two players; order must fall back to key.
	for _, m := range []string{"m1", "m2", "m3"} {
		events = append(events, innings(m, 2023, 1, "bravo", 6)...)
		events = append(events, innings(m, 2023, 1, "ashwin", 6)...)
	}

	store, err := Build(events)
	require.NoError(t, err)

	standings := store.TopPerformers(model.PhasePowerplay, 3, 10)
	require.Len(t, standings, 2)
	assert.Equal(t, "ashwin", standings[0].Player)
	assert.Equal(t, "bravo", standings[1].Player)
}

func TestProfileAggregates(t *testing.T) {
	var events []model.BallEvent
	events = append(events, innings("m1", 2022, 2, "dhoni", 12)...)
	events = append(events, innings("m2", 2023, 8, "dhoni", 12)...)
	events = append(events, innings("m3", 2024, 17, "dhoni", 12)...)

	store, err := Build(events)
	require.NoError(t, err)

	p, err := store.Profile("dhoni")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Matches)
	assert.InDelta(t, 9.0, p.MeanEntryOver, 1e-9) // (2+8+17)/3
	assert.InDelta(t, 100.0, p.MeanStrikeRate, 1e-9)
	assert.Equal(t, 36, p.TotalRuns)
	assert.Equal(t, 1, p.PhaseMatches[model.PhasePowerplay])
	assert.Equal(t, 1, p.PhaseMatches[model.PhaseMiddle])
	assert.Equal(t, 1, p.PhaseMatches[model.PhaseDeath])

	// Last two seasons (2023, 2024) split from 2022.
	require.NotNil(t, p.Recent)
	require.NotNil(t, p.Historical)
	assert.Equal(t, 2, p.Recent.Matches)
	assert.Equal(t, []int{2024, 2023}, p.Recent.Years)
	assert.Equal(t, 1, p.Historical.Matches)
	assert.Equal(t, []int{2022}, p.Historical.Years)
}

func TestProfileUnknownPlayer(t *testing.T) {
	store, err := Build(innings("m1", 2023, 1, "dhoni", 6))
	require.NoError(t, err)

	_, err = store.Profile("nobody")
	var nf *model.PlayerNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nobody", nf.Player)
}
