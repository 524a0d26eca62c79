package query

import (
	"github.com/pable/go-cricket-metrics/internal/model"
)

// DefaultMaxProfiles bounds how many per-player profile actions one question
// can fan out to.
const DefaultMaxProfiles = 5

// heuristicPhase is the stated phase proxy for a bowling class: spinners
// bowl the bulk of the middle overs, pace dominates the powerplay. It is an
// approximation and every action built on it carries the Heuristic flag so
// the observation labels it.
func heuristicPhase(class model.BowlingClass) model.Phase {
	if class == model.BowlingSpin {
		return model.PhaseMiddle
	}
	return model.PhasePowerplay
}

// Plan maps an entity bundle to an ordered action sequence. It never returns
// an empty plan; a bundle with nothing in it degrades to one overall ranking
// lookup. Heuristic bowling-proxy actions and literal phase actions are kept
// separate even when they land on the same phase, so the labels survive to
// the observations.
func Plan(bundle model.EntityBundle, maxProfiles int) []model.PlannedAction {
	if maxProfiles <= 0 {
		maxProfiles = DefaultMaxProfiles
	}

	var actions []model.PlannedAction

	players := bundle.Players
	if len(players) > maxProfiles {
		players = players[:maxProfiles]
	}
	for _, p := range players {
		actions = append(actions, model.PlannedAction{
			Kind:   model.ActionPlayerProfile,
			Player: p,
		})
	}
	if len(players) >= 2 && bundle.Intent == model.IntentComparison {
		actions = append(actions, model.PlannedAction{
			Kind:    model.ActionCompareProfiles,
			Players: players,
		})
	}

	for _, class := range bundle.BowlingTypes {
		actions = append(actions, model.PlannedAction{
			Kind:         model.ActionTopPerformers,
			Phase:        heuristicPhase(class),
			Heuristic:    true,
			BowlingProxy: class,
		})
	}

	for _, phase := range bundle.Phases {
		actions = append(actions, model.PlannedAction{
			Kind:  model.ActionTopPerformers,
			Phase: phase,
		})
	}

	if len(actions) == 0 {
		actions = append(actions, model.PlannedAction{
			Kind:  model.ActionTopPerformers,
			Phase: model.PhaseUnknown,
		})
	}
	return actions
}
