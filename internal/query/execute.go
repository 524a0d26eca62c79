package query

import (
	"errors"

	"github.com/pable/go-cricket-metrics/internal/metrics"
	"github.com/pable/go-cricket-metrics/internal/model"
)

// Executor runs planned actions against one store snapshot.
type Executor struct {
	store      *metrics.Store
	minMatches int
	topN       int
}

func NewExecutor(store *metrics.Store, minMatches, topN int) *Executor {
	if minMatches <= 0 {
		minMatches = 3
	}
	if topN <= 0 {
		topN = 10
	}
	return &Executor{store: store, minMatches: minMatches, topN: topN}
}

// Execute runs one action and renders its observation. A player key matching
// zero records is reported as an empty observation, not an error; the planner
// should not emit such actions but the executor still guards the path.
func (x *Executor) Execute(a model.PlannedAction) model.Observation {
	switch a.Kind {
	case model.ActionTopPerformers:
		standings := x.store.TopPerformers(a.Phase, x.minMatches, x.topN)
		return formatTopPerformers(a, standings, x.minMatches)

	case model.ActionPlayerProfile:
		p, err := x.store.Profile(a.Player)
		if err != nil {
			var nf *model.PlayerNotFoundError
			if errors.As(err, &nf) {
				return formatMissingPlayer(nf.Player)
			}
			return formatMissingPlayer(a.Player)
		}
		return formatProfile(p)

	case model.ActionCompareProfiles:
		if len(a.Players) == 0 {
			return model.Observation{Header: "PLAYER COMPARISON", Empty: true}
		}
		var profiles []*model.PlayerProfile
		var missing []string
		for _, key := range a.Players {
			p, err := x.store.Profile(key)
			if err != nil {
				missing = append(missing, key)
				continue
			}
			profiles = append(profiles, p)
		}
		if len(profiles) < 2 {
			player := a.Players[0]
			if len(missing) > 0 {
				player = missing[0]
			}
			return formatMissingPlayer(player)
		}
		return formatComparison(profiles)
	}
	return model.Observation{Header: "UNKNOWN ACTION", Empty: true}
}

// Observe plans nothing itself; it runs an already-planned sequence in order
// and prepends a capability note when the question touched concepts outside
// the dataset.
func (x *Executor) Observe(bundle model.EntityBundle, actions []model.PlannedAction) []model.Observation {
	var obs []model.Observation
	if len(bundle.OutOfBounds) > 0 {
		obs = append(obs, LimitationNote(bundle.OutOfBounds))
	}
	for _, a := range actions {
		obs = append(obs, x.Execute(a))
	}
	return obs
}
