package model

// Intent is the coarse purpose of a question.
type Intent int

const (
	IntentGeneral Intent = iota
	IntentDeployment
	IntentComparison
)

func (i Intent) String() string {
	switch i {
	case IntentDeployment:
		return "deployment"
	case IntentComparison:
		return "comparison"
	default:
		return "general"
	}
}

// EntityBundle is everything the extractor pulled out of a question.
type EntityBundle struct {
	Players      []string // canonical player keys, ambiguity preserved
	BowlingTypes []BowlingClass
	Phases       []Phase
	Intent       Intent

	// OutOfBounds names concepts the question asks about that the dataset
	// does not carry (venue, weather, toss, ...). Non-empty means the answer
	// must acknowledge the limitation instead of planning around it.
	OutOfBounds []string
}

// ActionKind identifies a planned data-retrieval action.
type ActionKind int

const (
	ActionTopPerformers ActionKind = iota
	ActionPlayerProfile
	ActionCompareProfiles
)

func (k ActionKind) String() string {
	switch k {
	case ActionTopPerformers:
		return "top_performers"
	case ActionPlayerProfile:
		return "player_profile"
	case ActionCompareProfiles:
		return "compare_profiles"
	}
	return "unknown"
}

// PlannedAction is one typed data-retrieval request emitted by the planner.
type PlannedAction struct {
	Kind    ActionKind
	Phase   Phase    // ActionTopPerformers; PhaseUnknown means overall
	Player  string   // ActionPlayerProfile
	Players []string // ActionCompareProfiles

	// Heuristic marks a phase lookup standing in for a bowling-type the store
	// cannot filter rankings by (e.g. spin queried via the Middle phase). The
	// observation must label it so the answer cannot present it as exact
	// bowling-matchup data.
	Heuristic    bool
	BowlingProxy BowlingClass // set when Heuristic
}

// Observation pairs the rendered text of one action's result with the exact
// numeric tokens that text contains, for grounding validation.
type Observation struct {
	Header  string
	Text    string
	Numbers []string // formatted numeric tokens appearing verbatim in Text
	Empty   bool     // true when the action found no qualifying data
}

// Verdict records how the final answer was produced.
type Verdict int

const (
	VerdictValidated Verdict = iota // LLM draft passed the grounding check
	VerdictFallback                 // templated answer built from observations
)

func (v Verdict) String() string {
	if v == VerdictFallback {
		return "fallback"
	}
	return "validated"
}

// Response is the final answer handed back to the caller.
type Response struct {
	AnswerText   string
	Grounded     bool
	Verdict      Verdict
	Observations []Observation
}
