package model

// Phase is a coarse segment of a T20 innings, derived from the over a player
// entered at.
type Phase int

const (
	PhaseUnknown Phase = iota
	PhasePowerplay
	PhaseMiddle
	PhaseDeath
)

func (p Phase) String() string {
	switch p {
	case PhasePowerplay:
		return "Powerplay"
	case PhaseMiddle:
		return "Middle"
	case PhaseDeath:
		return "Death"
	default:
		return "Overall"
	}
}

// PhaseForOver classifies an entry over into a Phase.
// Powerplay: overs 0-6, Middle: 7-15, Death: 16-20.
func PhaseForOver(over int) Phase {
	switch {
	case over <= 6:
		return PhasePowerplay
	case over <= 15:
		return PhaseMiddle
	default:
		return PhaseDeath
	}
}

// BowlingClass buckets raw bowling-style codes into the two classes the
// matchup table tracks.
type BowlingClass int

const (
	BowlingUnknown BowlingClass = iota
	BowlingPace
	BowlingSpin
)

func (b BowlingClass) String() string {
	switch b {
	case BowlingPace:
		return "Pace"
	case BowlingSpin:
		return "Spin"
	default:
		return "Other"
	}
}

// ---- Raw events emitted by the ingester ----

// BallEvent is one delivery from the ball-by-ball log. Immutable once loaded.
type BallEvent struct {
	MatchID      string
	Year         int
	Over         int // over number within the innings, 1-20
	BallInOver   int
	Batsman      string
	Team         string
	BowlingStyle string
	Runs         int
	IsWicket     bool
	IsDot        bool
	IsBoundary   bool
	Innings      int // 1 = setting, 2 = chasing

	// Chase context; present only on the chasing innings.
	HasChaseContext bool
	ChaseTarget     int
	RequiredRunRate float64
}

// BowlingClassOf maps the free-form bowling style code of a delivery to a
// BowlingClass. Styles that are neither recognisably pace nor spin fall to
// BowlingUnknown and are excluded from matchup aggregation.
func (e BallEvent) BowlingClassOf() BowlingClass {
	return ClassifyBowling(e.BowlingStyle)
}

// ---- Derived records owned by the metrics pipeline ----

// EntryRecord is the per-(player, match) derived record: when the player
// entered, when they left, and what they did in between. Exactly one record
// exists per (player, match) pair.
type EntryRecord struct {
	Player  string
	Team    string
	MatchID string
	Year    int

	EntryOver int // min over faced in the match
	ExitOver  int // max over faced in the match
	Phase     Phase

	BallsFaced int
	Runs       int
	Dots       int
	Boundaries int

	// Chase context captured at the entry ball, when the player batted in a
	// chasing innings with a defined required rate.
	HasChaseContext bool
	EntryRequired   float64 // required run rate at entry
	ChaseTarget     int
}

// StrikeRate returns runs/balls*100, or 0 when no ball was faced.
func (r *EntryRecord) StrikeRate() float64 {
	if r.BallsFaced == 0 {
		return 0
	}
	return float64(r.Runs) / float64(r.BallsFaced) * 100
}

// DotPct returns the percentage of deliveries faced that were dots.
func (r *EntryRecord) DotPct() float64 {
	if r.BallsFaced == 0 {
		return 0
	}
	return float64(r.Dots) / float64(r.BallsFaced) * 100
}

// BoundaryPct returns the percentage of deliveries faced that went for four or six.
func (r *EntryRecord) BoundaryPct() float64 {
	if r.BallsFaced == 0 {
		return 0
	}
	return float64(r.Boundaries) / float64(r.BallsFaced) * 100
}

// Duration returns the innings duration in overs, inclusive of entry and exit.
func (r *EntryRecord) Duration() int {
	return r.ExitOver - r.EntryOver + 1
}

// ChaseImpact holds the chase-contribution metrics for one EntryRecord.
// It exists only for chasing-innings records with a defined required rate,
// balls faced > 0 and requiredRuns > 0.
type ChaseImpact struct {
	Player  string
	MatchID string

	EntryRequired   float64 // RRR at the moment of entry
	PlayerRunRate   float64 // strike rate scaled to runs per over
	PersonalImpact  float64 // PlayerRunRate - EntryRequired
	RequiredRuns    float64 // EntryRequired * balls/6
	ContributionPct float64 // runs / RequiredRuns * 100
	ImpactRuns      float64 // runs - RequiredRuns
}

// MatchupRecord aggregates a player's career record against one bowling class.
type MatchupRecord struct {
	Player     string
	Class      BowlingClass
	Balls      int
	Runs       int
	Dismissals int
}

func (m *MatchupRecord) StrikeRate() float64 {
	if m.Balls == 0 {
		return 0
	}
	return float64(m.Runs) / float64(m.Balls) * 100
}

// RecencyStatus says how current a player's data is relative to the most
// recent season in the dataset.
type Recency int

const (
	RecencyActive     Recency = iota // played in the latest season
	RecencyRecent                    // one season ago
	RecencySemiRecent                // two seasons ago
	RecencyHistorical                // three or more seasons ago
)

func (r Recency) String() string {
	switch r {
	case RecencyActive:
		return "ACTIVE"
	case RecencyRecent:
		return "RECENT"
	case RecencySemiRecent:
		return "SEMI-RECENT"
	default:
		return "HISTORICAL"
	}
}

// Score returns the fixed relevance weight for the recency band.
func (r Recency) Score() float64 {
	switch r {
	case RecencyActive:
		return 1.0
	case RecencyRecent:
		return 0.8
	case RecencySemiRecent:
		return 0.6
	default:
		return 0.3
	}
}

// RecencyRecord is the per-player recency classification.
type RecencyRecord struct {
	Player         string
	MostRecentYear int
	YearsSinceLast int
	Status         Recency
}

// RecencyForGap classifies a seasons-since-last-appearance gap.
func RecencyForGap(years int) Recency {
	switch {
	case years <= 0:
		return RecencyActive
	case years == 1:
		return RecencyRecent
	case years == 2:
		return RecencySemiRecent
	default:
		return RecencyHistorical
	}
}

// ---- Aggregates served by store queries ----

// PhaseStanding is one row of a phase ranking: a player's mean performance
// across the matches they entered in that phase.
type PhaseStanding struct {
	Player         string
	MeanStrikeRate float64
	MeanRuns       float64
	MeanDotPct     float64
	MeanBndPct     float64
	Matches        int
}

// SpanStats summarises a slice of a player's entry records (used for the
// recent-vs-historical split in profiles).
type SpanStats struct {
	Years          []int
	Matches        int
	MeanStrikeRate float64
	MeanRuns       float64
}

// PlayerProfile is the cross-match aggregate for one player.
type PlayerProfile struct {
	Player  string
	Teams   []string
	Matches int

	MeanEntryOver  float64
	MeanStrikeRate float64
	BestStrikeRate float64
	MeanDotPct     float64
	MeanBndPct     float64
	TotalRuns      int
	MeanRuns       float64
	MeanDuration   float64

	PhaseMatches map[Phase]int

	Recency RecencyRecord

	// Chase impact means; valid only when ChaseMatches > 0.
	ChaseMatches        int
	MeanPersonalImpact  float64
	MeanContributionPct float64

	// Matchup rows for the player (Pace/Spin), if any deliveries classified.
	Matchups []MatchupRecord

	// Last-two-seasons vs earlier split; either may be empty.
	Recent     *SpanStats
	Historical *SpanStats
}
