// Package agent produces the final answer for a question: it prompts the
// hosted model with the formatted observations, validates that the draft is
// grounded in them, retries once with a stricter instruction, and otherwise
// synthesizes a deterministic local answer. The response's Grounded flag
// reports whether a draft passed validation; fallback answers carry false.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pable/go-cricket-metrics/internal/llm"
	"github.com/pable/go-cricket-metrics/internal/model"
	"github.com/pable/go-cricket-metrics/internal/query"
)

// State names one stage of the response pipeline, for logging.
type State int

const (
	StateDrafting State = iota
	StateValidating
	StateRetrying
	StateFallback
	StateDone
)

func (s State) String() string {
	switch s {
	case StateDrafting:
		return "drafting"
	case StateValidating:
		return "validating"
	case StateRetrying:
		return "retrying"
	case StateFallback:
		return "fallback"
	default:
		return "done"
	}
}

const systemPrompt = `You are a cricket strategy analyst. You are given structured batting data
derived from ball-by-ball logs and a tactical question from a team coach.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and actionable. Focus on selection and deployment decisions.
- Sections labeled HEURISTIC PROXY rank players by entry phase, not by true
  bowling matchup; say so when you use them.
- Respect recency: HISTORICAL data describes a player who has not appeared
  in recent seasons.

Metrics glossary:
- SR: strike rate, runs per 100 balls. T20 benchmark ~130.
- Entry over: first over a player faced a delivery in a match.
- Phase: Powerplay overs 1-6, Middle 7-15, Death 16-20, from the entry over.
- Dot%: share of deliveries scored nothing. Bnd%: share hit for four or six.
- Personal impact: player run rate minus the required rate at entry.
- Contribution %: share of the entry-point run requirement delivered.`

const retryInstruction = `Your previous answer was not grounded in the data. Answer again in at most
four sentences. Every claim MUST quote a number exactly as it appears in the
DATA ANALYSIS OBSERVATIONS section. Do not refuse: the observations contain
usable data.`

// Agent runs the drafting/validation loop. A nil client is valid and means
// every answer is synthesized locally.
type Agent struct {
	client  llm.Client
	timeout time.Duration
	log     *slog.Logger
}

func New(client llm.Client, timeout time.Duration, log *slog.Logger) *Agent {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Agent{client: client, timeout: timeout, log: log}
}

// Respond turns observations into the final answer. At most two generation
// calls are ever made for one question.
func (a *Agent) Respond(ctx context.Context, question string, bundle model.EntityBundle, obs []model.Observation) model.Response {
	numbers := query.AllNumbers(obs)

	// With no numeric observations a draft can never pass the grounding
	// check, so the model call would be wasted quota.
	if a.client == nil || len(numbers) == 0 {
		return a.fallback(obs)
	}

	prompt := buildPrompt(question, bundle, obs)

	draft, err := a.generate(ctx, systemPrompt, prompt)
	if err != nil {
		a.log.Warn("draft generation failed, falling back", "state", StateDrafting, "err", err)
		return a.fallback(obs)
	}

	if validate(draft, numbers) {
		a.log.Debug("draft validated", "state", StateDone, "attempts", 1)
		return respond(draft, model.VerdictValidated, obs)
	}

	a.log.Debug("draft failed grounding check", "state", StateRetrying)
	draft, err = a.generate(ctx, systemPrompt, prompt+"\n\n"+retryInstruction)
	if err != nil {
		a.log.Warn("retry generation failed, falling back", "state", StateRetrying, "err", err)
		return a.fallback(obs)
	}
	if validate(draft, numbers) {
		a.log.Debug("retry validated", "state", StateDone, "attempts", 2)
		return respond(draft, model.VerdictValidated, obs)
	}

	a.log.Warn("retry failed grounding check, falling back", "state", StateFallback)
	return a.fallback(obs)
}

func (a *Agent) generate(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return a.client.Generate(ctx, system, user)
}

func respond(text string, verdict model.Verdict, obs []model.Observation) model.Response {
	return model.Response{
		AnswerText:   text,
		Grounded:     verdict == model.VerdictValidated,
		Verdict:      verdict,
		Observations: obs,
	}
}

// fallback builds the templated local answer from the observation text. The
// response reports Grounded false: the numbers are real, but no draft passed
// the grounding check.
func (a *Agent) fallback(obs []model.Observation) model.Response {
	var b strings.Builder
	b.WriteString("Based on the data analysis:\n\n")
	b.WriteString(query.ObservationText(obs))
	return respond(b.String(), model.VerdictFallback, obs)
}

func buildPrompt(question string, bundle model.EntityBundle, obs []model.Observation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "QUESTION: %s\n\n", question)
	fmt.Fprintf(&b, "EXTRACTED ENTITIES: players=%v bowling=%v phases=%v intent=%s\n\n",
		bundle.Players, classNames(bundle.BowlingTypes), phaseNames(bundle.Phases), bundle.Intent)
	b.WriteString("DATA ANALYSIS OBSERVATIONS:\n")
	b.WriteString(query.ObservationText(obs))
	return b.String()
}

func classNames(classes []model.BowlingClass) []string {
	out := make([]string, len(classes))
	for i, c := range classes {
		out[i] = c.String()
	}
	return out
}

func phaseNames(phases []model.Phase) []string {
	out := make([]string, len(phases))
	for i, p := range phases {
		out[i] = p.String()
	}
	return out
}
