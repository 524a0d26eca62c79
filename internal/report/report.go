// Package report renders the derived tables for the CLI.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-cricket-metrics/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintStandings prints a phase ranking table.
func PrintStandings(w io.Writer, phase model.Phase, standings []model.PhaseStanding, minMatches int) {
	if len(standings) == 0 {
		fmt.Fprintf(w, "No player reached %d qualifying matches for the %s phase.\n",
			minMatches, strings.ToLower(phase.String()))
		return
	}
	fmt.Fprintf(w, "\nTop performers: %s (min %d matches)\n\n", phase, minMatches)

	table := newTable(w)
	table.Header("#", "PLAYER", "AVG SR", "AVG RUNS", "DOT%", "BND%", "MATCHES")
	for i, s := range standings {
		table.Append(
			strconv.Itoa(i+1),
			s.Player,
			fmt.Sprintf("%.1f", s.MeanStrikeRate),
			fmt.Sprintf("%.1f", s.MeanRuns),
			fmt.Sprintf("%.1f%%", s.MeanDotPct),
			fmt.Sprintf("%.1f%%", s.MeanBndPct),
			strconv.Itoa(s.Matches),
		)
	}
	table.Render()
}

// PrintProfile prints one player's full profile.
func PrintProfile(w io.Writer, p *model.PlayerProfile) {
	fmt.Fprintf(w, "\n%s", p.Player)
	if len(p.Teams) > 0 {
		fmt.Fprintf(w, "  |  Teams: %s", strings.Join(p.Teams, ", "))
	}
	fmt.Fprintf(w, "  |  Recency: %s (last season %d)\n\n", p.Recency.Status, p.Recency.MostRecentYear)

	table := newTable(w)
	table.Header("MATCHES", "AVG ENTRY", "AVG SR", "BEST SR", "AVG RUNS", "TOTAL RUNS", "DOT%", "BND%", "AVG DUR")
	table.Append(
		strconv.Itoa(p.Matches),
		fmt.Sprintf("%.1f", p.MeanEntryOver),
		fmt.Sprintf("%.1f", p.MeanStrikeRate),
		fmt.Sprintf("%.1f", p.BestStrikeRate),
		fmt.Sprintf("%.1f", p.MeanRuns),
		strconv.Itoa(p.TotalRuns),
		fmt.Sprintf("%.1f%%", p.MeanDotPct),
		fmt.Sprintf("%.1f%%", p.MeanBndPct),
		fmt.Sprintf("%.1f", p.MeanDuration),
	)
	table.Render()

	fmt.Fprintf(w, "\nEntries by phase: Powerplay %d  |  Middle %d  |  Death %d\n",
		p.PhaseMatches[model.PhasePowerplay],
		p.PhaseMatches[model.PhaseMiddle],
		p.PhaseMatches[model.PhaseDeath])

	if p.ChaseMatches > 0 {
		fmt.Fprintf(w, "Chases: %d  |  Avg personal impact: %+.1f rpo  |  Avg contribution: %.1f%%\n",
			p.ChaseMatches, p.MeanPersonalImpact, p.MeanContributionPct)
	}

	if len(p.Matchups) > 0 {
		fmt.Fprintln(w)
		table = newTable(w)
		table.Header("VS", "BALLS", "RUNS", "SR", "OUTS")
		for _, m := range p.Matchups {
			table.Append(
				m.Class.String(),
				strconv.Itoa(m.Balls),
				strconv.Itoa(m.Runs),
				fmt.Sprintf("%.1f", m.StrikeRate()),
				strconv.Itoa(m.Dismissals),
			)
		}
		table.Render()
	}

	printSpan(w, "Recent", p.Recent)
	printSpan(w, "Historical", p.Historical)
}

func printSpan(w io.Writer, label string, s *model.SpanStats) {
	if s == nil {
		return
	}
	years := make([]string, len(s.Years))
	for i, y := range s.Years {
		years[i] = strconv.Itoa(y)
	}
	fmt.Fprintf(w, "%s (%s): %d matches, avg SR %.1f, avg runs %.1f\n",
		label, strings.Join(years, ", "), s.Matches, s.MeanStrikeRate, s.MeanRuns)
}

// PrintPlayers prints the roster with match counts and recency.
func PrintPlayers(w io.Writer, store interface {
	Players() []string
	Profile(string) (*model.PlayerProfile, error)
}) {
	table := newTable(w)
	table.Header("PLAYER", "MATCHES", "AVG SR", "RECENCY")
	for _, name := range store.Players() {
		p, err := store.Profile(name)
		if err != nil {
			continue
		}
		table.Append(
			p.Player,
			strconv.Itoa(p.Matches),
			fmt.Sprintf("%.1f", p.MeanStrikeRate),
			p.Recency.Status.String(),
		)
	}
	table.Render()
}

// PrintResponse prints a pipeline answer plus its grounding verdict.
func PrintResponse(w io.Writer, resp model.Response) {
	fmt.Fprintln(w, "\n─── Analysis ────────────────────────────────────────")
	fmt.Fprintln(w, resp.AnswerText)
	fmt.Fprintln(w, "─────────────────────────────────────────────────────")
	fmt.Fprintf(w, "verdict: %s\n", resp.Verdict)
}
