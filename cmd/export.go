package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-metrics/internal/metrics"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the derived tables to CSV files",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", ".", "output directory")
}

func runExport(cmd *cobra.Command, args []string) error {
	store, closeDB, err := loadStore()
	if err != nil {
		return err
	}
	defer closeDB()

	if err := os.MkdirAll(exportOut, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	files := []struct {
		name  string
		write func(*csv.Writer, *metrics.Store) error
	}{
		{"entry_points.csv", writeEntryPoints},
		{"chase_impacts.csv", writeChaseImpacts},
		{"bowling_matchups.csv", writeMatchups},
		{"recency.csv", writeRecency},
	}
	for _, f := range files {
		if err := exportFile(filepath.Join(exportOut, f.name), store, f.write); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "wrote %s\n", filepath.Join(exportOut, f.name))
	}
	return nil
}

func exportFile(path string, store *metrics.Store, write func(*csv.Writer, *metrics.Store) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := write(w, store); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}

func writeEntryPoints(w *csv.Writer, store *metrics.Store) error {
	if err := w.Write([]string{
		"player", "team", "match_id", "year", "entry_over", "exit_over", "phase",
		"balls_faced", "runs", "strike_rate", "dot_pct", "boundary_pct",
		"chasing", "entry_rrr",
	}); err != nil {
		return err
	}
	for _, e := range store.Entries() {
		rec := []string{
			e.Player, e.Team, e.MatchID, strconv.Itoa(e.Year),
			strconv.Itoa(e.EntryOver), strconv.Itoa(e.ExitOver), e.Phase.String(),
			strconv.Itoa(e.BallsFaced), strconv.Itoa(e.Runs),
			fmtFloat(e.StrikeRate()), fmtFloat(e.DotPct()), fmtFloat(e.BoundaryPct()),
			strconv.FormatBool(e.HasChaseContext), fmtFloat(e.EntryRequired),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func writeChaseImpacts(w *csv.Writer, store *metrics.Store) error {
	if err := w.Write([]string{
		"player", "match_id", "entry_rrr", "player_run_rate",
		"personal_impact", "required_runs", "contribution_pct", "impact_runs",
	}); err != nil {
		return err
	}
	for _, im := range store.Impacts() {
		rec := []string{
			im.Player, im.MatchID, fmtFloat(im.EntryRequired), fmtFloat(im.PlayerRunRate),
			fmtFloat(im.PersonalImpact), fmtFloat(im.RequiredRuns),
			fmtFloat(im.ContributionPct), fmtFloat(im.ImpactRuns),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func writeMatchups(w *csv.Writer, store *metrics.Store) error {
	if err := w.Write([]string{"player", "class", "balls", "runs", "dismissals", "strike_rate"}); err != nil {
		return err
	}
	for _, m := range store.Matchups() {
		rec := []string{
			m.Player, m.Class.String(), strconv.Itoa(m.Balls),
			strconv.Itoa(m.Runs), strconv.Itoa(m.Dismissals), fmtFloat(m.StrikeRate()),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func writeRecency(w *csv.Writer, store *metrics.Store) error {
	if err := w.Write([]string{"player", "most_recent_year", "years_since_last", "status", "score"}); err != nil {
		return err
	}
	for _, r := range store.RecencyRecords() {
		rec := []string{
			r.Player, strconv.Itoa(r.MostRecentYear), strconv.Itoa(r.YearsSinceLast),
			r.Status.String(), fmtFloat(r.Status.Score()),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
