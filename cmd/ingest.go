package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-metrics/internal/ingest"
	"github.com/pable/go-cricket-metrics/internal/metrics"
)

var ingestTeam string

var ingestCmd = &cobra.Command{
	Use:   "ingest <events.csv>",
	Short: "Ingest a ball-by-ball CSV and store the derived metrics",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestTeam, "team", "", "only keep deliveries faced by this team")
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(os.Stdout, "Ingesting %s...\n", path)
	result, err := ingest.LoadFile(path)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	events := result.Events
	if ingestTeam != "" {
		kept := events[:0]
		for _, e := range events {
			if e.Team == ingestTeam {
				kept = append(kept, e)
			}
		}
		events = kept
		if len(events) == 0 {
			return fmt.Errorf("no deliveries for team %q", ingestTeam)
		}
	}

	store, err := metrics.Build(events)
	if err != nil {
		return fmt.Errorf("build metrics: %w", err)
	}
	if err := db.SaveStore(store); err != nil {
		return fmt.Errorf("persist metrics: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Stored %d entry records for %d players (%d rows dropped). Latest season: %d.\n",
		len(store.Entries()), len(store.Players()), result.Dropped, store.MaxYear())
	return nil
}
