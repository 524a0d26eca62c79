package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-metrics/internal/query"
	"github.com/pable/go-cricket-metrics/internal/report"
)

var playerCmd = &cobra.Command{
	Use:   "player <name> [<name>...]",
	Short: "Show a cross-match profile for one or more players",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlayer,
}

func runPlayer(cmd *cobra.Command, args []string) error {
	store, closeDB, err := loadStore()
	if err != nil {
		return err
	}
	defer closeDB()

	extractor := query.NewExtractor(store.Players())
	for _, arg := range args {
		// Try the exact key first, then alias resolution.
		keys := []string{arg}
		if _, err := store.Profile(arg); err != nil {
			bundle := extractor.Extract(arg)
			if len(bundle.Players) == 0 {
				fmt.Fprintf(os.Stderr, "no player matching %q\n", arg)
				continue
			}
			keys = bundle.Players
			if len(keys) > 1 {
				fmt.Fprintf(os.Stdout, "%q matches %d players: %s\n",
					arg, len(keys), strings.Join(keys, ", "))
			}
		}
		for _, key := range keys {
			p, err := store.Profile(key)
			if err != nil {
				fmt.Fprintf(os.Stderr, "profile %s: %v\n", key, err)
				continue
			}
			report.PrintProfile(os.Stdout, p)
		}
	}
	return nil
}
