package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-metrics/internal/report"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all players in the dataset",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	store, closeDB, err := loadStore()
	if err != nil {
		return err
	}
	defer closeDB()

	report.PrintPlayers(os.Stdout, store)
	return nil
}
