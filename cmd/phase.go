package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-metrics/internal/model"
	"github.com/pable/go-cricket-metrics/internal/report"
)

var (
	phaseMin int
	phaseTop int
)

var phaseCmd = &cobra.Command{
	Use:   "phase <powerplay|middle|death|overall>",
	Short: "Rank players by strike rate for an entry phase",
	Args:  cobra.ExactArgs(1),
	RunE:  runPhase,
}

func init() {
	phaseCmd.Flags().IntVar(&phaseMin, "min", 0, "minimum qualifying matches (default from config)")
	phaseCmd.Flags().IntVar(&phaseTop, "top", 0, "ranking length (default from config)")
}

func runPhase(cmd *cobra.Command, args []string) error {
	phase, err := parsePhase(args[0])
	if err != nil {
		return err
	}

	store, closeDB, err := loadStore()
	if err != nil {
		return err
	}
	defer closeDB()

	minMatches := cfg.MinMatches
	if phaseMin > 0 {
		minMatches = phaseMin
	}
	topN := cfg.TopN
	if phaseTop > 0 {
		topN = phaseTop
	}

	standings := store.TopPerformers(phase, minMatches, topN)
	report.PrintStandings(os.Stdout, phase, standings, minMatches)
	return nil
}

func parsePhase(s string) (model.Phase, error) {
	switch strings.ToLower(s) {
	case "powerplay", "pp":
		return model.PhasePowerplay, nil
	case "middle":
		return model.PhaseMiddle, nil
	case "death":
		return model.PhaseDeath, nil
	case "overall", "all":
		return model.PhaseUnknown, nil
	}
	return model.PhaseUnknown, fmt.Errorf("unknown phase %q: use powerplay, middle, death, or overall", s)
}
