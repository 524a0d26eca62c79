// Package ingest reads ball-by-ball event logs into typed BallEvents.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/pable/go-cricket-metrics/internal/model"
)

// Result is the outcome of loading one event log.
type Result struct {
	Events  []model.BallEvent
	Dropped int // malformed rows skipped (missing over/player)
}

// columns required in the source header. Optional columns (team, target,
// required_run_rate) degrade gracefully when absent.
var requiredColumns = []string{
	"match_id", "date", "over", "ball", "batsman", "bowling_style",
	"runs", "wicket", "innings",
}

// LoadFile reads the CSV event log at path.
func LoadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a CSV ball-by-ball log. The header is validated up front: absent
// required columns fail with MalformedInputError before any row is read.
// Individual rows missing an over or batsman are dropped and counted, not
// fatal. Zero surviving rows is ErrEmptyDataset.
func Load(r io.Reader) (*Result, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, model.ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &model.MalformedInputError{Missing: missing}
	}

	res := &Result{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// ragged row; count and continue
			res.Dropped++
			continue
		}

		ev, ok := parseRow(row, idx)
		if !ok {
			res.Dropped++
			continue
		}
		res.Events = append(res.Events, ev)
	}

	if res.Dropped > 0 {
		slog.Warn("dropped malformed rows", "count", res.Dropped)
	}
	if len(res.Events) == 0 {
		return nil, model.ErrEmptyDataset
	}
	return res, nil
}

// parseRow converts one CSV record. Returns ok=false for rows without a
// parseable over number or a batsman name.
func parseRow(row []string, idx map[string]int) (model.BallEvent, bool) {
	field := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	batsman := field("batsman")
	over, overErr := strconv.Atoi(field("over"))
	if batsman == "" || overErr != nil || over < 1 || over > 20 {
		return model.BallEvent{}, false
	}

	ball, _ := strconv.Atoi(field("ball"))
	runs, _ := strconv.Atoi(field("runs"))
	innings, _ := strconv.Atoi(field("innings"))

	ev := model.BallEvent{
		MatchID:      field("match_id"),
		Year:         yearOf(field("date")),
		Over:         over,
		BallInOver:   ball,
		Batsman:      batsman,
		Team:         field("team"),
		BowlingStyle: field("bowling_style"),
		Runs:         runs,
		IsWicket:     parseBool(field("wicket")),
		IsDot:        runs == 0,
		IsBoundary:   runs == 4 || runs == 6,
		Innings:      innings,
	}
	if ev.MatchID == "" {
		return model.BallEvent{}, false
	}

	if rrr := field("required_run_rate"); rrr != "" {
		if v, err := strconv.ParseFloat(rrr, 64); err == nil && v > 0 {
			ev.HasChaseContext = true
			ev.RequiredRunRate = v
		}
	}
	if tgt := field("target"); tgt != "" {
		if v, err := strconv.Atoi(tgt); err == nil {
			ev.ChaseTarget = v
		}
	}
	return ev, true
}

// yearOf extracts the season year from a date field that may be a bare year
// ("2024") or an ISO date ("2024-05-12").
func yearOf(date string) int {
	if len(date) >= 4 {
		if y, err := strconv.Atoi(date[:4]); err == nil {
			return y
		}
	}
	return 0
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y", "w":
		return true
	}
	return false
}
