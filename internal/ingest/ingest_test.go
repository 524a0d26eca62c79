package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-cricket-metrics/internal/model"
)

const header = "match_id,date,over,ball,batsman,team,bowling_style,runs,wicket,innings,target,required_run_rate\n"

func TestLoadParsesRows(t *testing.T) {
	data := header +
		"m1,2023-04-12,5,3,MS Dhoni,CSK,Right-arm fast,4,0,1,,\n" +
		"m1,2023-04-12,18,1,MS Dhoni,CSK,Left-arm orthodox,0,1,2,186,11.25\n"

	res, err := Load(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, res.Events, 2)
	assert.Zero(t, res.Dropped)

	first := res.Events[0]
	assert.Equal(t, "m1", first.MatchID)
	assert.Equal(t, 2023, first.Year)
	assert.Equal(t, 5, first.Over)
	assert.Equal(t, 3, first.BallInOver)
	assert.Equal(t, "MS Dhoni", first.Batsman)
	assert.Equal(t, "CSK", first.Team)
	assert.Equal(t, 4, first.Runs)
	assert.True(t, first.IsBoundary)
	assert.False(t, first.IsDot)
	assert.False(t, first.IsWicket)
	assert.False(t, first.HasChaseContext)

	second := res.Events[1]
	assert.True(t, second.IsWicket)
	assert.True(t, second.IsDot)
	assert.True(t, second.HasChaseContext)
	assert.InDelta(t, 11.25, second.RequiredRunRate, 1e-9)
	assert.Equal(t, 186, second.ChaseTarget)
	assert.Equal(t, model.BowlingSpin, second.BowlingClassOf())
}

func TestLoadRejectsMissingColumns(t *testing.T) {
	data := "match_id,date,over,ball,batsman\nm1,2023,5,1,dhoni\n"

	_, err := Load(strings.NewReader(data))
	var malformed *model.MalformedInputError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Missing, "runs")
	assert.Contains(t, malformed.Missing, "innings")
}

func TestLoadDropsBadRows(t *testing.T) {
	data := header +
		"m1,2023,5,1,MS Dhoni,CSK,pace,1,0,1,,\n" +
		"m1,2023,,1,MS Dhoni,CSK,pace,1,0,1,,\n" + // no over
		"m1,2023,7,2,,CSK,pace,1,0,1,,\n" + // no batsman
		"m1,2023,23,2,MS Dhoni,CSK,pace,1,0,1,,\n" + // over out of range
		",2023,7,2,MS Dhoni,CSK,pace,1,0,1,,\n" // no match id

	res, err := Load(strings.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, res.Events, 1)
	assert.Equal(t, 4, res.Dropped)
}

func TestLoadEmpty(t *testing.T) {
	_, err := Load(strings.NewReader(""))
	assert.ErrorIs(t, err, model.ErrEmptyDataset)

	// Header only, no rows.
	_, err = Load(strings.NewReader(header))
	assert.ErrorIs(t, err, model.ErrEmptyDataset)

	// All rows malformed.
	_, err = Load(strings.NewReader(header + "m1,2023,,1,,CSK,pace,1,0,1,,\n"))
	assert.ErrorIs(t, err, model.ErrEmptyDataset)
}

func TestLoadBareYearDate(t *testing.T) {
	data := header + "m1,2021,9,4,Andre Russell,KKR,leg-break,6,0,1,,\n"

	res, err := Load(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 2021, res.Events[0].Year)
}
