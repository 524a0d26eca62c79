package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-cricket-metrics/internal/agent"
	"github.com/pable/go-cricket-metrics/internal/config"
	"github.com/pable/go-cricket-metrics/internal/metrics"
	"github.com/pable/go-cricket-metrics/internal/model"
	"github.com/pable/go-cricket-metrics/internal/storage"
)

func testServer(t *testing.T, ingest bool) *Server {
	t.Helper()

	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	if ingest {
		var events []model.BallEvent
		for _, m := range []string{"m1", "m2", "m3"} {
			for b := 1; b <= 6; b++ {
				events = append(events, model.BallEvent{
					MatchID: m, Year: 2023, Over: 17, BallInOver: b,
					Batsman: "dhoni", Team: "CSK", Runs: 2, Innings: 1,
				})
			}
		}
		store, err := metrics.Build(events)
		require.NoError(t, err)
		require.NoError(t, db.SaveStore(store))
	}

	cfg := config.New()
	cache := NewStoreCache(db, time.Minute, nil)
	// nil client: every answer comes from the local template path.
	ag := agent.New(nil, time.Second, nil)
	return New(cache, ag, cfg, nil)
}

func postAsk(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAskAnswersFromData(t *testing.T) {
	h := testServer(t, true).Handler()

	rec := postAsk(t, h, `{"question":"who are the best death overs finishers"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp askResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "fallback", resp.Verdict)
	assert.False(t, resp.Grounded)
	assert.Contains(t, resp.Answer, "dhoni")
	require.NotEmpty(t, resp.Observations)
	assert.Contains(t, resp.Observations[0].Header, "DEATH")
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	h := testServer(t, true).Handler()

	rec := postAsk(t, h, `{"question":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postAsk(t, h, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAskMethodNotAllowed(t *testing.T) {
	h := testServer(t, true).Handler()

	req := httptest.NewRequest(http.MethodGet, "/ask", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAskWithoutIngest(t *testing.T) {
	h := testServer(t, false).Handler()

	rec := postAsk(t, h, `{"question":"who bats best"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHealthz(t *testing.T) {
	h := testServer(t, true).Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestStoreCacheServesSameSnapshotWithinTTL(t *testing.T) {
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	events := []model.BallEvent{
		{MatchID: "m1", Year: 2023, Over: 5, BallInOver: 1, Batsman: "rohit", Runs: 4, Innings: 1},
	}
	store, err := metrics.Build(events)
	require.NoError(t, err)
	require.NoError(t, db.SaveStore(store))

	cache := NewStoreCache(db, time.Hour, nil)
	a, aEx, err := cache.Get()
	require.NoError(t, err)
	b, bEx, err := cache.Get()
	require.NoError(t, err)
	assert.Same(t, a, b)
	// The alias index is built once per snapshot, not once per request.
	assert.Same(t, aEx, bEx)

	cache.Invalidate()
	c, cEx, err := cache.Get()
	require.NoError(t, err)
	assert.NotSame(t, a, c)
	assert.NotSame(t, aEx, cEx)
	assert.Equal(t, a.Players(), c.Players())

	bundle := cEx.Extract("how does rohit start in the powerplay")
	assert.Equal(t, []string{"rohit"}, bundle.Players)
}
