// Package server exposes the question pipeline over HTTP for dashboards:
// POST /ask answers one question, /healthz reports liveness, /metrics serves
// prometheus counters. Each request runs the full pipeline against the
// cached store snapshot.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pable/go-cricket-metrics/internal/agent"
	"github.com/pable/go-cricket-metrics/internal/config"
	"github.com/pable/go-cricket-metrics/internal/model"
	"github.com/pable/go-cricket-metrics/internal/query"
)

// Server wires the HTTP routes.
type Server struct {
	cache *StoreCache
	agent *agent.Agent
	cfg   *config.Config
	log   *slog.Logger
}

func New(cache *StoreCache, ag *agent.Agent, cfg *config.Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{cache: cache, agent: ag, cfg: cfg, log: log}
}

// Handler builds the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ask", s.handleAsk)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

type askRequest struct {
	Question string `json:"question"`
}

func (r askRequest) validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return errors.New("missing question")
	}
	return nil
}

type askResponse struct {
	Answer       string            `json:"answer"`
	Verdict      string            `json:"verdict"`
	Grounded     bool              `json:"grounded"`
	Observations []observationJSON `json:"observations"`
}

type observationJSON struct {
	Header string `json:"header"`
	Text   string `json:"text"`
	Empty  bool   `json:"empty,omitempty"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	queriesTotal.Inc()

	store, extractor, err := s.cache.Get()
	if err != nil {
		if errors.Is(err, model.ErrEmptyDataset) {
			writeError(w, http.StatusConflict, "no data ingested yet")
			return
		}
		s.log.Error("store unavailable", "err", err)
		writeError(w, http.StatusInternalServerError, "store unavailable")
		return
	}

	bundle := extractor.Extract(req.Question)
	actions := query.Plan(bundle, s.cfg.MaxProfileActions)
	executor := query.NewExecutor(store, s.cfg.MinMatches, s.cfg.TopN)
	obs := executor.Observe(bundle, actions)

	resp := s.agent.Respond(r.Context(), req.Question, bundle, obs)
	responsesTotal.WithLabelValues(resp.Verdict.String()).Inc()

	out := askResponse{
		Answer:   resp.AnswerText,
		Verdict:  resp.Verdict.String(),
		Grounded: resp.Grounded,
	}
	for _, o := range resp.Observations {
		out.Observations = append(out.Observations, observationJSON{
			Header: o.Header,
			Text:   o.Text,
			Empty:  o.Empty,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
