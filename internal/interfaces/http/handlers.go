package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/rankpulse/rankpulse/internal/application/pipeline"
	"github.com/rankpulse/rankpulse/internal/domain/resample"
	"github.com/rankpulse/rankpulse/internal/infrastructure/ingest"
)

const requestDateLayout = "2006-01-02"

// analyzeRequest carries the column roles and pipeline parameters for one
// interactive run. Omitted fields fall back to the server's configured
// analysis defaults.
type analyzeRequest struct {
	DateColumn    string `json:"date_column"`
	PagesColumn   string `json:"pages_column"`
	TrafficColumn string `json:"traffic_column"`

	Granularity string `json:"granularity,omitempty"`
	From        string `json:"from,omitempty"`
	To          string `json:"to,omitempty"`
	Window      int    `json:"window,omitempty"`
	GapPolicy   string `json:"gap_policy,omitempty"`
}

// analyzeResponse is the full result of one run plus ingestion telemetry
// the UI needs for its controls (date bounds, dropped-row notice).
type analyzeResponse struct {
	SessionID   string           `json:"session_id"`
	DroppedRows int              `json:"dropped_rows"`
	MinDate     string           `json:"min_date,omitempty"`
	MaxDate     string           `json:"max_date,omitempty"`
	Result      *pipeline.Result `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// handleHealth reports liveness and session pressure.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  s.version,
		"sessions": s.store.Len(),
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}

// handleCreateSession accepts a multipart CSV upload and registers an
// in-memory session for it.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("missing file upload: %v", err))
		return
	}
	defer file.Close()

	table, err := ingest.Parse(file, s.delimiter)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("parse upload: %v", err))
		return
	}

	sess := s.store.Create(header.Filename, table)
	s.metrics.ActiveSessions.Set(float64(s.store.Len()))

	log.Info().
		Str("session_id", sess.ID).
		Str("filename", sess.Filename).
		Int("rows", sess.RowCount).
		Msg("Session created")

	writeJSON(w, http.StatusCreated, sess)
}

// handleGetSession returns session metadata (columns, row count).
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// handleDeleteSession drops a session and its dataset.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.store.Delete(mux.Vars(r)["id"])
	s.metrics.ActiveSessions.Set(float64(s.store.Len()))
	w.WriteHeader(http.StatusNoContent)
}

// handleAnalyze runs the pipeline over a session's dataset with the
// requested parameters.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode request: %v", err))
		return
	}

	resp, status, err := s.analyze(r.Context(), sess, req)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// analyze is the shared core of the REST and websocket analyze paths.
func (s *Server) analyze(ctx context.Context, sess *Session, req analyzeRequest) (*analyzeResponse, int, error) {
	params, err := s.resolveParams(req)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	if err := params.Validate(); err != nil {
		return nil, http.StatusBadRequest, err
	}

	ds, err := sess.Table().Extract(ingest.Options{
		DateColumn:    req.DateColumn,
		PagesColumn:   req.PagesColumn,
		TrafficColumn: req.TrafficColumn,
	})
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	s.metrics.RowsDropped.Add(float64(ds.Dropped))

	started := time.Now()
	result, err := pipeline.Run(ctx, ds.Observations, params)
	if err != nil {
		s.metrics.RunsTotal.WithLabelValues("error").Inc()
		if errors.Is(err, resample.ErrNoData) || errors.Is(err, pipeline.ErrEmptyRange) {
			return nil, http.StatusBadRequest, err
		}
		return nil, http.StatusInternalServerError, err
	}

	s.metrics.RunsTotal.WithLabelValues("success").Inc()
	s.metrics.RunDuration.Observe(time.Since(started).Seconds())
	s.metrics.SegmentsPerRun.Observe(float64(len(result.Segments)))

	resp := &analyzeResponse{
		SessionID:   sess.ID,
		DroppedRows: ds.Dropped,
		Result:      result,
	}
	if !ds.MinDate.IsZero() {
		resp.MinDate = ds.MinDate.Format(requestDateLayout)
		resp.MaxDate = ds.MaxDate.Format(requestDateLayout)
	}
	return resp, http.StatusOK, nil
}

// resolveParams merges request parameters over the configured defaults.
func (s *Server) resolveParams(req analyzeRequest) (pipeline.Params, error) {
	p := pipeline.Params{
		Granularity: resample.Granularity(s.defaults.Granularity),
		Window:      s.defaults.Window,
		GapPolicy:   resample.GapPolicy(s.defaults.GapPolicy),
	}

	if req.Granularity != "" {
		g, err := resample.ParseGranularity(req.Granularity)
		if err != nil {
			return p, err
		}
		p.Granularity = g
	}
	if req.GapPolicy != "" {
		gp, err := resample.ParseGapPolicy(req.GapPolicy)
		if err != nil {
			return p, err
		}
		p.GapPolicy = gp
	}
	if req.Window != 0 {
		p.Window = req.Window
	}
	if req.From != "" {
		from, err := time.Parse(requestDateLayout, req.From)
		if err != nil {
			return p, fmt.Errorf("invalid from date %q: %w", req.From, err)
		}
		p.From = from.UTC()
	}
	if req.To != "" {
		to, err := time.Parse(requestDateLayout, req.To)
		if err != nil {
			return p, fmt.Errorf("invalid to date %q: %w", req.To, err)
		}
		p.To = to.UTC()
	}
	return p, nil
}

// statusString renders a status code for the request counter.
func statusString(code int) string {
	return strconv.Itoa(code)
}
