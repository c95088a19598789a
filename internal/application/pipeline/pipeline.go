// Package pipeline wires the analysis stages into a single entrypoint:
// resample, rate derivation, smoothing, state classification, segment
// reporting and the per-state summary. Callers re-run the whole pipeline
// on the original observations whenever a parameter changes; no stage
// mutates state shared between runs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rankpulse/rankpulse/internal/domain/ranking"
	"github.com/rankpulse/rankpulse/internal/domain/rates"
	"github.com/rankpulse/rankpulse/internal/domain/resample"
	"github.com/rankpulse/rankpulse/internal/domain/segment"
	"github.com/rankpulse/rankpulse/internal/domain/series"
	"github.com/rankpulse/rankpulse/internal/domain/smooth"
)

// ErrEmptyRange is returned when the date-range filter selects nothing
// meaningful (from after to). This is a configuration error and aborts
// the run.
var ErrEmptyRange = errors.New("empty date range: from is after to")

// Params are the knobs a caller can turn between runs.
type Params struct {
	Granularity resample.Granularity `json:"granularity"`
	From        time.Time            `json:"from,omitempty"`
	To          time.Time            `json:"to,omitempty"`
	Window      int                  `json:"window"`
	GapPolicy   resample.GapPolicy   `json:"gap_policy"`
}

// Validate rejects parameter combinations no computation can serve.
func (p Params) Validate() error {
	if _, err := resample.ParseGranularity(string(p.Granularity)); err != nil {
		return err
	}
	if _, err := resample.ParseGapPolicy(string(p.GapPolicy)); err != nil {
		return err
	}
	if p.Window < 1 {
		return fmt.Errorf("moving average window must be at least 1, got %d", p.Window)
	}
	if !p.From.IsZero() && !p.To.IsZero() && p.From.After(p.To) {
		return ErrEmptyRange
	}
	return nil
}

// Result is the full output of one analysis run.
type Result struct {
	RunID       string            `json:"run_id"`
	Params      Params            `json:"params"`
	GeneratedAt time.Time         `json:"generated_at"`
	Records     []series.Record   `json:"records"`
	Segments    []segment.Segment `json:"segments"`
	Narrative   []string          `json:"narrative"`
	Summary     ranking.Summary   `json:"summary"`
}

// Run executes the full pipeline over the raw observations. The input
// slice is only read, never modified, so repeated runs with identical
// parameters produce identical results.
func Run(ctx context.Context, obs []series.Observation, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis parameters: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := time.Now()
	runID := uuid.New().String()[:8]

	recs, err := resample.Resample(obs, p.Granularity, p.From, p.To, p.GapPolicy)
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}

	rates.Compute(recs)
	if err := smooth.Apply(recs, p.Window); err != nil {
		return nil, fmt.Errorf("smooth: %w", err)
	}
	ranking.Classify(recs)

	segs := segment.Build(recs)
	narrative := segment.Narrative(segs)
	summary := ranking.Summarize(recs)

	if p.Window > len(recs) {
		log.Warn().
			Int("window", p.Window).
			Int("periods", len(recs)).
			Msg("Moving average window exceeds period count; smoothed series is empty")
	}

	log.Info().
		Str("run_id", runID).
		Str("granularity", string(p.Granularity)).
		Int("window", p.Window).
		Int("periods", len(recs)).
		Int("segments", len(segs)).
		Int("reported_segments", len(narrative)).
		Dur("duration", time.Since(started)).
		Msg("Analysis pipeline completed")

	return &Result{
		RunID:       runID,
		Params:      p,
		GeneratedAt: time.Now().UTC(),
		Records:     recs,
		Segments:    segs,
		Narrative:   narrative,
		Summary:     summary,
	}, nil
}
