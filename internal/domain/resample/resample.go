// Package resample aggregates raw observations onto a regular period grid.
package resample

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rankpulse/rankpulse/internal/domain/series"
)

// Granularity selects the period grid.
type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

// ParseGranularity validates a user-supplied granularity string.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case Daily, Weekly, Monthly:
		return Granularity(s), nil
	}
	return "", fmt.Errorf("unknown granularity %q (want daily, weekly or monthly)", s)
}

// GapPolicy controls how missing periods inside the observed range are
// treated: Skip leaves the gap out of the grid entirely (the next present
// period becomes adjacent to the last one), Zero synthesizes zero-count
// periods so rate math sees true calendar adjacency.
type GapPolicy string

const (
	GapSkip GapPolicy = "skip"
	GapZero GapPolicy = "zero"
)

// ParseGapPolicy validates a user-supplied gap policy string.
func ParseGapPolicy(s string) (GapPolicy, error) {
	switch GapPolicy(s) {
	case GapSkip, GapZero:
		return GapPolicy(s), nil
	}
	return "", fmt.Errorf("unknown gap policy %q (want skip or zero)", s)
}

// ErrNoData is returned when no observation survives the date-range filter.
var ErrNoData = errors.New("no observations in selected date range")

// BucketStart truncates a date to the start of its period: the day itself,
// the Monday of its week, or the first of its month. All in UTC.
func (g Granularity) BucketStart(t time.Time) time.Time {
	t = t.UTC()
	switch g {
	case Weekly:
		day := t.Truncate(24 * time.Hour)
		offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
		return day.AddDate(0, 0, -offset)
	case Monthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return t.Truncate(24 * time.Hour)
	}
}

// next returns the start of the period following bucket.
func (g Granularity) next(bucket time.Time) time.Time {
	switch g {
	case Weekly:
		return bucket.AddDate(0, 0, 7)
	case Monthly:
		return bucket.AddDate(0, 1, 0)
	default:
		return bucket.AddDate(0, 0, 1)
	}
}

// Resample filters observations to [from, to] (either bound may be zero to
// leave that side open), groups them by period, and sums page and traffic
// counts within each bucket. The result has exactly one record per
// non-empty period, sorted ascending by period start. With GapZero,
// zero-count records are synthesized for empty periods between the first
// and last observed buckets.
func Resample(obs []series.Observation, g Granularity, from, to time.Time, policy GapPolicy) ([]series.Record, error) {
	buckets := make(map[time.Time]*series.Record)
	for _, o := range obs {
		d := o.Date.UTC()
		if !from.IsZero() && d.Before(from.UTC()) {
			continue
		}
		if !to.IsZero() && d.After(to.UTC()) {
			continue
		}
		start := g.BucketStart(d)
		rec, ok := buckets[start]
		if !ok {
			rec = &series.Record{PeriodStart: start}
			buckets[start] = rec
		}
		rec.PageCount += o.Pages
		rec.TrafficCount += o.Traffic
	}
	if len(buckets) == 0 {
		return nil, ErrNoData
	}

	out := make([]series.Record, 0, len(buckets))
	for _, rec := range buckets {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PeriodStart.Before(out[j].PeriodStart)
	})

	if policy == GapZero {
		out = zeroFill(out, g)
	}
	return out, nil
}

// zeroFill inserts zero-count records for grid periods missing between the
// first and last observed buckets. It never extends the range outward.
func zeroFill(recs []series.Record, g Granularity) []series.Record {
	filled := make([]series.Record, 0, len(recs))
	for i, rec := range recs {
		if i > 0 {
			for cur := g.next(recs[i-1].PeriodStart); cur.Before(rec.PeriodStart); cur = g.next(cur) {
				filled = append(filled, series.Record{PeriodStart: cur})
			}
		}
		filled = append(filled, rec)
	}
	return filled
}
