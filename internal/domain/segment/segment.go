// Package segment collapses the classified period series into maximal
// runs of one ranking state and renders the interval narrative.
package segment

import (
	"time"

	"github.com/rankpulse/rankpulse/internal/domain/series"
)

// Segment is a maximal run of consecutive periods sharing one ranking
// state. Start and End index into the period series (both inclusive).
// EndDate is the display convention for interval reports: one calendar
// day before the next segment's start date, or the last period's start
// for the final segment.
type Segment struct {
	State series.State `json:"state"`
	Start int          `json:"start"`
	End   int          `json:"end"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	// Metrics compare the segment's start boundary against the next
	// segment's start boundary (series end for the final segment).
	AvgTPPStart   series.Float `json:"avg_tpp_start"`
	AvgTPPEnd     series.Float `json:"avg_tpp_end"`
	PageChangePct series.Float `json:"page_change_pct"`
	TrafficChange series.Float `json:"traffic_change_pct"`

	// Valid marks segments with enough defined data to report: both
	// boundary traffic-per-page averages present and a nonzero starting
	// page count. Invalid segments stay in the timeline but are omitted
	// from the narrative.
	Valid bool `json:"valid"`
}

// Build partitions the classified series into segments. Boundary indices
// are collected in one pass (index 0 plus every state flip), then each
// pair of consecutive boundaries becomes one segment; the last boundary's
// segment extends to the end of the series. The segments cover every
// period exactly once.
func Build(recs []series.Record) []Segment {
	if len(recs) == 0 {
		return nil
	}

	boundaries := []int{0}
	for i := 1; i < len(recs); i++ {
		if recs[i].RankingState != recs[i-1].RankingState {
			boundaries = append(boundaries, i)
		}
	}

	segs := make([]Segment, 0, len(boundaries))
	for bi, b := range boundaries {
		last := bi == len(boundaries)-1

		// Reference index for end-of-segment metrics: the next
		// segment's start boundary, or the final period.
		ref := len(recs) - 1
		end := len(recs) - 1
		endDate := recs[len(recs)-1].PeriodStart
		if !last {
			ref = boundaries[bi+1]
			end = ref - 1
			endDate = recs[ref].PeriodStart.AddDate(0, 0, -1)
		}

		seg := Segment{
			State:         recs[b].RankingState,
			Start:         b,
			End:           end,
			StartDate:     recs[b].PeriodStart,
			EndDate:       endDate,
			AvgTPPStart:   recs[b].TrafficPerPageMA,
			AvgTPPEnd:     recs[ref].TrafficPerPageMA,
			TrafficChange: recs[ref].TrafficChangeRate,
			PageChangePct: series.NaN(),
		}
		if startPages := recs[b].PageCount; startPages != 0 {
			seg.PageChangePct = series.Of((recs[ref].PageCount - startPages) / startPages * 100)
		}
		seg.Valid = !seg.AvgTPPStart.IsNull() && !seg.AvgTPPEnd.IsNull() && !seg.PageChangePct.IsNull()
		segs = append(segs, seg)
	}
	return segs
}
