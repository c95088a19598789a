// Package ranking classifies periods into Positive or Negative ranking
// states from the trend of smoothed traffic per page, and computes the
// per-state page-growth summary.
package ranking

import (
	"github.com/rankpulse/rankpulse/internal/domain/series"
)

// Classify labels every record in place. For period i the delta of
// smoothed traffic per page against period i-1 decides the state:
// Positive when the delta is strictly greater than zero, Negative
// otherwise. A null delta (either side undefined, or i == 0) counts as
// zero, so leading unsmoothed periods and flat stretches classify
// Negative. Classification is total: every period gets exactly one state.
func Classify(recs []series.Record) {
	for i := range recs {
		recs[i].RankingState = stateAt(recs, i)
	}
}

func stateAt(recs []series.Record, i int) series.State {
	if i == 0 {
		return series.StateNegative
	}
	cur := recs[i].TrafficPerPageMA
	prev := recs[i-1].TrafficPerPageMA
	if cur.IsNull() || prev.IsNull() {
		return series.StateNegative
	}
	if cur.Value()-prev.Value() > 0 {
		return series.StatePositive
	}
	return series.StateNegative
}
