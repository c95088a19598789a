package ranking

import (
	"github.com/rankpulse/rankpulse/internal/domain/series"
)

// Summary holds the average smoothed page-change rate observed in each
// ranking state. It characterizes how much page growth typically
// accompanies a regime. A null mean signals that the state had no periods
// with a defined smoothed page-change rate ("no data").
type Summary struct {
	PositiveMean series.Float `json:"positive_mean"`
	NegativeMean series.Float `json:"negative_mean"`

	PositiveCount int `json:"positive_count"`
	NegativeCount int `json:"negative_count"`
}

// Summarize partitions the smoothed page-change rates by ranking state
// and computes each group's arithmetic mean. Null values are excluded
// from both the sum and the denominator; the counts report how many
// defined values entered each mean.
func Summarize(recs []series.Record) Summary {
	var posSum, negSum float64
	var posN, negN int
	for _, rec := range recs {
		if rec.PageChangeMA.IsNull() {
			continue
		}
		if rec.RankingState == series.StatePositive {
			posSum += rec.PageChangeMA.Value()
			posN++
		} else {
			negSum += rec.PageChangeMA.Value()
			negN++
		}
	}

	s := Summary{
		PositiveMean:  series.NaN(),
		NegativeMean:  series.NaN(),
		PositiveCount: posN,
		NegativeCount: negN,
	}
	if posN > 0 {
		s.PositiveMean = series.Of(posSum / float64(posN))
	}
	if negN > 0 {
		s.NegativeMean = series.Of(negSum / float64(negN))
	}
	return s
}
