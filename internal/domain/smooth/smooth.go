// Package smooth applies trailing simple moving averages to the derived
// rate series.
package smooth

import (
	"fmt"

	"github.com/rankpulse/rankpulse/internal/domain/series"
)

// MovingAverage returns the trailing simple moving average of width w over
// values. The first w-1 outputs are null (insufficient history). Inside a
// full window, null inputs are excluded from both the sum and the count;
// a window with no defined value yields null. w = 1 is the identity,
// including null propagation.
//
// The input slice is never modified, so recomputing with a different
// window is safe against the same series.
func MovingAverage(values []series.Float, w int) ([]series.Float, error) {
	if w < 1 {
		return nil, fmt.Errorf("window must be at least 1, got %d", w)
	}
	out := make([]series.Float, len(values))
	for i := range values {
		if i < w-1 {
			out[i] = series.NaN()
			continue
		}
		sum := 0.0
		count := 0
		for j := i - w + 1; j <= i; j++ {
			if values[j].IsNull() {
				continue
			}
			sum += values[j].Value()
			count++
		}
		if count == 0 {
			out[i] = series.NaN()
			continue
		}
		out[i] = series.Of(sum / float64(count))
	}
	return out, nil
}

// Apply smooths the three rate series of recs in place with window w.
// A window wider than the series leaves every smoothed field null, which
// downstream stages report as a no-data outcome rather than an error.
func Apply(recs []series.Record, w int) error {
	pageRates := make([]series.Float, len(recs))
	trafficRates := make([]series.Float, len(recs))
	tpp := make([]series.Float, len(recs))
	for i, rec := range recs {
		pageRates[i] = rec.PageChangeRate
		trafficRates[i] = rec.TrafficChangeRate
		tpp[i] = rec.TrafficPerPage
	}

	pageMA, err := MovingAverage(pageRates, w)
	if err != nil {
		return err
	}
	trafficMA, err := MovingAverage(trafficRates, w)
	if err != nil {
		return err
	}
	tppMA, err := MovingAverage(tpp, w)
	if err != nil {
		return err
	}

	for i := range recs {
		recs[i].PageChangeMA = pageMA[i]
		recs[i].TrafficChangeMA = trafficMA[i]
		recs[i].TrafficPerPageMA = tppMA[i]
	}
	return nil
}
