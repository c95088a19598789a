// Package rates derives the per-period change rates the classifier and
// reporter run on. Zero denominators never raise: the affected field
// degrades to null and propagates through smoothing and aggregation.
package rates

import (
	"github.com/rankpulse/rankpulse/internal/domain/series"
)

// Compute fills the derived rate fields of each record in place.
//
// For period i with predecessor i-1:
//
//	pages_added         = page_count[i] - page_count[i-1]
//	page_change_rate    = pages_added / page_count[i] * 100   (null when page_count[i] == 0)
//	traffic_per_page    = traffic_count[i] / page_count[i]    (null when page_count[i] == 0)
//	traffic_change_rate = pct change vs traffic_count[i-1]    (null when prior traffic == 0)
//
// Period 0 has no predecessor: pages_added is 0 by convention and both
// change rates are null. traffic_per_page needs no predecessor and is
// computed for every period.
func Compute(recs []series.Record) {
	for i := range recs {
		rec := &recs[i]

		if rec.PageCount != 0 {
			rec.TrafficPerPage = series.Of(rec.TrafficCount / rec.PageCount)
		} else {
			rec.TrafficPerPage = series.NaN()
		}

		if i == 0 {
			rec.PagesAdded = 0
			rec.PageChangeRate = series.NaN()
			rec.TrafficChangeRate = series.NaN()
			continue
		}
		prev := &recs[i-1]

		rec.PagesAdded = rec.PageCount - prev.PageCount

		// Denominator is prior pages + pages added, which is just the
		// current page count.
		if rec.PageCount != 0 {
			rec.PageChangeRate = series.Of(rec.PagesAdded / rec.PageCount * 100)
		} else {
			rec.PageChangeRate = series.NaN()
		}

		if prev.TrafficCount != 0 {
			rec.TrafficChangeRate = series.Of((rec.TrafficCount - prev.TrafficCount) / prev.TrafficCount * 100)
		} else {
			rec.TrafficChangeRate = series.NaN()
		}
	}
}
