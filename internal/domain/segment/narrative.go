package segment

import (
	"fmt"
)

const dateLayout = "2006-01-02"

// Narrative renders one human-readable line per valid segment, in
// chronological order. Key numbers carry **emphasis markers** so the
// presentation layer can bold them. Segments without enough defined data
// are silently omitted.
func Narrative(segs []Segment) []string {
	lines := make([]string, 0, len(segs))
	for _, seg := range segs {
		if !seg.Valid {
			continue
		}

		tppVerb := "decreased"
		if seg.AvgTPPEnd.Value() > seg.AvgTPPStart.Value() {
			tppVerb = "increased"
		}
		pagesVerb := "decreased"
		if seg.PageChangePct.Value() > 0 {
			pagesVerb = "increased"
		}

		trafficClause := "traffic had no prior period to compare against"
		if !seg.TrafficChange.IsNull() {
			trafficVerb := "decreased"
			if seg.TrafficChange.Value() > 0 {
				trafficVerb = "increased"
			}
			trafficClause = fmt.Sprintf("traffic **%s** by **%.2f%%** compared to the previous period",
				trafficVerb, seg.TrafficChange.Value())
		}

		lines = append(lines, fmt.Sprintf(
			"From %s to %s, the site was in a **%s** ranking state. "+
				"The average traffic per page **%s** from **%.2f** to **%.2f**. "+
				"Pages **%s** by **%.2f%%** and %s.",
			seg.StartDate.Format(dateLayout),
			seg.EndDate.Format(dateLayout),
			seg.State,
			tppVerb, seg.AvgTPPStart.Value(), seg.AvgTPPEnd.Value(),
			pagesVerb, seg.PageChangePct.Value(),
			trafficClause,
		))
	}
	return lines
}
