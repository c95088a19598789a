// Package artifacts writes analysis results to disk as timestamped JSON
// and markdown files. Writes are atomic (temp file + rename) so a crash
// mid-write never leaves a truncated artifact behind.
package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rankpulse/rankpulse/internal/application/pipeline"
)

// WriteResult writes the JSON result and the markdown narrative for one
// run under dir, returning the two paths. File names carry the UTC
// timestamp and the run ID so successive runs never collide.
func WriteResult(dir string, res *pipeline.Result) (jsonPath, mdPath string, err error) {
	stamp := res.GeneratedAt.UTC().Format("20060102-150405")
	base := fmt.Sprintf("%s-%s", stamp, res.RunID)

	jsonPath = filepath.Join(dir, base+".json")
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("marshal result: %w", err)
	}
	if err := writeFileAtomic(jsonPath, data); err != nil {
		return "", "", fmt.Errorf("write %s: %w", jsonPath, err)
	}

	mdPath = filepath.Join(dir, base+".md")
	if err := writeFileAtomic(mdPath, []byte(RenderMarkdown(res))); err != nil {
		return "", "", fmt.Errorf("write %s: %w", mdPath, err)
	}
	return jsonPath, mdPath, nil
}

// RenderMarkdown renders the markdown report for a result.
func RenderMarkdown(res *pipeline.Result) string {
	var b strings.Builder
	b.WriteString("# Ranking State Report\n\n")
	fmt.Fprintf(&b, "Run `%s`, generated %s. Granularity %s, window %d, gap policy %s.\n\n",
		res.RunID,
		res.GeneratedAt.Format(time.RFC3339),
		res.Params.Granularity,
		res.Params.Window,
		res.Params.GapPolicy,
	)

	b.WriteString("## Summary\n\n")
	if res.Summary.PositiveMean.IsNull() {
		b.WriteString("- Page increase threshold for Positive ranking states: no data\n")
	} else {
		fmt.Fprintf(&b, "- Page increase threshold for Positive ranking states: **%.2f%%** (%d periods)\n",
			res.Summary.PositiveMean.Value(), res.Summary.PositiveCount)
	}
	if res.Summary.NegativeMean.IsNull() {
		b.WriteString("- Page increase threshold for Negative ranking states: no data\n")
	} else {
		fmt.Fprintf(&b, "- Page increase threshold for Negative ranking states: **%.2f%%** (%d periods)\n",
			res.Summary.NegativeMean.Value(), res.Summary.NegativeCount)
	}

	b.WriteString("\n## Intervals\n\n")
	if len(res.Narrative) == 0 {
		b.WriteString("No reportable intervals: not enough smoothed data in any segment.\n")
	}
	for _, line := range res.Narrative {
		fmt.Fprintf(&b, "- %s\n", line)
	}
	return b.String()
}

// writeFileAtomic writes data via a temp file in the target directory and
// renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
