package artifacts

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rankpulse/rankpulse/internal/application/pipeline"
	"github.com/rankpulse/rankpulse/internal/domain/resample"
	"github.com/rankpulse/rankpulse/internal/domain/series"
)

func testResult(t *testing.T) *pipeline.Result {
	t.Helper()
	obs := []series.Observation{
		{Date: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), Pages: 10, Traffic: 100},
		{Date: time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC), Pages: 12, Traffic: 150},
		{Date: time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC), Pages: 12, Traffic: 120},
	}
	res, err := pipeline.Run(context.Background(), obs, pipeline.Params{
		Granularity: resample.Daily,
		Window:      1,
		GapPolicy:   resample.GapSkip,
	})
	require.NoError(t, err)
	return res
}

func TestWriteResult(t *testing.T) {
	dir := t.TempDir()
	res := testResult(t)

	jsonPath, mdPath, err := WriteResult(dir, res)
	require.NoError(t, err)

	t.Run("json round trips", func(t *testing.T) {
		data, err := os.ReadFile(jsonPath)
		require.NoError(t, err)

		var decoded pipeline.Result
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, res.RunID, decoded.RunID)
		assert.Len(t, decoded.Records, len(res.Records))

		// Null rate fields survive the round trip as nulls.
		assert.True(t, decoded.Records[0].PageChangeRate.IsNull())
		assert.Equal(t, res.Records[1].TrafficPerPage.Value(), decoded.Records[1].TrafficPerPage.Value())
	})

	t.Run("markdown carries the narrative", func(t *testing.T) {
		data, err := os.ReadFile(mdPath)
		require.NoError(t, err)
		md := string(data)

		assert.Contains(t, md, "# Ranking State Report")
		assert.Contains(t, md, "## Summary")
		for _, line := range res.Narrative {
			assert.Contains(t, md, line)
		}
	})

	t.Run("no temp files left behind", func(t *testing.T) {
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		for _, e := range entries {
			assert.NotContains(t, e.Name(), ".tmp")
		}
	})
}

func TestWriteResultCreatesDirectory(t *testing.T) {
	dir := t.TempDir() + "/nested/out"
	res := testResult(t)

	jsonPath, _, err := WriteResult(dir, res)
	require.NoError(t, err)

	_, err = os.Stat(jsonPath)
	assert.NoError(t, err)
}

func TestRenderMarkdownNoData(t *testing.T) {
	res := testResult(t)
	res.Narrative = nil
	res.Summary.PositiveMean = series.NaN()
	res.Summary.NegativeMean = series.NaN()

	md := RenderMarkdown(res)
	assert.Contains(t, md, "no data")
	assert.Contains(t, md, "No reportable intervals")
}
