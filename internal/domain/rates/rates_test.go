package rates

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rankpulse/rankpulse/internal/domain/series"
)

func records(counts ...[2]float64) []series.Record {
	recs := make([]series.Record, len(counts))
	for i, c := range counts {
		recs[i] = series.Record{
			PeriodStart:  time.Date(2024, time.January, 1+i, 0, 0, 0, 0, time.UTC),
			PageCount:    c[0],
			TrafficCount: c[1],
		}
	}
	return recs
}

func TestComputeScenario(t *testing.T) {
	recs := records([2]float64{10, 100}, [2]float64{12, 150}, [2]float64{12, 120})
	Compute(recs)

	t.Run("traffic per page", func(t *testing.T) {
		assert.Equal(t, 10.0, recs[0].TrafficPerPage.Value())
		assert.Equal(t, 12.5, recs[1].TrafficPerPage.Value())
		assert.Equal(t, 10.0, recs[2].TrafficPerPage.Value())
	})

	t.Run("pages added", func(t *testing.T) {
		assert.Equal(t, 0.0, recs[0].PagesAdded)
		assert.Equal(t, 2.0, recs[1].PagesAdded)
		assert.Equal(t, 0.0, recs[2].PagesAdded)
	})

	t.Run("page change rate", func(t *testing.T) {
		assert.True(t, recs[0].PageChangeRate.IsNull())
		assert.InDelta(t, 16.67, recs[1].PageChangeRate.Value(), 0.01)
		assert.Equal(t, 0.0, recs[2].PageChangeRate.Value())
	})

	t.Run("traffic change rate", func(t *testing.T) {
		assert.True(t, recs[0].TrafficChangeRate.IsNull())
		assert.Equal(t, 50.0, recs[1].TrafficChangeRate.Value())
		assert.InDelta(t, -20.0, recs[2].TrafficChangeRate.Value(), 1e-9)
	})
}

func TestComputeZeroPageCount(t *testing.T) {
	recs := records([2]float64{10, 100}, [2]float64{0, 50}, [2]float64{5, 60})
	Compute(recs)

	// Null exactly when the current period's page count is zero.
	assert.True(t, recs[1].TrafficPerPage.IsNull())
	assert.True(t, recs[1].PageChangeRate.IsNull())
	assert.False(t, recs[0].TrafficPerPage.IsNull())
	assert.False(t, recs[2].TrafficPerPage.IsNull())
	assert.False(t, recs[2].PageChangeRate.IsNull())

	// Traffic change is unaffected by page counts.
	assert.Equal(t, -50.0, recs[1].TrafficChangeRate.Value())
}

func TestComputeZeroPriorTraffic(t *testing.T) {
	recs := records([2]float64{10, 0}, [2]float64{12, 150})
	Compute(recs)

	require.True(t, recs[1].TrafficChangeRate.IsNull())
	assert.Equal(t, 0.0, recs[0].TrafficPerPage.Value())
}

func TestComputeSinglePeriod(t *testing.T) {
	recs := records([2]float64{10, 100})
	Compute(recs)

	assert.Equal(t, 0.0, recs[0].PagesAdded)
	assert.True(t, recs[0].PageChangeRate.IsNull())
	assert.True(t, recs[0].TrafficChangeRate.IsNull())
	assert.Equal(t, 10.0, recs[0].TrafficPerPage.Value())
}

func TestComputeIsIdempotent(t *testing.T) {
	recs := records([2]float64{10, 100}, [2]float64{12, 150})
	Compute(recs)
	first, err := json.Marshal(recs)
	require.NoError(t, err)

	Compute(recs)
	second, err := json.Marshal(recs)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}
