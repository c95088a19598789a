package smooth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rankpulse/rankpulse/internal/domain/series"
)

func vals(vs ...float64) []series.Float {
	out := make([]series.Float, len(vs))
	for i, v := range vs {
		out[i] = series.Of(v)
	}
	return out
}

func TestMovingAverageWindowOne(t *testing.T) {
	// W=1 is the identity, including null propagation.
	input := []series.Float{series.Of(1), series.NaN(), series.Of(3)}

	out, err := MovingAverage(input, 1)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, 1.0, out[0].Value())
	assert.True(t, out[1].IsNull())
	assert.Equal(t, 3.0, out[2].Value())
}

func TestMovingAverageLeadingNulls(t *testing.T) {
	out, err := MovingAverage(vals(1, 2, 3, 4), 3)
	require.NoError(t, err)

	assert.True(t, out[0].IsNull())
	assert.True(t, out[1].IsNull())
	assert.InDelta(t, 2.0, out[2].Value(), 1e-9)
	assert.InDelta(t, 3.0, out[3].Value(), 1e-9)
}

func TestMovingAverageSkipsNulls(t *testing.T) {
	// A null inside a full window is excluded from both sum and count.
	input := []series.Float{series.Of(1), series.NaN(), series.Of(3)}

	out, err := MovingAverage(input, 3)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.InDelta(t, 2.0, out[2].Value(), 1e-9) // (1+3)/2
}

func TestMovingAverageAllNullWindow(t *testing.T) {
	input := []series.Float{series.NaN(), series.NaN(), series.NaN()}

	out, err := MovingAverage(input, 2)
	require.NoError(t, err)
	for i := range out {
		assert.True(t, out[i].IsNull(), "index %d", i)
	}
}

func TestMovingAverageWindowExceedsSeries(t *testing.T) {
	out, err := MovingAverage(vals(1, 2), 5)
	require.NoError(t, err)
	for i := range out {
		assert.True(t, out[i].IsNull(), "index %d", i)
	}
}

func TestMovingAverageInvalidWindow(t *testing.T) {
	_, err := MovingAverage(vals(1, 2), 0)
	assert.Error(t, err)

	_, err = MovingAverage(vals(1, 2), -3)
	assert.Error(t, err)
}

func TestMovingAverageDoesNotMutateInput(t *testing.T) {
	input := vals(1, 2, 3)
	_, err := MovingAverage(input, 2)
	require.NoError(t, err)
	assert.Equal(t, vals(1, 2, 3), input)
}

func TestMovingAverageIdempotent(t *testing.T) {
	input := []series.Float{series.Of(1), series.NaN(), series.Of(3), series.Of(4)}

	first, err := MovingAverage(input, 2)
	require.NoError(t, err)
	second, err := MovingAverage(input, 2)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		if first[i].IsNull() {
			assert.True(t, second[i].IsNull(), "index %d", i)
			continue
		}
		assert.Equal(t, first[i].Value(), second[i].Value(), "index %d", i)
	}
}

func TestApply(t *testing.T) {
	recs := []series.Record{
		{PageChangeRate: series.NaN(), TrafficChangeRate: series.NaN(), TrafficPerPage: series.Of(10)},
		{PageChangeRate: series.Of(20), TrafficChangeRate: series.Of(50), TrafficPerPage: series.Of(12.5)},
		{PageChangeRate: series.Of(0), TrafficChangeRate: series.Of(-20), TrafficPerPage: series.Of(10)},
	}

	require.NoError(t, Apply(recs, 2))

	// First output of each smoothed series is null (insufficient history).
	assert.True(t, recs[0].PageChangeMA.IsNull())
	assert.True(t, recs[0].TrafficPerPageMA.IsNull())

	// Window [null, 20] skips the null.
	assert.Equal(t, 20.0, recs[1].PageChangeMA.Value())
	assert.InDelta(t, 11.25, recs[1].TrafficPerPageMA.Value(), 1e-9)
	assert.InDelta(t, 10.0, recs[2].PageChangeMA.Value(), 1e-9)
	assert.InDelta(t, 15.0, recs[2].TrafficChangeMA.Value(), 1e-9)
}

func TestApplyInvalidWindow(t *testing.T) {
	recs := []series.Record{{TrafficPerPage: series.Of(1)}}
	assert.Error(t, Apply(recs, 0))
}
