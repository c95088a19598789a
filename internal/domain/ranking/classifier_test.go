package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rankpulse/rankpulse/internal/domain/series"
)

func recsWithTPPMA(values ...series.Float) []series.Record {
	recs := make([]series.Record, len(values))
	for i, v := range values {
		recs[i] = series.Record{TrafficPerPageMA: v}
	}
	return recs
}

func TestClassifyScenario(t *testing.T) {
	recs := recsWithTPPMA(series.Of(10), series.Of(12.5), series.Of(10))
	Classify(recs)

	assert.Equal(t, series.StateNegative, recs[0].RankingState)
	assert.Equal(t, series.StatePositive, recs[1].RankingState)
	assert.Equal(t, series.StateNegative, recs[2].RankingState)
}

func TestClassifyZeroDeltaIsNegative(t *testing.T) {
	// Strict sign: a flat series never classifies Positive.
	recs := recsWithTPPMA(series.Of(5), series.Of(5), series.Of(5), series.Of(5))
	Classify(recs)

	for i, rec := range recs {
		assert.Equal(t, series.StateNegative, rec.RankingState, "period %d", i)
	}
}

func TestClassifyNullDeltaIsNegative(t *testing.T) {
	recs := recsWithTPPMA(series.NaN(), series.NaN(), series.Of(3), series.Of(4))
	Classify(recs)

	assert.Equal(t, series.StateNegative, recs[0].RankingState)
	assert.Equal(t, series.StateNegative, recs[1].RankingState)
	// First comparable delta is null on the left side, still Negative.
	assert.Equal(t, series.StateNegative, recs[2].RankingState)
	assert.Equal(t, series.StatePositive, recs[3].RankingState)
}

func TestClassifyIsTotal(t *testing.T) {
	recs := recsWithTPPMA(series.Of(1), series.NaN(), series.Of(2), series.Of(1.5), series.NaN())
	Classify(recs)

	pos, neg := 0, 0
	for _, rec := range recs {
		switch rec.RankingState {
		case series.StatePositive:
			pos++
		case series.StateNegative:
			neg++
		}
	}
	assert.Equal(t, len(recs), pos+neg)
}

func TestClassifyPureFunction(t *testing.T) {
	recs := recsWithTPPMA(series.Of(1), series.Of(2), series.Of(1))
	Classify(recs)
	first := []series.State{recs[0].RankingState, recs[1].RankingState, recs[2].RankingState}

	Classify(recs)
	second := []series.State{recs[0].RankingState, recs[1].RankingState, recs[2].RankingState}
	assert.Equal(t, first, second)
}
