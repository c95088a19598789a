// Package series defines the period time series that flows through the
// analysis pipeline: one Record per resampled period, with derived rate
// fields that may be null (undefined) when a denominator is zero or there
// is no prior period to compare against.
package series

import (
	"bytes"
	"math"
	"strconv"
	"time"
)

// Float is a nullable float64. Null is represented as NaN internally and
// marshals to JSON null, so undefined rates survive a round trip through
// the API without turning into fake zeros.
type Float float64

// NaN returns the null Float.
func NaN() Float {
	return Float(math.NaN())
}

// Of wraps a defined float64 value.
func Of(v float64) Float {
	return Float(v)
}

// IsNull reports whether the value is undefined.
func (f Float) IsNull() bool {
	return math.IsNaN(float64(f))
}

// Value returns the underlying float64. Only meaningful when !IsNull().
func (f Float) Value() float64 {
	return float64(f)
}

var jsonNull = []byte("null")

func (f Float) MarshalJSON() ([]byte, error) {
	if f.IsNull() {
		return jsonNull, nil
	}
	return strconv.AppendFloat(nil, float64(f), 'f', -1, 64), nil
}

func (f *Float) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, jsonNull) {
		*f = NaN()
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// State labels a period's ranking regime.
type State int

const (
	StateNegative State = iota
	StatePositive
)

func (s State) String() string {
	if s == StatePositive {
		return "Positive"
	}
	return "Negative"
}

func (s State) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *State) UnmarshalJSON(data []byte) error {
	if string(data) == `"Positive"` {
		*s = StatePositive
	} else {
		*s = StateNegative
	}
	return nil
}

// Observation is one raw ingested row: a parsed date plus the page and
// traffic counts the caller mapped onto their column roles.
type Observation struct {
	Date    time.Time
	Pages   float64
	Traffic float64
}

// Record is one resampled period with all derived fields. Records are
// built once per run; a parameter change derives a fresh slice rather
// than mutating one shared between runs.
type Record struct {
	PeriodStart  time.Time `json:"period_start"`
	PageCount    float64   `json:"page_count"`
	TrafficCount float64   `json:"traffic_count"`

	PagesAdded        float64 `json:"pages_added"`
	PageChangeRate    Float   `json:"page_change_rate"`
	TrafficPerPage    Float   `json:"traffic_per_page"`
	TrafficChangeRate Float   `json:"traffic_change_rate"`

	PageChangeMA     Float `json:"page_change_ma"`
	TrafficChangeMA  Float `json:"traffic_change_ma"`
	TrafficPerPageMA Float `json:"traffic_per_page_ma"`

	RankingState State `json:"ranking_state"`
}
