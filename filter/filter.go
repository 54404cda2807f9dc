package filter

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sartorproj/gofred/internal/logging"
	"github.com/sartorproj/gofred/series"
)

var (
	// ErrMissingValues is returned when the input contains NaN observations.
	ErrMissingValues = errors.New("filter: series contains missing values")
	// ErrInsufficientData is returned when the input is too short for the filter.
	ErrInsufficientData = errors.New("filter: not enough observations")
)

// CycleUnits are the units given to every cyclical component.
const CycleUnits = "Deviation relative to trend"

// Result holds the trend and cyclical components of a filtered series.
// Trend and Cycle share dates. Except for FirstDiff, Trend + Cycle equals
// Original on those dates.
type Result struct {
	Original *series.Series
	Trend    *series.Series
	Cycle    *series.Series
	Method   string
}

// Apply runs the named filter ("hp", "bk", "cf", "firstdiff" or "linear")
// with the default parameters for the series frequency.
func Apply(s *series.Series, name string) (*Result, error) {
	switch strings.ToLower(name) {
	case "hp":
		return HP(s, DefaultLambda(s.Frequency))
	case "bk", "bandpass":
		p := DefaultBK(s.Frequency)
		return BK(s, p.Low, p.High, p.K)
	case "cf":
		p := DefaultBK(s.Frequency)
		return CF(s, float64(p.Low), float64(p.High), false)
	case "firstdiff", "fd":
		return FirstDiff(s)
	case "linear", "lintrend":
		return LinearTrend(s)
	}
	return nil, fmt.Errorf("filter: unknown filter %q", name)
}

// validate checks that s has at least min observations and no missing values.
func validate(s *series.Series, min int) error {
	if s.Len() < min {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientData, s.Len(), min)
	}
	for _, v := range s.Values {
		if math.IsNaN(v) {
			return ErrMissingValues
		}
	}
	return nil
}

// newResult labels the components. label is the phrase used in titles, e.g.
// "HP filtered".
func newResult(s *series.Series, method, label string, dates []time.Time, trend, cycle []float64) *Result {
	trendDates := make([]time.Time, len(dates))
	copy(trendDates, dates)

	t, _ := s.WithData(trendDates, trend)
	t.Title = s.Title + " - trend (" + label + ")"

	c, _ := s.WithData(dates, cycle)
	c.Title = s.Title + " - deviation relative to trend (" + label + ")"
	c.Units = CycleUnits

	return &Result{
		Original: s,
		Trend:    t,
		Cycle:    c,
		Method:   method,
	}
}

// warnFrequency logs when parameters tuned for one frequency are applied to
// data of another.
func warnFrequency(method string, s *series.Series, tunedFor series.Frequency) {
	if tunedFor == series.Unknown || s.Frequency == tunedFor {
		return
	}
	logging.Named("filter").Warn("default filter parameters do not match data frequency",
		zap.String("method", method),
		zap.String("series", s.ID),
		zap.Stringer("frequency", s.Frequency),
		zap.Stringer("tuned_for", tunedFor),
	)
}
