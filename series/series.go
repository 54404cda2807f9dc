// Package series provides the Series container for FRED data and its transformations.
package series

import (
	"errors"
	"math"
	"sort"
	"time"
)

// DateLayout is the date format FRED uses for observation dates.
const DateLayout = "2006-01-02"

var (
	// ErrLengthMismatch is returned when dates and values differ in length.
	ErrLengthMismatch = errors.New("dates and values must have the same length")
	// ErrDateMismatch is returned by pairwise operations on series with different dates.
	ErrDateMismatch = errors.New("series do not have the same observation dates")
	// ErrUnknownFrequency is returned when an operation needs the data frequency.
	ErrUnknownFrequency = errors.New("series frequency is unknown")
	// ErrEmpty is returned when an operation needs at least one observation.
	ErrEmpty = errors.New("series has no observations")
)

// Series is a single economic time series with its observation dates and release metadata.
// Missing observations are stored as NaN.
type Series struct {
	ID                 string
	Title              string
	Source             string
	Units              string
	SeasonalAdjustment string
	LastUpdated        string
	Notes              string
	Frequency          Frequency

	Dates  []time.Time
	Values []float64
}

// New creates a series from values alone. Dates are daily placeholders
// starting at 1970-01-01.
func New(values []float64) *Series {
	dates := make([]time.Time, len(values))
	base := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range dates {
		dates[i] = base.AddDate(0, 0, i)
	}
	return &Series{
		Dates:  dates,
		Values: values,
	}
}

// NewWithDates creates a series with explicit observation dates.
func NewWithDates(dates []time.Time, values []float64) (*Series, error) {
	if len(dates) != len(values) {
		return nil, ErrLengthMismatch
	}
	return &Series{
		Dates:  dates,
		Values: values,
	}, nil
}

// Len returns the number of observations.
func (s *Series) Len() int {
	return len(s.Values)
}

// DateRange describes the first and last observation dates.
func (s *Series) DateRange() string {
	if len(s.Dates) == 0 {
		return "Null"
	}
	return s.Dates[0].Format(DateLayout) + " to " + s.Dates[len(s.Dates)-1].Format(DateLayout)
}

// Mean calculates the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range s.Values {
		sum += v
	}
	return sum / float64(len(s.Values))
}

// Variance calculates the sample variance of the series.
func (s *Series) Variance() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	mean := s.Mean()
	sumSq := 0.0
	for _, v := range s.Values {
		diff := v - mean
		sumSq += diff * diff
	}
	return sumSq / float64(len(s.Values)-1)
}

// Std calculates the sample standard deviation of the series.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Min returns the minimum value in the series.
func (s *Series) Min() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	min := s.Values[0]
	for _, v := range s.Values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the maximum value in the series.
func (s *Series) Max() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	max := s.Values[0]
	for _, v := range s.Values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Median returns the median value of the series.
func (s *Series) Median() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// HasNaN reports whether any observation is missing.
func (s *Series) HasNaN() bool {
	for _, v := range s.Values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	out := s.meta()
	out.Values = make([]float64, len(s.Values))
	copy(out.Values, s.Values)
	out.Dates = make([]time.Time, len(s.Dates))
	copy(out.Dates, s.Dates)
	return out
}

// WithData returns a copy of the metadata carrying the given dates and values.
func (s *Series) WithData(dates []time.Time, values []float64) (*Series, error) {
	if len(dates) != len(values) {
		return nil, ErrLengthMismatch
	}
	out := s.meta()
	out.Dates = dates
	out.Values = values
	return out, nil
}

// meta returns a series with the receiver's metadata and no observations.
func (s *Series) meta() *Series {
	return &Series{
		ID:                 s.ID,
		Title:              s.Title,
		Source:             s.Source,
		Units:              s.Units,
		SeasonalAdjustment: s.SeasonalAdjustment,
		LastUpdated:        s.LastUpdated,
		Notes:              s.Notes,
		Frequency:          s.Frequency,
	}
}

// Slice returns observations from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	out := s.meta()
	if start >= end {
		out.Dates = []time.Time{}
		out.Values = []float64{}
		return out
	}

	out.Values = make([]float64, end-start)
	copy(out.Values, s.Values[start:end])
	out.Dates = make([]time.Time, end-start)
	copy(out.Dates, s.Dates[start:end])
	return out
}

// Recent restricts the series to its most recent n observations.
func (s *Series) Recent(n int) *Series {
	if n <= 0 {
		return s.Slice(0, 0)
	}
	return s.Slice(s.Len()-n, s.Len())
}

// Window restricts the series to observations dated within [start, end].
// A zero start or end leaves that side open.
func (s *Series) Window(start, end time.Time) *Series {
	lo := 0
	if !start.IsZero() {
		lo = sort.Search(len(s.Dates), func(i int) bool {
			return !s.Dates[i].Before(start)
		})
	}
	hi := len(s.Dates)
	if !end.IsZero() {
		hi = sort.Search(len(s.Dates), func(i int) bool {
			return s.Dates[i].After(end)
		})
	}
	return s.Slice(lo, hi)
}

// DropNaN removes missing observations.
func (s *Series) DropNaN() *Series {
	out := s.meta()
	out.Dates = make([]time.Time, 0, len(s.Values))
	out.Values = make([]float64, 0, len(s.Values))
	for i, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		out.Dates = append(out.Dates, s.Dates[i])
		out.Values = append(out.Values, v)
	}
	return out
}

// Diff calculates the first difference of the series, dated at the later observation.
func (s *Series) Diff() *Series {
	if len(s.Values) < 2 {
		return s.Slice(0, 0)
	}

	out := s.meta()
	out.Values = make([]float64, len(s.Values)-1)
	for i := 1; i < len(s.Values); i++ {
		out.Values[i-1] = s.Values[i] - s.Values[i-1]
	}
	out.Dates = make([]time.Time, len(out.Values))
	copy(out.Dates, s.Dates[1:])
	out.Title = "First Difference of " + s.Title
	return out
}

// Log applies the natural logarithm. Non-positive values become NaN.
func (s *Series) Log() *Series {
	out := s.meta()
	out.Values = make([]float64, len(s.Values))
	for i, v := range s.Values {
		if v > 0 {
			out.Values[i] = math.Log(v)
		} else {
			out.Values[i] = math.NaN()
		}
	}
	out.Dates = make([]time.Time, len(s.Dates))
	copy(out.Dates, s.Dates)
	out.Units = "log " + s.Units
	out.Title = "Log " + s.Title
	return out
}
