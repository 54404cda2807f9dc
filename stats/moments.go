package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/gofred/series"
)

var (
	// ErrMissingValues is returned when an input contains NaN observations.
	ErrMissingValues = errors.New("stats: series contains missing values")
	// ErrInsufficientData is returned when fewer than two observations remain.
	ErrInsufficientData = errors.New("stats: not enough observations")
)

// Moment summarises the cyclical behaviour of one series against a reference,
// as in a business-cycle statistics table.
type Moment struct {
	ID       string
	Title    string
	Std      float64 // standard deviation
	RelStd   float64 // standard deviation relative to the reference
	Autocorr float64 // first-order autocorrelation
	Corr     float64 // contemporaneous correlation with the reference
}

// Correlation returns the Pearson correlation of two series with identical dates.
func Correlation(a, b *series.Series) (float64, error) {
	if !series.SameDates(a, b) {
		return 0, series.ErrDateMismatch
	}
	if err := check(a); err != nil {
		return 0, err
	}
	if err := check(b); err != nil {
		return 0, err
	}
	return stat.Correlation(a.Values, b.Values, nil), nil
}

// Moments computes a Moment for each series against reference. All series
// are first restricted to their common date window; a series whose dates
// still differ from the reference inside that window is rejected.
func Moments(cycles []*series.Series, reference *series.Series) ([]Moment, error) {
	if reference == nil {
		return nil, errors.New("stats: reference series is nil")
	}
	aligned := series.Equalize(append([]*series.Series{reference}, cycles...)...)
	ref := aligned[0]
	if err := check(ref); err != nil {
		return nil, fmt.Errorf("reference %s: %w", ref.ID, err)
	}
	refStd := stat.StdDev(ref.Values, nil)

	out := make([]Moment, 0, len(cycles))
	for _, c := range aligned[1:] {
		if err := check(c); err != nil {
			return nil, fmt.Errorf("series %s: %w", c.ID, err)
		}
		if !series.SameDates(c, ref) {
			return nil, fmt.Errorf("series %s: %w", c.ID, series.ErrDateMismatch)
		}
		std := stat.StdDev(c.Values, nil)
		rel := math.NaN()
		if refStd != 0 {
			rel = std / refStd
		}
		out = append(out, Moment{
			ID:       c.ID,
			Title:    c.Title,
			Std:      std,
			RelStd:   rel,
			Autocorr: Autocorrelation(c, 1),
			Corr:     stat.Correlation(c.Values, ref.Values, nil),
		})
	}
	return out, nil
}

func check(s *series.Series) error {
	if s.Len() < 2 {
		return ErrInsufficientData
	}
	if s.HasNaN() {
		return ErrMissingValues
	}
	return nil
}
