package filter

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/gofred/series"
)

// FirstDiff applies the first-difference filter. The cycle is the demeaned
// first difference and the trend is the previous observation; both are dated
// from the second observation on.
func FirstDiff(s *series.Series) (*Result, error) {
	if err := validate(s, 2); err != nil {
		return nil, err
	}

	n := s.Len()
	diff := make([]float64, n-1)
	for i := 1; i < n; i++ {
		diff[i-1] = s.Values[i] - s.Values[i-1]
	}
	mean := stat.Mean(diff, nil)

	cycle := make([]float64, n-1)
	trend := make([]float64, n-1)
	for i, d := range diff {
		cycle[i] = d - mean
		trend[i] = s.Values[i]
	}

	dates := make([]time.Time, n-1)
	copy(dates, s.Dates[1:])
	return newResult(s, "FD", "first difference filtered", dates, trend, cycle), nil
}

// LinearTrend fits y = a + b*t by OLS on the observation index t; the fitted
// line is the trend and the residual is the cycle.
func LinearTrend(s *series.Series) (*Result, error) {
	if err := validate(s, 2); err != nil {
		return nil, err
	}

	n := s.Len()
	index := make([]float64, n)
	for i := range index {
		index[i] = float64(i)
	}
	alpha, beta := stat.LinearRegression(index, s.Values, nil, false)

	trend := make([]float64, n)
	cycle := make([]float64, n)
	for i, v := range s.Values {
		trend[i] = alpha + beta*index[i]
		cycle[i] = v - trend[i]
	}

	dates := make([]time.Time, n)
	copy(dates, s.Dates)
	return newResult(s, "LT", "linearly filtered via OLS", dates, trend, cycle), nil
}
