package filter

import (
	"fmt"
	"math"
	"time"

	"github.com/sartorproj/gofred/series"
)

// Band holds bandpass parameters: the shortest and longest periods of the
// oscillations kept, and the lead-lag length K used by the Baxter-King filter.
type Band struct {
	Low  int
	High int
	K    int
}

var defaultBands = map[series.Frequency]Band{
	series.Quarterly: {Low: 6, High: 32, K: 12},
	series.Annual:    {Low: 2, High: 8, K: 3},
	series.Monthly:   {Low: 18, High: 96, K: 36},
}

// DefaultBK returns business-cycle bandpass parameters for a frequency
// (periods of 1.5 to 8 years). Frequencies without a convention get the
// quarterly parameters.
func DefaultBK(f series.Frequency) Band {
	if b, ok := defaultBands[f]; ok {
		return b
	}
	return defaultBands[series.Quarterly]
}

// bandFrequency reports which frequency a default band belongs to. A negative
// k skips the lead-lag comparison.
func bandFrequency(low, high, k int) series.Frequency {
	for f, b := range defaultBands {
		if b.Low == low && b.High == high && (k < 0 || b.K == k) {
			return f
		}
	}
	return series.Unknown
}

// BK applies the Baxter-King bandpass filter keeping oscillations with periods
// between low and high. K observations are lost from each end of the series.
func BK(s *series.Series, low, high, k int) (*Result, error) {
	if low < 2 || high <= low || k < 1 {
		return nil, fmt.Errorf("filter: invalid bandpass parameters low=%d high=%d k=%d", low, high, k)
	}
	if err := validate(s, 2*k+1); err != nil {
		return nil, err
	}
	warnFrequency("BK", s, bandFrequency(low, high, k))

	weights := bkWeights(float64(low), float64(high), k)
	n := s.Len()
	m := n - 2*k
	cycle := make([]float64, m)
	trend := make([]float64, m)
	for t := 0; t < m; t++ {
		sum := 0.0
		for j, w := range weights {
			sum += w * s.Values[t+j]
		}
		cycle[t] = sum
		trend[t] = s.Values[t+k] - sum
	}

	dates := make([]time.Time, m)
	copy(dates, s.Dates[k:n-k])
	return newResult(s, "BK", "bandpass filtered", dates, trend, cycle), nil
}

// bkWeights returns the 2k+1 symmetric filter weights, adjusted to sum to zero.
func bkWeights(low, high float64, k int) []float64 {
	w1 := 2 * math.Pi / high
	w2 := 2 * math.Pi / low

	weights := make([]float64, 2*k+1)
	weights[k] = (w2 - w1) / math.Pi
	for j := 1; j <= k; j++ {
		b := (math.Sin(w2*float64(j)) - math.Sin(w1*float64(j))) / (math.Pi * float64(j))
		weights[k+j] = b
		weights[k-j] = b
	}

	mean := 0.0
	for _, w := range weights {
		mean += w
	}
	mean /= float64(len(weights))
	for i := range weights {
		weights[i] -= mean
	}
	return weights
}

// CF applies the Christiano-Fitzgerald random-walk bandpass filter, which uses
// the full sample at every date and loses no observations. With drift set, a
// straight line through the first and last observations is removed before
// filtering.
func CF(s *series.Series, low, high float64, drift bool) (*Result, error) {
	if low < 2 || high <= low {
		return nil, fmt.Errorf("filter: invalid bandpass parameters low=%g high=%g", low, high)
	}
	if err := validate(s, 2); err != nil {
		return nil, err
	}
	if low == math.Trunc(low) && high == math.Trunc(high) {
		warnFrequency("CF", s, bandFrequency(int(low), int(high), -1))
	}

	n := s.Len()
	x := make([]float64, n)
	copy(x, s.Values)
	if drift {
		slope := (x[n-1] - x[0]) / float64(n-1)
		for t := range x {
			x[t] -= float64(t) * slope
		}
	}

	a := 2 * math.Pi / high
	b := 2 * math.Pi / low
	b0 := (b - a) / math.Pi
	bj := make([]float64, n+1)
	for j := 1; j <= n; j++ {
		bj[j] = (math.Sin(b*float64(j)) - math.Sin(a*float64(j))) / (math.Pi * float64(j))
	}

	// Prefix sums of bj for the truncated tails.
	cum := make([]float64, n+1)
	for j := 1; j <= n; j++ {
		cum[j] = cum[j-1] + bj[j]
	}

	cycle := make([]float64, n)
	trend := make([]float64, n)
	for i := 0; i < n; i++ {
		ahead := n - 2 - i
		if ahead < 0 {
			ahead = 0
		}
		behind := i - 1
		if behind < 0 {
			behind = 0
		}
		sumAhead := cum[ahead]
		sumBehind := cum[behind]

		last := -0.5*b0 - sumAhead
		first := -b0 - sumAhead - sumBehind - last

		y := b0*x[i] + last*x[n-1] + first*x[0]
		for j := 1; j <= ahead; j++ {
			y += bj[j] * x[i+j]
		}
		for j := 1; j <= behind; j++ {
			y += bj[j] * x[i-j]
		}
		cycle[i] = y
		trend[i] = s.Values[i] - y
	}

	dates := make([]time.Time, n)
	copy(dates, s.Dates)
	return newResult(s, "CF", "CF filtered", dates, trend, cycle), nil
}
