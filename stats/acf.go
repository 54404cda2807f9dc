package stats

import (
	"math"

	"github.com/sartorproj/gofred/series"
)

// ACF returns the sample autocorrelations of s for lags 0 to maxLag, scaled
// by the full-sample variance. Missing observations are skipped: a lag
// product enters the sum only when both of its terms are observed. ACF
// returns nil for a series without variation.
func ACF(s *series.Series, maxLag int) []float64 {
	maxLag = min(maxLag, s.Len()-1)
	if maxLag < 0 {
		return nil
	}
	dev := deviations(s.Values)
	if dev == nil {
		return nil
	}

	c0 := 0.0
	for _, d := range dev {
		if !math.IsNaN(d) {
			c0 += d * d
		}
	}
	if c0 == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := range acf {
		ck := 0.0
		for i := k; i < len(dev); i++ {
			if p := dev[i] * dev[i-k]; !math.IsNaN(p) {
				ck += p
			}
		}
		acf[k] = ck / c0
	}
	return acf
}

// deviations subtracts the mean of the observed values, leaving NaN in
// place. It returns nil when nothing is observed.
func deviations(values []float64) []float64 {
	n := observed(values)
	if n == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range values {
		if !math.IsNaN(v) {
			sum += v
		}
	}
	mean := sum / float64(n)

	dev := make([]float64, len(values))
	for i, v := range values {
		dev[i] = v - mean
	}
	return dev
}

func observed(values []float64) int {
	n := 0
	for _, v := range values {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// Autocorrelation returns the autocorrelation at a single lag, or NaN when it
// cannot be computed.
func Autocorrelation(s *series.Series, lag int) float64 {
	if lag < 0 {
		return math.NaN()
	}
	acf := ACF(s, lag)
	if len(acf) <= lag {
		return math.NaN()
	}
	return acf[lag]
}

// PACF returns the partial autocorrelations for lags 0 to maxLag, solving the
// Yule-Walker equations recursively (Durbin-Levinson).
func PACF(s *series.Series, maxLag int) []float64 {
	maxLag = min(maxLag, s.Len()-1)
	if maxLag < 1 {
		return nil
	}
	acf := ACF(s, maxLag)
	if acf == nil {
		return nil
	}

	pacf := make([]float64, maxLag+1)
	pacf[0] = 1
	pacf[1] = acf[1]

	// phi[j-1] is the lag-j coefficient of the autoregression of order k-1.
	phi := []float64{acf[1]}
	for k := 2; k <= maxLag; k++ {
		num, den := acf[k], 1.0
		for j := 1; j < k; j++ {
			num -= phi[j-1] * acf[k-j]
			den -= phi[j-1] * acf[j]
		}

		next := make([]float64, k)
		if den != 0 {
			next[k-1] = num / den
			for j := 1; j < k; j++ {
				next[j-1] = phi[j-1] - next[k-1]*phi[k-j-1]
			}
		}
		pacf[k] = next[k-1]
		phi = next
	}
	return pacf
}

// CorrelogramResult holds autocorrelations with their 95% confidence bound.
type CorrelogramResult struct {
	Lags       []int
	ACF        []float64
	PACF       []float64
	ConfBounds float64 // ±1.96/sqrt(n), n counting observed values
}

// Correlogram calculates the ACF and PACF of a series up to maxLag.
func Correlogram(s *series.Series, maxLag int) *CorrelogramResult {
	acf := ACF(s, maxLag)
	if acf == nil {
		return nil
	}

	lags := make([]int, len(acf))
	for i := range lags {
		lags[i] = i
	}

	return &CorrelogramResult{
		Lags:       lags,
		ACF:        acf,
		PACF:       PACF(s, maxLag),
		ConfBounds: 1.96 / math.Sqrt(float64(observed(s.Values))),
	}
}

// SignificantLags returns the lags where ACF/PACF values exceed confidence bounds.
func SignificantLags(values []float64, confBound float64) []int {
	var significant []int
	for i := 1; i < len(values); i++ { // Skip lag 0
		if math.Abs(values[i]) > confBound {
			significant = append(significant, i)
		}
	}
	return significant
}
