package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/gofred/series"
)

// PortmanteauResult is the outcome of a Ljung-Box or Box-Pierce test.
type PortmanteauResult struct {
	Statistic float64
	PValue    float64
	Lags      int
	DOF       int // degrees of freedom
}

// LjungBox tests whether the autocorrelations of s up to lag are jointly zero.
// A small p-value means the series is persistent, as a business cycle is
// expected to be. fitdf is subtracted from the degrees of freedom when s is a
// residual of an estimated model. Returns nil for fewer than 10 observations
// or a constant series.
func LjungBox(s *series.Series, lags, fitdf int) *PortmanteauResult {
	return portmanteau(s, lags, fitdf, func(acf []float64, n int) float64 {
		q := 0.0
		for k := 1; k < len(acf); k++ {
			q += acf[k] * acf[k] / float64(n-k)
		}
		return q * float64(n*(n+2))
	})
}

// BoxPierce is the original, less accurate in small samples, form of LjungBox.
func BoxPierce(s *series.Series, lags, fitdf int) *PortmanteauResult {
	return portmanteau(s, lags, fitdf, func(acf []float64, n int) float64 {
		q := 0.0
		for k := 1; k < len(acf); k++ {
			q += acf[k] * acf[k]
		}
		return q * float64(n)
	})
}

func portmanteau(s *series.Series, lags, fitdf int, statistic func(acf []float64, n int) float64) *PortmanteauResult {
	n := observed(s.Values)
	if n < 10 || lags < 1 {
		return nil
	}
	lags = min(lags, s.Len()-1)
	acf := ACF(s, lags)
	if acf == nil {
		return nil
	}

	q := statistic(acf, n)
	dof := lags - fitdf
	if dof < 1 {
		dof = 1
	}
	return &PortmanteauResult{
		Statistic: q,
		PValue:    distuv.ChiSquared{K: float64(dof)}.Survival(q),
		Lags:      lags,
		DOF:       dof,
	}
}

// DurbinWatson returns the Durbin-Watson statistic of s: about 2 without
// first-order autocorrelation, towards 0 when positive, towards 4 when
// negative. It returns NaN when s has fewer than 2 observations or is all zero.
func DurbinWatson(s *series.Series) float64 {
	n := s.Len()
	if n < 2 {
		return math.NaN()
	}
	num, den := 0.0, 0.0
	for i, v := range s.Values {
		den += v * v
		if i > 0 {
			d := v - s.Values[i-1]
			num += d * d
		}
	}
	if den == 0 {
		return math.NaN()
	}
	return num / den
}
