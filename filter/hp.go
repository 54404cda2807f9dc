package filter

import (
	"math"
	"time"

	"github.com/sartorproj/gofred/series"
)

// DefaultLambda returns the conventional HP smoothing parameter for a frequency:
// 1600 for quarterly, 129600 for monthly and 6.25 for annual data.
// Other frequencies get the quarterly value.
func DefaultLambda(f series.Frequency) float64 {
	switch f {
	case series.Monthly:
		return 129600
	case series.Annual:
		return 6.25
	}
	return 1600
}

// lambdaFrequency reports which frequency a conventional lambda belongs to.
func lambdaFrequency(lambda float64) series.Frequency {
	switch lambda {
	case 1600:
		return series.Quarterly
	case 129600:
		return series.Monthly
	case 6.25:
		return series.Annual
	}
	return series.Unknown
}

// HP applies the Hodrick-Prescott filter with smoothing parameter lambda.
// The trend minimises sum((y-t)^2) + lambda*sum((t[i+1]-2t[i]+t[i-1])^2).
func HP(s *series.Series, lambda float64) (*Result, error) {
	if err := validate(s, 3); err != nil {
		return nil, err
	}
	warnFrequency("HP", s, lambdaFrequency(lambda))

	trend := hpTrend(s.Values, lambda)
	cycle := make([]float64, len(trend))
	for i, v := range s.Values {
		cycle[i] = v - trend[i]
	}

	dates := make([]time.Time, len(s.Dates))
	copy(dates, s.Dates)
	return newResult(s, "HP", "HP filtered", dates, trend, cycle), nil
}

// hpTrend solves (I + lambda*D'D) t = y, where D is the second-difference
// operator. The system is symmetric positive definite and pentadiagonal, so a
// banded Cholesky factorisation L*L' solves it in O(n).
func hpTrend(y []float64, lambda float64) []float64 {
	n := len(y)

	// Bands of I + lambda*D'D: diagonal, first and second sub-diagonals.
	d0 := make([]float64, n)
	d1 := make([]float64, n)
	d2 := make([]float64, n)
	for i := 0; i < n; i++ {
		var dd float64
		if i <= n-3 {
			dd++
		}
		if i >= 1 && i <= n-2 {
			dd += 4
		}
		if i >= 2 {
			dd++
		}
		d0[i] = 1 + lambda*dd

		if i <= n-2 {
			var od float64
			if i <= n-3 {
				od -= 2
			}
			if i >= 1 {
				od -= 2
			}
			d1[i] = lambda * od
		}
		if i <= n-3 {
			d2[i] = lambda
		}
	}

	// Factor: l0 on the diagonal, l1 and l2 below it.
	l0 := make([]float64, n)
	l1 := make([]float64, n)
	l2 := make([]float64, n)
	for i := 0; i < n; i++ {
		sq := d0[i]
		if i >= 1 {
			sq -= l1[i-1] * l1[i-1]
		}
		if i >= 2 {
			sq -= l2[i-2] * l2[i-2]
		}
		l0[i] = math.Sqrt(sq)

		if i <= n-2 {
			v := d1[i]
			if i >= 1 {
				v -= l2[i-1] * l1[i-1]
			}
			l1[i] = v / l0[i]
		}
		if i <= n-3 {
			l2[i] = d2[i] / l0[i]
		}
	}

	// Forward substitution: L z = y.
	z := make([]float64, n)
	for i := 0; i < n; i++ {
		v := y[i]
		if i >= 1 {
			v -= l1[i-1] * z[i-1]
		}
		if i >= 2 {
			v -= l2[i-2] * z[i-2]
		}
		z[i] = v / l0[i]
	}

	// Back substitution: L' t = z.
	t := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		v := z[i]
		if i <= n-2 {
			v -= l1[i] * t[i+1]
		}
		if i <= n-3 {
			v -= l2[i] * t[i+2]
		}
		t[i] = v / l0[i]
	}
	return t
}
