package stats

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/gofred/series"
)

// StationarityResult is the outcome of a unit-root or stationarity test.
type StationarityResult struct {
	Statistic    float64
	PValue       float64 // interpolated from tabulated critical values
	Lags         int
	NObs         int
	CriticalVals map[string]float64 // at 1%, 5% and 10%
	IsStationary bool               // at the 5% level
}

// ADF performs the Augmented Dickey-Fuller test with a constant. The null
// hypothesis is a unit root; a p-value under 0.05 suggests the series, for
// instance a filtered cycle, is stationary. maxLag <= 0 selects
// floor((n-1)^(1/3)) lagged differences. Returns nil for short series, missing
// values or a singular regression.
func ADF(s *series.Series, maxLag int) *StationarityResult {
	n := s.Len()
	if n < 10 || s.HasNaN() {
		return nil
	}
	if maxLag <= 0 {
		maxLag = int(math.Floor(math.Pow(float64(n-1), 1.0/3.0)))
	}
	if maxLag >= n-1 {
		maxLag = n - 2
	}
	nObs := n - maxLag - 1
	if nObs < 10 {
		return nil
	}

	// Δy_t = α + β y_{t-1} + Σ γ_j Δy_{t-j} + ε_t, testing β = 0.
	diff := s.Diff().Values
	x := mat.NewDense(nObs, 2+maxLag, nil)
	y := make([]float64, nObs)
	for i := 0; i < nObs; i++ {
		t := i + maxLag
		y[i] = diff[t]
		x.Set(i, 0, 1)
		x.Set(i, 1, s.Values[t])
		for j := 1; j <= maxLag; j++ {
			x.Set(i, 1+j, diff[t-j])
		}
	}
	coef, se, ok := ols(x, y)
	if !ok || se[1] == 0 {
		return nil
	}

	tStat := coef[1] / se[1]
	p := mackinnonPValue(tStat)
	return &StationarityResult{
		Statistic: tStat,
		PValue:    p,
		Lags:      maxLag,
		NObs:      nObs,
		CriticalVals: map[string]float64{
			"1%":  -3.43,
			"5%":  -2.86,
			"10%": -2.57,
		},
		IsStationary: p < 0.05,
	}
}

// KPSS performs the Kwiatkowski-Phillips-Schmidt-Shin test. The null
// hypothesis is stationarity around a level (regression "c") or a linear
// trend ("ct"). nlags <= 0 selects ceil(12*(n/100)^(1/4)) Newey-West lags.
func KPSS(s *series.Series, regression string, nlags int) *StationarityResult {
	n := s.Len()
	if n < 10 || s.HasNaN() {
		return nil
	}
	if nlags <= 0 {
		nlags = int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
	}
	if nlags >= n {
		nlags = n - 1
	}

	residuals := make([]float64, n)
	if regression == "ct" {
		index := make([]float64, n)
		for i := range index {
			index[i] = float64(i)
		}
		a, b := stat.LinearRegression(index, s.Values, nil, false)
		for i, v := range s.Values {
			residuals[i] = v - a - b*float64(i)
		}
	} else {
		mean := stat.Mean(s.Values, nil)
		for i, v := range s.Values {
			residuals[i] = v - mean
		}
	}

	// Long-run variance with Bartlett weights.
	s2 := 0.0
	for _, r := range residuals {
		s2 += r * r
	}
	s2 /= float64(n)
	for l := 1; l <= nlags; l++ {
		cov := 0.0
		for i := l; i < n; i++ {
			cov += residuals[i] * residuals[i-l]
		}
		weight := 1 - float64(l)/float64(nlags+1)
		s2 += 2 * weight * cov / float64(n)
	}
	if s2 <= 0 {
		return nil
	}

	eta, partial := 0.0, 0.0
	for _, r := range residuals {
		partial += r
		eta += partial * partial
	}
	kpss := eta / (float64(n) * float64(n) * s2)

	critical := map[string]float64{"10%": 0.347, "5%": 0.463, "1%": 0.739}
	if regression == "ct" {
		critical = map[string]float64{"10%": 0.119, "5%": 0.146, "1%": 0.216}
	}
	p := kpssPValue(kpss, regression)
	return &StationarityResult{
		Statistic:    kpss,
		PValue:       p,
		Lags:         nlags,
		NObs:         n,
		CriticalVals: critical,
		IsStationary: p >= 0.05,
	}
}

// ols returns least-squares coefficients and their standard errors.
func ols(x *mat.Dense, y []float64) (coef, se []float64, ok bool) {
	n, k := x.Dims()
	if n <= k {
		return nil, nil, false
	}

	var xtx, inv mat.Dense
	xtx.Mul(x.T(), x)
	if err := inv.Inverse(&xtx); err != nil {
		return nil, nil, false
	}

	yv := mat.NewVecDense(n, y)
	var xty, beta, fitted, resid mat.VecDense
	xty.MulVec(x.T(), yv)
	beta.MulVec(&inv, &xty)
	fitted.MulVec(x, &beta)
	resid.SubVec(yv, &fitted)
	s2 := mat.Dot(&resid, &resid) / float64(n-k)

	coef = make([]float64, k)
	se = make([]float64, k)
	for i := 0; i < k; i++ {
		coef[i] = beta.AtVec(i)
		se[i] = math.Sqrt(s2 * inv.At(i, i))
	}
	return coef, se, true
}

// mackinnonPValue interpolates the asymptotic MacKinnon (1994) critical values
// for the constant-only regression.
func mackinnonPValue(tStat float64) float64 {
	switch {
	case tStat < -3.96:
		return 0.001
	case tStat < -3.43:
		return 0.01
	case tStat < -2.86:
		return 0.05
	case tStat < -2.57:
		return 0.10
	case tStat < -1.94:
		return 0.25
	case tStat < -1.62:
		return 0.50
	default:
		return math.Min(0.5+(tStat+1.62)*0.25, 0.99)
	}
}

func kpssPValue(value float64, regression string) float64 {
	if regression == "ct" {
		switch {
		case value > 0.216:
			return 0.01
		case value > 0.146:
			return 0.05
		case value > 0.119:
			return 0.10
		default:
			return math.Min(0.10+(0.119-value)*2, 0.99)
		}
	}
	switch {
	case value > 0.739:
		return 0.01
	case value > 0.463:
		return 0.05
	case value > 0.347:
		return 0.10
	default:
		return math.Min(0.10+(0.347-value)*0.5, 0.99)
	}
}
