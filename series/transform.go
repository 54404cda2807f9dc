package series

import (
	"math"
	"time"
)

// Method selects which date a percentage change is stamped with.
type Method int

const (
	// Backward stamps the change from t-k to t at t.
	Backward Method = iota
	// Forward stamps the change from t to t+k at t.
	Forward
)

// PCOptions configures a percentage change.
type PCOptions struct {
	Log        bool   // 100*log(x_t/x_{t-1}) instead of 100*(x_t/x_{t-1}-1)
	Method     Method // date stamping
	Annualized bool   // multiply by the number of observations per year
}

// DefaultPCOptions returns log, backward, non-annualized percentage change options.
func DefaultPCOptions() PCOptions {
	return PCOptions{Log: true, Method: Backward}
}

// PC computes the percentage change from the preceding period.
func (s *Series) PC(opts PCOptions) (*Series, error) {
	if opts.Annualized && s.Frequency == Unknown {
		return nil, ErrUnknownFrequency
	}
	out := s.percentChange(1, opts.Log, opts.Method)
	if opts.Annualized {
		for i := range out.Values {
			out.Values[i] *= float64(s.Frequency)
		}
	}
	out.Title = "Percentage Change in " + s.Title
	return out, nil
}

// APC computes the percentage change over one year, i.e. against the observation
// one frequency-length earlier.
func (s *Series) APC(log bool, method Method) (*Series, error) {
	if s.Frequency == Unknown {
		return nil, ErrUnknownFrequency
	}
	out := s.percentChange(int(s.Frequency), log, method)
	out.Title = "Annual Percentage Change in " + s.Title
	return out, nil
}

func (s *Series) percentChange(lag int, log bool, method Method) *Series {
	out := s.meta()
	out.Units = "Percent"
	n := len(s.Values)
	if lag <= 0 || n <= lag {
		out.Dates = []time.Time{}
		out.Values = []float64{}
		return out
	}

	out.Values = make([]float64, n-lag)
	for i := lag; i < n; i++ {
		ratio := s.Values[i] / s.Values[i-lag]
		if log {
			out.Values[i-lag] = 100 * math.Log(ratio)
		} else {
			out.Values[i-lag] = 100 * (ratio - 1)
		}
	}

	out.Dates = make([]time.Time, n-lag)
	if method == Forward {
		copy(out.Dates, s.Dates[:n-lag])
	} else {
		copy(out.Dates, s.Dates[lag:])
	}
	return out
}

// MA1Side computes a one-sided moving average over the current and previous
// length-1 observations.
func (s *Series) MA1Side(length int) *Series {
	out := s.meta()
	out.Title = s.Title + " (1-sided moving average)"
	if length <= 0 || length > len(s.Values) {
		out.Dates = []time.Time{}
		out.Values = []float64{}
		return out
	}

	out.Values = rollingMean(s.Values, length)
	out.Dates = make([]time.Time, len(out.Values))
	copy(out.Dates, s.Dates[length-1:])
	return out
}

// MA2Side computes a two-sided moving average spanning 2*length observations:
// the length observations before each date and the length-1 after it.
func (s *Series) MA2Side(length int) *Series {
	out := s.meta()
	out.Title = s.Title + " (2-sided moving average)"
	n := len(s.Values)
	if length <= 0 || 2*length >= n {
		out.Dates = []time.Time{}
		out.Values = []float64{}
		return out
	}

	// The last window is dropped so that dates line up with [length, n-length).
	means := rollingMean(s.Values, 2*length)
	out.Values = means[:n-2*length]
	out.Dates = make([]time.Time, n-2*length)
	copy(out.Dates, s.Dates[length:n-length])
	return out
}

// rollingMean returns the mean of every full window of the given size.
// A window containing a missing value has a missing mean.
func rollingMean(values []float64, window int) []float64 {
	result := make([]float64, len(values)-window+1)
	sum := 0.0
	missing := 0

	add := func(v float64, sign float64) {
		if math.IsNaN(v) {
			missing += int(sign)
			return
		}
		sum += sign * v
	}
	mean := func() float64 {
		if missing > 0 {
			return math.NaN()
		}
		return sum / float64(window)
	}

	for i := 0; i < window; i++ {
		add(values[i], 1)
	}
	result[0] = mean()

	for i := window; i < len(values); i++ {
		add(values[i-window], -1)
		add(values[i], 1)
		result[i-window+1] = mean()
	}
	return result
}
