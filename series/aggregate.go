package series

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// AggregateMethod selects how observations within a period are combined.
type AggregateMethod int

const (
	// Average takes the mean of the observations in the period.
	Average AggregateMethod = iota
	// Sum adds the observations in the period.
	Sum
	// End takes the last observation in the period.
	End
)

// ErrUnsupportedConversion is returned by Aggregate for conversions to an
// equal or higher frequency, or from an unknown frequency.
var ErrUnsupportedConversion = errors.New("unsupported frequency conversion")

// ParseAggregateMethod converts "average", "sum" or "end" (also FRED's
// "avg" and "eop") into an AggregateMethod.
func ParseAggregateMethod(s string) (AggregateMethod, error) {
	switch s {
	case "average", "avg", "":
		return Average, nil
	case "sum":
		return Sum, nil
	case "end", "eop":
		return End, nil
	}
	return Average, fmt.Errorf("unknown aggregation method %q", s)
}

// Aggregate converts the series to a lower frequency. Each output observation
// is dated at the first day of its period. When the source frequency divides the
// target evenly (monthly to quarterly, quarterly to annual, ...) only complete
// periods are kept; daily and weekly data are aggregated over whatever
// observations fall in each period.
func (s *Series) Aggregate(to Frequency, method AggregateMethod) (*Series, error) {
	ratio, err := conversionRatio(s.Frequency, to)
	if err != nil {
		return nil, err
	}

	out := s.meta()
	out.Frequency = to
	out.Dates = []time.Time{}
	out.Values = []float64{}

	flush := func(period time.Time, group []float64) {
		if len(group) == 0 || (ratio > 0 && len(group) != ratio) {
			return
		}
		out.Dates = append(out.Dates, period)
		out.Values = append(out.Values, reduce(group, method))
	}

	var (
		current time.Time
		group   []float64
	)
	for i, d := range s.Dates {
		period := periodStart(d, to)
		if !period.Equal(current) {
			flush(current, group)
			current = period
			group = group[:0]
		}
		group = append(group, s.Values[i])
	}
	flush(current, group)

	return out, nil
}

// MonthToQuarter converts monthly data to quarterly data.
func (s *Series) MonthToQuarter(method AggregateMethod) (*Series, error) {
	if s.Frequency != Monthly {
		return nil, fmt.Errorf("%w: series is %s, not Monthly", ErrUnsupportedConversion, s.Frequency)
	}
	return s.Aggregate(Quarterly, method)
}

// MonthToAnnual converts monthly data to annual data.
func (s *Series) MonthToAnnual(method AggregateMethod) (*Series, error) {
	if s.Frequency != Monthly {
		return nil, fmt.Errorf("%w: series is %s, not Monthly", ErrUnsupportedConversion, s.Frequency)
	}
	return s.Aggregate(Annual, method)
}

// QuarterToAnnual converts quarterly data to annual data.
func (s *Series) QuarterToAnnual(method AggregateMethod) (*Series, error) {
	if s.Frequency != Quarterly {
		return nil, fmt.Errorf("%w: series is %s, not Quarterly", ErrUnsupportedConversion, s.Frequency)
	}
	return s.Aggregate(Annual, method)
}

// conversionRatio returns the number of source observations per target period,
// or 0 when that number varies (daily, weekly and biweekly sources).
func conversionRatio(from, to Frequency) (int, error) {
	switch to {
	case Monthly, Quarterly, SemiAnnual, Annual:
	default:
		return 0, fmt.Errorf("%w: cannot aggregate to %s", ErrUnsupportedConversion, to)
	}
	if from == Unknown || from <= to {
		return 0, fmt.Errorf("%w: %s to %s", ErrUnsupportedConversion, from, to)
	}
	if from == Daily || from == Weekly || from == Biweekly {
		return 0, nil
	}
	if int(from)%int(to) != 0 {
		return 0, fmt.Errorf("%w: %s to %s", ErrUnsupportedConversion, from, to)
	}
	return int(from) / int(to), nil
}

// periodStart returns the first day of the period of frequency f containing d.
func periodStart(d time.Time, f Frequency) time.Time {
	year, month := d.Year(), int(d.Month())
	switch f {
	case Monthly:
	case Quarterly:
		month = (month-1)/3*3 + 1
	case SemiAnnual:
		month = (month-1)/6*6 + 1
	default:
		month = 1
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, d.Location())
}

func reduce(group []float64, method AggregateMethod) float64 {
	switch method {
	case End:
		return group[len(group)-1]
	case Sum:
		sum := 0.0
		for _, v := range group {
			sum += v
		}
		return sum
	default:
		sum := 0.0
		for _, v := range group {
			sum += v
		}
		if len(group) == 0 {
			return math.NaN()
		}
		return sum / float64(len(group))
	}
}
