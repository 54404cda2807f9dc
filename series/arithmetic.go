package series

import (
	"time"
)

// Plus adds the values of b to a.
func Plus(a, b *Series) (*Series, error) {
	return combine(a, b, "plus", "+", func(x, y float64) float64 { return x + y })
}

// Minus subtracts the values of b from a.
func Minus(a, b *Series) (*Series, error) {
	return combine(a, b, "minus", "-", func(x, y float64) float64 { return x - y })
}

// Times multiplies the values of a and b.
func Times(a, b *Series) (*Series, error) {
	return combine(a, b, "times", "x", func(x, y float64) float64 { return x * y })
}

// Divide divides the values of a by b.
func Divide(a, b *Series) (*Series, error) {
	return combine(a, b, "divided by", "/", func(x, y float64) float64 { return x / y })
}

// SameDates reports whether a and b have identical observation dates.
func SameDates(a, b *Series) bool {
	if len(a.Dates) != len(b.Dates) {
		return false
	}
	for i := range a.Dates {
		if !a.Dates[i].Equal(b.Dates[i]) {
			return false
		}
	}
	return true
}

// combine applies op element-wise. Both series must share dates; nothing stops
// combining series whose units make no sense together.
func combine(a, b *Series, word, symbol string, op func(x, y float64) float64) (*Series, error) {
	if !SameDates(a, b) {
		return nil, ErrDateMismatch
	}

	values := make([]float64, len(a.Values))
	for i := range a.Values {
		values[i] = op(a.Values[i], b.Values[i])
	}
	dates := make([]time.Time, len(a.Dates))
	copy(dates, a.Dates)

	return &Series{
		ID:          a.ID + " and " + b.ID,
		Title:       a.Title + " " + word + " " + b.Title,
		Source:      joinIfDifferent(a.Source, b.Source),
		Units:       a.Units + " " + symbol + " " + b.Units,
		LastUpdated: joinIfDifferent(a.LastUpdated, b.LastUpdated),
		Frequency:   a.Frequency,
		Dates:       dates,
		Values:      values,
	}, nil
}

func joinIfDifferent(a, b string) string {
	if a == b {
		return a
	}
	return a + " and " + b
}

// Equalize restricts every series to the smallest window common to all of them.
// If any series is empty, every result is empty.
func Equalize(list ...*Series) []*Series {
	out := make([]*Series, len(list))
	var start, end time.Time
	for _, s := range list {
		if s.Len() == 0 {
			for i, s := range list {
				out[i] = s.Slice(0, 0)
			}
			return out
		}
		first, last := s.Dates[0], s.Dates[len(s.Dates)-1]
		if start.IsZero() || first.After(start) {
			start = first
		}
		if end.IsZero() || last.Before(end) {
			end = last
		}
	}

	for i, s := range list {
		out[i] = s.Window(start, end)
	}
	return out
}
