// Package recession provides the NBER US business-cycle chronology.
package recession

import (
	"time"

	"github.com/sartorproj/gofred/series"
)

// Period is a recession running from the business-cycle peak to the trough.
// A zero Trough marks a recession that has not ended.
type Period struct {
	Peak   time.Time
	Trough time.Time
}

// Open reports whether the recession has no trough yet.
func (p Period) Open() bool {
	return p.Trough.IsZero()
}

// Contains reports whether t falls within the period, inclusive of both ends.
func (p Period) Contains(t time.Time) bool {
	if t.Before(p.Peak) {
		return false
	}
	return p.Open() || !t.After(p.Trough)
}

// String formats the period as "peak to trough".
func (p Period) String() string {
	end := "present"
	if !p.Open() {
		end = p.Trough.Format(series.DateLayout)
	}
	return p.Peak.Format(series.DateLayout) + " to " + end
}

func month(year int, m time.Month) time.Time {
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

// nber lists peaks and troughs as dated by the NBER Business Cycle Dating Committee.
var nber = []Period{
	{month(1857, time.June), month(1858, time.December)},
	{month(1860, time.October), month(1861, time.June)},
	{month(1865, time.April), month(1867, time.December)},
	{month(1869, time.June), month(1870, time.December)},
	{month(1873, time.October), month(1879, time.March)},
	{month(1882, time.March), month(1885, time.May)},
	{month(1887, time.March), month(1888, time.April)},
	{month(1890, time.July), month(1891, time.May)},
	{month(1893, time.January), month(1894, time.June)},
	{month(1895, time.December), month(1897, time.June)},
	{month(1899, time.June), month(1900, time.December)},
	{month(1902, time.September), month(1904, time.August)},
	{month(1907, time.May), month(1908, time.June)},
	{month(1910, time.January), month(1912, time.January)},
	{month(1913, time.January), month(1914, time.December)},
	{month(1918, time.August), month(1919, time.March)},
	{month(1920, time.January), month(1921, time.July)},
	{month(1923, time.May), month(1924, time.July)},
	{month(1926, time.October), month(1927, time.November)},
	{month(1929, time.August), month(1933, time.March)},
	{month(1937, time.May), month(1938, time.June)},
	{month(1945, time.February), month(1945, time.October)},
	{month(1948, time.November), month(1949, time.October)},
	{month(1953, time.July), month(1954, time.May)},
	{month(1957, time.August), month(1958, time.April)},
	{month(1960, time.April), month(1961, time.February)},
	{month(1969, time.December), month(1970, time.November)},
	{month(1973, time.November), month(1975, time.March)},
	{month(1980, time.January), month(1980, time.July)},
	{month(1981, time.July), month(1982, time.November)},
	{month(1990, time.July), month(1991, time.March)},
	{month(2001, time.March), month(2001, time.November)},
	{month(2007, time.December), month(2009, time.June)},
	{month(2020, time.February), month(2020, time.April)},
}

// Chronology returns every dated US recession, oldest first.
func Chronology() []Period {
	out := make([]Period, len(nber))
	copy(out, nber)
	return out
}

// Periods returns the recessions overlapping [start, end], clipped to that
// window. A zero start or end leaves that side open; an open recession clipped
// to a non-zero end finishes at end.
func Periods(start, end time.Time) []Period {
	return clip(nber, start, end)
}

// ForSeries returns the recessions overlapping the date range of s, clipped to it.
func ForSeries(s *series.Series) []Period {
	if s.Len() == 0 {
		return nil
	}
	return Periods(s.Dates[0], s.Dates[len(s.Dates)-1])
}

func clip(periods []Period, start, end time.Time) []Period {
	var out []Period
	for _, p := range periods {
		if !end.IsZero() && p.Peak.After(end) {
			continue
		}
		if !start.IsZero() && !p.Open() && p.Trough.Before(start) {
			continue
		}
		if !start.IsZero() && p.Peak.Before(start) {
			p.Peak = start
		}
		if !end.IsZero() && (p.Open() || p.Trough.After(end)) {
			p.Trough = end
		}
		out = append(out, p)
	}
	return out
}

// FromIndicator builds periods from a 0/1 recession indicator series such as
// FRED's USREC. Each run of ones becomes a period from its first to its last
// date; a run reaching the end of the series is left open. Missing
// observations end a run.
func FromIndicator(s *series.Series) []Period {
	var (
		out     []Period
		current *Period
	)
	for i, v := range s.Values {
		if v == 1 {
			if current == nil {
				current = &Period{Peak: s.Dates[i]}
			}
			current.Trough = s.Dates[i]
			continue
		}
		if current != nil {
			out = append(out, *current)
			current = nil
		}
	}
	if current != nil {
		current.Trough = time.Time{}
		out = append(out, *current)
	}
	return out
}

// Contains reports whether t falls within any of the periods.
func Contains(periods []Period, t time.Time) bool {
	for _, p := range periods {
		if p.Contains(t) {
			return true
		}
	}
	return false
}

// Indicator returns a 0/1 series on the dates of s marking observations that
// fall within a recession.
func Indicator(s *series.Series, periods []Period) *series.Series {
	values := make([]float64, s.Len())
	for i, d := range s.Dates {
		if Contains(periods, d) {
			values[i] = 1
		}
	}
	dates := make([]time.Time, len(s.Dates))
	copy(dates, s.Dates)
	out, _ := s.WithData(dates, values)
	out.ID = "Recession indicator for " + s.ID
	out.Title = "Recession Indicator"
	out.Units = "+1 or 0"
	return out
}
