package series

import (
	"math"
	"testing"
	"time"
)

// monthly builds a monthly series starting at the given year and month.
func monthly(year int, month time.Month, values ...float64) *Series {
	dates := make([]time.Time, len(values))
	for i := range dates {
		dates[i] = time.Date(year, month+time.Month(i), 1, 0, 0, 0, 0, time.UTC)
	}
	return &Series{
		ID:        "TEST",
		Title:     "Test Series",
		Units:     "Index",
		Frequency: Monthly,
		Dates:     dates,
		Values:    values,
	}
}

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func assertValues(t *testing.T, got, expected []float64) {
	t.Helper()
	if len(got) != len(expected) {
		t.Fatalf("Expected length %d, got %d", len(expected), len(got))
	}
	for i, v := range got {
		if math.IsNaN(expected[i]) {
			if !math.IsNaN(v) {
				t.Errorf("Expected NaN at index %d, got %f", i, v)
			}
			continue
		}
		if math.Abs(v-expected[i]) > 1e-9 {
			t.Errorf("Expected %f at index %d, got %f", expected[i], i, v)
		}
	}
}

func TestNew(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	s := New(values)

	if s.Len() != 5 {
		t.Errorf("Expected length 5, got %d", s.Len())
	}
	if len(s.Dates) != 5 {
		t.Errorf("Expected 5 dates, got %d", len(s.Dates))
	}
	if !s.Dates[1].After(s.Dates[0]) {
		t.Error("Expected increasing placeholder dates")
	}
}

func TestNewWithDatesLengthMismatch(t *testing.T) {
	_, err := NewWithDates([]time.Time{date("2020-01-01")}, []float64{1, 2})
	if err != ErrLengthMismatch {
		t.Errorf("Expected ErrLengthMismatch, got %v", err)
	}
}

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"simple", []float64{1, 2, 3, 4, 5}, 3.0},
		{"single", []float64{5}, 5.0},
		{"negative", []float64{-1, -2, -3}, -2.0},
		{"empty", []float64{}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New(tt.values).Mean()
			if math.Abs(result-tt.expected) > 1e-10 {
				t.Errorf("Expected mean %f, got %f", tt.expected, result)
			}
		})
	}
}

func TestVarianceStd(t *testing.T) {
	s := New([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	expected := 4.571428571428571

	if math.Abs(s.Variance()-expected) > 1e-10 {
		t.Errorf("Expected variance %f, got %f", expected, s.Variance())
	}
	if math.Abs(s.Std()-math.Sqrt(expected)) > 1e-10 {
		t.Errorf("Expected std %f, got %f", math.Sqrt(expected), s.Std())
	}
}

func TestMinMaxMedian(t *testing.T) {
	s := New([]float64{5, 2, 8, 1, 9, 3})

	if s.Min() != 1 {
		t.Errorf("Expected min 1, got %f", s.Min())
	}
	if s.Max() != 9 {
		t.Errorf("Expected max 9, got %f", s.Max())
	}
	if s.Median() != 4 {
		t.Errorf("Expected median 4, got %f", s.Median())
	}
	if !math.IsNaN(New(nil).Median()) {
		t.Error("Expected NaN median for empty series")
	}
}

func TestDateRange(t *testing.T) {
	s := monthly(2020, time.January, 1, 2, 3)
	if got := s.DateRange(); got != "2020-01-01 to 2020-03-01" {
		t.Errorf("Unexpected date range %q", got)
	}
	if got := s.Slice(0, 0).DateRange(); got != "Null" {
		t.Errorf("Expected Null for empty series, got %q", got)
	}
}

func TestCopy(t *testing.T) {
	s := monthly(2020, time.January, 1, 2, 3)
	copied := s.Copy()

	s.Values[0] = 100
	s.Dates[0] = date("1999-01-01")

	if copied.Values[0] != 1 {
		t.Error("Copy values were modified when original changed")
	}
	if !copied.Dates[0].Equal(date("2020-01-01")) {
		t.Error("Copy dates were modified when original changed")
	}
	if copied.Title != s.Title || copied.Frequency != Monthly {
		t.Error("Copy lost metadata")
	}
}

func TestSlice(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 5})
	assertValues(t, s.Slice(1, 4).Values, []float64{2, 3, 4})
	assertValues(t, s.Slice(-3, 99).Values, []float64{1, 2, 3, 4, 5})
	if s.Slice(3, 2).Len() != 0 {
		t.Error("Expected empty slice when start >= end")
	}
}

func TestRecent(t *testing.T) {
	s := monthly(2020, time.January, 1, 2, 3, 4, 5)
	recent := s.Recent(2)

	assertValues(t, recent.Values, []float64{4, 5})
	if !recent.Dates[0].Equal(date("2020-04-01")) {
		t.Errorf("Expected first date 2020-04-01, got %s", recent.Dates[0].Format(DateLayout))
	}
	if s.Recent(10).Len() != 5 {
		t.Error("Expected Recent to cap at series length")
	}
}

func TestWindow(t *testing.T) {
	s := monthly(2020, time.January, 1, 2, 3, 4, 5, 6)

	tests := []struct {
		name       string
		start, end time.Time
		expected   []float64
	}{
		{"inclusive", date("2020-02-01"), date("2020-04-01"), []float64{2, 3, 4}},
		{"between observations", date("2020-01-15"), date("2020-04-15"), []float64{2, 3, 4}},
		{"open start", time.Time{}, date("2020-02-01"), []float64{1, 2}},
		{"open end", date("2020-05-01"), time.Time{}, []float64{5, 6}},
		{"outside", date("2021-01-01"), date("2021-12-01"), []float64{}},
		{"reversed", date("2020-05-01"), date("2020-02-01"), []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.Window(tt.start, tt.end)
			assertValues(t, w.Values, tt.expected)
			if len(w.Dates) != len(w.Values) {
				t.Errorf("Dates and values out of sync: %d vs %d", len(w.Dates), len(w.Values))
			}
		})
	}
}

func TestDropNaN(t *testing.T) {
	s := monthly(2020, time.January, 1, math.NaN(), 3)
	clean := s.DropNaN()

	assertValues(t, clean.Values, []float64{1, 3})
	if !clean.Dates[1].Equal(date("2020-03-01")) {
		t.Errorf("Expected 2020-03-01, got %s", clean.Dates[1].Format(DateLayout))
	}
	if !s.HasNaN() || clean.HasNaN() {
		t.Error("HasNaN reported incorrectly")
	}
}

func TestDiff(t *testing.T) {
	s := monthly(2020, time.January, 1, 3, 6, 10, 15)
	diff := s.Diff()

	assertValues(t, diff.Values, []float64{2, 3, 4, 5})
	if !diff.Dates[0].Equal(date("2020-02-01")) {
		t.Errorf("Expected diff to start at 2020-02-01, got %s", diff.Dates[0].Format(DateLayout))
	}
}

func TestLog(t *testing.T) {
	s := monthly(2020, time.January, 1, math.E, math.E*math.E, 0)
	logged := s.Log()

	assertValues(t, logged.Values, []float64{0, 1, 2, math.NaN()})
	if logged.Units != "log Index" {
		t.Errorf("Unexpected units %q", logged.Units)
	}
	if logged.Title != "Log Test Series" {
		t.Errorf("Unexpected title %q", logged.Title)
	}
	if s.Values[3] != 0 {
		t.Error("Log modified its receiver")
	}
}

func TestWithData(t *testing.T) {
	s := monthly(2020, time.January, 1, 2)
	out, err := s.WithData([]time.Time{date("2021-01-01")}, []float64{9})
	if err != nil {
		t.Fatalf("WithData: %v", err)
	}
	if out.Title != s.Title || out.Values[0] != 9 {
		t.Error("WithData did not keep metadata or set values")
	}
	if _, err := s.WithData(nil, []float64{1}); err != ErrLengthMismatch {
		t.Errorf("Expected ErrLengthMismatch, got %v", err)
	}
}

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		in       string
		expected Frequency
	}{
		{"Quarterly", Quarterly},
		{"Quarterly, End of Period", Quarterly},
		{"Monthly", Monthly},
		{"Weekly, Ending Friday", Weekly},
		{"Biweekly, Ending Wednesday", Biweekly},
		{"BW", Biweekly},
		{"W", Weekly},
		{"Daily, 7-Day", Daily},
		{"Annual", Annual},
		{"Semiannual", SemiAnnual},
		{"Q", Quarterly},
		{"m", Monthly},
		{"SA", SemiAnnual},
		{"Not a frequency", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseFrequency(tt.in); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}
