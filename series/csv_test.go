package series

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestReadCSV(t *testing.T) {
	input := `observation_date,GDPC1
2020-01-01,19000.5
2020-04-01,.
2020-07-01,18500.25
2020-10-01,18700
`
	s, err := ReadCSV(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	if s.ID != "GDPC1" {
		t.Errorf("Expected ID GDPC1, got %q", s.ID)
	}
	assertValues(t, s.Values, []float64{19000.5, math.NaN(), 18500.25, 18700})
	if s.Frequency != Quarterly {
		t.Errorf("Expected Quarterly, got %s", s.Frequency)
	}
}

func TestReadCSVOptions(t *testing.T) {
	input := "ds;other;y\n2020-01-01;x;1\n2020-02-01;x;NA\n2020-03-01;x;3\n"
	opts := &CSVOptions{
		ValueColumn: "y",
		Delimiter:   ';',
		SkipMissing: true,
	}

	s, err := ReadCSV(strings.NewReader(input), opts)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	assertValues(t, s.Values, []float64{1, 3})
	if s.ID != "y" {
		t.Errorf("Expected ID y, got %q", s.ID)
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  *CSVOptions
	}{
		{"no date column", "when,value\n2020-01-01,1\n", nil},
		{"missing value column", "date,a\n2020-01-01,1\n", &CSVOptions{ValueColumn: "b"}},
		{"bad date", "date,a\n01/02/2020,1\n", nil},
		{"bad value", "date,a\n2020-01-01,abc\n", nil},
		{"no rows", "date,a\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.input), tt.opts); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestWriteCSV(t *testing.T) {
	s := monthly(2020, time.January, 1.5, math.NaN(), 3)
	s.ID = "CPI"

	var buf bytes.Buffer
	if err := WriteCSV(&buf, s); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	expected := "observation_date,CPI\n2020-01-01,1.5\n2020-02-01,\n2020-03-01,3\n"
	if buf.String() != expected {
		t.Errorf("Expected:\n%s\ngot:\n%s", expected, buf.String())
	}
}

func TestWriteColumns(t *testing.T) {
	a := monthly(2020, time.January, 1, 2)
	a.ID = ""
	b := monthly(2020, time.January, 3, 4)
	b.ID = "B"

	var buf bytes.Buffer
	if err := WriteColumns(&buf, a, b); err != nil {
		t.Fatalf("WriteColumns: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "observation_date,value1,B\n") {
		t.Errorf("Unexpected header in %q", buf.String())
	}

	c := monthly(2021, time.January, 1, 2)
	if err := WriteColumns(&buf, a, c); err != ErrDateMismatch {
		t.Errorf("Expected ErrDateMismatch, got %v", err)
	}
}

func TestSaveAndLoadCSV(t *testing.T) {
	s := monthly(2020, time.January, 1, 2, 3)
	s.ID = "ROUND"
	filename := filepath.Join(t.TempDir(), "round.csv")

	if err := SaveCSV(s, filename); err != nil {
		t.Fatalf("SaveCSV: %v", err)
	}
	loaded, err := LoadCSV(filename, nil)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if loaded.ID != "ROUND" || loaded.Frequency != Monthly {
		t.Errorf("Unexpected metadata: ID %q, frequency %s", loaded.ID, loaded.Frequency)
	}
	if !SameDates(s, loaded) {
		t.Error("Loaded dates differ from saved dates")
	}
	assertValues(t, loaded.Values, s.Values)

	if _, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv"), nil); !os.IsNotExist(err) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestInferFrequency(t *testing.T) {
	tests := []struct {
		name     string
		step     func(time.Time) time.Time
		expected Frequency
	}{
		{"daily", func(d time.Time) time.Time { return d.AddDate(0, 0, 1) }, Daily},
		{"weekly", func(d time.Time) time.Time { return d.AddDate(0, 0, 7) }, Weekly},
		{"biweekly", func(d time.Time) time.Time { return d.AddDate(0, 0, 14) }, Biweekly},
		{"monthly", func(d time.Time) time.Time { return d.AddDate(0, 1, 0) }, Monthly},
		{"quarterly", func(d time.Time) time.Time { return d.AddDate(0, 3, 0) }, Quarterly},
		{"semiannual", func(d time.Time) time.Time { return d.AddDate(0, 6, 0) }, SemiAnnual},
		{"annual", func(d time.Time) time.Time { return d.AddDate(1, 0, 0) }, Annual},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates := []time.Time{date("2019-01-01")}
			for i := 0; i < 9; i++ {
				dates = append(dates, tt.step(dates[len(dates)-1]))
			}
			if got := InferFrequency(dates); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}

	if InferFrequency([]time.Time{date("2020-01-01")}) != Unknown {
		t.Error("Expected Unknown for a single date")
	}
}
