package series

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	DateColumn  string // Column name for dates (default: first of DATE, observation_date, date, ds)
	ValueColumn string // Column name for values (default: first non-date column)
	DateFormat  string // Date format (default: "2006-01-02")
	Delimiter   rune   // Field delimiter (default: ',')
	SkipMissing bool   // Drop missing observations instead of storing NaN
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		DateFormat: DateLayout,
		Delimiter:  ',',
	}
}

// LoadCSV loads a series from a CSV file such as the ones FRED offers for download.
func LoadCSV(filename string, opts *CSVOptions) (*Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file, opts)
}

// ReadCSV reads a series from CSV with a header row. The value column name
// becomes the series ID.
func ReadCSV(r io.Reader, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}
	layout := opts.DateFormat
	if layout == "" {
		layout = DateLayout
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	dateIdx, valueIdx := -1, -1
	for i, h := range header {
		h = strings.TrimSpace(strings.Trim(h, "\""))
		switch {
		case opts.DateColumn != "" && h == opts.DateColumn:
			dateIdx = i
		case opts.DateColumn == "" && dateIdx == -1 && isDateHeader(h):
			dateIdx = i
		case opts.ValueColumn != "" && h == opts.ValueColumn:
			valueIdx = i
		}
	}
	if dateIdx == -1 {
		return nil, errors.New("no date column found in CSV")
	}
	if valueIdx == -1 {
		if opts.ValueColumn != "" {
			return nil, fmt.Errorf("column %q not found in CSV", opts.ValueColumn)
		}
		for i := range header {
			if i != dateIdx {
				valueIdx = i
				break
			}
		}
	}
	if valueIdx == -1 {
		return nil, errors.New("no value column found in CSV")
	}

	s := &Series{ID: strings.TrimSpace(strings.Trim(header[valueIdx], "\""))}
	if s.ID == "VALUE" {
		s.ID = ""
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if dateIdx >= len(record) || valueIdx >= len(record) {
			return nil, fmt.Errorf("line %d: too few fields", line)
		}

		date, err := time.Parse(layout, strings.TrimSpace(record[dateIdx]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		value, err := ParseValue(record[valueIdx])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if math.IsNaN(value) && opts.SkipMissing {
			continue
		}
		s.Dates = append(s.Dates, date)
		s.Values = append(s.Values, value)
	}

	if len(s.Values) == 0 {
		return nil, errors.New("no valid data found in CSV")
	}
	s.Frequency = InferFrequency(s.Dates)
	return s, nil
}

func isDateHeader(h string) bool {
	switch strings.ToLower(h) {
	case "date", "observation_date", "ds":
		return true
	}
	return false
}

// ParseValue parses a FRED observation value. FRED marks missing values with ".".
func ParseValue(raw string) (float64, error) {
	raw = strings.TrimSpace(strings.Trim(raw, "\""))
	switch raw {
	case ".", "", "NA", "NaN", "#N/A", "null":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(raw, 64)
}

// InferFrequency guesses the frequency from the median spacing of dates.
func InferFrequency(dates []time.Time) Frequency {
	if len(dates) < 2 {
		return Unknown
	}
	gaps := make([]float64, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		gaps = append(gaps, dates[i].Sub(dates[i-1]).Hours()/24)
	}
	days := (&Series{Values: gaps}).Median()
	switch {
	case days <= 4:
		return Daily
	case days <= 8:
		return Weekly
	case days <= 16:
		return Biweekly
	case days <= 31:
		return Monthly
	case days <= 92:
		return Quarterly
	case days <= 184:
		return SemiAnnual
	case days <= 366:
		return Annual
	}
	return Unknown
}

// WriteCSV writes the series as "observation_date,<ID>" rows. Missing values
// are written as empty fields.
func WriteCSV(w io.Writer, s *Series) error {
	return WriteColumns(w, s)
}

// WriteColumns writes several series sharing the same dates as CSV columns.
func WriteColumns(w io.Writer, cols ...*Series) error {
	if len(cols) == 0 {
		return errors.New("no series to write")
	}
	for _, c := range cols[1:] {
		if !SameDates(cols[0], c) {
			return ErrDateMismatch
		}
	}

	writer := csv.NewWriter(w)
	header := make([]string, 0, len(cols)+1)
	header = append(header, "observation_date")
	for i, c := range cols {
		name := c.ID
		if name == "" {
			name = "value" + strconv.Itoa(i+1)
		}
		header = append(header, name)
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	row := make([]string, len(cols)+1)
	for i, d := range cols[0].Dates {
		row[0] = d.Format(DateLayout)
		for j, c := range cols {
			row[j+1] = formatValue(c.Values[i])
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SaveCSV saves a series to a CSV file.
func SaveCSV(s *Series, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if err := WriteCSV(writer, s); err != nil {
		return err
	}
	return writer.Flush()
}
