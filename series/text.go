package series

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// ReadText parses the plain-text series format FRED serves for downloads:
// a block of "Key: value" header lines followed by a DATE/VALUE table.
func ReadText(r io.Reader) (*Series, error) {
	s := &Series{}
	scanner := bufio.NewScanner(r)

	inTable := false
	lastKey := ""
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			lastKey = ""
			continue
		}

		if inTable {
			fields := strings.Fields(text)
			if len(fields) < 2 {
				return nil, fmt.Errorf("line %d: expected date and value", line)
			}
			date, err := time.Parse(DateLayout, fields[0])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			value, err := ParseValue(fields[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			s.Dates = append(s.Dates, date)
			s.Values = append(s.Values, value)
			continue
		}

		if fields := strings.Fields(text); len(fields) >= 2 && fields[0] == "DATE" && fields[1] == "VALUE" {
			inTable = true
			continue
		}

		// Continuation of a multi-line header value, e.g. Notes.
		if text[0] == ' ' || text[0] == '\t' {
			if lastKey != "" {
				setHeader(s, lastKey, strings.TrimSpace(text), true)
			}
			continue
		}

		key, value, ok := strings.Cut(text, ":")
		if !ok {
			continue
		}
		lastKey = strings.TrimSpace(key)
		setHeader(s, lastKey, strings.TrimSpace(value), false)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !inTable {
		return nil, errors.New("no DATE VALUE table found")
	}
	if s.Frequency == Unknown {
		s.Frequency = InferFrequency(s.Dates)
	}
	return s, nil
}

func setHeader(s *Series, key, value string, appendValue bool) {
	var field *string
	switch key {
	case "Title":
		field = &s.Title
	case "Series ID":
		field = &s.ID
	case "Source":
		field = &s.Source
	case "Seasonal Adjustment":
		field = &s.SeasonalAdjustment
	case "Units":
		field = &s.Units
	case "Last Updated":
		field = &s.LastUpdated
	case "Notes":
		field = &s.Notes
	case "Frequency":
		s.Frequency = ParseFrequency(value)
		return
	default:
		return
	}
	if appendValue && *field != "" {
		*field += " " + value
		return
	}
	*field = value
}
