package series

import (
	"strings"
	"testing"
)

const sampleText = `Title:               Real Gross Domestic Product
Series ID:           GDPC1
Source:              U.S. Bureau of Economic Analysis
Release:             Gross Domestic Product
Seasonal Adjustment: Seasonally Adjusted Annual Rate
Frequency:           Quarterly
Units:               Billions of Chained 2012 Dollars
Date Range:          1947-01-01 to 1947-10-01
Last Updated:        2020-01-30 7:53 AM CST
Notes:               BEA Account Code: A191RX
                     Real gross domestic product is the inflation adjusted value.

DATE          VALUE
1947-01-01   2033.061
1947-04-01   2027.639
1947-07-01          .
1947-10-01   2056.508
`

func TestReadText(t *testing.T) {
	s, err := ReadText(strings.NewReader(sampleText))
	if err != nil {
		t.Fatalf("ReadText: %v", err)
	}

	checks := map[string][2]string{
		"ID":                 {"GDPC1", s.ID},
		"Title":              {"Real Gross Domestic Product", s.Title},
		"Source":             {"U.S. Bureau of Economic Analysis", s.Source},
		"SeasonalAdjustment": {"Seasonally Adjusted Annual Rate", s.SeasonalAdjustment},
		"Units":              {"Billions of Chained 2012 Dollars", s.Units},
		"LastUpdated":        {"2020-01-30 7:53 AM CST", s.LastUpdated},
		"Notes":              {"BEA Account Code: A191RX Real gross domestic product is the inflation adjusted value.", s.Notes},
	}
	for field, pair := range checks {
		if pair[0] != pair[1] {
			t.Errorf("%s: expected %q, got %q", field, pair[0], pair[1])
		}
	}

	if s.Frequency != Quarterly {
		t.Errorf("Expected Quarterly, got %s", s.Frequency)
	}
	if s.Len() != 4 {
		t.Fatalf("Expected 4 observations, got %d", s.Len())
	}
	if !s.HasNaN() {
		t.Error("Expected missing observation to be NaN")
	}
	if s.DateRange() != "1947-01-01 to 1947-10-01" {
		t.Errorf("Unexpected date range %q", s.DateRange())
	}
}

func TestReadTextErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no table", "Title: Something\nUnits: Percent\n"},
		{"bad date", "DATE VALUE\n1947/01/01 1.0\n"},
		{"bad value", "DATE VALUE\n1947-01-01 abc\n"},
		{"missing value", "DATE VALUE\n1947-01-01\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadText(strings.NewReader(tt.input)); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}
