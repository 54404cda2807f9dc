package series

import (
	"strings"
)

// Frequency is the number of observations per year.
type Frequency int

// Supported frequencies.
const (
	Unknown    Frequency = 0
	Annual     Frequency = 1
	SemiAnnual Frequency = 2
	Quarterly  Frequency = 4
	Monthly    Frequency = 12
	Biweekly   Frequency = 26
	Weekly     Frequency = 52
	Daily      Frequency = 365
)

// ParseFrequency converts a FRED frequency label into a Frequency.
// Both long names ("Quarterly, End of Period") and short codes ("Q") are accepted.
func ParseFrequency(s string) Frequency {
	s = strings.TrimSpace(s)
	switch strings.ToUpper(s) {
	case "D":
		return Daily
	case "W":
		return Weekly
	case "BW":
		return Biweekly
	case "M":
		return Monthly
	case "Q":
		return Quarterly
	case "SA":
		return SemiAnnual
	case "A":
		return Annual
	}

	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "daily"):
		return Daily
	case strings.HasPrefix(lower, "weekly"):
		return Weekly
	case strings.HasPrefix(lower, "biweekly"):
		return Biweekly
	case strings.HasPrefix(lower, "monthly"):
		return Monthly
	case strings.HasPrefix(lower, "quarterly"):
		return Quarterly
	case strings.HasPrefix(lower, "semiannual"):
		return SemiAnnual
	case strings.HasPrefix(lower, "annual"):
		return Annual
	}
	return Unknown
}

// String returns the FRED long name of the frequency.
func (f Frequency) String() string {
	switch f {
	case Daily:
		return "Daily"
	case Weekly:
		return "Weekly"
	case Biweekly:
		return "Biweekly"
	case Monthly:
		return "Monthly"
	case Quarterly:
		return "Quarterly"
	case SemiAnnual:
		return "Semiannual"
	case Annual:
		return "Annual"
	default:
		return "Unknown"
	}
}

// Short returns the FRED short code of the frequency.
func (f Frequency) Short() string {
	switch f {
	case Daily:
		return "d"
	case Weekly:
		return "w"
	case Biweekly:
		return "bw"
	case Monthly:
		return "m"
	case Quarterly:
		return "q"
	case SemiAnnual:
		return "sa"
	case Annual:
		return "a"
	default:
		return ""
	}
}
