// Package filter separates a series into trend and cyclical components.
//
// Every filter returns a Result whose Cycle is titled
// "<title> - deviation relative to trend (<method>)" with units
// "Deviation relative to trend", and whose Trend is titled
// "<title> - trend (<method>)". Series with missing observations are rejected
// with ErrMissingValues; drop or fill them first.
//
// # Hodrick-Prescott
//
//	r, err := filter.HP(gdp.Log(), filter.DefaultLambda(gdp.Frequency))
//	fmt.Println(r.Cycle.Std())
//
// # Bandpass
//
// The Baxter-King filter loses K observations at each end; the
// Christiano-Fitzgerald filter uses the whole sample at every date:
//
//	band := filter.DefaultBK(series.Quarterly) // 6 to 32 quarters, K = 12
//	bk, err := filter.BK(s, band.Low, band.High, band.K)
//	cf, err := filter.CF(s, 6, 32, false)
//
// # Simple Filters
//
//	fd, err := filter.FirstDiff(s)
//	lt, err := filter.LinearTrend(s)
//
// Using conventional parameters for one frequency on data of another (for
// example lambda 1600 on monthly data) logs a warning but is not an error.
package filter
