// Package gofred retrieves macroeconomic time series from the Federal Reserve
// Economic Data (FRED) service and prepares them for business-cycle analysis.
//
// # Features
//
//   - Series metadata, observations and ALFRED vintages from the FRED API
//   - Dated series with arithmetic, windowing and frequency conversion
//   - Percentage changes, moving averages and per-capita adjustment
//   - Trend/cycle filters: Hodrick-Prescott, Baxter-King, Christiano-Fitzgerald,
//     first difference and linear trend
//   - NBER recession dates
//   - Cycle statistics: autocorrelation and second moments
//   - Response caching in memory, SQLite or Redis
//
// # Quick Start
//
//	client, _ := fred.NewClient(os.Getenv("FRED_API_KEY"))
//	gdp, _ := client.Fetch(ctx, "GDPC1", fred.FetchOptions{})
//	result, _ := filter.HP(gdp.Log(), 1600)
//	periods := recession.ForSeries(result.Cycle)
//
// # Packages
//
//   - fred: API client
//   - series: the Series type and its transformations
//   - filter: trend/cycle decompositions
//   - recession: NBER peak and trough dates
//   - stats: autocorrelation and moments of cyclical components
//   - cache: response caches used by the client
//
// The fred command in cmd/fred exposes the same operations on the command line.
package gofred
