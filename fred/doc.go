// Package fred is a client for the Federal Reserve Economic Data (FRED) API.
//
// An API key is required; request one at https://fred.stlouisfed.org.
//
//	client, err := fred.NewClient(os.Getenv("FRED_API_KEY"))
//	gdp, err := client.Fetch(ctx, "GDPC1", fred.FetchOptions{})
//
// # Vintages
//
// FetchOptions.Vintage returns data as first published on a date:
//
//	dates, err := client.VintageDates(ctx, "GDPC1")
//	first, err := client.Fetch(ctx, "GDPC1", fred.FetchOptions{Vintage: dates[0]})
//
// # Several Series
//
//	list, err := client.FetchMany(ctx, []string{"GDPC1", "PCECC96", "GPDIC1"}, fred.FetchOptions{})
//	perCapita, err := client.PerCapita(ctx, list[0], true)
//
// # Caching
//
// Raw responses can be kept in any cache.Cache. Cache keys never include the
// API key:
//
//	store, err := cache.OpenSQLite("fred-cache.db")
//	client, err := fred.NewClient(key, fred.WithCache(store, 24*time.Hour))
//
// Errors reported by FRED are returned as *APIError.
package fred
