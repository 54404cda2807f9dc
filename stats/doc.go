// Package stats provides summary statistics for economic time series.
//
// # Autocorrelation
//
//	acf := stats.ACF(cycle, 8)
//	rho := stats.Autocorrelation(cycle, 1)
//	c := stats.Correlogram(cycle, 12)
//	sig := stats.SignificantLags(c.ACF, c.ConfBounds)
//
// # Business-Cycle Moments
//
// Moments reports, for each series, its standard deviation, its standard
// deviation relative to a reference series, its first-order autocorrelation
// and its correlation with the reference. Inputs are aligned to their common
// window first:
//
//	gdp, _ := filter.HP(gdpLog, 1600)
//	cons, _ := filter.HP(consLog, 1600)
//	table, err := stats.Moments([]*series.Series{gdp.Cycle, cons.Cycle}, gdp.Cycle)
//	for _, m := range table {
//	    fmt.Printf("%-10s %6.2f %6.2f %6.2f %6.2f\n", m.ID, m.Std, m.RelStd, m.Autocorr, m.Corr)
//	}
//
// # Persistence
//
// A business cycle should be persistent but stationary:
//
//	lb := stats.LjungBox(cycle, 8, 0)      // lb.PValue < 0.05: autocorrelated
//	adf := stats.ADF(cycle, 0)             // adf.IsStationary: unit root rejected
//	kpss := stats.KPSS(cycle, "c", 0)      // kpss.IsStationary: level stationarity kept
package stats
