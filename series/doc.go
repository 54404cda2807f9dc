// Package series provides the Series container for FRED data.
//
// A Series holds observation dates, values and the release metadata FRED
// publishes with them (title, units, frequency, seasonal adjustment, ...).
// Missing observations are NaN. Every transformation returns a new Series and
// leaves its receiver untouched.
//
// # Creating a Series
//
// Series normally come from the fred package, but can be built directly:
//
//	s, err := series.NewWithDates(dates, values)
//	s.Frequency = series.Quarterly
//
// # Transformations
//
//	growth, _ := s.PC(series.PCOptions{Log: true, Annualized: true})
//	yoy, _ := s.APC(true, series.Backward)
//	logged := s.Log()
//	ma := s.MA1Side(4)      // one-sided, 4 periods
//	cma := s.MA2Side(2)     // two-sided, 2 periods each side
//
// # Windows
//
//	recent := s.Recent(40)
//	sample := s.Window(start, end)
//	aligned := series.Equalize(gdp, cons, inv)
//
// # Arithmetic
//
// Pairwise operations require identical observation dates:
//
//	ratio, err := series.Divide(cons, gdp)
//	if errors.Is(err, series.ErrDateMismatch) {
//	    aligned := series.Equalize(cons, gdp)
//	    ratio, err = series.Divide(aligned[0], aligned[1])
//	}
//
// # Frequency Conversion
//
//	quarterly, err := monthly.Aggregate(series.Quarterly, series.Average)
//	annual, err := quarterly.QuarterToAnnual(series.Sum)
//
// # CSV and Text
//
//	s, err := series.LoadCSV("GDP.csv", nil)
//	err = series.WriteCSV(os.Stdout, s)
//	s, err = series.ReadText(file) // legacy FRED .txt downloads
package series
