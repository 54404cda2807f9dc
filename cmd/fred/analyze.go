package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sartorproj/gofred/filter"
	"github.com/sartorproj/gofred/series"
	"github.com/sartorproj/gofred/stats"
)

// filterFlags select a filter and override its frequency defaults.
type filterFlags struct {
	method string
	lambda float64
	low    int
	high   int
	k      int
	drift  bool
	log    bool
}

func (f *filterFlags) register(cmd *cobra.Command, defaultMethod string) {
	cmd.Flags().StringVarP(&f.method, "method", "m", defaultMethod, "Filter: hp, bk, cf, firstdiff or linear")
	cmd.Flags().Float64Var(&f.lambda, "lambda", 0, "HP smoothing parameter (default depends on frequency)")
	cmd.Flags().IntVar(&f.low, "low", 0, "Shortest cycle period kept by bk and cf")
	cmd.Flags().IntVar(&f.high, "high", 0, "Longest cycle period kept by bk and cf")
	cmd.Flags().IntVar(&f.k, "k", 0, "Lead/lag length of the bk filter")
	cmd.Flags().BoolVar(&f.drift, "drift", false, "Remove a random-walk drift before the cf filter")
	cmd.Flags().BoolVar(&f.log, "log", false, "Filter the natural log of the series")
}

// apply filters s after dropping its missing observations.
func (f *filterFlags) apply(cmd *cobra.Command, s *series.Series) (*filter.Result, error) {
	s = s.DropNaN()
	if f.log {
		s = s.Log()
	}
	changed := cmd.Flags().Changed
	band := filter.DefaultBK(s.Frequency)
	if changed("low") {
		band.Low = f.low
	}
	if changed("high") {
		band.High = f.high
	}
	if changed("k") {
		band.K = f.k
	}

	switch strings.ToLower(f.method) {
	case "hp":
		lambda := filter.DefaultLambda(s.Frequency)
		if changed("lambda") {
			lambda = f.lambda
		}
		return filter.HP(s, lambda)
	case "bk", "bandpass":
		return filter.BK(s, band.Low, band.High, band.K)
	case "cf":
		return filter.CF(s, float64(band.Low), float64(band.High), f.drift)
	}
	return filter.Apply(s, f.method)
}

func (a *app) filterCmd() *cobra.Command {
	var (
		rng    rangeFlags
		flt    filterFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "filter SERIES",
		Short: "Split a series into trend and cycle",
		Long: `Split a series into trend and cyclical components. The output has the
original, trend and cycle columns on the dates the filter covers. Missing
observations are dropped before filtering.

Without --lambda, --low, --high or --k the parameters suited to the series
frequency are used.`,
		Example: `  fred filter GDPC1 --log
  fred filter GDPC1 --method bk --low 6 --high 32 --k 12
  fred filter UNRATE --method cf --drift`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := rng.options()
			if err != nil {
				return err
			}
			s, err := a.loadSeries(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			res, err := flt.apply(cmd, s)
			if err != nil {
				return fmt.Errorf("%s filter on %s: %w", flt.method, s.ID, err)
			}

			cycle := res.Cycle
			original := res.Original
			if cycle.Len() > 0 {
				original = original.Window(cycle.Dates[0], cycle.Dates[cycle.Len()-1])
			}
			trend := res.Trend.Copy()
			trend.ID += "_trend"
			cycle = cycle.Copy()
			cycle.ID += "_cycle"
			return writeOutput(cmd.OutOrStdout(), output, original, trend, cycle)
		},
	}
	rng.register(cmd)
	flt.register(cmd, "hp")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write CSV to this file instead of standard output")
	return cmd
}

func (a *app) transformCmd() *cobra.Command {
	var (
		rng        rangeFlags
		op         string
		log        bool
		forward    bool
		annualized bool
		length     int
		civilian   bool
		to         string
		how        string
		output     string
	)
	cmd := &cobra.Command{
		Use:   "transform SERIES",
		Short: "Apply a transformation to a series",
		Long: `Apply one transformation to a series:

  pc         percentage change from the preceding period
  apc        percentage change from one year earlier
  log        natural log
  diff       first difference
  ma1        one-sided moving average of --length observations
  ma2        two-sided moving average of 2*--length observations
  percapita  divide by US population (per thousand people)
  aggregate  convert to the lower frequency --to`,
		Example: `  fred transform GDPC1 --op apc
  fred transform PCECC96 --op percapita --civilian=false
  fred transform UNRATE --op aggregate --to q --how avg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := rng.options()
			if err != nil {
				return err
			}
			s, err := a.loadSeries(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			method := series.Backward
			if forward {
				method = series.Forward
			}

			var out *series.Series
			switch strings.ToLower(op) {
			case "pc":
				out, err = s.PC(series.PCOptions{Log: log, Method: method, Annualized: annualized})
			case "apc":
				out, err = s.APC(log, method)
			case "log":
				out = s.Log()
			case "diff":
				out = s.Diff()
			case "ma1":
				out = s.MA1Side(length)
			case "ma2":
				out = s.MA2Side(length)
			case "percapita":
				client, cerr := a.fredClient(cmd.Context())
				if cerr != nil {
					return cerr
				}
				out, err = client.PerCapita(cmd.Context(), s, civilian)
			case "aggregate":
				target := series.ParseFrequency(to)
				agg, aerr := series.ParseAggregateMethod(how)
				if aerr != nil {
					return aerr
				}
				out, err = s.Aggregate(target, agg)
			case "":
				return errors.New("--op is required")
			default:
				return fmt.Errorf("unknown transformation %q", op)
			}
			if err != nil {
				return fmt.Errorf("%s of %s: %w", op, s.ID, err)
			}
			return writeOutput(cmd.OutOrStdout(), output, out)
		},
	}
	rng.register(cmd)
	cmd.Flags().StringVar(&op, "op", "", "Transformation: pc, apc, log, diff, ma1, ma2, percapita, aggregate")
	cmd.Flags().BoolVar(&log, "log", true, "pc/apc: use log differences")
	cmd.Flags().BoolVar(&forward, "forward", false, "pc/apc: date the change at the start of the period")
	cmd.Flags().BoolVar(&annualized, "annualized", false, "pc: scale to an annual rate")
	cmd.Flags().IntVar(&length, "length", 4, "ma1/ma2: window length")
	cmd.Flags().BoolVar(&civilian, "civilian", true, "percapita: use the civilian population aged 16 and over")
	cmd.Flags().StringVar(&to, "to", "a", "aggregate: target frequency (m, q, sa, a)")
	cmd.Flags().StringVar(&how, "how", "avg", "aggregate: avg, sum or eop")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write CSV to this file instead of standard output")
	return cmd
}

func (a *app) acfCmd() *cobra.Command {
	var (
		rng   rangeFlags
		flt   filterFlags
		lags  int
		cycle bool
	)
	cmd := &cobra.Command{
		Use:   "acf SERIES",
		Short: "Print the correlogram and persistence tests of a series",
		Long: `Print the autocorrelation and partial autocorrelation of a series, followed
by the Ljung-Box, Durbin-Watson, augmented Dickey-Fuller and KPSS statistics.
With --cycle the series is filtered first and the cyclical component is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := rng.options()
			if err != nil {
				return err
			}
			s, err := a.loadSeries(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			if cycle {
				res, err := flt.apply(cmd, s)
				if err != nil {
					return err
				}
				s = res.Cycle
			} else {
				s = s.DropNaN()
			}

			cg := stats.Correlogram(s, lags)
			if cg == nil {
				return fmt.Errorf("%s: autocorrelation is undefined for a constant or empty series", s.ID)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "LAG\tACF\tPACF\t")
			for i, lag := range cg.Lags {
				pacf := ""
				if i < len(cg.PACF) {
					pacf = fmt.Sprintf("%.4f", cg.PACF[i])
				}
				fmt.Fprintf(tw, "%d\t%.4f\t%s\t\n", lag, cg.ACF[i], pacf)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "95%% bound: ±%.4f, significant lags: %v\n",
				cg.ConfBounds, stats.SignificantLags(cg.ACF, cg.ConfBounds))
			if lb := stats.LjungBox(s, lags, 0); lb != nil {
				fmt.Fprintf(w, "Ljung-Box Q(%d) = %.4f, p = %.4f\n", lb.Lags, lb.Statistic, lb.PValue)
			}
			fmt.Fprintf(w, "Durbin-Watson = %.4f\n", stats.DurbinWatson(s))
			if adf := stats.ADF(s, 0); adf != nil {
				fmt.Fprintf(w, "ADF = %.4f, p ~ %.2f (stationary: %t)\n", adf.Statistic, adf.PValue, adf.IsStationary)
			}
			if kpss := stats.KPSS(s, "c", 0); kpss != nil {
				fmt.Fprintf(w, "KPSS = %.4f, p ~ %.2f (stationary: %t)\n", kpss.Statistic, kpss.PValue, kpss.IsStationary)
			}
			return nil
		},
	}
	rng.register(cmd)
	flt.register(cmd, "hp")
	cmd.Flags().IntVar(&lags, "lags", 12, "Maximum lag")
	cmd.Flags().BoolVar(&cycle, "cycle", false, "Use the cyclical component given by --method")
	return cmd
}

func (a *app) momentsCmd() *cobra.Command {
	var (
		rng rangeFlags
		flt filterFlags
	)
	cmd := &cobra.Command{
		Use:   "moments REFERENCE SERIES...",
		Short: "Tabulate business-cycle statistics of filtered series",
		Long: `Filter every series and report the standard deviation of its cycle, the
standard deviation relative to the reference cycle, the first-order
autocorrelation and the correlation with the reference cycle.`,
		Example: `  fred moments GDPC1 PCECC96 GPDIC1 --log`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := rng.options()
			if err != nil {
				return err
			}
			cycles := make([]*series.Series, len(args))
			for i, arg := range args {
				s, err := a.loadSeries(cmd.Context(), arg, opts)
				if err != nil {
					return err
				}
				res, err := flt.apply(cmd, s)
				if err != nil {
					return fmt.Errorf("%s filter on %s: %w", flt.method, s.ID, err)
				}
				cycles[i] = res.Cycle
			}

			moments, err := stats.Moments(cycles, cycles[0])
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTD\tREL STD\tAUTOCORR\tCORR")
			for _, m := range moments {
				fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%.4f\n", m.ID, m.Std, m.RelStd, m.Autocorr, m.Corr)
			}
			return tw.Flush()
		},
	}
	rng.register(cmd)
	flt.register(cmd, "hp")
	return cmd
}
