package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sartorproj/gofred/fred"
	"github.com/sartorproj/gofred/series"
)

func (a *app) fetchCmd() *cobra.Command {
	var (
		rng         rangeFlags
		vintage     string
		units       string
		frequency   string
		aggregation string
		output      string
	)
	cmd := &cobra.Command{
		Use:   "fetch SERIES_ID...",
		Short: "Download series as CSV",
		Long: `Download one or more series. Several series are restricted to their common
date window and written side by side.`,
		Example: `  fred fetch GDPC1 --start 1990-01-01
  fred fetch UNRATE CIVPART --frequency q --aggregation avg
  fred fetch GDPC1 --vintage 1992-01-29 --units log`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := rng.options()
			if err != nil {
				return err
			}
			if opts.Vintage, err = parseDate("vintage", vintage); err != nil {
				return err
			}
			opts.Units = units
			opts.Frequency = frequency
			opts.Aggregation = aggregation

			client, err := a.fredClient(cmd.Context())
			if err != nil {
				return err
			}
			list, err := client.FetchMany(cmd.Context(), args, opts)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, series.Equalize(list...)...)
		},
	}
	rng.register(cmd)
	cmd.Flags().StringVar(&vintage, "vintage", "", "Return data as known on this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&units, "units", "", "FRED units transformation: lin, chg, ch1, pch, pc1, pca, cch, cca, log")
	cmd.Flags().StringVar(&frequency, "frequency", "", "Aggregate to a lower frequency: d, w, bw, m, q, sa, a")
	cmd.Flags().StringVar(&aggregation, "aggregation", "", "Aggregation method with --frequency: avg, sum, eop")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write CSV to this file instead of standard output")
	return cmd
}

// writeOutput writes cols as CSV to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, cols ...*series.Series) error {
	if path == "" {
		return series.WriteColumns(w, cols...)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := series.WriteColumns(f, cols...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (a *app) infoCmd() *cobra.Command {
	var source bool
	cmd := &cobra.Command{
		Use:   "info SERIES_ID",
		Short: "Show series metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.fredClient(cmd.Context())
			if err != nil {
				return err
			}
			info, err := client.SeriesInfo(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "ID:\t%s\n", info.ID)
			fmt.Fprintf(tw, "Title:\t%s\n", info.Title)
			fmt.Fprintf(tw, "Units:\t%s\n", info.Units)
			fmt.Fprintf(tw, "Frequency:\t%s\n", info.Frequency)
			fmt.Fprintf(tw, "Seasonal Adjustment:\t%s\n", info.SeasonalAdjustment)
			fmt.Fprintf(tw, "Observations:\t%s to %s\n", info.ObservationStart, info.ObservationEnd)
			fmt.Fprintf(tw, "Last Updated:\t%s\n", info.LastUpdated)
			if source {
				rel, err := client.Release(cmd.Context(), info.ID)
				if err != nil {
					return err
				}
				sources, err := client.Sources(cmd.Context(), rel.ID)
				if err != nil {
					return err
				}
				names := make([]string, len(sources))
				for i, s := range sources {
					names[i] = s.Name
				}
				fmt.Fprintf(tw, "Release:\t%s\n", rel.Name)
				fmt.Fprintf(tw, "Source:\t%s\n", strings.Join(names, ", "))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if info.Notes != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", strings.TrimSpace(info.Notes))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&source, "source", false, "Also look up the release and source")
	return cmd
}

func (a *app) searchCmd() *cobra.Command {
	var opts fred.SearchOptions
	cmd := &cobra.Command{
		Use:   "search WORDS...",
		Short: "Search series by keywords",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.fredClient(cmd.Context())
			if err != nil {
				return err
			}
			found, err := client.Search(cmd.Context(), strings.Join(args, " "), opts)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tFREQ\tUNITS\tTITLE")
			for _, s := range found {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.FrequencyShort, s.UnitsShort, s.Title)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "Maximum number of results")
	cmd.Flags().StringVar(&opts.OrderBy, "order-by", "", "search_rank, popularity, title, last_updated, ...")
	cmd.Flags().StringVar(&opts.SortOrder, "sort", "", "asc or desc")
	return cmd
}

func (a *app) vintagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vintages SERIES_ID",
		Short: "List the dates on which a series was revised",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.fredClient(cmd.Context())
			if err != nil {
				return err
			}
			dates, err := client.VintageDates(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, d := range dates {
				fmt.Fprintln(cmd.OutOrStdout(), d.Format(series.DateLayout))
			}
			return nil
		},
	}
}
