package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sartorproj/gofred/recession"
	"github.com/sartorproj/gofred/series"
)

func (a *app) recessionsCmd() *cobra.Command {
	var (
		rng       rangeFlags
		indicator string
	)
	cmd := &cobra.Command{
		Use:   "recessions",
		Short: "List NBER recession dates",
		Long: `List NBER business-cycle peaks and troughs. With --indicator, write the
series alongside a 0/1 column marking recession months.`,
		Example: `  fred recessions --start 1970-01-01
  fred recessions --indicator UNRATE`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := rng.options()
			if err != nil {
				return err
			}
			if indicator != "" {
				s, err := a.loadSeries(cmd.Context(), indicator, opts)
				if err != nil {
					return err
				}
				ind := recession.Indicator(s, recession.ForSeries(s))
				ind.ID = "recession"
				return series.WriteColumns(cmd.OutOrStdout(), s, ind)
			}
			for _, p := range recession.Periods(opts.Start, opts.End) {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	rng.register(cmd)
	cmd.Flags().StringVar(&indicator, "indicator", "", "Series to mark with a recession indicator column")
	return cmd
}
