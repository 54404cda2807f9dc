package fred

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sartorproj/gofred/series"
)

// FetchOptions controls how Fetch builds a series.
type FetchOptions struct {
	Start time.Time
	End   time.Time
	// Vintage pins both metadata and observations to the data as they were
	// known on that date (ALFRED real-time period).
	Vintage time.Time
	// IncludeSource resolves the Source field through the series' release,
	// which costs two extra requests.
	IncludeSource bool
	Units         string
	Frequency     string
	Aggregation   string
}

// unitLabels mirrors how FRED describes its units transformations.
var unitLabels = map[string]string{
	"chg": "Change, %s",
	"ch1": "Change from Year Ago, %s",
	"pch": "Percent Change",
	"pc1": "Percent Change from Year Ago",
	"pca": "Compounded Annual Rate of Change",
	"cch": "Continuously Compounded Rate of Change",
	"cca": "Continuously Compounded Annual Rate of Change",
	"log": "Natural Log of %s",
}

func unitsLabel(units, transform string) string {
	format, ok := unitLabels[transform]
	if !ok {
		return units
	}
	if strings.Contains(format, "%s") {
		return fmt.Sprintf(format, units)
	}
	return format
}

// Fetch downloads a series with its metadata.
func (c *Client) Fetch(ctx context.Context, id string, opts FetchOptions) (*series.Series, error) {
	info, err := c.seriesInfo(ctx, id, opts.Vintage)
	if err != nil {
		return nil, err
	}

	obsOpts := ObservationOptions{
		Start:         opts.Start,
		End:           opts.End,
		RealtimeStart: opts.Vintage,
		RealtimeEnd:   opts.Vintage,
		Units:         opts.Units,
		Frequency:     opts.Frequency,
		Aggregation:   opts.Aggregation,
	}
	obs, err := c.Observations(ctx, id, obsOpts)
	if err != nil {
		return nil, err
	}

	s := &series.Series{
		ID:                 info.ID,
		Title:              info.Title,
		Units:              unitsLabel(info.Units, opts.Units),
		SeasonalAdjustment: info.SeasonalAdjustment,
		LastUpdated:        info.LastUpdated,
		Notes:              info.Notes,
		Frequency:          series.ParseFrequency(info.Frequency),
		Dates:              make([]time.Time, len(obs)),
		Values:             make([]float64, len(obs)),
	}
	if opts.Frequency != "" {
		s.Frequency = series.ParseFrequency(opts.Frequency)
	}
	for i, o := range obs {
		s.Dates[i] = o.Date
		s.Values[i] = o.Value
	}

	if opts.IncludeSource {
		source, err := c.source(ctx, id)
		if err != nil {
			return nil, err
		}
		s.Source = source
	}

	c.logger.Debug("fetched series",
		zap.String("series", id),
		zap.Int("observations", s.Len()),
		zap.String("range", s.DateRange()),
	)
	return s, nil
}

func (c *Client) source(ctx context.Context, id string) (string, error) {
	rel, err := c.Release(ctx, id)
	if err != nil {
		return "", err
	}
	sources, err := c.Sources(ctx, rel.ID)
	if err != nil {
		return "", err
	}
	names := make([]string, len(sources))
	for i, src := range sources {
		names[i] = src.Name
	}
	return strings.Join(names, ", "), nil
}

// FetchMany downloads several series concurrently. Results are in the order of
// ids; the first failure cancels the remaining downloads.
func (c *Client) FetchMany(ctx context.Context, ids []string, opts FetchOptions) ([]*series.Series, error) {
	out := make([]*series.Series, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			s, err := c.Fetch(ctx, id, opts)
			if err != nil {
				return err
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

const (
	civilianPopulation = "CNP16OV"
	totalPopulation    = "POP"
)

// PerCapita divides s by US population: the civilian noninstitutional
// population aged 16 and over when civilian is set, total population
// otherwise. Population is averaged to the frequency of s (monthly, quarterly
// or annual) and both series are restricted to their common window.
func (c *Client) PerCapita(ctx context.Context, s *series.Series, civilian bool) (*series.Series, error) {
	switch s.Frequency {
	case series.Monthly, series.Quarterly, series.Annual:
	default:
		return nil, fmt.Errorf("%w: per capita needs monthly, quarterly or annual data, not %s",
			series.ErrUnsupportedConversion, s.Frequency)
	}

	popID := totalPopulation
	if civilian {
		popID = civilianPopulation
	}
	pop, err := c.Fetch(ctx, popID, FetchOptions{})
	if err != nil {
		return nil, err
	}
	if s.Frequency != series.Monthly {
		if pop, err = pop.Aggregate(s.Frequency, series.Average); err != nil {
			return nil, err
		}
	}

	aligned := series.Equalize(s, pop)
	ratio, err := series.Divide(aligned[0], aligned[1])
	if err != nil {
		return nil, fmt.Errorf("per capita %s: %w", s.ID, err)
	}
	out, err := aligned[0].WithData(ratio.Dates, ratio.Values)
	if err != nil {
		return nil, err
	}
	out.Title = s.Title + " Per Capita"
	out.Units = s.Units + " Per Thousand People"
	return out, nil
}
