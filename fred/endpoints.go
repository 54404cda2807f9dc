package fred

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sartorproj/gofred/series"
)

// ErrNotFound is returned when FRED answers successfully but with no matching record.
var ErrNotFound = errors.New("fred: not found")

// SeriesInfo is the metadata FRED publishes for a series.
type SeriesInfo struct {
	ID                      string `json:"id"`
	RealtimeStart           string `json:"realtime_start"`
	RealtimeEnd             string `json:"realtime_end"`
	Title                   string `json:"title"`
	ObservationStart        string `json:"observation_start"`
	ObservationEnd          string `json:"observation_end"`
	Frequency               string `json:"frequency"`
	FrequencyShort          string `json:"frequency_short"`
	Units                   string `json:"units"`
	UnitsShort              string `json:"units_short"`
	SeasonalAdjustment      string `json:"seasonal_adjustment"`
	SeasonalAdjustmentShort string `json:"seasonal_adjustment_short"`
	LastUpdated             string `json:"last_updated"`
	Popularity              int    `json:"popularity"`
	Notes                   string `json:"notes"`
}

// Observation is a single dated value. Missing values are NaN.
type Observation struct {
	Date          time.Time
	Value         float64
	RealtimeStart string
	RealtimeEnd   string
}

// Release is a FRED release, the publication a series belongs to.
type Release struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	PressRelease bool   `json:"press_release"`
	Link         string `json:"link"`
	Notes        string `json:"notes"`
}

// Source is an organisation that provides data to FRED.
type Source struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Link  string `json:"link"`
	Notes string `json:"notes"`
}

// ObservationOptions narrows an observations request. Zero values are omitted.
type ObservationOptions struct {
	Start         time.Time
	End           time.Time
	RealtimeStart time.Time
	RealtimeEnd   time.Time
	VintageDates  []time.Time
	Units         string // lin, chg, ch1, pch, pc1, pca, cch, cca, log
	Frequency     string // d, w, bw, m, q, sa, a
	Aggregation   string // avg, sum, eop
	Limit         int
}

func (o ObservationOptions) values() url.Values {
	v := url.Values{}
	setDate(v, "observation_start", o.Start)
	setDate(v, "observation_end", o.End)
	setDate(v, "realtime_start", o.RealtimeStart)
	setDate(v, "realtime_end", o.RealtimeEnd)
	if len(o.VintageDates) > 0 {
		dates := make([]string, len(o.VintageDates))
		for i, d := range o.VintageDates {
			dates[i] = d.Format(series.DateLayout)
		}
		v.Set("vintage_dates", strings.Join(dates, ","))
	}
	if o.Units != "" {
		v.Set("units", o.Units)
	}
	if o.Frequency != "" {
		v.Set("frequency", o.Frequency)
	}
	if o.Aggregation != "" {
		v.Set("aggregation_method", o.Aggregation)
	}
	if o.Limit > 0 {
		v.Set("limit", strconv.Itoa(o.Limit))
	}
	return v
}

// SearchOptions controls a full-text series search.
type SearchOptions struct {
	Limit     int
	OrderBy   string // search_rank, popularity, title, last_updated, ...
	SortOrder string // asc or desc
}

func setDate(v url.Values, key string, t time.Time) {
	if !t.IsZero() {
		v.Set(key, t.Format(series.DateLayout))
	}
}

// SeriesInfo returns the metadata of a series.
func (c *Client) SeriesInfo(ctx context.Context, id string) (*SeriesInfo, error) {
	return c.seriesInfo(ctx, id, time.Time{})
}

// seriesInfo fetches metadata, as of vintage when it is not zero.
func (c *Client) seriesInfo(ctx context.Context, id string, vintage time.Time) (*SeriesInfo, error) {
	params := url.Values{"series_id": {id}}
	setDate(params, "realtime_start", vintage)
	setDate(params, "realtime_end", vintage)

	var resp struct {
		Seriess []SeriesInfo `json:"seriess"`
	}
	if err := c.get(ctx, "/fred/series", params, &resp); err != nil {
		return nil, fmt.Errorf("series %s: %w", id, err)
	}
	if len(resp.Seriess) == 0 {
		return nil, fmt.Errorf("series %s: %w", id, ErrNotFound)
	}
	return &resp.Seriess[0], nil
}

// Observations returns the observations of a series.
func (c *Client) Observations(ctx context.Context, id string, opts ObservationOptions) ([]Observation, error) {
	params := opts.values()
	params.Set("series_id", id)

	var resp struct {
		Observations []struct {
			RealtimeStart string `json:"realtime_start"`
			RealtimeEnd   string `json:"realtime_end"`
			Date          string `json:"date"`
			Value         string `json:"value"`
		} `json:"observations"`
	}
	if err := c.get(ctx, "/fred/series/observations", params, &resp); err != nil {
		return nil, fmt.Errorf("observations %s: %w", id, err)
	}

	out := make([]Observation, 0, len(resp.Observations))
	for _, o := range resp.Observations {
		date, err := time.Parse(series.DateLayout, o.Date)
		if err != nil {
			return nil, fmt.Errorf("observations %s: %w", id, err)
		}
		value, err := series.ParseValue(o.Value)
		if err != nil {
			return nil, fmt.Errorf("observations %s on %s: %w", id, o.Date, err)
		}
		out = append(out, Observation{
			Date:          date,
			Value:         value,
			RealtimeStart: o.RealtimeStart,
			RealtimeEnd:   o.RealtimeEnd,
		})
	}
	return out, nil
}

// VintageDates returns every date on which the series was revised or first published.
func (c *Client) VintageDates(ctx context.Context, id string) ([]time.Time, error) {
	const pageSize = 10000
	var out []time.Time
	for offset := 0; ; offset += pageSize {
		params := url.Values{
			"series_id": {id},
			"limit":     {strconv.Itoa(pageSize)},
			"offset":    {strconv.Itoa(offset)},
		}
		var resp struct {
			Count        int      `json:"count"`
			VintageDates []string `json:"vintage_dates"`
		}
		if err := c.get(ctx, "/fred/series/vintagedates", params, &resp); err != nil {
			return nil, fmt.Errorf("vintage dates %s: %w", id, err)
		}
		for _, raw := range resp.VintageDates {
			d, err := time.Parse(series.DateLayout, raw)
			if err != nil {
				return nil, fmt.Errorf("vintage dates %s: %w", id, err)
			}
			out = append(out, d)
		}
		if len(resp.VintageDates) < pageSize || len(out) >= resp.Count {
			return out, nil
		}
	}
}

// Search finds series matching the given words.
func (c *Client) Search(ctx context.Context, text string, opts SearchOptions) ([]SeriesInfo, error) {
	params := url.Values{"search_text": {text}}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.OrderBy != "" {
		params.Set("order_by", opts.OrderBy)
	}
	if opts.SortOrder != "" {
		params.Set("sort_order", opts.SortOrder)
	}

	var resp struct {
		Seriess []SeriesInfo `json:"seriess"`
	}
	if err := c.get(ctx, "/fred/series/search", params, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", text, err)
	}
	return resp.Seriess, nil
}

// Release returns the release a series belongs to.
func (c *Client) Release(ctx context.Context, id string) (*Release, error) {
	var resp struct {
		Releases []Release `json:"releases"`
	}
	if err := c.get(ctx, "/fred/series/release", url.Values{"series_id": {id}}, &resp); err != nil {
		return nil, fmt.Errorf("release of %s: %w", id, err)
	}
	if len(resp.Releases) == 0 {
		return nil, fmt.Errorf("release of %s: %w", id, ErrNotFound)
	}
	return &resp.Releases[0], nil
}

// Sources returns the sources of a release.
func (c *Client) Sources(ctx context.Context, releaseID int) ([]Source, error) {
	var resp struct {
		Sources []Source `json:"sources"`
	}
	params := url.Values{"release_id": {strconv.Itoa(releaseID)}}
	if err := c.get(ctx, "/fred/release/sources", params, &resp); err != nil {
		return nil, fmt.Errorf("sources of release %d: %w", releaseID, err)
	}
	return resp.Sources, nil
}
