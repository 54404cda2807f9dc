package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sartorproj/gofred"
	"github.com/sartorproj/gofred/cache"
	"github.com/sartorproj/gofred/fred"
	"github.com/sartorproj/gofred/internal/config"
	"github.com/sartorproj/gofred/series"
)

// app holds the global flags and the resources shared by subcommands.
type app struct {
	configPath  string
	apiKey      string
	cacheDriver string
	verbose     bool

	cfg    *config.Config
	logger *zap.Logger
	cache  cache.Cache
	client *fred.Client
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fred",
		Short: "Download and analyse FRED economic time series",
		Long: `fred retrieves series from the Federal Reserve Economic Data API and
applies percentage changes, trend/cycle filters and recession dating.

Series are written as CSV to standard output. Commands that analyse a single
series also accept a local .csv or .txt file in place of a series ID.

An API key is read from --api-key, FRED_API_KEY or the configuration file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", config.DefaultPath(), "Configuration file")
	flags.StringVar(&a.apiKey, "api-key", "", "FRED API key (or set FRED_API_KEY)")
	flags.StringVar(&a.cacheDriver, "cache", "", "Response cache: none, memory, sqlite or redis")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		a.fetchCmd(),
		a.infoCmd(),
		a.searchCmd(),
		a.vintagesCmd(),
		a.filterCmd(),
		a.transformCmd(),
		a.recessionsCmd(),
		a.acfCmd(),
		a.momentsCmd(),
		a.cacheCmd(),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.apiKey != "" {
		cfg.APIKey = a.apiKey
	}
	if a.cacheDriver != "" {
		cfg.Cache.Driver = a.cacheDriver
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	zcfg := zap.NewProductionConfig()
	if a.verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else if level, err := zap.ParseAtomicLevel(cfg.Logging.Level); err == nil {
		zcfg.Level = level
	}
	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	gofred.SetLogger(logger)
	return nil
}

// fredClient opens the configured cache and builds the API client on first use.
func (a *app) fredClient(ctx context.Context) (*fred.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	store, err := a.openCache(ctx)
	if err != nil {
		return nil, err
	}

	opts := []fred.Option{
		fred.WithBaseURL(a.cfg.BaseURL),
		fred.WithTimeout(a.cfg.GetTimeout()),
		fred.WithLogger(a.logger.Named("fred")),
	}
	if store != nil {
		opts = append(opts, fred.WithCache(store, a.cfg.GetCacheTTL()))
	}
	client, err := fred.NewClient(a.cfg.APIKey, opts...)
	if err != nil {
		return nil, err
	}
	a.client = client
	return client, nil
}

func (a *app) openCache(ctx context.Context) (cache.Cache, error) {
	if a.cache != nil {
		return a.cache, nil
	}
	c := a.cfg.Cache
	var (
		store cache.Cache
		err   error
	)
	switch c.Driver {
	case config.DriverNone:
		return nil, nil
	case config.DriverMemory:
		store = cache.NewMemory()
	case config.DriverSQLite:
		store, err = cache.OpenSQLite(c.Path)
	case config.DriverRedis:
		store, err = cache.NewRedis(ctx, cache.RedisOptions{
			Address:  c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			Prefix:   c.Redis.Prefix,
		})
	default:
		return nil, fmt.Errorf("unknown cache driver %q", c.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", c.Driver, err)
	}
	a.logger.Debug("cache opened", zap.String("driver", c.Driver))
	a.cache = store
	return store, nil
}

func (a *app) close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil && a.logger != nil {
			a.logger.Warn("failed to close cache", zap.Error(err))
		}
		a.cache = nil
	}
	a.client = nil
	gofred.SetLogger(nil)
}

// loadSeries reads a local .csv or .txt file, or downloads the series with
// the given ID.
func (a *app) loadSeries(ctx context.Context, arg string, opts fred.FetchOptions) (*series.Series, error) {
	switch strings.ToLower(filepath.Ext(arg)) {
	case ".csv":
		s, err := series.LoadCSV(arg, nil)
		if err != nil {
			return nil, err
		}
		return s.Window(opts.Start, opts.End), nil
	case ".txt":
		f, err := os.Open(arg)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		s, err := series.ReadText(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}
		return s.Window(opts.Start, opts.End), nil
	}

	client, err := a.fredClient(ctx)
	if err != nil {
		return nil, err
	}
	return client.Fetch(ctx, arg, opts)
}

// parseDate accepts YYYY-MM-DD; an empty string is the zero time.
func parseDate(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(series.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: expected YYYY-MM-DD, got %q", flag, value)
	}
	return t, nil
}

// rangeFlags are the observation window flags shared by several commands.
type rangeFlags struct {
	start string
	end   string
}

func (r *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&r.start, "start", "", "First observation date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&r.end, "end", "", "Last observation date (YYYY-MM-DD)")
}

func (r *rangeFlags) options() (fred.FetchOptions, error) {
	start, err := parseDate("start", r.start)
	if err != nil {
		return fred.FetchOptions{}, err
	}
	end, err := parseDate("end", r.end)
	if err != nil {
		return fred.FetchOptions{}, err
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return fred.FetchOptions{}, fmt.Errorf("--end %s is before --start %s", r.end, r.start)
	}
	return fred.FetchOptions{Start: start, End: end}, nil
}
