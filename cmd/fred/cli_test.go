package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/gofred/fred"
	"github.com/sartorproj/gofred/series"
)

type fakeSeries struct {
	info   fred.SeriesInfo
	start  time.Time
	step   int // months between observations
	values []float64
}

func testSeries() map[string]fakeSeries {
	gdp := make([]float64, 16)
	for i := range gdp {
		gdp[i] = 18000 * math.Pow(1.006, float64(i)) * (1 + 0.01*math.Sin(float64(i)))
	}
	unrate := make([]float64, 24)
	pop := make([]float64, 24)
	for i := range unrate {
		unrate[i] = 3.6 + 0.1*math.Cos(float64(i))
		pop[i] = 260000 + 100*float64(i)
	}
	unrate[15] = 14.7

	return map[string]fakeSeries{
		"GDPC1": {
			info: fred.SeriesInfo{
				ID: "GDPC1", Title: "Real Gross Domestic Product",
				Frequency: "Quarterly", FrequencyShort: "Q",
				Units: "Billions of Chained 2012 Dollars", UnitsShort: "Bil. of Chn. 2012 $",
				ObservationStart: "2017-01-01", ObservationEnd: "2020-10-01",
			},
			start: time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC), step: 3, values: gdp,
		},
		"UNRATE": {
			info: fred.SeriesInfo{
				ID: "UNRATE", Title: "Unemployment Rate",
				Frequency: "Monthly", FrequencyShort: "M", Units: "Percent", UnitsShort: "%",
			},
			start: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), step: 1, values: unrate,
		},
		"CNP16OV": {
			info: fred.SeriesInfo{
				ID: "CNP16OV", Title: "Population Level",
				Frequency: "Monthly", FrequencyShort: "M", Units: "Thousands of Persons",
			},
			start: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), step: 1, values: pop,
		},
	}
}

func fakeFRED(t *testing.T) *httptest.Server {
	t.Helper()
	data := testSeries()

	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("api_key") != "test-key" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error_code": 400, "error_message": "Bad Request. The value for variable api_key is not registered."})
			return
		}
		if r.URL.Path == "/fred/series/search" {
			writeJSON(w, http.StatusOK, map[string]any{"seriess": []fred.SeriesInfo{data["GDPC1"].info}})
			return
		}
		if r.URL.Path == "/fred/release/sources" {
			writeJSON(w, http.StatusOK, map[string]any{"sources": []fred.Source{{ID: 18, Name: "U.S. Bureau of Economic Analysis"}}})
			return
		}

		s, ok := data[q.Get("series_id")]
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error_code": 400, "error_message": "Bad Request. The series does not exist."})
			return
		}
		switch r.URL.Path {
		case "/fred/series":
			writeJSON(w, http.StatusOK, map[string]any{"seriess": []fred.SeriesInfo{s.info}})
		case "/fred/series/observations":
			obs := make([]map[string]string, len(s.values))
			for i, v := range s.values {
				obs[i] = map[string]string{
					"date":  s.start.AddDate(0, i*s.step, 0).Format(series.DateLayout),
					"value": strconv.FormatFloat(v, 'f', -1, 64),
				}
			}
			writeJSON(w, http.StatusOK, map[string]any{"observations": obs})
		case "/fred/series/vintagedates":
			writeJSON(w, http.StatusOK, map[string]any{"count": 2, "vintage_dates": []string{"2019-01-30", "2019-02-28"}})
		case "/fred/series/release":
			writeJSON(w, http.StatusOK, map[string]any{"releases": []fred.Release{{ID: 53, Name: "Gross Domestic Product"}}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// run executes the command line against the fake server with an in-memory cache.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	srv := fakeFRED(t)
	for _, key := range []string{"FRED_CACHE_PATH", "FRED_REDIS_ADDR", "FRED_REDIS_DB"} {
		t.Setenv(key, "")
	}
	t.Setenv("FRED_BASE_URL", srv.URL)
	t.Setenv("FRED_API_KEY", "test-key")
	t.Setenv("FRED_CACHE_DRIVER", "memory")
	return execute(t, args...)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	a := &app{}
	root := a.rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.yaml")}, args...))

	err := root.ExecuteContext(context.Background())
	a.close()
	return out.String(), err
}

func readRows(t *testing.T, out string) [][]string {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	return rows
}

func parseFloat(t *testing.T, s string) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(s, 64)
	require.NoError(t, err)
	return v
}

func TestFetchCmd(t *testing.T) {
	out, err := run(t, "fetch", "GDPC1", "--start", "2018-01-01", "--end", "2018-12-31")
	require.NoError(t, err)

	rows := readRows(t, out)
	assert.Equal(t, []string{"observation_date", "GDPC1"}, rows[0])
	// The fake ignores the window; the CSV has every observation it serves.
	assert.Len(t, rows, 17)
}

func TestFetchCmdSeveral(t *testing.T) {
	out, err := run(t, "fetch", "UNRATE", "CNP16OV")
	require.NoError(t, err)

	rows := readRows(t, out)
	assert.Equal(t, []string{"observation_date", "UNRATE", "CNP16OV"}, rows[0])
	assert.Len(t, rows, 25)
	assert.Equal(t, "2019-01-01", rows[1][0])
}

func TestFetchCmdErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad date", []string{"fetch", "GDPC1", "--start", "01/02/2020"}, "expected YYYY-MM-DD"},
		{"reversed range", []string{"fetch", "GDPC1", "--start", "2020-01-01", "--end", "2019-01-01"}, "before --start"},
		{"unknown series", []string{"fetch", "NOPE"}, "does not exist"},
		{"no ids", []string{"fetch"}, "requires at least 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMissingAPIKey(t *testing.T) {
	t.Setenv("FRED_API_KEY", "")
	t.Setenv("FRED_CACHE_DRIVER", "none")

	_, err := execute(t, "fetch", "GDPC1")
	assert.True(t, errors.Is(err, fred.ErrMissingAPIKey), "expected ErrMissingAPIKey, got %v", err)
}

func TestInfoCmd(t *testing.T) {
	out, err := run(t, "info", "GDPC1", "--source")
	require.NoError(t, err)

	assert.Contains(t, out, "Real Gross Domestic Product")
	assert.Contains(t, out, "2017-01-01 to 2020-10-01")
	assert.Contains(t, out, "Gross Domestic Product")
	assert.Contains(t, out, "U.S. Bureau of Economic Analysis")
}

func TestSearchCmd(t *testing.T) {
	out, err := run(t, "search", "real", "gdp")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.True(t, strings.HasPrefix(lines[1], "GDPC1"))
}

func TestVintagesCmd(t *testing.T) {
	out, err := run(t, "vintages", "GDPC1")
	require.NoError(t, err)
	assert.Equal(t, "2019-01-30\n2019-02-28\n", out)
}

func TestFilterCmd(t *testing.T) {
	t.Run("hp decomposes", func(t *testing.T) {
		out, err := run(t, "filter", "GDPC1", "--log")
		require.NoError(t, err)

		rows := readRows(t, out)
		assert.Equal(t, []string{"observation_date", "GDPC1", "GDPC1_trend", "GDPC1_cycle"}, rows[0])
		require.Len(t, rows, 17)
		for _, row := range rows[1:] {
			original := parseFloat(t, row[1])
			trend := parseFloat(t, row[2])
			cycle := parseFloat(t, row[3])
			assert.InDelta(t, original, trend+cycle, 1e-9, "row %s", row[0])
		}
	})

	t.Run("bk loses k observations at each end", func(t *testing.T) {
		out, err := run(t, "filter", "GDPC1", "--method", "bk", "--low", "2", "--high", "8", "--k", "3")
		require.NoError(t, err)

		rows := readRows(t, out)
		require.Len(t, rows, 1+16-6)
		assert.Equal(t, "2017-10-01", rows[1][0])
	})

	t.Run("cf with drift", func(t *testing.T) {
		out, err := run(t, "filter", "GDPC1", "--method", "cf", "--drift")
		require.NoError(t, err)
		assert.Len(t, readRows(t, out), 17)
	})

	t.Run("unknown method", func(t *testing.T) {
		_, err := run(t, "filter", "GDPC1", "--method", "wavelet")
		assert.Error(t, err)
	})
}

func TestFilterCmdLocalFile(t *testing.T) {
	t.Setenv("FRED_API_KEY", "")
	t.Setenv("FRED_CACHE_DRIVER", "none")

	path := filepath.Join(t.TempDir(), "series.csv")
	var b strings.Builder
	b.WriteString("observation_date,LOCAL\n")
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, "%d-01-01,%d\n", 2000+i, 2*i+1)
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))

	out, err := execute(t, "filter", path, "--method", "linear")
	require.NoError(t, err)

	rows := readRows(t, out)
	assert.Equal(t, []string{"observation_date", "LOCAL", "LOCAL_trend", "LOCAL_cycle"}, rows[0])
	require.Len(t, rows, 9)
	for _, row := range rows[1:] {
		assert.InDelta(t, 0, parseFloat(t, row[3]), 1e-9)
	}
}

func writeLocal(t *testing.T, dir, id string, values ...string) string {
	t.Helper()
	path := filepath.Join(dir, id+".csv")
	var b strings.Builder
	b.WriteString("observation_date," + id + "\n")
	for i, v := range values {
		fmt.Fprintf(&b, "%d-%02d-01,%s\n", 2000+i/4, 1+3*(i%4), v)
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func TestMissingObservationsDropped(t *testing.T) {
	t.Setenv("FRED_API_KEY", "")
	t.Setenv("FRED_CACHE_DRIVER", "none")
	dir := t.TempDir()

	gappy := writeLocal(t, dir, "GAPPY", ".", "2", "4", "3", "", "6", "5", "8", "7", "9")
	out, err := execute(t, "filter", gappy, "--method", "linear")
	require.NoError(t, err)
	rows := readRows(t, out)
	require.Len(t, rows, 9)
	assert.Equal(t, "2000-04-01", rows[1][0])

	ref := writeLocal(t, dir, "REF", "1", "3", "2", "4", "3", "5", "4", "6", "5", "7")
	late := writeLocal(t, dir, "LATE", ".", ".", "2", "1", "3", "2", "4", "3", "5", "4")
	out, err = execute(t, "moments", ref, late, "--method", "linear")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[2], "LATE"))
}

func TestTransformCmd(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		rows   int
		header string
	}{
		{"pc", []string{"transform", "UNRATE", "--op", "pc"}, 23, "UNRATE"},
		{"apc", []string{"transform", "UNRATE", "--op", "apc", "--log=false"}, 12, "UNRATE"},
		{"log", []string{"transform", "GDPC1", "--op", "log"}, 16, "GDPC1"},
		{"diff", []string{"transform", "GDPC1", "--op", "diff"}, 15, "GDPC1"},
		{"ma1", []string{"transform", "UNRATE", "--op", "ma1", "--length", "3"}, 22, "UNRATE"},
		{"ma2", []string{"transform", "UNRATE", "--op", "ma2", "--length", "2"}, 20, "UNRATE"},
		{"aggregate", []string{"transform", "UNRATE", "--op", "aggregate", "--to", "q", "--how", "avg"}, 8, "UNRATE"},
		{"percapita", []string{"transform", "UNRATE", "--op", "percapita"}, 24, "UNRATE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)

			rows := readRows(t, out)
			assert.Equal(t, []string{"observation_date", tt.header}, rows[0])
			assert.Len(t, rows, tt.rows+1)
		})
	}
}

func TestTransformCmdErrors(t *testing.T) {
	_, err := run(t, "transform", "UNRATE")
	assert.EqualError(t, err, "--op is required")

	_, err = run(t, "transform", "UNRATE", "--op", "cube")
	assert.EqualError(t, err, `unknown transformation "cube"`)

	_, err = run(t, "transform", "UNRATE", "--op", "aggregate", "--to", "d")
	assert.ErrorIs(t, err, series.ErrUnsupportedConversion)
}

func TestRecessionsCmd(t *testing.T) {
	out, err := run(t, "recessions", "--start", "2000-01-01")
	require.NoError(t, err)
	assert.Equal(t, "2001-03-01 to 2001-11-01\n2007-12-01 to 2009-06-01\n2020-02-01 to 2020-04-01\n", out)
}

func TestRecessionsCmdIndicator(t *testing.T) {
	out, err := run(t, "recessions", "--indicator", "UNRATE")
	require.NoError(t, err)

	rows := readRows(t, out)
	assert.Equal(t, []string{"observation_date", "UNRATE", "recession"}, rows[0])
	require.Len(t, rows, 25)
	marked := []string{}
	for _, row := range rows[1:] {
		if row[2] == "1" {
			marked = append(marked, row[0])
		}
	}
	assert.Equal(t, []string{"2020-02-01", "2020-03-01", "2020-04-01"}, marked)
}

func TestACFCmd(t *testing.T) {
	out, err := run(t, "acf", "GDPC1", "--cycle", "--lags", "4")
	require.NoError(t, err)

	assert.Contains(t, out, "LAG")
	assert.Contains(t, out, "95% bound")
	assert.Contains(t, out, "Ljung-Box Q(4)")
	assert.Contains(t, out, "Durbin-Watson")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[1]), "0"), "first row is lag 0, got %q", lines[1])
}

func TestMomentsCmd(t *testing.T) {
	out, err := run(t, "moments", "UNRATE", "CNP16OV", "--method", "linear")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	fields := strings.Fields(lines[1])
	assert.Equal(t, "UNRATE", fields[0])
	assert.Equal(t, "1.0000", fields[2], "the reference has unit relative std")
	assert.Equal(t, "1.0000", fields[4], "the reference is perfectly correlated with itself")
	assert.True(t, strings.HasPrefix(lines[2], "CNP16OV"))
}

func TestCachePruneCmd(t *testing.T) {
	t.Setenv("FRED_CACHE_PATH", filepath.Join(t.TempDir(), "cache.db"))
	t.Setenv("FRED_CACHE_DRIVER", "sqlite")
	t.Setenv("FRED_API_KEY", "")

	out, err := execute(t, "cache", "prune")
	require.NoError(t, err)
	assert.Contains(t, out, "removed 0 expired responses")

	out, err = execute(t, "--cache", "memory", "cache", "prune")
	require.NoError(t, err)
	assert.Contains(t, out, "expires entries on its own")
}
