// Command raincheck queries NASA POWER precipitation for a point in Malaysia
// and prints the banded table, or looks up city weather with -city.
//
// Usage:
//
//	go run ./cmd/raincheck \
//	  -start-year 2024 -start-month 1 -start-day 1 \
//	  -end-year 2024 -end-month 1 -end-day 31 \
//	  -lat 3.139 -lon 101.6869 -xlsx rainfall.xlsx
//
//	go run ./cmd/raincheck -city Langkawi
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/couchcryptid/rainfall-explorer/internal/adapter/excel"
	"github.com/couchcryptid/rainfall-explorer/internal/adapter/mapbox"
	"github.com/couchcryptid/rainfall-explorer/internal/adapter/openweather"
	"github.com/couchcryptid/rainfall-explorer/internal/adapter/power"
	"github.com/couchcryptid/rainfall-explorer/internal/config"
	"github.com/couchcryptid/rainfall-explorer/internal/domain"
	"github.com/couchcryptid/rainfall-explorer/internal/observability"
	"github.com/couchcryptid/rainfall-explorer/internal/rainfall"
)

type options struct {
	form     domain.FormState
	xlsxPath string
	city     string
	weather  bool
}

// querier is the part of rainfall.Service the command drives.
type querier interface {
	Query(ctx context.Context, f domain.FormState) (rainfall.Result, error)
	Weather(ctx context.Context, city string) (domain.CityWeather, error)
}

func main() {
	opts, verbose, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := newService(cfg, logger)
	os.Exit(run(ctx, svc, opts, os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (options, bool, error) {
	fs := flag.NewFlagSet("raincheck", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.form.StartYear, "start-year", "", "start year (empty: current year)")
	fs.StringVar(&opts.form.StartMonth, "start-month", "", "start month 1-12")
	fs.StringVar(&opts.form.StartDay, "start-day", "", "start day of month")
	fs.StringVar(&opts.form.EndYear, "end-year", "", "end year (empty: current year)")
	fs.StringVar(&opts.form.EndMonth, "end-month", "", "end month 1-12")
	fs.StringVar(&opts.form.EndDay, "end-day", "", "end day of month")
	fs.StringVar(&opts.form.Latitude, "lat", domain.DefaultLatitude, "latitude, clamped to [1, 7.5]")
	fs.StringVar(&opts.form.Longitude, "lon", domain.DefaultLongitude, "longitude, clamped to [100, 120]")
	fs.StringVar(&opts.xlsxPath, "xlsx", "", "also write the table to this XLSX file")
	fs.StringVar(&opts.city, "city", "", "look up current weather for a city instead")
	verbose := fs.Bool("v", false, "verbose logging")

	if err := fs.Parse(args); err != nil {
		return options{}, false, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "city" {
			opts.weather = true
		}
	})
	return opts, *verbose, nil
}

func newService(cfg *config.Config, logger *slog.Logger) *rainfall.Service {
	metrics := observability.NewMetrics()
	source := power.NewClient(power.Options{
		BaseURL:   cfg.PowerBaseURL,
		Parameter: cfg.PowerParameter,
		Community: cfg.PowerCommunity,
		Timeout:   cfg.PowerTimeout,
	}, metrics, logger)

	var opts []rainfall.Option
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		opts = append(opts, rainfall.WithPlaceNamer(mapbox.NewCachedPlaceNamer(client, cfg.MapboxCacheSize, metrics)))
	}
	if cfg.WeatherEnabled() {
		opts = append(opts, rainfall.WithWeather(
			openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL, cfg.OpenWeatherTimeout, metrics, logger),
		))
	}
	return rainfall.NewService(domain.NewResolver(cfg.PowerMaxAvailableDate), source, metrics, logger, opts...)
}

// run returns the process exit code: 0 on success, 1 on any query error.
func run(ctx context.Context, svc querier, opts options, stdout, stderr io.Writer) int {
	if opts.weather {
		return runWeather(ctx, svc, opts.city, stdout, stderr)
	}

	// Flags arrive all at once, so every field gets the blur policy before
	// the query is resolved.
	form := opts.form.CommitAll()
	res, err := svc.Query(ctx, form)
	if err != nil {
		fmt.Fprintln(stderr, domain.UserMessage(err))
		if res.Elapsed != "" {
			fmt.Fprintf(stderr, "Elapsed: %s\n", res.Elapsed)
		}
		return 1
	}

	printResult(stdout, res)

	if opts.xlsxPath != "" {
		if err := writeWorkbook(opts.xlsxPath, res); err != nil {
			fmt.Fprintf(stderr, "write %s: %v\n", opts.xlsxPath, err)
			return 1
		}
		fmt.Fprintf(stdout, "Workbook written to %s\n", opts.xlsxPath)
	}
	return 0
}

func printResult(w io.Writer, res rainfall.Result) {
	q := res.Query
	fmt.Fprintf(w, "Mode: %s  Range: %s to %s  Point: %s, %s\n",
		res.Mode, q.Range.Start.ISO(), q.Range.End.ISO(), res.Form.Latitude, res.Form.Longitude)
	if res.Advisory != "" {
		fmt.Fprintln(w, res.Advisory)
	}
	if res.Place.Name != "" {
		fmt.Fprintf(w, "Place: %s\n", res.Place.Address)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(res.Table.Columns, "\t"))
	for _, row := range res.Table.Rows {
		fmt.Fprintln(tw, strings.Join(row.Cells(), "\t"))
	}
	tw.Flush() //nolint:errcheck // terminal output

	if res.Mode == domain.ModeClimatology && res.Annual.Valid {
		fmt.Fprintf(w, "\nAnnual: %s mm/day\n", domain.FormatAmount(res.Annual))
	}
	fmt.Fprintf(w, "\nElapsed: %s\n", res.Elapsed)
}

func writeWorkbook(path string, res rainfall.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := excel.NewExporter().Write(f, excel.Report{Query: res.Query, Table: res.Table, Place: res.Place}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runWeather(ctx context.Context, svc querier, city string, stdout, stderr io.Writer) int {
	cw, err := svc.Weather(ctx, city)
	if err != nil {
		fmt.Fprintln(stderr, domain.UserMessage(err))
		return 1
	}

	fmt.Fprintf(stdout, "%s, %s\n%s\n", cw.City, cw.Country, cw.DateLabel)
	fmt.Fprintf(stdout, "%.1f°C  %s\n", cw.Temperature, cw.Condition)
	fmt.Fprintf(stdout, "Humidity: %d%%  Wind: %.1f m/s\n\n", cw.Humidity, cw.WindSpeed)

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Day\tTemperature (°C)")
	for _, d := range cw.Daily {
		fmt.Fprintf(tw, "%s\t%.1f\n", d.Label, d.Temperature)
	}
	tw.Flush() //nolint:errcheck // terminal output
	return 0
}
