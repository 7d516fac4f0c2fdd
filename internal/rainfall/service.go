// Package rainfall orchestrates a rainfall query: resolve the form, fetch
// from POWER, build the table and chart, name the place and publish an event.
package rainfall

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/rainfall-explorer/internal/domain"
	"github.com/couchcryptid/rainfall-explorer/internal/observability"
)

const publishTimeout = 5 * time.Second

// EventPublisher writes query events downstream.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.RainfallQueryEvent) error
}

// ReadinessChecker reports whether a dependency can serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Result is one rendered query.
type Result struct {
	Query     domain.ResolvedQuery `json:"query"`
	Form      domain.FormState     `json:"form"`
	Advisory  string               `json:"advisory,omitempty"`
	Mode      domain.Mode          `json:"mode"`
	Table     domain.Table         `json:"table"`
	Chart     domain.Chart         `json:"chart"`
	Annual    domain.Amount        `json:"annual_mm"`
	Place     domain.Place         `json:"place"`
	Elapsed   string               `json:"elapsed"`
	ElapsedMS int64                `json:"elapsed_ms"`
}

// Service runs rainfall and city weather queries.
type Service struct {
	resolver  *domain.Resolver
	source    domain.PrecipitationSource
	weather   domain.WeatherProvider
	places    domain.PlaceNamer
	publisher EventPublisher
	clock     clockwork.Clock
	newID     func() string
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// Option configures optional collaborators.
type Option func(*Service)

// WithWeather enables city weather lookups.
func WithWeather(p domain.WeatherProvider) Option {
	return func(s *Service) { s.weather = p }
}

// WithPlaceNamer enables place names for queried coordinates.
func WithPlaceNamer(n domain.PlaceNamer) Option {
	return func(s *Service) { s.places = n }
}

// WithPublisher enables query events.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithClock overrides the clock used for elapsed time.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithIDFunc overrides event ID generation.
func WithIDFunc(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// NewService creates a Service. Weather, place names and publishing are off
// unless enabled with options.
func NewService(resolver *domain.Resolver, source domain.PrecipitationSource, metrics *observability.Metrics, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		resolver: resolver,
		source:   source,
		clock:    domain.Clock(),
		newID:    uuid.NewString,
		metrics:  metrics,
		logger:   logger.With("component", "rainfall"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Query resolves f and fetches the matching series. Input errors are
// returned before any upstream call; the sanitized form is always returned.
func (s *Service) Query(ctx context.Context, f domain.FormState) (Result, error) {
	start := s.clock.Now()

	q, form, err := s.resolver.Resolve(f)
	if err != nil {
		s.metrics.InputRejections.Inc()
		s.metrics.Queries.WithLabelValues("none", "input_error").Inc()
		return Result{Form: form}, err
	}

	mode := q.Mode()
	res := Result{Query: q, Form: form, Advisory: q.Advisory, Mode: mode}
	if q.UseClimatology {
		s.metrics.ClimatologyFallbacks.Inc()
		s.logger.Info("using climatology",
			"start", q.Range.Start.String(),
			"end", q.Range.End.String(),
		)
	}

	series, err := s.fetch(ctx, q)
	// The timer stops whether the fetch succeeded or not.
	elapsed := s.clock.Since(start)
	res.Elapsed, res.ElapsedMS = domain.FormatElapsed(elapsed), elapsed.Milliseconds()
	if err != nil {
		s.metrics.Queries.WithLabelValues(string(mode), "upstream_error").Inc()
		s.logger.Warn("rainfall fetch failed", "mode", mode, "error", err)
		return res, err
	}

	res.Table = domain.BuildTable(mode, series)
	if res.Table.Skipped > 0 {
		s.logger.Warn("response keys did not match any row",
			"mode", mode,
			"skipped", res.Table.Skipped,
			"keys", len(series),
		)
	}
	res.Chart = res.Table.Chart()
	res.Annual = res.Table.Annual
	res.Place = domain.DescribePlace(ctx, q.Coordinate, s.places, s.logger)

	s.metrics.Queries.WithLabelValues(string(mode), "success").Inc()
	s.logger.Info("rainfall query complete",
		"mode", mode,
		"rows", len(res.Table.Rows),
		"available", res.Table.Available(),
		"elapsed", res.Elapsed,
	)

	s.publish(ctx, domain.NewRainfallQueryEvent(s.newID(), q, res.Table, res.Place, elapsed))
	return res, nil
}

func (s *Service) fetch(ctx context.Context, q domain.ResolvedQuery) (domain.Series, error) {
	if q.UseClimatology {
		return s.source.Climatology(ctx, q.Coordinate)
	}
	return s.source.Daily(ctx, q.Coordinate, q.Range)
}

// publish is best effort: a failed write is logged and counted, never
// surfaced to the caller.
func (s *Service) publish(ctx context.Context, event domain.RainfallQueryEvent) {
	if s.publisher == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, event); err != nil {
		s.metrics.EventsPublished.WithLabelValues("error").Inc()
		s.logger.Error("publish query event failed", "id", event.ID, "error", err)
		return
	}
	s.metrics.EventsPublished.WithLabelValues("success").Inc()
}

// ErrWeatherDisabled is returned when no weather provider is configured.
var ErrWeatherDisabled = domain.NewAppError(domain.CodeDisabled, "City weather lookup is not configured.", nil)

// Weather looks up current conditions and a daily forecast for a city.
func (s *Service) Weather(ctx context.Context, rawCity string) (domain.CityWeather, error) {
	city, err := domain.NormalizeCity(rawCity)
	if err != nil {
		s.metrics.WeatherLookups.WithLabelValues("input_error").Inc()
		return domain.CityWeather{}, err
	}
	if s.weather == nil {
		return domain.CityWeather{}, ErrWeatherDisabled
	}

	w, err := s.weather.CityWeather(ctx, city)
	if err != nil {
		outcome := "error"
		if domain.CodeOf(err) == domain.CodeNotFound {
			outcome = "not_found"
		}
		s.metrics.WeatherLookups.WithLabelValues(outcome).Inc()
		s.logger.Warn("weather lookup failed", "city", city, "error", err)
		return domain.CityWeather{}, err
	}
	s.metrics.WeatherLookups.WithLabelValues("success").Inc()
	return w, nil
}

// WeatherEnabled reports whether city lookups are available.
func (s *Service) WeatherEnabled() bool {
	return s.weather != nil
}

// Resolver exposes the resolver so presentation code can report its limits.
func (s *Service) Resolver() *domain.Resolver {
	return s.resolver
}

// CheckReadiness delegates to the precipitation source when it can report
// its own health.
func (s *Service) CheckReadiness(ctx context.Context) error {
	if rc, ok := s.source.(ReadinessChecker); ok {
		if err := rc.CheckReadiness(ctx); err != nil {
			return errors.Join(errors.New("precipitation source not ready"), err)
		}
	}
	return nil
}
