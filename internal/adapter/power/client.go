package power

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/rainfall-explorer/internal/domain"
	"github.com/couchcryptid/rainfall-explorer/internal/observability"
	"github.com/sony/gobreaker/v2"
)

const (
	apiName = "power"

	// tripAfterFailures consecutive breaker failures open the circuit.
	tripAfterFailures = 5
)

// Options configures the POWER client.
type Options struct {
	BaseURL   string
	Parameter string
	Community string
	Timeout   time.Duration
}

// Client implements domain.PrecipitationSource using the NASA POWER
// temporal API. Requests are never retried; after repeated failures the
// breaker fails fast until the upstream recovers.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	opts       Options
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a POWER client.
func NewClient(opts Options, metrics *observability.Metrics, logger *slog.Logger) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		opts:       opts,
		metrics:    metrics,
		logger:     logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        apiName,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= tripAfterFailures
		},
		IsSuccessful: isBreakerSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			if to == gobreaker.StateOpen {
				metrics.BreakerOpen.Set(1)
			} else {
				metrics.BreakerOpen.Set(0)
			}
		},
	})
	return c
}

// Daily fetches one value per day of r.
func (c *Client) Daily(ctx context.Context, coord domain.GeoCoordinate, r domain.DateRange) (domain.Series, error) {
	u := c.buildURL("daily", coord, url.Values{
		"start": {r.Start.String()},
		"end":   {r.End.String()},
	})
	return c.fetch(ctx, u)
}

// Climatology fetches the monthly long-term means for coord.
func (c *Client) Climatology(ctx context.Context, coord domain.GeoCoordinate) (domain.Series, error) {
	return c.fetch(ctx, c.buildURL("climatology", coord, nil))
}

// CheckReadiness reports not ready while the breaker is open.
func (c *Client) CheckReadiness(_ context.Context) error {
	if c.breaker.State() == gobreaker.StateOpen {
		return errors.New("power API circuit breaker is open")
	}
	return nil
}

func (c *Client) buildURL(temporal string, coord domain.GeoCoordinate, extra url.Values) string {
	params := url.Values{
		"parameters": {c.opts.Parameter},
		"community":  {c.opts.Community},
		"longitude":  {domain.FormatCoordinate(coord.Longitude)},
		"latitude":   {domain.FormatCoordinate(coord.Latitude)},
		"format":     {"JSON"},
	}
	for k, v := range extra {
		params[k] = v
	}
	return fmt.Sprintf("%s/%s/point?%s", c.opts.BaseURL, temporal, params.Encode())
}

func (c *Client) fetch(ctx context.Context, fullURL string) (domain.Series, error) {
	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.get(ctx, fullURL)
	})
	c.metrics.UpstreamDuration.WithLabelValues(apiName).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(apiName, "error").Inc()
		return nil, mapError(err)
	}

	series, err := c.decode(body)
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(apiName, "error").Inc()
		return nil, err
	}
	c.metrics.UpstreamRequests.WithLabelValues(apiName, "success").Inc()
	return series, nil
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("power request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("power API error", "status", resp.StatusCode, "body", truncate(body, 256))
		return nil, &statusError{code: resp.StatusCode}
	}
	return body, nil
}

// decode extracts properties.parameter.<parameter>.
func (c *Client) decode(body []byte) (domain.Series, error) {
	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, domain.ContractError("API returned unexpected structure.", fmt.Errorf("decode response: %w", err))
	}
	if r.Properties == nil || r.Properties.Parameter == nil {
		return nil, domain.ContractError("API returned unexpected structure.", errors.New("missing properties.parameter"))
	}
	series, ok := r.Properties.Parameter[c.opts.Parameter]
	if !ok || series == nil {
		return nil, domain.ContractError("API returned unexpected structure.", fmt.Errorf("missing parameter %s", c.opts.Parameter))
	}
	return series, nil
}

// statusError is a non-200 upstream response.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.code)
}

// isBreakerSuccess keeps client errors from tripping the breaker: a 4xx means
// the request was bad, not that the upstream is down.
func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	var se *statusError
	return errors.As(err, &se) && se.code >= 400 && se.code < 500 && se.code != http.StatusTooManyRequests
}

func mapError(err error) error {
	var se *statusError
	switch {
	case errors.As(err, &se):
		return domain.TransportError(se.Error(), err)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return domain.TransportError("service temporarily unavailable (circuit breaker open)", err)
	default:
		return domain.TransportError("network error", err)
	}
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n])
	}
	return string(b)
}

// POWER API response types.

type response struct {
	Properties *properties `json:"properties"`
}

type properties struct {
	Parameter map[string]domain.Series `json:"parameter"`
}
