package openweather

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
	"golang.org/x/sync/errgroup"
)

const apiName = "openweather"

// Client implements domain.WeatherProvider using the OpenWeatherMap API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an OpenWeatherMap client.
func NewClient(apiKey, baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
		logger:     logger,
	}
}

// CityWeather fetches current conditions and the 5-day forecast in parallel.
// A non-OK current-weather response means the city is unknown.
func (c *Client) CityWeather(ctx context.Context, city string) (domain.CityWeather, error) {
	var (
		current     currentResponse
		forecast    forecastResponse
		currentErr  error
		forecastErr error
	)

	// Both requests run to completion; a current-weather failure takes
	// precedence over a forecast failure.
	var g errgroup.Group
	g.Go(func() error {
		currentErr = c.get(ctx, "weather", city, &current)
		return currentErr
	})
	g.Go(func() error {
		forecastErr = c.get(ctx, "forecast", city, &forecast)
		return forecastErr
	})
	if g.Wait() != nil {
		c.metrics.UpstreamRequests.WithLabelValues(apiName, "error").Inc()
		return domain.CityWeather{}, mapError(city, currentErr, forecastErr)
	}
	c.metrics.UpstreamRequests.WithLabelValues(apiName, "success").Inc()

	return toDomain(current, forecast, domain.Clock().Now()), nil
}

func (c *Client) get(ctx context.Context, endpoint, city string, dst any) error {
	params := url.Values{
		"q":     {city},
		"appid": {c.apiKey},
		"units": {"metric"},
		"lang":  {"en"},
	}
	u := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues(apiName).Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		c.logger.Debug("openweather API error", "endpoint", endpoint, "status", resp.StatusCode, "body", string(body))
		return &statusError{endpoint: endpoint, code: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return domain.ContractError("API returned unexpected structure.", fmt.Errorf("decode %s: %w", endpoint, err))
	}
	return nil
}

func toDomain(cur currentResponse, fc forecastResponse, now time.Time) domain.CityWeather {
	w := domain.CityWeather{
		City:        cur.Name,
		Country:     cur.Sys.Country,
		DateLabel:   domain.LongDateLabel(now),
		Temperature: cur.Main.Temp,
		Humidity:    cur.Main.Humidity,
		WindSpeed:   cur.Wind.Speed,
	}
	if len(cur.Weather) > 0 {
		w.Condition = cur.Weather[0].Description
		w.Icon = cur.Weather[0].Icon
		w.IconURL = domain.WeatherIconURL(w.Icon)
	}

	slots := make([]domain.ForecastSlot, len(fc.List))
	for i, item := range fc.List {
		slots[i] = domain.ForecastSlot{
			Time:        time.Unix(item.Dt, 0).UTC(),
			Temperature: item.Main.Temp,
		}
	}
	w.Daily = domain.SampleDaily(slots)
	return w
}

func mapError(city string, currentErr, forecastErr error) error {
	var se *statusError
	if errors.As(currentErr, &se) {
		return domain.CityNotFound(city, currentErr)
	}
	err := currentErr
	if err == nil {
		err = forecastErr
	}
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.As(err, &se) {
		return domain.TransportError(se.Error(), err)
	}
	return domain.TransportError("network error", err)
}

type statusError struct {
	endpoint string
	code     int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s: HTTP %d", e.endpoint, e.code)
}

// OpenWeatherMap API response types.

type currentResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
	} `json:"list"`
}
