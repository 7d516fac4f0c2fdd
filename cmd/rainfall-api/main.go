package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	httpadapter "github.com/couchcryptid/rainfall-explorer/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/rainfall-explorer/internal/adapter/kafka"
	"github.com/couchcryptid/rainfall-explorer/internal/adapter/mapbox"
	"github.com/couchcryptid/rainfall-explorer/internal/adapter/openweather"
	"github.com/couchcryptid/rainfall-explorer/internal/adapter/power"
	"github.com/couchcryptid/rainfall-explorer/internal/config"
	"github.com/couchcryptid/rainfall-explorer/internal/domain"
	"github.com/couchcryptid/rainfall-explorer/internal/observability"
	"github.com/couchcryptid/rainfall-explorer/internal/rainfall"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	source := power.NewClient(power.Options{
		BaseURL:   cfg.PowerBaseURL,
		Parameter: cfg.PowerParameter,
		Community: cfg.PowerCommunity,
		Timeout:   cfg.PowerTimeout,
	}, metrics, logger)

	var opts []rainfall.Option

	// Place names are feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN.
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		opts = append(opts, rainfall.WithPlaceNamer(mapbox.NewCachedPlaceNamer(client, cfg.MapboxCacheSize, metrics)))
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox place names enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox place names disabled")
	}

	if cfg.WeatherEnabled() {
		opts = append(opts, rainfall.WithWeather(
			openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL, cfg.OpenWeatherTimeout, metrics, logger),
		))
		logger.Info("city weather enabled")
	} else {
		logger.Info("city weather disabled: OPENWEATHER_API_KEY not set")
	}

	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		opts = append(opts, rainfall.WithPublisher(writer))
		logger.Info("query events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	svc := rainfall.NewService(domain.NewResolver(cfg.PowerMaxAvailableDate), source, metrics, logger, opts...)
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
