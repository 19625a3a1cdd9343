package metrics

import (
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsManager holds custom Prometheus metrics.
type MetricsManager struct {
	Registry *prometheus.Registry

	ReviewsCreatedTotal   prometheus.Counter
	ReviewUpdatesTotal    prometheus.Counter
	ReviewDeletesTotal    prometheus.Counter
	FavoritesCreatedTotal prometheus.Counter
	FavoriteDeletesTotal  prometheus.Counter
	HouseDeletesTotal     prometheus.Counter
	HouseCacheHitsTotal   *prometheus.CounterVec // result: hit|miss

	APIErrorsTotal *prometheus.CounterVec   // route, error_type
	APILatency     *prometheus.HistogramVec // route, method
}

// NewMetricsManager initializes and registers the service metrics on a private registry.
func NewMetricsManager(serviceName string) *MetricsManager {
	ns := strings.ReplaceAll(serviceName, "-", "_")
	registry := prometheus.NewRegistry()

	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Namespace: ns, Name: name, Help: help})
	}

	m := &MetricsManager{
		Registry:              registry,
		ReviewsCreatedTotal:   counter("reviews_created_total", "Total number of reviews created."),
		ReviewUpdatesTotal:    counter("review_updates_total", "Total number of reviews updated."),
		ReviewDeletesTotal:    counter("review_deletes_total", "Total number of reviews deleted."),
		FavoritesCreatedTotal: counter("favorites_created_total", "Total number of favorites created."),
		FavoriteDeletesTotal:  counter("favorite_deletes_total", "Total number of favorites deleted."),
		HouseDeletesTotal:     counter("house_deletes_total", "Total number of houses deleted with their reviews and favorites."),
		HouseCacheHitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "house_cache_lookups_total",
			Help:      "House cache lookups by result.",
		}, []string{"result"}),
		APIErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "api_errors_total",
			Help:      "Total number of API errors by route.",
		}, []string{"route", "error_type"}),
		APILatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "api_request_latency_seconds",
			Help:      "Latency of API requests by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	registry.MustRegister(
		m.ReviewsCreatedTotal,
		m.ReviewUpdatesTotal,
		m.ReviewDeletesTotal,
		m.FavoritesCreatedTotal,
		m.FavoriteDeletesTotal,
		m.HouseDeletesTotal,
		m.HouseCacheHitsTotal,
		m.APIErrorsTotal,
		m.APILatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry for scraping.
func (m *MetricsManager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// NewMetricsServer builds the /metrics HTTP server. It returns nil when no port is configured.
func NewMetricsServer(port string, appLogger *logger.Logger, m *MetricsManager) *http.Server {
	if port == "" {
		appLogger.Info("Prometheus metrics server port not configured, server will not start.")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	appLogger.Info("Prometheus metrics server configured", zap.String("port", port), zap.String("path", "/metrics"))
	return &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}
}
