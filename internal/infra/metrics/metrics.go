package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	// RunsTotal считает запуски пайплайна по итоговому статусу.
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ainow_runs_total",
			Help: "Количество запусков пайплайна по статусам.",
		},
		[]string{"status"},
	)

	// RunDuration измеряет длительность запуска целиком.
	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ainow_run_duration_seconds",
			Help:    "Длительность запуска пайплайна.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	// StoriesGathered показывает, сколько историй прошло отбор по источникам.
	StoriesGathered = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ainow_stories_gathered",
			Help: "Истории последнего запуска по источникам.",
		},
		[]string{"source"},
	)

	// GatherErrors считает сбои источников.
	GatherErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ainow_gather_errors_total",
			Help: "Сбои выгрузки по источникам.",
		},
		[]string{"source"},
	)

	// NetworkRequestDuration измеряет время сетевых запросов к внешним API.
	NetworkRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ainow_network_request_duration_seconds",
			Help:    "Длительность сетевых запросов.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"component", "operation", "target", "status"},
	)

	// NetworkRequestTotal считает сетевые запросы.
	NetworkRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ainow_network_requests_total",
			Help: "Количество сетевых запросов.",
		},
		[]string{"component", "operation", "target", "status"},
	)
)

// MustRegister регистрирует все метрики приложения.
func MustRegister() {
	prometheus.MustRegister(
		RunsTotal,
		RunDuration,
		StoriesGathered,
		GatherErrors,
		NetworkRequestDuration,
		NetworkRequestTotal,
	)
}

// ObserveNetworkRequest фиксирует один сетевой запрос.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(time.Since(start).Seconds())
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}

// ObserveRun фиксирует завершение запуска пайплайна.
func ObserveRun(status string, started time.Time) {
	RunsTotal.WithLabelValues(status).Inc()
	RunDuration.Observe(time.Since(started).Seconds())
}

// SetStoriesGathered обновляет счётчик историй источника.
func SetStoriesGathered(source string, n int) {
	StoriesGathered.WithLabelValues(source).Set(float64(n))
}

// IncGatherError учитывает сбой источника.
func IncGatherError(source string) {
	GatherErrors.WithLabelValues(source).Inc()
}

// StartServer поднимает HTTP-эндпоинт /metrics и гасит его вместе с ctx.
func StartServer(ctx context.Context, log zerolog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		log.Info().Str("addr", addr).Msg("metrics: сервер запущен")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics: сервер остановился с ошибкой")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
