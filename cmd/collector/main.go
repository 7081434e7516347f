package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"ai-now-collector/internal/adapters/docstore"
	"ai-now-collector/internal/adapters/gather"
	"ai-now-collector/internal/adapters/ledger"
	"ai-now-collector/internal/adapters/notify"
	"ai-now-collector/internal/domain"
	"ai-now-collector/internal/infra/config"
	"ai-now-collector/internal/infra/db"
	applog "ai-now-collector/internal/infra/log"
	"ai-now-collector/internal/infra/metrics"
	"ai-now-collector/internal/infra/queue"
	"ai-now-collector/internal/usecase/collect"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger := applog.NewLogger(cfg.AppEnv)
	metrics.MustRegister()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.PGDSN == "" {
		logger.Fatal().Msg("collector: PG_DSN обязателен")
	}
	pool, err := db.Connect(cfg.PGDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("collector: подключение к postgres")
	}
	defer pool.Close()
	store := docstore.NewPostgres(pool)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	meta := ledger.NewTiered(ledger.NewRedis(rdb), ledger.NewMetaFallback(store), logger)

	httpClient := &http.Client{Timeout: cfg.FetchTimeout}
	gatherers := []domain.Gatherer{
		gather.NewFeed("techcrunch", "TechCrunch", cfg.Sources.TechCrunchFeed, "https://techcrunch.com", httpClient, cfg.Limits.FeedStories),
		gather.NewFeed("venturebeat", "VentureBeat", cfg.Sources.VentureBeatFeed, "https://venturebeat.com", httpClient, cfg.Limits.FeedStories),
		gather.NewReddit(httpClient, cfg.Sources.RedditBaseURL, cfg.Sources.Subreddits, cfg.Limits.RedditStories),
		gather.NewHackerNews(httpClient, cfg.Sources.HackerNewsBase, cfg.Limits.HackerNewsStories),
		gather.NewArxiv(cfg.Sources.ArxivQueryURL, httpClient, cfg.Limits.ArxivStories),
	}

	var channels notify.Multi
	if cfg.Email.ResendAPIKey != "" && cfg.Email.To != "" {
		channels = append(channels, notify.NewResend(cfg.Email.ResendAPIKey, cfg.Email.From, cfg.Email.To, "", cfg.FetchTimeout))
	}
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != 0 {
		tg, err := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			logger.Fatal().Err(err).Msg("collector: инициализация telegram")
		}
		channels = append(channels, tg)
	}
	var notifier domain.Notifier
	if len(channels) > 0 {
		notifier = channels
	}

	var notifyQueue domain.NotifyQueue
	if cfg.RabbitURL != "" {
		rq, err := queue.NewRabbitNotifyQueue(cfg.RabbitURL, cfg.Queues.Notify)
		if err != nil {
			logger.Fatal().Err(err).Msg("collector: подключение к rabbitmq")
		}
		defer rq.Close()
		notifyQueue = rq
	} else {
		notifyQueue = queue.NewRedisNotifyQueue(rdb, cfg.Queues.Notify)
	}

	svc := collect.NewService(logger, meta, store, gatherers, notifier, notifyQueue, collect.Config{
		BaseURL:         cfg.BaseURL,
		RunHistoryLimit: cfg.Limits.RunHistory,
		LogHistoryLimit: cfg.Limits.LogHistory,
		Platforms:       cfg.Social.Platforms,
	})

	metrics.StartServer(ctx, logger, cfg.MetricsAddr)
	go runDailySchedule(ctx, logger, svc, cfg.ScheduleHour)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: newRouter(svc, store, cfg.ScheduleHour),
	}
	go func() {
		logger.Info().Int("port", cfg.Port).Msg("collector: сервер запущен")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("collector: сервер остановился с ошибкой")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	logger.Info().Msg("collector: остановлен")
}

// runDailySchedule запускает пайплайн раз в сутки в заданный час UTC.
// Отметка отработанной даты хранится в реестре, поэтому рестарт внутри
// планового часа не приводит к повторному запуску.
func runDailySchedule(ctx context.Context, logger zerolog.Logger, svc *collect.Service, hour int) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			utc := now.UTC()
			if utc.Hour() != hour {
				continue
			}
			date := utc.Format("2006-01-02")
			if svc.RunScheduledForDate(ctx, date) {
				logger.Info().Str("date", date).Msg("collector: плановый запуск")
			}
		}
	}
}

func newRouter(svc *collect.Service, store domain.DocumentStore, scheduleHour int) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "AI-Now Source Collector")
	})

	r.Get("/api/status", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, svc.Status(req.Context(), scheduleHour))
	})

	r.Get("/api/runs", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"runs": svc.RecentRuns(req.Context(), queryLimit(req, 10)),
		})
	})

	r.Get("/api/logs", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"logs": svc.RecentLogs(req.Context(), queryLimit(req, 50)),
		})
	})

	r.Post("/api/trigger", func(w http.ResponseWriter, req *http.Request) {
		runID := svc.TriggerManual(req.Context())
		writeJSON(w, http.StatusAccepted, map[string]string{
			"runId":   runID,
			"message": "Source gathering started",
		})
	})

	r.Post("/api/reset-last-run", func(w http.ResponseWriter, req *http.Request) {
		if err := svc.ResetLastRun(req.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Last run cleared"})
	})

	r.Post("/api/delete-run", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			RunID string `json:"runId"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.RunID == "" {
			writeError(w, http.StatusBadRequest, errors.New("runId обязателен"))
			return
		}
		if err := svc.DeleteRun(req.Context(), body.RunID); err != nil {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Run deleted"})
	})

	r.Get("/list", func(w http.ResponseWriter, req *http.Request) {
		dates, err := store.ListDates(req.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"dates": dates})
	})

	r.Get("/sources/{date}", func(w http.ResponseWriter, req *http.Request) {
		serveDocument(w, req, store, chi.URLParam(req, "date"), "README.md")
	})
	r.Get("/sources/{date}/{file}", func(w http.ResponseWriter, req *http.Request) {
		serveDocument(w, req, store, chi.URLParam(req, "date"), chi.URLParam(req, "file"))
	})

	return r
}

func serveDocument(w http.ResponseWriter, req *http.Request, store domain.DocumentStore, date, file string) {
	if strings.Contains(date, "/") || strings.Contains(file, "/") {
		writeError(w, http.StatusBadRequest, errors.New("некорректный путь"))
		return
	}
	content, err := store.GetDocument(req.Context(), fmt.Sprintf("sources/%s/%s", date, file))
	if errors.Is(err, domain.ErrDocumentNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	contentType := "text/markdown; charset=utf-8"
	if strings.HasSuffix(file, ".txt") {
		contentType = "text/plain; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file))
	_, _ = w.Write([]byte(content))
}

func queryLimit(req *http.Request, def int) int {
	raw := req.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return def
	}
	return limit
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
