package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"ai-now-collector/internal/adapters/notify"
	"ai-now-collector/internal/domain"
	"ai-now-collector/internal/infra/config"
	applog "ai-now-collector/internal/infra/log"
	"ai-now-collector/internal/infra/metrics"
	"ai-now-collector/internal/infra/queue"
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

	var notifyQueue domain.NotifyQueue
	if cfg.RabbitURL != "" {
		rq, err := queue.NewRabbitNotifyQueue(cfg.RabbitURL, cfg.Queues.Notify)
		if err != nil {
			logger.Fatal().Err(err).Msg("notifier: подключение к rabbitmq")
		}
		defer rq.Close()
		notifyQueue = rq
	} else {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		notifyQueue = queue.NewRedisNotifyQueue(rdb, cfg.Queues.Notify)
	}

	var tg *notify.Telegram
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != 0 {
		tg, err = notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			logger.Fatal().Err(err).Msg("notifier: инициализация telegram")
		}
	}

	metrics.StartServer(ctx, logger, cfg.MetricsAddr)

	w := &worker{log: logger, queue: notifyQueue, telegram: tg}
	logger.Info().Msg("notifier: воркер запущен")
	w.run(ctx)
	logger.Info().Msg("notifier: остановлен")
}

type worker struct {
	log      zerolog.Logger
	queue    domain.NotifyQueue
	telegram *notify.Telegram
}

func (w *worker) run(ctx context.Context) {
	for {
		job, err := w.queue.Pop(ctx)
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return
		}
		if errors.Is(err, domain.ErrNoJob) {
			continue
		}
		if err != nil {
			w.log.Error().Err(err).Msg("notifier: чтение очереди")
			continue
		}
		w.handle(job)
	}
}

// handle доставляет задание best-effort: провал доставки логируется,
// задание не возвращается в очередь.
func (w *worker) handle(job domain.NotifyJob) {
	log := w.log.With().Str("job_id", job.ID).Str("kind", string(job.Kind)).Logger()
	switch job.Kind {
	case domain.NotifyKindCrosspost:
		log.Info().
			Str("date", job.Date).
			Str("platforms", strings.Join(job.Platforms, ",")).
			Msg("notifier: кросспост")
		if w.telegram != nil {
			if err := w.telegram.SendMessage(job.Message); err != nil {
				log.Error().Err(err).Msg("notifier: доставка не удалась")
			}
		}
	case domain.NotifyKindAlert:
		if w.telegram != nil {
			if err := w.telegram.SendMessage("🚨 " + job.Message); err != nil {
				log.Error().Err(err).Msg("notifier: доставка не удалась")
			}
		}
	default:
		log.Warn().Msg("notifier: неизвестный тип задания")
	}
}
