package notify

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ai-now-collector/internal/domain"
	"ai-now-collector/internal/infra/metrics"
)

// Telegram шлёт уведомления в служебный чат через Bot API.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("инициализация бота: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID}, nil
}

// SendMessage отправляет произвольный текст в служебный чат.
func (t *Telegram) SendMessage(text string) error {
	start := time.Now()
	_, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, text))
	metrics.ObserveNetworkRequest("notify", "send_message", "telegram", start, err)
	if err != nil {
		return fmt.Errorf("отправка в telegram: %w", err)
	}
	return nil
}

func (t *Telegram) SendCompletion(ctx context.Context, run domain.Run, body string) error {
	return t.SendMessage(body)
}

func (t *Telegram) SendAlert(ctx context.Context, message string) error {
	return t.SendMessage("🚨 Source gathering failed: " + message)
}

var _ domain.Notifier = (*Telegram)(nil)
