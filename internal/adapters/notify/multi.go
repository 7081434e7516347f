package notify

import (
	"context"

	"ai-now-collector/internal/domain"
)

// Multi рассылает уведомление во все настроенные каналы. Сбой одного
// канала не мешает остальным, наружу уходит последняя ошибка.
type Multi []domain.Notifier

func (m Multi) SendCompletion(ctx context.Context, run domain.Run, body string) error {
	var lastErr error
	for _, n := range m {
		if err := n.SendCompletion(ctx, run, body); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (m Multi) SendAlert(ctx context.Context, message string) error {
	var lastErr error
	for _, n := range m {
		if err := n.SendAlert(ctx, message); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

var _ domain.Notifier = (Multi)(nil)
