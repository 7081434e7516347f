// Package ledger реализует двухуровневый реестр запусков: быстрый
// Redis с ретраями плюс резервный уровень поверх хранилища документов.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ai-now-collector/internal/domain"
)

const (
	putAttempts    = 3
	getAttempts    = 3
	deleteAttempts = 2

	putBaseDelay    = 300 * time.Millisecond
	getBaseDelay    = 200 * time.Millisecond
	deleteBaseDelay = 200 * time.Millisecond
)

// backoffDelay растит паузу линейно с номером попытки.
func backoffDelay(attempt int, base time.Duration) time.Duration {
	return time.Duration(attempt) * base
}

// RedisMeta хранит мета-ключи реестра в Redis.
type RedisMeta struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisMeta {
	return &RedisMeta{client: client}
}

func (m *RedisMeta) Put(ctx context.Context, key, value string) error {
	var lastErr error
	for attempt := 1; attempt <= putAttempts; attempt++ {
		if err := m.client.Set(ctx, key, value, 0).Err(); err != nil {
			lastErr = err
			if attempt == putAttempts {
				break
			}
			if err := sleep(ctx, backoffDelay(attempt, putBaseDelay)); err != nil {
				return err
			}
			continue
		}
		return nil
	}
	return fmt.Errorf("redis put %s: %w", key, lastErr)
}

func (m *RedisMeta) Get(ctx context.Context, key string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= getAttempts; attempt++ {
		value, err := m.client.Get(ctx, key).Result()
		if err == nil {
			return value, nil
		}
		// Отсутствие ключа не повод для ретрая.
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrMetaNotFound
		}
		lastErr = err
		if attempt == getAttempts {
			break
		}
		if err := sleep(ctx, backoffDelay(attempt, getBaseDelay)); err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("redis get %s: %w", key, lastErr)
}

func (m *RedisMeta) Delete(ctx context.Context, key string) error {
	var lastErr error
	for attempt := 1; attempt <= deleteAttempts; attempt++ {
		if err := m.client.Del(ctx, key).Err(); err != nil {
			lastErr = err
			if attempt == deleteAttempts {
				break
			}
			if err := sleep(ctx, backoffDelay(attempt, deleteBaseDelay)); err != nil {
				return err
			}
			continue
		}
		return nil
	}
	return fmt.Errorf("redis delete %s: %w", key, lastErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

var _ domain.MetaStore = (*RedisMeta)(nil)
