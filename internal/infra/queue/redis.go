// Package queue содержит реализации очереди уведомлений.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ai-now-collector/internal/domain"
)

// RedisNotifyQueue реализует очередь уведомлений поверх списка Redis.
type RedisNotifyQueue struct {
	client *redis.Client
	key    string
}

func NewRedisNotifyQueue(client *redis.Client, key string) *RedisNotifyQueue {
	return &RedisNotifyQueue{client: client, key: key}
}

func (q *RedisNotifyQueue) Enqueue(ctx context.Context, job domain.NotifyJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("сериализация задания: %w", err)
	}
	if err := q.client.RPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("постановка задания: %w", err)
	}
	return nil
}

// Pop блокируется до появления задания или отмены контекста.
func (q *RedisNotifyQueue) Pop(ctx context.Context) (domain.NotifyJob, error) {
	res, err := q.client.BLPop(ctx, 5*time.Second, q.key).Result()
	if err == redis.Nil {
		return domain.NotifyJob{}, domain.ErrNoJob
	}
	if err != nil {
		return domain.NotifyJob{}, fmt.Errorf("чтение очереди: %w", err)
	}
	var job domain.NotifyJob
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return domain.NotifyJob{}, fmt.Errorf("разбор задания: %w", err)
	}
	return job, nil
}

var _ domain.NotifyQueue = (*RedisNotifyQueue)(nil)
