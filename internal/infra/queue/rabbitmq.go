package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"ai-now-collector/internal/domain"
)

// RabbitNotifyQueue реализует очередь уведомлений поверх AMQP.
type RabbitNotifyQueue struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string

	mu         sync.Mutex
	deliveries <-chan amqp.Delivery
}

func NewRabbitNotifyQueue(url, queue string) (*RabbitNotifyQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("подключение к rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("открытие канала: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("объявление очереди %s: %w", queue, err)
	}
	return &RabbitNotifyQueue{conn: conn, ch: ch, queue: queue}, nil
}

func (q *RabbitNotifyQueue) Enqueue(ctx context.Context, job domain.NotifyJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("сериализация задания: %w", err)
	}
	err = q.ch.PublishWithContext(ctx, "", q.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("публикация задания: %w", err)
	}
	return nil
}

// Pop блокируется до появления задания или отмены контекста.
func (q *RabbitNotifyQueue) Pop(ctx context.Context) (domain.NotifyJob, error) {
	deliveries, err := q.consume()
	if err != nil {
		return domain.NotifyJob{}, err
	}
	select {
	case <-ctx.Done():
		return domain.NotifyJob{}, ctx.Err()
	case d, ok := <-deliveries:
		if !ok {
			return domain.NotifyJob{}, fmt.Errorf("канал доставки закрыт")
		}
		var job domain.NotifyJob
		if err := json.Unmarshal(d.Body, &job); err != nil {
			return domain.NotifyJob{}, fmt.Errorf("разбор задания: %w", err)
		}
		return job, nil
	}
}

func (q *RabbitNotifyQueue) consume() (<-chan amqp.Delivery, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.deliveries != nil {
		return q.deliveries, nil
	}
	deliveries, err := q.ch.Consume(q.queue, "", true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("подписка на очередь: %w", err)
	}
	q.deliveries = deliveries
	return deliveries, nil
}

func (q *RabbitNotifyQueue) Close() error {
	if err := q.ch.Close(); err != nil {
		_ = q.conn.Close()
		return err
	}
	return q.conn.Close()
}

var _ domain.NotifyQueue = (*RabbitNotifyQueue)(nil)
