package domain

import (
	"context"
	"errors"
	"time"
)

// ErrNoJob возвращается, когда очередь пуста и ждать дальше нельзя.
var ErrNoJob = errors.New("очередь пуста")

// NotifyJobKind различает задания очереди уведомлений.
type NotifyJobKind string

const (
	NotifyKindCrosspost NotifyJobKind = "crosspost"
	NotifyKindAlert     NotifyJobKind = "alert"
)

// NotifyJob описывает отложенное уведомление после завершения запуска.
type NotifyJob struct {
	ID          string        `json:"job_id"`
	Kind        NotifyJobKind `json:"kind"`
	Date        string        `json:"date"`
	Message     string        `json:"message"`
	Platforms   []string      `json:"platforms,omitempty"`
	RequestedAt time.Time     `json:"requested_at"`
}

// NotifyQueue ставит задания уведомлений и отдаёт их воркеру.
type NotifyQueue interface {
	Enqueue(ctx context.Context, job NotifyJob) error
	Pop(ctx context.Context) (NotifyJob, error)
}
