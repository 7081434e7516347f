package domain

import (
	"context"
	"errors"
)

// ErrMetaNotFound возвращается, когда ключа нет ни в одном уровне реестра.
var ErrMetaNotFound = errors.New("мета-ключ не найден")

// ErrDocumentNotFound возвращается, когда документа нет в хранилище.
var ErrDocumentNotFound = errors.New("документ не найден")

// Gatherer выгружает истории из одного внешнего источника.
type Gatherer interface {
	// Name возвращает ключ источника, он же имя файла.
	Name() string
	// Title возвращает отображаемое имя для заголовков.
	Title() string
	// Homepage возвращает публичный адрес источника.
	Homepage() string
	Gather(ctx context.Context) ([]Story, error)
}

// MetaStore хранит небольшие JSON-блобы состояния запусков.
type MetaStore interface {
	Put(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// DocumentStore хранит отрендеренные документы по пути вида sources/<дата>/<файл>.
type DocumentStore interface {
	PutDocument(ctx context.Context, path, contentType, content string) error
	GetDocument(ctx context.Context, path string) (string, error)
	DeleteDocument(ctx context.Context, path string) error
	ListDates(ctx context.Context) ([]string, error)
}

// Notifier отправляет уведомления о завершении запуска и сбоях.
type Notifier interface {
	SendCompletion(ctx context.Context, run Run, body string) error
	SendAlert(ctx context.Context, message string) error
}
