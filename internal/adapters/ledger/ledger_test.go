package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"ai-now-collector/internal/domain"
)

type memDocs struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemDocs() *memDocs {
	return &memDocs{data: make(map[string]string)}
}

func (m *memDocs) PutDocument(ctx context.Context, path, contentType, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[path] = content
	return nil
}

func (m *memDocs) GetDocument(ctx context.Context, path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.data[path]
	if !ok {
		return "", domain.ErrDocumentNotFound
	}
	return content, nil
}

func (m *memDocs) DeleteDocument(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[path]; !ok {
		return domain.ErrDocumentNotFound
	}
	delete(m.data, path)
	return nil
}

func (m *memDocs) ListDates(ctx context.Context) ([]string, error) { return nil, nil }

type downMeta struct{}

func (downMeta) Put(ctx context.Context, key, value string) error { return errors.New("rate limited") }
func (downMeta) Get(ctx context.Context, key string) (string, error) {
	return "", errors.New("rate limited")
}
func (downMeta) Delete(ctx context.Context, key string) error { return errors.New("rate limited") }

func TestBackoffDelayGrowsLinearly(t *testing.T) {
	if got := backoffDelay(1, putBaseDelay); got != 300*time.Millisecond {
		t.Fatalf("первая пауза: %v", got)
	}
	if got := backoffDelay(2, putBaseDelay); got != 600*time.Millisecond {
		t.Fatalf("вторая пауза: %v", got)
	}
	if got := backoffDelay(3, getBaseDelay); got != 600*time.Millisecond {
		t.Fatalf("третья пауза чтения: %v", got)
	}
}

func TestMetaFallbackRoundTrip(t *testing.T) {
	ctx := context.Background()
	docs := newMemDocs()
	meta := NewMetaFallback(docs)

	if err := meta.Put(ctx, domain.KeyLastRun, `{"id":"manual-1"}`); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok := docs.data["meta/last_run.json"]; !ok {
		t.Fatalf("ключ должен лечь по пути meta/last_run.json, есть: %v", docs.data)
	}
	got, err := meta.Get(ctx, domain.KeyLastRun)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != `{"id":"manual-1"}` {
		t.Fatalf("получили %q", got)
	}
	if err := meta.Delete(ctx, domain.KeyLastRun); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := meta.Get(ctx, domain.KeyLastRun); !errors.Is(err, domain.ErrMetaNotFound) {
		t.Fatalf("после удаления ожидали ErrMetaNotFound, получили %v", err)
	}
	// Повторное удаление не ошибка.
	if err := meta.Delete(ctx, domain.KeyLastRun); err != nil {
		t.Fatalf("повторное удаление: %v", err)
	}
}

func TestTieredFallsBackOnPrimaryFailure(t *testing.T) {
	ctx := context.Background()
	fallback := NewMetaFallback(newMemDocs())
	tiered := NewTiered(downMeta{}, fallback, zerolog.Nop())

	if err := tiered.Put(ctx, domain.KeyRunsList, "[]"); err != nil {
		t.Fatalf("запись при упавшем первичном уровне: %v", err)
	}
	got, err := tiered.Get(ctx, domain.KeyRunsList)
	if err != nil {
		t.Fatalf("чтение при упавшем первичном уровне: %v", err)
	}
	if got != "[]" {
		t.Fatalf("получили %q", got)
	}
	if err := tiered.Delete(ctx, domain.KeyRunsList); err != nil {
		t.Fatalf("удаление при упавшем первичном уровне: %v", err)
	}
}

func TestTieredMissIsNotFound(t *testing.T) {
	fallback := NewMetaFallback(newMemDocs())
	tiered := NewTiered(NewMetaFallback(newMemDocs()), fallback, zerolog.Nop())
	if _, err := tiered.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrMetaNotFound) {
		t.Fatalf("ожидали ErrMetaNotFound, получили %v", err)
	}
}
