package ledger

import (
	"context"
	"errors"

	"ai-now-collector/internal/domain"
)

// MetaFallback кладёт мета-ключи в хранилище документов по путям
// meta/<ключ>.json. Медленнее Redis, зато переживает его недоступность.
type MetaFallback struct {
	docs domain.DocumentStore
}

func NewMetaFallback(docs domain.DocumentStore) *MetaFallback {
	return &MetaFallback{docs: docs}
}

func metaPath(key string) string {
	return "meta/" + key + ".json"
}

func (f *MetaFallback) Put(ctx context.Context, key, value string) error {
	return f.docs.PutDocument(ctx, metaPath(key), "application/json", value)
}

func (f *MetaFallback) Get(ctx context.Context, key string) (string, error) {
	value, err := f.docs.GetDocument(ctx, metaPath(key))
	if errors.Is(err, domain.ErrDocumentNotFound) {
		return "", domain.ErrMetaNotFound
	}
	return value, err
}

func (f *MetaFallback) Delete(ctx context.Context, key string) error {
	err := f.docs.DeleteDocument(ctx, metaPath(key))
	if errors.Is(err, domain.ErrDocumentNotFound) {
		return nil
	}
	return err
}

var _ domain.MetaStore = (*MetaFallback)(nil)
