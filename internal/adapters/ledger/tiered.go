package ledger

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"ai-now-collector/internal/domain"
)

// Tiered объединяет первичный и резервный уровни реестра. Запись идёт
// в первичный, при его отказе в резервный. Чтение пробует уровни в том
// же порядке.
type Tiered struct {
	primary  domain.MetaStore
	fallback domain.MetaStore
	log      zerolog.Logger
}

func NewTiered(primary, fallback domain.MetaStore, log zerolog.Logger) *Tiered {
	return &Tiered{primary: primary, fallback: fallback, log: log}
}

func (t *Tiered) Put(ctx context.Context, key, value string) error {
	if err := t.primary.Put(ctx, key, value); err != nil {
		t.log.Warn().Err(err).Str("key", key).Msg("ledger: первичный уровень недоступен, пишем в резерв")
		return t.fallback.Put(ctx, key, value)
	}
	return nil
}

func (t *Tiered) Get(ctx context.Context, key string) (string, error) {
	value, err := t.primary.Get(ctx, key)
	if err == nil {
		return value, nil
	}
	if !errors.Is(err, domain.ErrMetaNotFound) {
		t.log.Warn().Err(err).Str("key", key).Msg("ledger: первичный уровень недоступен, читаем резерв")
	}
	return t.fallback.Get(ctx, key)
}

// Delete чистит оба уровня: ключ мог оказаться в любом из них.
func (t *Tiered) Delete(ctx context.Context, key string) error {
	if err := t.primary.Delete(ctx, key); err != nil {
		t.log.Warn().Err(err).Str("key", key).Msg("ledger: не удалось удалить ключ из первичного уровня")
	}
	return t.fallback.Delete(ctx, key)
}

var _ domain.MetaStore = (*Tiered)(nil)
