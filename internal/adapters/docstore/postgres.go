// Package docstore хранит отрендеренные документы в Postgres.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ai-now-collector/internal/domain"
	"ai-now-collector/internal/infra/metrics"
)

// Postgres кладёт документы в таблицу documents с уникальным путём.
//
//	CREATE TABLE documents (
//	    path         text PRIMARY KEY,
//	    content_type text NOT NULL,
//	    content      text NOT NULL,
//	    updated_at   timestamptz NOT NULL DEFAULT now()
//	);
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) PutDocument(ctx context.Context, path, contentType, content string) error {
	start := time.Now()
	_, err := p.pool.Exec(ctx, `
		INSERT INTO documents (path, content_type, content, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (path) DO UPDATE
		SET content_type = EXCLUDED.content_type,
		    content      = EXCLUDED.content,
		    updated_at   = now()`,
		path, contentType, content)
	metrics.ObserveNetworkRequest("docstore", "put_document", "postgres", start, err)
	if err != nil {
		return fmt.Errorf("сохранение документа %s: %w", path, err)
	}
	return nil
}

func (p *Postgres) GetDocument(ctx context.Context, path string) (string, error) {
	start := time.Now()
	var content string
	err := p.pool.QueryRow(ctx,
		`SELECT content FROM documents WHERE path = $1`, path).Scan(&content)
	metrics.ObserveNetworkRequest("docstore", "get_document", "postgres", start, err)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrDocumentNotFound
	}
	if err != nil {
		return "", fmt.Errorf("чтение документа %s: %w", path, err)
	}
	return content, nil
}

func (p *Postgres) DeleteDocument(ctx context.Context, path string) error {
	start := time.Now()
	tag, err := p.pool.Exec(ctx, `DELETE FROM documents WHERE path = $1`, path)
	metrics.ObserveNetworkRequest("docstore", "delete_document", "postgres", start, err)
	if err != nil {
		return fmt.Errorf("удаление документа %s: %w", path, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

// ListDates возвращает даты, за которые есть собранные источники,
// свежие первыми.
func (p *Postgres) ListDates(ctx context.Context) ([]string, error) {
	start := time.Now()
	rows, err := p.pool.Query(ctx, `
		SELECT DISTINCT split_part(path, '/', 2) AS date
		FROM documents
		WHERE path LIKE 'sources/%'
		ORDER BY date DESC`)
	metrics.ObserveNetworkRequest("docstore", "list_dates", "postgres", start, err)
	if err != nil {
		return nil, fmt.Errorf("список дат: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("чтение даты: %w", err)
		}
		dates = append(dates, date)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("обход дат: %w", err)
	}
	return dates, nil
}

var _ domain.DocumentStore = (*Postgres)(nil)
