// Package gather содержит адаптеры пяти внешних источников новостей.
// Каждый адаптер сам фильтрует, дедуплицирует и ранжирует свои истории,
// поэтому оркестратор получает уже готовый отбор.
package gather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const userAgent = "AI-Now-Bot/1.0"

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("формирование запроса: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("запрос %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("источник ответил %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("разбор ответа: %w", err)
	}
	return nil
}
