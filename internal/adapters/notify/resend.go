// Package notify содержит каналы уведомлений о запусках пайплайна.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ai-now-collector/internal/domain"
	"ai-now-collector/internal/infra/metrics"
)

const resendDefaultBaseURL = "https://api.resend.com"

// Resend отправляет письма через HTTP API Resend.
type Resend struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	from       string
	to         string
}

func NewResend(apiKey, from, to, baseURL string, timeout time.Duration) *Resend {
	if baseURL == "" {
		baseURL = resendDefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Resend{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		from:       from,
		to:         to,
	}
}

type resendEmail struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

func (r *Resend) send(ctx context.Context, subject, text string) error {
	payload, err := json.Marshal(resendEmail{
		From:    r.from,
		To:      []string{r.to},
		Subject: subject,
		Text:    text,
	})
	if err != nil {
		return fmt.Errorf("сериализация письма: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("формирование запроса: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := r.httpClient.Do(req)
	metrics.ObserveNetworkRequest("notify", "send_email", "resend", start, err)
	if err != nil {
		return fmt.Errorf("запрос к resend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("resend ответил %s: %s", resp.Status, body)
	}
	return nil
}

func (r *Resend) SendCompletion(ctx context.Context, run domain.Run, body string) error {
	subject := fmt.Sprintf("AI-Now Sources Ready - %s", run.Date)
	return r.send(ctx, subject, body)
}

func (r *Resend) SendAlert(ctx context.Context, message string) error {
	text := fmt.Sprintf("Error: %s\n\nCheck logs in the dashboard.", message)
	return r.send(ctx, "🚨 Source Gathering Failed", text)
}

var _ domain.Notifier = (*Resend)(nil)
