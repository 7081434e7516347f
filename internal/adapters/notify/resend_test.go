package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ai-now-collector/internal/domain"
)

func TestResendSendCompletion(t *testing.T) {
	var got resendEmail
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/emails" || r.Method != http.MethodPost {
			t.Errorf("неожиданный запрос: %s %s", r.Method, r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewResend("key-123", "AI-Now Bot <bot@v2u.us>", "ops@v2u.us", srv.URL, time.Second)
	run := domain.Run{ID: "manual-1", Date: "2026-03-14", Status: domain.RunStatusCompleted}
	if err := r.SendCompletion(context.Background(), run, "42 stories ready"); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if auth != "Bearer key-123" {
		t.Errorf("неверная авторизация: %q", auth)
	}
	if got.Subject != "AI-Now Sources Ready - 2026-03-14" {
		t.Errorf("неверная тема: %q", got.Subject)
	}
	if got.Text != "42 stories ready" {
		t.Errorf("неверное тело: %q", got.Text)
	}
	if len(got.To) != 1 || got.To[0] != "ops@v2u.us" {
		t.Errorf("неверный адресат: %v", got.To)
	}
}

func TestResendSendAlertError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	r := NewResend("bad-key", "bot@v2u.us", "ops@v2u.us", srv.URL, time.Second)
	err := r.SendAlert(context.Background(), "all sources down")
	if err == nil {
		t.Fatalf("ожидали ошибку при 401")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Fatalf("в ошибке нет статуса: %v", err)
	}
}

type flakyNotifier struct {
	fail  bool
	calls int
}

func (f *flakyNotifier) SendCompletion(ctx context.Context, run domain.Run, body string) error {
	f.calls++
	if f.fail {
		return errors.New("channel down")
	}
	return nil
}

func (f *flakyNotifier) SendAlert(ctx context.Context, message string) error {
	f.calls++
	if f.fail {
		return errors.New("channel down")
	}
	return nil
}

func TestMultiDeliversToAllChannels(t *testing.T) {
	broken := &flakyNotifier{fail: true}
	healthy := &flakyNotifier{}
	m := Multi{broken, healthy}

	err := m.SendCompletion(context.Background(), domain.Run{}, "done")
	if err == nil {
		t.Fatalf("ошибка сломанного канала должна всплыть")
	}
	if healthy.calls != 1 {
		t.Fatalf("здоровый канал должен получить уведомление, вызовов %d", healthy.calls)
	}
}
