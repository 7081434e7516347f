package gather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func redditFixture(posts ...redditPost) string {
	type child struct {
		Data redditPost `json:"data"`
	}
	payload := map[string]any{
		"data": map[string]any{
			"children": func() []child {
				out := make([]child, 0, len(posts))
				for _, p := range posts {
					out = append(out, child{Data: p})
				}
				return out
			}(),
		},
	}
	raw, _ := json.Marshal(payload)
	return string(raw)
}

func TestRedditGather(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/r/artificial/hot.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, redditFixture(
			redditPost{Title: "OpenAI releases new agent", Permalink: "/r/artificial/1", Score: 50},
			redditPost{Title: "My cat photos", Permalink: "/r/artificial/2", Score: 900},
		))
	})
	mux.HandleFunc("/r/MachineLearning/hot.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, redditFixture(
			redditPost{
				Title:     "New machine learning paper discussion",
				Permalink: "/r/MachineLearning/3",
				Selftext:  strings.Repeat("analysis ", 50),
				Score:     200,
			},
		))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	g := NewReddit(srv.Client(), srv.URL, []string{"artificial", "MachineLearning"}, 12)
	stories, err := g.Gather(context.Background())
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(stories) != 2 {
		t.Fatalf("ожидали 2 истории, получили %d", len(stories))
	}
	for _, s := range stories {
		switch {
		case strings.Contains(s.Title, "cat photos"):
			t.Fatalf("нерелевантный пост прошёл фильтр")
		case s.Title == "OpenAI releases new agent":
			if s.Description != "[Link post]" {
				t.Errorf("пост без текста должен получить заглушку, получили %q", s.Description)
			}
			if s.Link != "https://reddit.com/r/artificial/1" {
				t.Errorf("ссылка должна вести на публичный reddit: %q", s.Link)
			}
			if s.SourceTag != "r/artificial" {
				t.Errorf("неверный тег сабреддита: %q", s.SourceTag)
			}
		case s.Title == "New machine learning paper discussion":
			if len([]rune(s.Description)) > redditDescLimit {
				t.Errorf("selftext не обрезан: %d рун", len([]rune(s.Description)))
			}
		}
	}
}

func TestRedditGatherSubredditFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/r/artificial/hot.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, redditFixture())
	})
	mux.HandleFunc("/r/MachineLearning/hot.json", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	g := NewReddit(srv.Client(), srv.URL, []string{"artificial", "MachineLearning"}, 12)
	if _, err := g.Gather(context.Background()); err == nil {
		t.Fatalf("сбой сабреддита должен ронять весь источник")
	}
}
