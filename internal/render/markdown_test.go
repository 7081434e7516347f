package render

import (
	"strings"
	"testing"
	"time"

	"ai-now-collector/internal/domain"
)

var renderTime = time.Date(2026, 3, 14, 4, 0, 0, 0, time.UTC)

func TestSourceDocument(t *testing.T) {
	stories := []domain.Story{
		{Title: "OpenAI launches new model", Link: "https://example.com/a", Description: "Big release.", Score: 120, SourceTag: "r/artificial"},
		{Title: "Anthropic research paper", Link: "https://example.com/b", Description: "[Link post]"},
	}
	doc := Source("Reddit AI", "https://reddit.com", stories, renderTime)

	for _, want := range []string{
		"# Reddit AI\n",
		"Source: [https://reddit.com](https://reddit.com)\n",
		"Stories found: 2\n",
		"Generated: 2026-03-14T04:00:00Z\n",
		"## OpenAI launches new model\n",
		"🔗 [Read more](https://example.com/a)\n",
		"⬆️ Score: 120\n",
		"📍 r/artificial\n",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("в документе нет %q:\n%s", want, doc)
		}
	}
	if CountStories(doc) != 2 {
		t.Fatalf("ожидали 2 истории, получили %d", CountStories(doc))
	}
}

func TestSourceWithoutOptionalFields(t *testing.T) {
	doc := Source("TechCrunch", "https://techcrunch.com", []domain.Story{
		{Title: "AI funding news", Link: "https://example.com/c"},
	}, renderTime)
	if strings.Contains(doc, "⬆️") || strings.Contains(doc, "📍") {
		t.Fatalf("пустые score и tag не должны рендериться:\n%s", doc)
	}
}

func TestFailedPlaceholder(t *testing.T) {
	doc := Failed("Hacker News")
	if doc != "# Hacker News\n\n*Failed to fetch*\n" {
		t.Fatalf("неожиданная заглушка: %q", doc)
	}
	if CountStories(doc) != 0 {
		t.Fatalf("в заглушке не должно быть историй")
	}
}

func TestIndex(t *testing.T) {
	docs := []domain.SourceDocument{
		{Name: "techcrunch", Content: Source("TechCrunch", "https://techcrunch.com", []domain.Story{
			{Title: "AI news one", Link: "https://example.com/1"},
			{Title: "AI news two", Link: "https://example.com/2"},
		}, renderTime)},
		{Name: "hackernews", Content: Failed("Hacker News")},
	}
	idx := Index(docs, "2026-03-14", renderTime)
	for _, want := range []string{
		"# AI-Now Sources - 2026-03-14",
		"- **techcrunch**: 2 stories",
		"- **hackernews**: 0 stories",
		"- [ ] techcrunch.md",
		"- [ ] hackernews.md",
	} {
		if !strings.Contains(idx, want) {
			t.Errorf("в README нет %q:\n%s", want, idx)
		}
	}
}

func TestURLList(t *testing.T) {
	got := URLList([]string{"techcrunch", "arxiv"}, "2026-03-14", "https://v2u.us")
	want := "https://v2u.us/sources/2026-03-14/README.md\n" +
		"https://v2u.us/sources/2026-03-14/techcrunch.md\n" +
		"https://v2u.us/sources/2026-03-14/arxiv.md\n"
	if got != want {
		t.Fatalf("ожидали %q, получили %q", want, got)
	}
}
