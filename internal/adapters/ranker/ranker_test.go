package ranker

import (
	"testing"

	"ai-now-collector/internal/domain"
	"ai-now-collector/internal/relevance"
)

func titles(stories []domain.Story) []string {
	out := make([]string, 0, len(stories))
	for _, s := range stories {
		out = append(out, s.Title)
	}
	return out
}

func TestDedupeCollapsesNearDuplicates(t *testing.T) {
	in := []domain.Story{
		{Title: "OpenAI launches new model"},
		{Title: "OpenAI launches a new model"},
		{Title: "Google releases new chip"},
	}
	got := DedupeAndRank(in, 0)
	if len(got) != 2 {
		t.Fatalf("ожидали 2 истории, получили %d: %v", len(got), titles(got))
	}
	for _, s := range got {
		if s.Title == "OpenAI launches a new model" {
			t.Fatalf("остаться должна первая из пары дублей")
		}
	}
}

func TestDedupeKeepsDistinctTitles(t *testing.T) {
	in := []domain.Story{
		{Title: "Anthropic ships Claude update"},
		{Title: "Robotics startup raises funding"},
	}
	if got := DedupeAndRank(in, 0); len(got) != 2 {
		t.Fatalf("разные заголовки не должны склеиваться: %v", titles(got))
	}
}

func TestRankOrderIsMonotonic(t *testing.T) {
	in := []domain.Story{
		{Title: "City council meeting notes"},
		{Title: "OpenAI publishes GPT research paper"},
		{Title: "Startup funding news"},
	}
	got := DedupeAndRank(in, 0)
	for i := 1; i < len(got); i++ {
		prev := relevance.Score(got[i-1].Title)
		cur := relevance.Score(got[i].Title)
		if cur > prev {
			t.Fatalf("порядок не по убыванию релевантности: %v", titles(got))
		}
	}
	if got[0].Title != "OpenAI publishes GPT research paper" {
		t.Fatalf("самая релевантная история не первая: %v", titles(got))
	}
}

func TestDedupeIdempotent(t *testing.T) {
	in := []domain.Story{
		{Title: "OpenAI launches new model"},
		{Title: "OpenAI launches a new model"},
		{Title: "Anthropic research paper"},
	}
	once := DedupeAndRank(in, 0)
	twice := DedupeAndRank(once, 0)
	if len(once) != len(twice) {
		t.Fatalf("повторный прогон изменил результат: %d -> %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].Title != twice[i].Title {
			t.Fatalf("повторный прогон переставил истории: %v vs %v", titles(once), titles(twice))
		}
	}
}

func TestDedupeAllDuplicates(t *testing.T) {
	in := []domain.Story{
		{Title: "AI breakthrough announced!"},
		{Title: "AI breakthrough announced"},
		{Title: "ai breakthrough ANNOUNCED"},
	}
	got := DedupeAndRank(in, 0)
	if len(got) != 1 {
		t.Fatalf("ожидали 1 историю, получили %d", len(got))
	}
	if got[0].Title != "AI breakthrough announced!" {
		t.Fatalf("должна остаться первая история, получили %q", got[0].Title)
	}
}

func TestRankCap(t *testing.T) {
	in := []domain.Story{
		{Title: "OpenAI news"},
		{Title: "Anthropic news"},
		{Title: "Robotics news"},
	}
	if got := DedupeAndRank(in, 2); len(got) != 2 {
		t.Fatalf("обрезка до 2 не сработала: %d", len(got))
	}
}

func TestDedupeEmptyInput(t *testing.T) {
	if got := DedupeAndRank(nil, 5); len(got) != 0 {
		t.Fatalf("пустой вход должен давать пустой выход, получили %d", len(got))
	}
}
