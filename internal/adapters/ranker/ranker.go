// Package ranker убирает дубли историй и сортирует их по релевантности.
package ranker

import (
	"regexp"
	"sort"
	"strings"

	"ai-now-collector/internal/domain"
	"ai-now-collector/internal/relevance"
)

// Порог схожести Жаккара, начиная с которого заголовки считаются дублями.
const similarityThreshold = 0.8

var nonWordExpr = regexp.MustCompile(`[^\w\s]`)

type rankedStory struct {
	story domain.Story
	score int
}

// DedupeAndRank оставляет первую историю из каждой группы похожих
// заголовков, сортирует остаток по убыванию релевантности и обрезает
// до max элементов. max <= 0 отключает обрезку. Повторный вызов на
// собственном результате ничего не меняет.
func DedupeAndRank(stories []domain.Story, max int) []domain.Story {
	ranked := make([]rankedStory, 0, len(stories))
	seen := make([]string, 0, len(stories))
	for _, s := range stories {
		norm := normalizeTitle(s.Title)
		dup := false
		for _, prev := range seen {
			if jaccard(norm, prev) >= similarityThreshold {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		seen = append(seen, norm)
		ranked = append(ranked, rankedStory{
			story: s,
			score: relevance.Score(s.Title + " " + s.Description),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if max > 0 && len(ranked) > max {
		ranked = ranked[:max]
	}
	out := make([]domain.Story, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.story)
	}
	return out
}

func normalizeTitle(title string) string {
	s := strings.ToLower(title)
	s = nonWordExpr.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// jaccard считает схожесть множеств слов двух нормализованных заголовков.
func jaccard(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}
	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}
