// Package render собирает markdown-документы из отобранных историй.
package render

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"ai-now-collector/internal/domain"
)

var storyHeadingExpr = regexp.MustCompile(`(?m)^## `)

// Source рендерит документ одного источника. Каждая история начинается
// с заголовка второго уровня, по ним же считается CountStories.
func Source(title, homepage string, stories []domain.Story, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Source: [%s](%s)\n", homepage, homepage)
	fmt.Fprintf(&b, "Stories found: %d\n", len(stories))
	fmt.Fprintf(&b, "Generated: %s\n\n", now.UTC().Format(time.RFC3339))
	b.WriteString("---\n\n")
	for _, s := range stories {
		fmt.Fprintf(&b, "## %s\n\n", s.Title)
		if s.Description != "" {
			fmt.Fprintf(&b, "%s\n\n", s.Description)
		}
		fmt.Fprintf(&b, "🔗 [Read more](%s)\n", s.Link)
		if s.Score > 0 {
			fmt.Fprintf(&b, "⬆️ Score: %d\n", s.Score)
		}
		if s.SourceTag != "" {
			fmt.Fprintf(&b, "📍 %s\n", s.SourceTag)
		}
		b.WriteString("\n---\n\n")
	}
	return b.String()
}

// Failed рендерит заглушку для недоступного источника. Документ
// существует всегда, чтобы набор файлов за дату был полным.
func Failed(title string) string {
	return fmt.Sprintf("# %s\n\n*Failed to fetch*\n", title)
}

// Index рендерит сводный README за дату.
func Index(docs []domain.SourceDocument, date string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# AI-Now Sources - %s\n\n", date)
	fmt.Fprintf(&b, "Generated at: %s\n\n", now.UTC().Format(time.RFC3339))
	b.WriteString("## Quick Summary\n\n")
	for _, doc := range docs {
		fmt.Fprintf(&b, "- **%s**: %d stories\n", doc.Name, CountStories(doc.Content))
	}
	b.WriteString("\n## Files\n\n")
	for _, doc := range docs {
		fmt.Fprintf(&b, "- [ ] %s.md\n", doc.Name)
	}
	return b.String()
}

// URLList рендерит urls.txt со ссылками на скачивание документов даты.
func URLList(names []string, date, baseURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/sources/%s/README.md\n", baseURL, date)
	for _, name := range names {
		fmt.Fprintf(&b, "%s/sources/%s/%s.md\n", baseURL, date, name)
	}
	return b.String()
}

// CountStories считает истории в документе по заголовкам второго уровня.
func CountStories(markdown string) int {
	return len(storyHeadingExpr.FindAllStringIndex(markdown, -1))
}
