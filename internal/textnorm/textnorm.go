// Package textnorm чистит текст, пришедший из внешних лент.
package textnorm

import (
	"html"
	"regexp"
	"strings"
)

var (
	tagExpr   = regexp.MustCompile(`<[^>]*>`)
	blankExpr = regexp.MustCompile(`\n\s*\n`)
)

// Clean убирает HTML-разметку и сущности. Незакрытые теги
// остаются как есть: лучше лишний символ, чем потерянный текст.
func Clean(raw string) string {
	s := tagExpr.ReplaceAllString(raw, "")
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, " ", " ")
	s = blankExpr.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Clip обрезает строку до max рун.
func Clip(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
