// Package relevance решает, относится ли история к тематике AI,
// и считает её релевантность.
package relevance

import "strings"

// IsRelevant возвращает true, если текст упоминает тематическое
// ключевое слово и при этом либо содержит признак качества, либо
// достаточно длинный, чтобы быть содержательной историей.
// Сравнение подстроками: "ai" совпадёт и внутри "said". Так задумано
// грубо, но дешёво; ложные срабатывания гасятся вторым условием.
func IsRelevant(text string) bool {
	lower := strings.ToLower(text)
	if !containsAny(lower, topicalKeywords) {
		return false
	}
	if containsAny(lower, qualityIndicators) {
		return true
	}
	return len(strings.Fields(lower)) > 10
}

// Score суммирует веса всех категорий, чьи термины встречаются в тексте.
// Термин даёт вклад один раз, сколько бы раз он ни повторился.
func Score(text string) int {
	lower := strings.ToLower(text)
	total := 0
	for _, cat := range scoreCategories {
		for _, term := range cat.terms {
			if strings.Contains(lower, term) {
				total += cat.weight
			}
		}
	}
	return total
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
