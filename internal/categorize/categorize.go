// Package categorize assigns transaction categories from description
// keywords. Matching is accent- and case-insensitive, so "Açougue do Zé"
// and "ACOUGUE DO ZE" resolve the same.
package categorize

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer strips combining marks after NFD decomposition, reducing
// "ação" to "acao".
var foldTransformer = runes.Remove(runes.In(unicode.Mn))

// Categorize returns the category for a transaction description, matching
// keywords in rule order with the first hit winning. The second return
// value is false when no keyword matches.
func Categorize(description string) (string, bool) {
	normalized := fold(description)

	for _, rule := range rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(normalized, fold(keyword)) {
				return rule.Category, true
			}
		}
	}
	return "", false
}

// Stats summarizes how well the rule set covered a batch of descriptions.
type Stats struct {
	Total         int            `json:"total"`
	Categorized   int            `json:"categorized"`
	Uncategorized int            `json:"uncategorized"`
	Percentage    int            `json:"percentage"`
	CategoryCount map[string]int `json:"categoryCount"`
}

// BatchStats categorizes every description and aggregates hit counts.
func BatchStats(descriptions []string) Stats {
	stats := Stats{
		Total:         len(descriptions),
		CategoryCount: make(map[string]int),
	}

	for _, desc := range descriptions {
		category, ok := Categorize(desc)
		if !ok {
			continue
		}
		stats.Categorized++
		stats.CategoryCount[category]++
	}

	stats.Uncategorized = stats.Total - stats.Categorized
	if stats.Total > 0 {
		stats.Percentage = int(float64(stats.Categorized)/float64(stats.Total)*100 + 0.5)
	}
	return stats
}

// Categories returns the distinct category names, sorted.
func Categories() []string {
	seen := make(map[string]bool, len(rules))
	var out []string
	for _, rule := range rules {
		if seen[rule.Category] {
			continue
		}
		seen[rule.Category] = true
		out = append(out, rule.Category)
	}
	sort.Strings(out)
	return out
}

func fold(s string) string {
	lowered := strings.ToLower(s)
	folded, _, err := transform.String(transform.Chain(norm.NFD, foldTransformer, norm.NFC), lowered)
	if err != nil {
		return lowered
	}
	return folded
}
