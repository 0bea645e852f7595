package recurrence

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/luiza-sangalli/financial-hub/internal/finance"
)

// Detection thresholds. A group needs at least minOccurrences members, and
// the day-gap variance above maxIntervalVariance disqualifies it outright.
const (
	minOccurrences      = 2
	maxIntervalVariance = 10.0
)

// Confidence weights. Occurrence count contributes up to 0.4, interval
// regularity and amount consistency up to 0.3 each.
const (
	weightPerOccurrence  = 0.2
	maxOccurrenceWeight  = 0.4
	maxRegularityWeight  = 0.3
	variancePenalty      = 0.03
	maxConsistencyWeight = 0.3
)

// Pattern is one detected recurring group: the transactions that form it,
// the suggested rule, and a confidence score in [0, 1].
type Pattern struct {
	Description  string
	Transactions []*finance.Transaction
	Rule         Rule
	Confidence   float64
}

var (
	reWhitespace = regexp.MustCompile(`\s+`)
	reDateBR     = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
	reDateISO    = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	reMonthToken = regexp.MustCompile(`(?i)\b(jan|fev|mar|abr|mai|jun|jul|ago|set|out|nov|dez)\b`)
)

// NormalizeDescription reduces a description to its recurring core:
// lowercased, whitespace collapsed, with embedded dates and Portuguese
// month abbreviations removed. "Aluguel 05/01/2024" and "ALUGUEL
// 05/02/2024" normalize identically.
func NormalizeDescription(description string) string {
	s := strings.ToLower(strings.TrimSpace(description))
	s = reWhitespace.ReplaceAllString(s, " ")
	s = reDateBR.ReplaceAllString(s, "")
	s = reDateISO.ReplaceAllString(s, "")
	s = reMonthToken.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// DetectPatterns groups transactions by normalized description, analyzes
// the day gaps inside each group, and returns the groups whose gaps fit a
// known frequency band. Results are ordered by confidence, highest first.
func DetectPatterns(transactions []*finance.Transaction) []Pattern {
	groups := make(map[string][]*finance.Transaction)
	for _, tx := range transactions {
		key := NormalizeDescription(tx.Description)
		groups[key] = append(groups[key], tx)
	}

	// Map iteration order is randomized; process groups in a stable order
	// so repeated calls over the same input produce the same output.
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := groups[keys[i]], groups[keys[j]]
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		ea, eb := earliest(a), earliest(b)
		if !ea.Equal(eb) {
			return ea.Before(eb)
		}
		return keys[i] < keys[j]
	})

	processed := make(map[string]bool)
	var patterns []Pattern

	for _, key := range keys {
		group := groups[key]
		if len(group) < minOccurrences {
			continue
		}
		if anyProcessed(group, processed) {
			continue
		}

		sorted := make([]*finance.Transaction, len(group))
		copy(sorted, group)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Date.Before(sorted[j].Date)
		})

		intervals := dayGaps(sorted)
		rule, ok := detectFrequency(sorted, intervals)
		if !ok {
			continue
		}

		patterns = append(patterns, Pattern{
			Description:  key,
			Transactions: sorted,
			Rule:         rule,
			Confidence:   confidence(sorted, intervals),
		})
		for _, tx := range sorted {
			processed[tx.ID] = true
		}
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		if patterns[i].Confidence != patterns[j].Confidence {
			return patterns[i].Confidence > patterns[j].Confidence
		}
		return patterns[i].Description < patterns[j].Description
	})
	return patterns
}

// MatchesPattern reports whether tx plausibly belongs to an existing
// pattern: same normalized description and an amount within 10% of the
// pattern's first occurrence.
func MatchesPattern(tx *finance.Transaction, pattern Pattern) bool {
	if NormalizeDescription(tx.Description) != NormalizeDescription(pattern.Description) {
		return false
	}
	if len(pattern.Transactions) == 0 {
		return false
	}

	reference := pattern.Transactions[0].Amount.Abs()
	if reference.IsZero() {
		return false
	}
	diff := tx.Amount.Abs().Sub(reference).Abs()
	ratio, _ := diff.Div(reference).Float64()
	return ratio < 0.1
}

// KnownPatterns groups already-recurring transactions by normalized
// description so new imports can be matched against them. Groups keep
// first-seen order.
func KnownPatterns(transactions []*finance.Transaction) []Pattern {
	groups := make(map[string][]*finance.Transaction)
	var order []string
	for _, tx := range transactions {
		key := NormalizeDescription(tx.Description)
		if key == "" {
			continue
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], tx)
	}

	patterns := make([]Pattern, 0, len(order))
	for _, key := range order {
		group := groups[key]
		patterns = append(patterns, Pattern{
			Description:  group[0].Description,
			Transactions: group,
		})
	}
	return patterns
}

func anyProcessed(group []*finance.Transaction, processed map[string]bool) bool {
	for _, tx := range group {
		if processed[tx.ID] {
			return true
		}
	}
	return false
}

func earliest(group []*finance.Transaction) time.Time {
	min := group[0].Date
	for _, tx := range group[1:] {
		if tx.Date.Before(min) {
			min = tx.Date
		}
	}
	return min
}

// dayGaps returns the interval in whole days between consecutive
// transactions, assuming the slice is date-ordered.
func dayGaps(sorted []*finance.Transaction) []float64 {
	gaps := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		hours := sorted[i].Date.Sub(sorted[i-1].Date).Hours()
		gaps = append(gaps, math.Round(math.Abs(hours)/24))
	}
	return gaps
}

// detectFrequency maps the mean day gap onto a frequency band. Gaps whose
// variance exceeds maxIntervalVariance never form a pattern, regardless of
// the mean.
func detectFrequency(sorted []*finance.Transaction, intervals []float64) (Rule, bool) {
	if len(intervals) == 0 {
		return Rule{}, false
	}

	avg := mean(intervals)
	if variance(intervals) > maxIntervalVariance {
		return Rule{}, false
	}

	var frequency Frequency
	interval := 1
	switch {
	case avg >= 27 && avg <= 33:
		frequency = Monthly
	case avg >= 6 && avg <= 8:
		frequency = Weekly
	case avg >= 13 && avg <= 15:
		frequency, interval = Weekly, 2
	case avg >= 358 && avg <= 368:
		frequency = Yearly
	case avg >= 58 && avg <= 65:
		frequency, interval = Monthly, 2
	case avg >= 88 && avg <= 95:
		frequency, interval = Monthly, 3
	default:
		return Rule{}, false
	}

	days := make([]int, len(sorted))
	for i, tx := range sorted {
		days[i] = tx.Date.Day()
	}

	return Rule{
		Frequency:  frequency,
		Interval:   interval,
		StartDate:  sorted[0].Date,
		DayOfMonth: mostCommon(days),
	}, true
}

// confidence scores a pattern: occurrence count, interval regularity and
// amount consistency each contribute a capped component.
func confidence(sorted []*finance.Transaction, intervals []float64) float64 {
	score := math.Min(float64(len(sorted))*weightPerOccurrence, maxOccurrenceWeight)
	score += math.Max(0, maxRegularityWeight-variance(intervals)*variancePenalty)

	amounts := make([]float64, len(sorted))
	for i, tx := range sorted {
		amounts[i], _ = tx.Amount.Abs().Float64()
	}
	avgAmount := mean(amounts)
	relativeVariance := 1.0
	if avgAmount > 0 {
		relativeVariance = variance(amounts) / avgAmount
	}
	score += math.Max(0, maxConsistencyWeight-relativeVariance)

	return math.Min(score, 1)
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// variance is the population variance.
func variance(values []float64) float64 {
	avg := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - avg
		sum += d * d
	}
	return sum / float64(len(values))
}

// mostCommon returns the most frequent value; ties go to the value seen
// first in the slice.
func mostCommon(values []int) int {
	counts := make(map[int]int, len(values))
	best := values[0]
	bestCount := 0
	for _, v := range values {
		counts[v]++
		if counts[v] > bestCount {
			bestCount = counts[v]
			best = v
		}
	}
	return best
}
