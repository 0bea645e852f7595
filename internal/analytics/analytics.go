// Package analytics computes dashboard figures from a company's
// transactions: totals, recurring versus one-time splits, top expense
// categories and a monthly trend.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/luiza-sangalli/financial-hub/internal/finance"
)

// trendMonths is how many calendar months the trend covers, current month
// included.
const trendMonths = 6

const (
	uncategorizedName  = "Sem Categoria"
	uncategorizedColor = "#999999"
)

// Stats are the headline dashboard numbers.
type Stats struct {
	TotalIncome           decimal.Decimal `json:"totalIncome"`
	TotalExpense          decimal.Decimal `json:"totalExpense"`
	NetProfit             decimal.Decimal `json:"netProfit"`
	TransactionsThisMonth int             `json:"transactionsThisMonth"`
	TotalTransactions     int             `json:"totalTransactions"`
	RecurringExpenses     decimal.Decimal `json:"recurringExpenses"`
	OneTimeExpenses       decimal.Decimal `json:"oneTimeExpenses"`
	RecurringIncome       decimal.Decimal `json:"recurringIncome"`
	OneTimeIncome         decimal.Decimal `json:"oneTimeIncome"`
}

// CategorySummary is one category's share of expenses.
type CategorySummary struct {
	Name   string          `json:"name"`
	Color  string          `json:"color"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// MonthPoint is one month of the income/expense trend.
type MonthPoint struct {
	Month   string          `json:"month"` // YYYY-MM
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Overview is the full dashboard payload.
type Overview struct {
	Stats              Stats                  `json:"stats"`
	CategoryStats      []CategorySummary      `json:"categoryStats"`
	RecentTransactions []*finance.Transaction `json:"recentTransactions"`
	MonthlyTrend       []MonthPoint           `json:"monthlyTrend"`
}

// Compute builds the dashboard overview. Amounts are unsigned magnitudes,
// so income and expense totals are both plain sums and the net is their
// difference. now anchors "this month" and the trend window.
func Compute(txs []*finance.Transaction, categories []*finance.Category, now time.Time) Overview {
	catByID := make(map[string]*finance.Category, len(categories))
	for _, c := range categories {
		catByID[c.ID] = c
	}

	var stats Stats
	stats.TotalTransactions = len(txs)

	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	byCategory := make(map[string]*CategorySummary)

	for _, tx := range txs {
		amount := tx.Amount.Abs()

		switch tx.Type {
		case finance.TypeIncome:
			stats.TotalIncome = stats.TotalIncome.Add(amount)
			if tx.IsRecurring {
				stats.RecurringIncome = stats.RecurringIncome.Add(amount)
			} else {
				stats.OneTimeIncome = stats.OneTimeIncome.Add(amount)
			}
		case finance.TypeExpense:
			stats.TotalExpense = stats.TotalExpense.Add(amount)
			if tx.IsRecurring {
				stats.RecurringExpenses = stats.RecurringExpenses.Add(amount)
			} else {
				stats.OneTimeExpenses = stats.OneTimeExpenses.Add(amount)
			}

			name, color := uncategorizedName, uncategorizedColor
			if tx.CategoryID != nil {
				if cat, ok := catByID[*tx.CategoryID]; ok {
					name, color = cat.Name, cat.Color
				}
			}
			summary, ok := byCategory[name]
			if !ok {
				summary = &CategorySummary{Name: name, Color: color}
				byCategory[name] = summary
			}
			summary.Amount = summary.Amount.Add(amount)
			summary.Count++
		}

		if !tx.Date.Before(startOfMonth) {
			stats.TransactionsThisMonth++
		}
	}

	stats.NetProfit = stats.TotalIncome.Sub(stats.TotalExpense)

	return Overview{
		Stats:              stats,
		CategoryStats:      topCategories(byCategory, 5),
		RecentTransactions: recent(txs, 5),
		MonthlyTrend:       trend(txs, now),
	}
}

// topCategories ranks expense categories by amount, largest first.
func topCategories(byCategory map[string]*CategorySummary, limit int) []CategorySummary {
	out := make([]CategorySummary, 0, len(byCategory))
	for _, summary := range byCategory {
		out = append(out, *summary)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// recent returns the newest transactions by date.
func recent(txs []*finance.Transaction, limit int) []*finance.Transaction {
	sorted := make([]*finance.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// trend sums income and expenses per calendar month over the trailing
// window, oldest month first. Months without transactions appear with
// zero values.
func trend(txs []*finance.Transaction, now time.Time) []MonthPoint {
	points := make([]MonthPoint, trendMonths)
	index := make(map[string]int, trendMonths)

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(trendMonths - 1), 0)
	for i := 0; i < trendMonths; i++ {
		month := first.AddDate(0, i, 0).Format("2006-01")
		points[i] = MonthPoint{Month: month}
		index[month] = i
	}

	for _, tx := range txs {
		i, ok := index[tx.Date.Format("2006-01")]
		if !ok {
			continue
		}
		amount := tx.Amount.Abs()
		switch tx.Type {
		case finance.TypeIncome:
			points[i].Income = points[i].Income.Add(amount)
		case finance.TypeExpense:
			points[i].Expense = points[i].Expense.Add(amount)
		}
	}
	return points
}
