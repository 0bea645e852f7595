package recurrence

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/luiza-sangalli/financial-hub/internal/finance"
)

func tx(id, description string, date time.Time, amount string) *finance.Transaction {
	return &finance.Transaction{
		ID:          id,
		CompanyID:   "company-1",
		Description: description,
		Amount:      decimal.RequireFromString(amount),
		Type:        finance.TypeExpense,
		Date:        date,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalizeDescription(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Aluguel Escritório", "aluguel escritório"},
		{"  ALUGUEL   escritório  ", "aluguel escritório"},
		{"Aluguel 05/01/2024", "aluguel"},
		{"Assinatura 2024-02-10", "assinatura"},
		{"Pagamento jan fatura", "pagamento  fatura"},
		{"Fatura JAN", "fatura"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeDescription(tt.input); got != tt.want {
				t.Errorf("NormalizeDescription(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDetectPatterns_Monthly(t *testing.T) {
	txs := []*finance.Transaction{
		tx("a", "Aluguel escritório", day(2024, 1, 5), "2500.00"),
		tx("b", "Aluguel escritório", day(2024, 2, 4), "2500.00"),
		tx("c", "Aluguel escritório", day(2024, 3, 6), "2500.00"),
	}

	patterns := DetectPatterns(txs)
	if len(patterns) != 1 {
		t.Fatalf("len(patterns) = %d, want 1", len(patterns))
	}

	p := patterns[0]
	if p.Rule.Frequency != Monthly || p.Rule.Interval != 1 {
		t.Errorf("Rule = %s x%d, want MONTHLY x1", p.Rule.Frequency, p.Rule.Interval)
	}
	if !p.Rule.StartDate.Equal(day(2024, 1, 5)) {
		t.Errorf("StartDate = %v, want 2024-01-05", p.Rule.StartDate)
	}
	if p.Confidence < 0.6 {
		t.Errorf("Confidence = %f, want >= 0.6", p.Confidence)
	}
	if len(p.Transactions) != 3 {
		t.Errorf("len(Transactions) = %d, want 3", len(p.Transactions))
	}
}

func TestDetectPatterns_Weekly(t *testing.T) {
	txs := []*finance.Transaction{
		tx("a", "Feira semanal", day(2024, 1, 1), "150.00"),
		tx("b", "Feira semanal", day(2024, 1, 8), "148.00"),
		tx("c", "Feira semanal", day(2024, 1, 15), "152.00"),
		tx("d", "Feira semanal", day(2024, 1, 22), "150.00"),
	}

	patterns := DetectPatterns(txs)
	if len(patterns) != 1 {
		t.Fatalf("len(patterns) = %d, want 1", len(patterns))
	}
	if patterns[0].Rule.Frequency != Weekly || patterns[0].Rule.Interval != 1 {
		t.Errorf("Rule = %s x%d, want WEEKLY x1", patterns[0].Rule.Frequency, patterns[0].Rule.Interval)
	}
}

func TestDetectPatterns_BiweeklyAndQuarterly(t *testing.T) {
	txs := []*finance.Transaction{
		tx("a", "Diarista", day(2024, 1, 1), "200.00"),
		tx("b", "Diarista", day(2024, 1, 15), "200.00"),
		tx("c", "Diarista", day(2024, 1, 29), "200.00"),
		tx("d", "Contador trimestral", day(2024, 1, 10), "900.00"),
		tx("e", "Contador trimestral", day(2024, 4, 10), "900.00"),
	}

	patterns := DetectPatterns(txs)
	if len(patterns) != 2 {
		t.Fatalf("len(patterns) = %d, want 2", len(patterns))
	}

	byDesc := make(map[string]Pattern)
	for _, p := range patterns {
		byDesc[p.Description] = p
	}

	if p := byDesc["diarista"]; p.Rule.Frequency != Weekly || p.Rule.Interval != 2 {
		t.Errorf("diarista rule = %s x%d, want WEEKLY x2", p.Rule.Frequency, p.Rule.Interval)
	}
	if p := byDesc["contador trimestral"]; p.Rule.Frequency != Monthly || p.Rule.Interval != 3 {
		t.Errorf("contador rule = %s x%d, want MONTHLY x3", p.Rule.Frequency, p.Rule.Interval)
	}
}

func TestDetectPatterns_IrregularGapsRejected(t *testing.T) {
	txs := []*finance.Transaction{
		tx("a", "Compra avulsa", day(2024, 1, 1), "100.00"),
		tx("b", "Compra avulsa", day(2024, 1, 4), "100.00"),
		tx("c", "Compra avulsa", day(2024, 7, 20), "100.00"),
	}

	if patterns := DetectPatterns(txs); len(patterns) != 0 {
		t.Errorf("len(patterns) = %d, want 0", len(patterns))
	}
}

func TestDetectPatterns_SingleOccurrenceSkipped(t *testing.T) {
	txs := []*finance.Transaction{
		tx("a", "Compra única", day(2024, 1, 1), "100.00"),
	}

	if patterns := DetectPatterns(txs); len(patterns) != 0 {
		t.Errorf("len(patterns) = %d, want 0", len(patterns))
	}
}

func TestDetectPatterns_GroupsAcrossEmbeddedDates(t *testing.T) {
	txs := []*finance.Transaction{
		tx("a", "Mensalidade sistema 05/01/2024", day(2024, 1, 5), "300.00"),
		tx("b", "Mensalidade sistema 05/02/2024", day(2024, 2, 5), "300.00"),
		tx("c", "Mensalidade sistema 05/03/2024", day(2024, 3, 5), "300.00"),
	}

	patterns := DetectPatterns(txs)
	if len(patterns) != 1 {
		t.Fatalf("len(patterns) = %d, want 1", len(patterns))
	}
	if patterns[0].Description != "mensalidade sistema" {
		t.Errorf("Description = %q", patterns[0].Description)
	}
	if patterns[0].Rule.DayOfMonth != 5 {
		t.Errorf("DayOfMonth = %d, want 5", patterns[0].Rule.DayOfMonth)
	}
}

func TestDetectPatterns_RankedByConfidence(t *testing.T) {
	var txs []*finance.Transaction
	// Five perfectly regular salary payments.
	for i := 0; i < 5; i++ {
		txs = append(txs, tx(fmt.Sprintf("s%d", i), "Salário equipe", day(2024, time.Month(i+1), 1), "8000.00"))
	}
	// Two loosely spaced payments with drifting amounts.
	txs = append(txs,
		tx("m1", "Manutenção predial", day(2024, 1, 3), "400.00"),
		tx("m2", "Manutenção predial", day(2024, 2, 3), "520.00"),
	)

	patterns := DetectPatterns(txs)
	if len(patterns) != 2 {
		t.Fatalf("len(patterns) = %d, want 2", len(patterns))
	}
	if patterns[0].Description != "salário equipe" {
		t.Errorf("patterns[0].Description = %q, want the salary group first", patterns[0].Description)
	}
	if patterns[0].Confidence <= patterns[1].Confidence {
		t.Errorf("confidence not descending: %f <= %f", patterns[0].Confidence, patterns[1].Confidence)
	}
}

func TestDetectPatterns_ConfidenceCappedAtOne(t *testing.T) {
	var txs []*finance.Transaction
	for i := 0; i < 12; i++ {
		txs = append(txs, tx(fmt.Sprintf("t%d", i), "Assinatura fixa", day(2024, time.Month(i+1), 10), "99.90"))
	}

	patterns := DetectPatterns(txs)
	if len(patterns) != 1 {
		t.Fatalf("len(patterns) = %d, want 1", len(patterns))
	}
	if c := patterns[0].Confidence; c > 1 {
		t.Errorf("Confidence = %f, want <= 1", c)
	}
}

func TestMatchesPattern(t *testing.T) {
	pattern := Pattern{
		Description: "aluguel escritório",
		Transactions: []*finance.Transaction{
			tx("a", "Aluguel escritório", day(2024, 1, 5), "2500.00"),
		},
	}

	if !MatchesPattern(tx("x", "ALUGUEL ESCRITÓRIO", day(2024, 4, 5), "2550.00"), pattern) {
		t.Error("amount within 10% should match")
	}
	if MatchesPattern(tx("y", "Aluguel escritório", day(2024, 4, 5), "4000.00"), pattern) {
		t.Error("amount off by 60% should not match")
	}
	if MatchesPattern(tx("z", "Compra de material", day(2024, 4, 5), "2500.00"), pattern) {
		t.Error("different description should not match")
	}
}

func TestKnownPatterns(t *testing.T) {
	patterns := KnownPatterns([]*finance.Transaction{
		tx("a", "Aluguel JAN", day(2024, 1, 5), "2500.00"),
		tx("b", "Netflix", day(2024, 1, 10), "39.90"),
		tx("c", "Aluguel FEV", day(2024, 2, 5), "2500.00"),
		tx("d", "   ", day(2024, 2, 20), "10.00"),
	})

	if len(patterns) != 2 {
		t.Fatalf("got %d patterns, want 2", len(patterns))
	}
	if patterns[0].Description != "Aluguel JAN" || len(patterns[0].Transactions) != 2 {
		t.Errorf("first pattern = %q with %d transactions", patterns[0].Description, len(patterns[0].Transactions))
	}
	if patterns[1].Description != "Netflix" {
		t.Errorf("second pattern = %q, want Netflix", patterns[1].Description)
	}

	if !MatchesPattern(tx("e", "Aluguel MAR", day(2024, 3, 5), "2500.00"), patterns[0]) {
		t.Error("new occurrence should match its known pattern")
	}
}

func TestRuleValidate(t *testing.T) {
	valid := Rule{Frequency: Monthly, Interval: 1, StartDate: day(2024, 1, 5), DayOfMonth: 5}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	// Daily and day-less rules come from direct user input, never the
	// detector, and both are legal.
	daily := Rule{Frequency: Daily, Interval: 1, StartDate: day(2024, 1, 5)}
	if err := daily.Validate(); err != nil {
		t.Errorf("Validate() daily = %v, want nil", err)
	}
	weekly := Rule{Frequency: Weekly, Interval: 2, StartDate: day(2024, 1, 5)}
	if err := weekly.Validate(); err != nil {
		t.Errorf("Validate() without dayOfMonth = %v, want nil", err)
	}

	tests := []struct {
		name   string
		mutate func(*Rule)
	}{
		{"bad frequency", func(r *Rule) { r.Frequency = "HOURLY" }},
		{"zero interval", func(r *Rule) { r.Interval = 0 }},
		{"negative day", func(r *Rule) { r.DayOfMonth = -1 }},
		{"day too large", func(r *Rule) { r.DayOfMonth = 32 }},
		{"zero start", func(r *Rule) { r.StartDate = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			if err := r.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestRuleRoundTrip(t *testing.T) {
	rule := Rule{Frequency: Weekly, Interval: 2, StartDate: day(2024, 1, 1), DayOfMonth: 1}

	s, err := rule.MarshalJSONString()
	if err != nil {
		t.Fatalf("MarshalJSONString() error = %v", err)
	}

	got, err := ParseRule(s)
	if err != nil {
		t.Fatalf("ParseRule() error = %v", err)
	}
	if got.Frequency != rule.Frequency || got.Interval != rule.Interval || got.DayOfMonth != rule.DayOfMonth {
		t.Errorf("round trip = %+v, want %+v", got, rule)
	}
	if !got.StartDate.Equal(rule.StartDate) {
		t.Errorf("StartDate = %v, want %v", got.StartDate, rule.StartDate)
	}
}
