package fileparse

import (
	"strings"
	"testing"
	"time"

	"github.com/luiza-sangalli/financial-hub/internal/finance"
)

func TestNormalizeRow(t *testing.T) {
	headers := []string{"date", "description", "amount", "type", "category"}
	fields := map[string]string{
		"date":        "15/03/2024",
		"description": "Supermercado Extra",
		"amount":      "R$ 450,00",
		"type":        "DESPESA",
		"category":    "Alimentação",
	}

	row, err := NormalizeRow(fields, headers)
	if err != nil {
		t.Fatalf("NormalizeRow() error = %v", err)
	}

	if !row.Date.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v", row.Date)
	}
	if row.Description != "Supermercado Extra" {
		t.Errorf("Description = %q", row.Description)
	}
	if row.Amount.String() != "450" {
		t.Errorf("Amount = %s, want 450", row.Amount.String())
	}
	if row.Type != finance.TypeExpense {
		t.Errorf("Type = %q, want %q", row.Type, finance.TypeExpense)
	}
	if row.Category != "Alimentação" {
		t.Errorf("Category = %q", row.Category)
	}
}

func TestNormalizeRow_PortugueseHeaders(t *testing.T) {
	headers := []string{"Data", "Descricao", "Valor", "Tipo"}
	fields := map[string]string{
		"Data":      "2024-07-01",
		"Descricao": "Salário mensal",
		"Valor":     "8000.00",
		"Tipo":      "receita",
	}

	row, err := NormalizeRow(fields, headers)
	if err != nil {
		t.Fatalf("NormalizeRow() error = %v", err)
	}
	if row.Type != finance.TypeIncome {
		t.Errorf("Type = %q, want %q", row.Type, finance.TypeIncome)
	}
	if row.Category != "" {
		t.Errorf("Category = %q, want empty", row.Category)
	}
}

func TestNormalizeRow_NegativeAmountBecomesMagnitude(t *testing.T) {
	headers := []string{"date", "description", "amount", "type"}
	fields := map[string]string{
		"date":        "01/01/2024",
		"description": "Conta de luz",
		"amount":      "-120,50",
		"type":        "EXPENSE",
	}

	row, err := NormalizeRow(fields, headers)
	if err != nil {
		t.Fatalf("NormalizeRow() error = %v", err)
	}
	if row.Amount.String() != "120.5" {
		t.Errorf("Amount = %s, want 120.5", row.Amount.String())
	}
}

func TestNormalizeRow_Errors(t *testing.T) {
	headers := []string{"date", "description", "amount", "type"}
	base := func() map[string]string {
		return map[string]string{
			"date":        "01/01/2024",
			"description": "Teste",
			"amount":      "10,00",
			"type":        "INCOME",
		}
	}

	tests := []struct {
		name    string
		mutate  func(map[string]string)
		wantErr string
	}{
		{"empty date", func(f map[string]string) { f["date"] = "" }, `missing or empty "date" field`},
		{"empty description", func(f map[string]string) { f["description"] = "  " }, `missing or empty "description" field`},
		{"empty amount", func(f map[string]string) { f["amount"] = "" }, `missing or empty "amount" field`},
		{"empty type", func(f map[string]string) { f["type"] = "" }, `missing or empty "type" field`},
		{"unknown type", func(f map[string]string) { f["type"] = "TRANSFER" }, "invalid type"},
		{"bad date", func(f map[string]string) { f["date"] = "99/99/9999" }, "invalid date"},
		{"bad amount", func(f map[string]string) { f["amount"] = "abc" }, "invalid amount"},
		{"zero amount", func(f map[string]string) { f["amount"] = "0,00" }, "invalid amount"},
		// Type precedes date and amount in the check order.
		{"type before date", func(f map[string]string) {
			f["type"] = "TRANSFER"
			f["date"] = "bad"
		}, "invalid type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := base()
			tt.mutate(fields)
			_, err := NormalizeRow(fields, headers)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMissingRequiredColumns(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    []string
	}{
		{"all english", []string{"date", "description", "amount", "type"}, nil},
		{"all portuguese", []string{"Data", "Descrição", "Valor", "Tipo"}, nil},
		{"substring match", []string{"Transaction Date", "Full Description", "Total Amount", "Entry Type"}, nil},
		{"missing amount", []string{"date", "description", "type"}, []string{"amount"}},
		{"missing all", []string{"foo", "bar"}, []string{"date", "description", "amount", "type"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := missingRequiredColumns(tt.headers)
			if len(got) != len(tt.want) {
				t.Fatalf("missingRequiredColumns() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("missingRequiredColumns()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
