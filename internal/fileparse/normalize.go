package fileparse

import (
	"fmt"
	"strings"

	"github.com/luiza-sangalli/financial-hub/internal/finance"
)

// Logical columns are matched against real headers by case-insensitive
// substring, so "Transaction Date", "data" and "dt_lancamento" all satisfy
// the date column.
var (
	dateAliases        = []string{"date", "data", "dt"}
	descriptionAliases = []string{"description", "descricao", "desc", "historico"}
	amountAliases      = []string{"amount", "valor", "value"}
	typeAliases        = []string{"type", "tipo"}
	categoryAliases    = []string{"category", "categoria", "cat"}
)

// requiredColumns maps each required logical column name to its aliases,
// in the order they are reported when missing.
var requiredColumns = []struct {
	name    string
	aliases []string
}{
	{"date", dateAliases},
	{"description", descriptionAliases},
	{"amount", amountAliases},
	{"type", typeAliases},
}

var incomeAliases = map[string]bool{
	"INCOME":  true,
	"RECEITA": true,
	"ENTRADA": true,
}

var expenseAliases = map[string]bool{
	"EXPENSE": true,
	"DESPESA": true,
	"SAIDA":   true,
}

// NormalizeRow converts one raw field map into a TransactionRow. Checks run
// in a fixed order (date, description, amount and type presence; type alias;
// date parse; amount parse) so that the first failing field determines the
// error message when several fields are bad at once.
func NormalizeRow(fields map[string]string, headers []string) (TransactionRow, error) {
	date := findField(fields, headers, dateAliases)
	description := findField(fields, headers, descriptionAliases)
	amount := findField(fields, headers, amountAliases)
	typ := findField(fields, headers, typeAliases)

	if date == "" {
		return TransactionRow{}, fmt.Errorf(`missing or empty "date" field`)
	}
	if description == "" {
		return TransactionRow{}, fmt.Errorf(`missing or empty "description" field`)
	}
	if amount == "" {
		return TransactionRow{}, fmt.Errorf(`missing or empty "amount" field`)
	}
	if typ == "" {
		return TransactionRow{}, fmt.Errorf(`missing or empty "type" field`)
	}

	finalType, err := resolveType(typ)
	if err != nil {
		return TransactionRow{}, err
	}

	parsedDate, err := ParseDate(date)
	if err != nil {
		return TransactionRow{}, err
	}

	parsedAmount, err := ParseAmount(amount)
	if err != nil {
		return TransactionRow{}, err
	}
	if parsedAmount.IsZero() {
		return TransactionRow{}, fmt.Errorf("invalid amount: %q", amount)
	}

	return TransactionRow{
		Date:        parsedDate,
		Description: description,
		Amount:      parsedAmount.Abs(),
		Type:        finalType,
		Category:    findField(fields, headers, categoryAliases),
	}, nil
}

// resolveType maps the user-supplied type string onto the canonical enum.
func resolveType(raw string) (finance.TransactionType, error) {
	upper := strings.ToUpper(raw)
	if incomeAliases[upper] {
		return finance.TypeIncome, nil
	}
	if expenseAliases[upper] {
		return finance.TypeExpense, nil
	}
	return "", fmt.Errorf("invalid type: %q, use INCOME/RECEITA or EXPENSE/DESPESA", raw)
}

// findField resolves a logical column per row: aliases are tried in order
// and, for each, the first header containing the alias with a non-empty
// cell wins. Resolution happens per row because sparse sheets can leave a
// matching header empty on some rows while another alias column is filled.
func findField(fields map[string]string, headers []string, aliases []string) string {
	for _, alias := range aliases {
		for _, header := range headers {
			if !strings.Contains(strings.ToLower(header), alias) {
				continue
			}
			if value := strings.TrimSpace(fields[header]); value != "" {
				return value
			}
		}
	}
	return ""
}

// missingRequiredColumns returns the required logical columns that no
// header satisfies. A non-empty result is a structural error.
func missingRequiredColumns(headers []string) []string {
	var missing []string
	for _, col := range requiredColumns {
		if !columnSatisfied(headers, col.aliases) {
			missing = append(missing, col.name)
		}
	}
	return missing
}

func columnSatisfied(headers []string, aliases []string) bool {
	for _, header := range headers {
		lower := strings.ToLower(header)
		for _, alias := range aliases {
			if strings.Contains(lower, alias) {
				return true
			}
		}
	}
	return false
}
