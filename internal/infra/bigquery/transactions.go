package bigquery

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"

	"github.com/luiza-sangalli/financial-hub/internal/finance"
)

// InsertTransactions inserts a batch of transactions via the streaming
// inserter. An empty batch is a no-op.
func (r *Repository) InsertTransactions(ctx context.Context, txs []*finance.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	rows := make([]*transactionRow, len(txs))
	for i, tx := range txs {
		rows[i] = transactionToRow(tx)
	}

	if err := r.table(transactionsTable).Inserter().Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertTransactions: inserting rows: %w", err)
	}
	return nil
}

// ListTransactions returns the company's transactions matching the
// filter, ordered by date ascending with insertion time as a tiebreaker.
func (r *Repository) ListTransactions(ctx context.Context, companyID string, filter finance.TransactionFilter) ([]*finance.Transaction, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, `
		SELECT
			transaction_id,
			company_id,
			created_by_id,
			description,
			amount,
			type,
			transaction_date,
			category_id,
			file_id,
			is_recurring,
			recurrence_rule,
			created_ts,
			updated_ts
		FROM %s
		WHERE company_id = @company_id`, r.qualified(transactionsTable))

	params := []bigquery.QueryParameter{
		{Name: "company_id", Value: companyID},
	}

	if filter.Type != "" {
		sb.WriteString(" AND type = @type")
		params = append(params, bigquery.QueryParameter{Name: "type", Value: string(filter.Type)})
	}
	if filter.CategoryID != "" {
		sb.WriteString(" AND category_id = @category_id")
		params = append(params, bigquery.QueryParameter{Name: "category_id", Value: filter.CategoryID})
	}
	if !filter.StartDate.IsZero() {
		sb.WriteString(" AND transaction_date >= @start_date")
		params = append(params, bigquery.QueryParameter{Name: "start_date", Value: civil.DateOf(filter.StartDate)})
	}
	if !filter.EndDate.IsZero() {
		sb.WriteString(" AND transaction_date <= @end_date")
		params = append(params, bigquery.QueryParameter{Name: "end_date", Value: civil.DateOf(filter.EndDate)})
	}
	if filter.IsRecurring != nil {
		sb.WriteString(" AND is_recurring = @is_recurring")
		params = append(params, bigquery.QueryParameter{Name: "is_recurring", Value: *filter.IsRecurring})
	}

	sb.WriteString(" ORDER BY transaction_date, created_ts")
	if filter.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			fmt.Fprintf(&sb, " OFFSET %d", filter.Offset)
		}
	}

	q := r.client.Query(sb.String())
	q.Parameters = params

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListTransactions: query read: %w", err)
	}

	var txs []*finance.Transaction
	for {
		var row transactionRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListTransactions: iter next: %w", err)
		}
		txs = append(txs, rowToTransaction(&row))
	}
	return txs, nil
}

// ApplyRecurrence marks the given transactions as recurring and attaches
// the serialized rule. Transactions outside the company are untouched.
func (r *Repository) ApplyRecurrence(ctx context.Context, companyID string, ids []string, ruleJSON string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	q := r.client.Query(fmt.Sprintf(`
		UPDATE %s
		SET is_recurring = TRUE,
		    recurrence_rule = @rule,
		    updated_ts = CURRENT_TIMESTAMP()
		WHERE company_id = @company_id
		  AND transaction_id IN UNNEST(@ids)
	`, r.qualified(transactionsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "rule", Value: ruleJSON},
		{Name: "company_id", Value: companyID},
		{Name: "ids", Value: ids},
	}

	affected, err := r.runDML(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("ApplyRecurrence: %w", err)
	}
	return affected, nil
}
