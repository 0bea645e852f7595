// Package bigquery persists transactions, uploaded files and categories
// in BigQuery. One Repository instance shares a single client across all
// operations.
package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"

	"github.com/luiza-sangalli/financial-hub/internal/finance"
)

const (
	transactionsTable = "transactions"
	filesTable        = "files"
	categoriesTable   = "categories"
)

// Repository implements the finance persistence interfaces against one
// BigQuery dataset.
type Repository struct {
	client  *bigquery.Client
	dataset string
}

// NewRepository creates a Repository with its own client. Application
// Default Credentials are assumed.
func NewRepository(ctx context.Context, projectID, datasetID string) (*Repository, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("bigquery client: %w", err)
	}
	return NewRepositoryWithClient(client, datasetID), nil
}

// NewRepositoryWithClient wraps an existing client, which the caller
// remains responsible for closing.
func NewRepositoryWithClient(client *bigquery.Client, datasetID string) *Repository {
	return &Repository{client: client, dataset: datasetID}
}

// Close releases the underlying client.
func (r *Repository) Close() error {
	return r.client.Close()
}

func (r *Repository) table(name string) *bigquery.Table {
	return r.client.Dataset(r.dataset).Table(name)
}

// qualified returns the dataset-qualified table name for query text.
func (r *Repository) qualified(name string) string {
	return fmt.Sprintf("%s.%s", r.dataset, name)
}

// runDML executes a DML statement and returns the number of affected rows.
func (r *Repository) runDML(ctx context.Context, q *bigquery.Query) (int, error) {
	job, err := q.Run(ctx)
	if err != nil {
		return 0, fmt.Errorf("run query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return 0, fmt.Errorf("wait for query: %w", err)
	}
	if err := status.Err(); err != nil {
		return 0, fmt.Errorf("query failed: %w", err)
	}

	if stats, ok := status.Statistics.Details.(*bigquery.QueryStatistics); ok {
		return int(stats.NumDMLAffectedRows), nil
	}
	return 0, nil
}

var (
	_ finance.TransactionRepository = (*Repository)(nil)
	_ finance.FileRepository        = (*Repository)(nil)
	_ finance.CategoryRepository    = (*Repository)(nil)
)
