package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/luiza-sangalli/financial-hub/internal/finance"
)

// ListCategories returns all of a company's categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context, companyID string) ([]*finance.Category, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT
			category_id,
			company_id,
			name,
			color,
			created_at
		FROM %s
		WHERE company_id = @company_id
		ORDER BY name
	`, r.qualified(categoriesTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "company_id", Value: companyID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListCategories: query read: %w", err)
	}

	var categories []*finance.Category
	for {
		var row categoryRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListCategories: iter next: %w", err)
		}
		categories = append(categories, rowToCategory(&row))
	}
	return categories, nil
}

// CreateCategory inserts a new category.
func (r *Repository) CreateCategory(ctx context.Context, category *finance.Category) error {
	if err := r.table(categoriesTable).Inserter().Put(ctx, categoryToRow(category)); err != nil {
		return fmt.Errorf("CreateCategory: inserting row: %w", err)
	}
	return nil
}
