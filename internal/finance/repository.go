package finance

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// TransactionRepository provides transaction persistence operations.
type TransactionRepository interface {
	// InsertTransactions inserts a batch of transactions.
	InsertTransactions(ctx context.Context, txs []*Transaction) error

	// ListTransactions returns a company's transactions matching the
	// filter, ordered by date ascending.
	ListTransactions(ctx context.Context, companyID string, filter TransactionFilter) ([]*Transaction, error)

	// ApplyRecurrence marks the company's transactions with the given ids as
	// recurring and attaches the serialized rule. Returns the number of
	// transactions updated.
	ApplyRecurrence(ctx context.Context, companyID string, ids []string, ruleJSON string) (int, error)
}

// FileRepository provides uploaded-file persistence operations.
type FileRepository interface {
	// InsertFile inserts a new file record.
	InsertFile(ctx context.Context, file *FileRecord) error

	// GetFile returns a file record by id.
	GetFile(ctx context.Context, fileID string) (*FileRecord, error)

	// ListFiles returns a company's file records, newest first.
	ListFiles(ctx context.Context, companyID string) ([]*FileRecord, error)

	// UpdateFileStatus writes processing results back to a file record.
	UpdateFileStatus(ctx context.Context, fileID string, update FileStatusUpdate) error
}

// CategoryRepository provides category persistence operations.
type CategoryRepository interface {
	// ListCategories returns all of a company's categories.
	ListCategories(ctx context.Context, companyID string) ([]*Category, error)

	// CreateCategory inserts a new category.
	CreateCategory(ctx context.Context, category *Category) error
}
