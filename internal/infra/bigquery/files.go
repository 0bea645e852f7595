package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/luiza-sangalli/financial-hub/internal/finance"
)

const fileColumns = `
	file_id,
	company_id,
	name,
	original_name,
	size_bytes,
	mime_type,
	storage_uri,
	status,
	processed_rows,
	successful_rows,
	failed_rows,
	error_message,
	uploaded_at,
	processed_at`

// InsertFile inserts a new uploaded-file record.
func (r *Repository) InsertFile(ctx context.Context, file *finance.FileRecord) error {
	if err := r.table(filesTable).Inserter().Put(ctx, fileToRow(file)); err != nil {
		return fmt.Errorf("InsertFile: inserting row: %w", err)
	}
	return nil
}

// GetFile returns a file record by id, or finance.ErrNotFound.
func (r *Repository) GetFile(ctx context.Context, fileID string) (*finance.FileRecord, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE file_id = @file_id
		LIMIT 1
	`, fileColumns, r.qualified(filesTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "file_id", Value: fileID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetFile: query read: %w", err)
	}

	var row fileRow
	if err := it.Next(&row); err != nil {
		if err == iterator.Done {
			return nil, fmt.Errorf("GetFile %s: %w", fileID, finance.ErrNotFound)
		}
		return nil, fmt.Errorf("GetFile: iter next: %w", err)
	}
	return rowToFile(&row), nil
}

// ListFiles returns the company's file records, newest upload
// first.
func (r *Repository) ListFiles(ctx context.Context, companyID string) ([]*finance.FileRecord, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE company_id = @company_id
		ORDER BY uploaded_at DESC
	`, fileColumns, r.qualified(filesTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "company_id", Value: companyID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListFiles: query read: %w", err)
	}

	var files []*finance.FileRecord
	for {
		var row fileRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListFiles: iter next: %w", err)
		}
		files = append(files, rowToFile(&row))
	}
	return files, nil
}

// UpdateFileStatus writes processing results back to a file record.
func (r *Repository) UpdateFileStatus(ctx context.Context, fileID string, update finance.FileStatusUpdate) error {
	q := r.client.Query(fmt.Sprintf(`
		UPDATE %s
		SET status = @status,
		    processed_rows = @processed_rows,
		    successful_rows = @successful_rows,
		    failed_rows = @failed_rows,
		    error_message = @error_message,
		    processed_at = @processed_at
		WHERE file_id = @file_id
	`, r.qualified(filesTable)))

	var errorMessage bigquery.NullString
	if update.ErrorMessage != "" {
		errorMessage = bigquery.NullString{StringVal: update.ErrorMessage, Valid: true}
	}
	var processedAt bigquery.NullTimestamp
	if update.ProcessedAt != nil {
		processedAt = bigquery.NullTimestamp{Timestamp: *update.ProcessedAt, Valid: true}
	}

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: string(update.Status)},
		{Name: "processed_rows", Value: int64(update.ProcessedRows)},
		{Name: "successful_rows", Value: int64(update.SuccessfulRows)},
		{Name: "failed_rows", Value: int64(update.FailedRows)},
		{Name: "error_message", Value: errorMessage},
		{Name: "processed_at", Value: processedAt},
		{Name: "file_id", Value: fileID},
	}

	affected, err := r.runDML(ctx, q)
	if err != nil {
		return fmt.Errorf("UpdateFileStatus: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("UpdateFileStatus %s: %w", fileID, finance.ErrNotFound)
	}
	return nil
}
