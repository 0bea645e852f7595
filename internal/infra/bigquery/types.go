package bigquery

import (
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/luiza-sangalli/financial-hub/internal/finance"
)

// numericScale matches BigQuery NUMERIC's nine decimal digits.
const numericScale = 9

type transactionRow struct {
	TransactionID string `bigquery:"transaction_id"` // REQUIRED

	CompanyID   string              `bigquery:"company_id"`    // REQUIRED
	CreatedByID bigquery.NullString `bigquery:"created_by_id"` // NULLABLE

	Description string     `bigquery:"description"`      // REQUIRED
	Amount      *big.Rat   `bigquery:"amount"`           // REQUIRED NUMERIC, unsigned magnitude
	Type        string     `bigquery:"type"`             // REQUIRED: INCOME | EXPENSE
	Date        civil.Date `bigquery:"transaction_date"` // REQUIRED

	CategoryID bigquery.NullString `bigquery:"category_id"` // NULLABLE
	FileID     bigquery.NullString `bigquery:"file_id"`     // NULLABLE

	IsRecurring bool `bigquery:"is_recurring"`
	// RecurrenceRule holds the serialized schedule rule.
	RecurrenceRule bigquery.NullString `bigquery:"recurrence_rule"` // NULLABLE

	CreatedTS time.Time `bigquery:"created_ts"`
	UpdatedTS time.Time `bigquery:"updated_ts"`
}

type fileRow struct {
	FileID       string `bigquery:"file_id"` // REQUIRED
	CompanyID    string `bigquery:"company_id"`
	Name         string `bigquery:"name"`
	OriginalName string `bigquery:"original_name"`
	SizeBytes    int64  `bigquery:"size_bytes"`
	MimeType     string `bigquery:"mime_type"`
	StorageURI   string `bigquery:"storage_uri"`
	Status       string `bigquery:"status"`

	ProcessedRows  int64               `bigquery:"processed_rows"`
	SuccessfulRows int64               `bigquery:"successful_rows"`
	FailedRows     int64               `bigquery:"failed_rows"`
	ErrorMessage   bigquery.NullString `bigquery:"error_message"` // NULLABLE

	UploadedAt  time.Time              `bigquery:"uploaded_at"`
	ProcessedAt bigquery.NullTimestamp `bigquery:"processed_at"` // NULLABLE
}

type categoryRow struct {
	CategoryID string    `bigquery:"category_id"` // REQUIRED
	CompanyID  string    `bigquery:"company_id"`
	Name       string    `bigquery:"name"`
	Color      string    `bigquery:"color"`
	CreatedAt  time.Time `bigquery:"created_at"`
}

func transactionToRow(tx *finance.Transaction) *transactionRow {
	return &transactionRow{
		TransactionID:  tx.ID,
		CompanyID:      tx.CompanyID,
		CreatedByID:    nullString(tx.CreatedByID),
		Description:    tx.Description,
		Amount:         tx.Amount.Rat(),
		Type:           string(tx.Type),
		Date:           civil.DateOf(tx.Date),
		CategoryID:     nullStringPtr(tx.CategoryID),
		FileID:         nullStringPtr(tx.FileID),
		IsRecurring:    tx.IsRecurring,
		RecurrenceRule: nullString(tx.RecurrenceRule),
		CreatedTS:      tx.CreatedAt,
		UpdatedTS:      tx.UpdatedAt,
	}
}

func rowToTransaction(r *transactionRow) *finance.Transaction {
	tx := &finance.Transaction{
		ID:          r.TransactionID,
		CompanyID:   r.CompanyID,
		Description: r.Description,
		Type:        finance.TransactionType(r.Type),
		Date:        r.Date.In(time.UTC),
		IsRecurring: r.IsRecurring,
		CreatedAt:   r.CreatedTS,
		UpdatedAt:   r.UpdatedTS,
	}
	if r.Amount != nil {
		tx.Amount = decimal.NewFromBigRat(r.Amount, numericScale)
	}
	if r.CreatedByID.Valid {
		tx.CreatedByID = r.CreatedByID.StringVal
	}
	if r.CategoryID.Valid {
		v := r.CategoryID.StringVal
		tx.CategoryID = &v
	}
	if r.FileID.Valid {
		v := r.FileID.StringVal
		tx.FileID = &v
	}
	if r.RecurrenceRule.Valid {
		tx.RecurrenceRule = r.RecurrenceRule.StringVal
	}
	return tx
}

func fileToRow(f *finance.FileRecord) *fileRow {
	row := &fileRow{
		FileID:         f.ID,
		CompanyID:      f.CompanyID,
		Name:           f.Name,
		OriginalName:   f.OriginalName,
		SizeBytes:      f.Size,
		MimeType:       f.MimeType,
		StorageURI:     f.StorageURI,
		Status:         string(f.Status),
		ProcessedRows:  int64(f.ProcessedRows),
		SuccessfulRows: int64(f.SuccessfulRows),
		FailedRows:     int64(f.FailedRows),
		ErrorMessage:   nullString(f.ErrorMessage),
		UploadedAt:     f.UploadedAt,
	}
	if f.ProcessedAt != nil {
		row.ProcessedAt = bigquery.NullTimestamp{Timestamp: *f.ProcessedAt, Valid: true}
	}
	return row
}

func rowToFile(r *fileRow) *finance.FileRecord {
	f := &finance.FileRecord{
		ID:             r.FileID,
		CompanyID:      r.CompanyID,
		Name:           r.Name,
		OriginalName:   r.OriginalName,
		Size:           r.SizeBytes,
		MimeType:       r.MimeType,
		StorageURI:     r.StorageURI,
		Status:         finance.FileStatus(r.Status),
		ProcessedRows:  int(r.ProcessedRows),
		SuccessfulRows: int(r.SuccessfulRows),
		FailedRows:     int(r.FailedRows),
		UploadedAt:     r.UploadedAt,
	}
	if r.ErrorMessage.Valid {
		f.ErrorMessage = r.ErrorMessage.StringVal
	}
	if r.ProcessedAt.Valid {
		t := r.ProcessedAt.Timestamp
		f.ProcessedAt = &t
	}
	return f
}

func categoryToRow(c *finance.Category) *categoryRow {
	return &categoryRow{
		CategoryID: c.ID,
		CompanyID:  c.CompanyID,
		Name:       c.Name,
		Color:      c.Color,
		CreatedAt:  c.CreatedAt,
	}
}

func rowToCategory(r *categoryRow) *finance.Category {
	return &finance.Category{
		ID:        r.CategoryID,
		CompanyID: r.CompanyID,
		Name:      r.Name,
		Color:     r.Color,
		CreatedAt: r.CreatedAt,
	}
}

func nullString(s string) bigquery.NullString {
	return bigquery.NullString{StringVal: s, Valid: s != ""}
}

func nullStringPtr(s *string) bigquery.NullString {
	if s == nil {
		return bigquery.NullString{}
	}
	return bigquery.NullString{StringVal: *s, Valid: true}
}
