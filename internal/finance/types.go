package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a transaction as money in or money out.
type TransactionType string

const (
	TypeIncome  TransactionType = "INCOME"
	TypeExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is one of the two canonical types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// FileStatus tracks an uploaded file through its processing lifecycle.
type FileStatus string

const (
	FileStatusPending    FileStatus = "PENDING"
	FileStatusProcessing FileStatus = "PROCESSING"
	FileStatusCompleted  FileStatus = "COMPLETED"
	FileStatusError      FileStatus = "ERROR"
)

// IntegrationType identifies where transactions originate. Only manual
// spreadsheet imports are implemented; the bank values are placeholders
// for future connectors.
type IntegrationType string

const (
	IntegrationManual      IntegrationType = "MANUAL"
	IntegrationBankAPI     IntegrationType = "BANK_API"
	IntegrationOpenBanking IntegrationType = "OPEN_BANKING"
)

// Transaction is a persisted transaction owned by a company.
//
// Amount is always an unsigned magnitude; the direction of money flow is
// carried exclusively by Type. Aggregations must never rely on sign.
type Transaction struct {
	ID          string `json:"id"`
	CompanyID   string `json:"companyId"`
	CreatedByID string `json:"createdById,omitempty"`

	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Date        time.Time       `json:"date"`

	CategoryID *string `json:"categoryId,omitempty"`
	FileID     *string `json:"fileId,omitempty"`

	IsRecurring bool `json:"isRecurring"`
	// RecurrenceRule holds the JSON-serialized rule when IsRecurring is set.
	RecurrenceRule string `json:"recurrenceRule,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FileRecord is the metadata row for one uploaded spreadsheet.
type FileRecord struct {
	ID           string `json:"id"`
	CompanyID    string `json:"companyId"`
	Name         string `json:"name"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimeType"`
	// StorageURI is the gs:// location of the raw file bytes.
	StorageURI string `json:"storageUri"`

	Status         FileStatus `json:"status"`
	ProcessedRows  int        `json:"processedRows"`
	SuccessfulRows int        `json:"successfulRows"`
	FailedRows     int        `json:"failedRows"`
	// ErrorMessage holds the JSON-serialized row error list, or a single
	// structural error message.
	ErrorMessage string `json:"errorMessage,omitempty"`

	UploadedAt  time.Time  `json:"uploadedAt"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
}

// Category is a company-scoped transaction category.
type Category struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

// TransactionFilter narrows ListTransactions results. Zero values mean "no
// constraint" except IsRecurring, which is a tri-state pointer.
type TransactionFilter struct {
	Type        TransactionType
	CategoryID  string
	StartDate   time.Time
	EndDate     time.Time
	IsRecurring *bool
	Limit       int
	Offset      int
}

// FileStatusUpdate carries the fields written back to a file record when
// processing finishes (or fails).
type FileStatusUpdate struct {
	Status         FileStatus
	ProcessedRows  int
	SuccessfulRows int
	FailedRows     int
	ErrorMessage   string
	ProcessedAt    *time.Time
}
