package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/luiza-sangalli/financial-hub/internal/categorize"
	"github.com/luiza-sangalli/financial-hub/internal/fileparse"
	"github.com/luiza-sangalli/financial-hub/internal/finance"
	"github.com/luiza-sangalli/financial-hub/internal/logger"
	"github.com/luiza-sangalli/financial-hub/internal/recurrence"
)

// defaultCategoryColor is applied to categories created during ingestion.
const defaultCategoryColor = "#6366f1"

// maxSurfacedErrors caps how many row errors a Result carries back to the
// caller; the file record retains the full list.
const maxSurfacedErrors = 10

// BlobFetcher is the slice of the file store the pipeline needs.
type BlobFetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// Step 1: loadFileStep loads the file record and marks it PROCESSING.
type loadFileStep struct {
	files finance.FileRepository
}

func (s *loadFileStep) Execute(ctx context.Context, state *State) error {
	file, err := s.files.GetFile(ctx, state.FileID)
	if err != nil {
		return fmt.Errorf("load file %s: %w", state.FileID, err)
	}
	if state.CompanyID != "" && file.CompanyID != state.CompanyID {
		return fmt.Errorf("load file %s: %w", state.FileID, finance.ErrNotFound)
	}
	if file.Status == finance.FileStatusProcessing {
		return fmt.Errorf("file %s is already being processed", state.FileID)
	}

	if err := s.files.UpdateFileStatus(ctx, file.ID, finance.FileStatusUpdate{
		Status: finance.FileStatusProcessing,
	}); err != nil {
		return fmt.Errorf("mark file %s processing: %w", file.ID, err)
	}
	file.Status = finance.FileStatusProcessing
	state.File = file
	return nil
}

// Step 2: fetchBytesStep downloads the uploaded file from storage.
type fetchBytesStep struct {
	blobs BlobFetcher
	files finance.FileRepository
}

func (s *fetchBytesStep) Execute(ctx context.Context, state *State) error {
	data, err := s.blobs.Fetch(ctx, state.File.StorageURI)
	if err != nil {
		failFile(ctx, s.files, state, fmt.Sprintf("fetching file: %v", err))
		return fmt.Errorf("fetch %s: %w", state.File.StorageURI, err)
	}
	state.RawBytes = data
	return nil
}

// Step 3: parseRowsStep parses and normalizes the raw bytes. Structural
// defects fail the whole file; row-level problems are carried in the
// parse result.
type parseRowsStep struct {
	files finance.FileRepository
}

func (s *parseRowsStep) Execute(ctx context.Context, state *State) error {
	format, err := fileparse.DetectFormat(state.File.OriginalName, state.File.MimeType)
	if err != nil {
		failFile(ctx, s.files, state, err.Error())
		return fmt.Errorf("detect format: %w", err)
	}

	parsed, err := fileparse.Parse(state.RawBytes, format)
	if err != nil {
		failFile(ctx, s.files, state, err.Error())
		return fmt.Errorf("parse file %s: %w", state.FileID, err)
	}
	state.Parsed = parsed
	return nil
}

// Step 4: resolveCategoriesStep maps each row onto a category id,
// creating categories that do not exist yet. Rows without a category get
// one suggested from the description keywords.
type resolveCategoriesStep struct {
	categories finance.CategoryRepository
	files      finance.FileRepository
}

func (s *resolveCategoriesStep) Execute(ctx context.Context, state *State) error {
	existing, err := s.categories.ListCategories(ctx, state.File.CompanyID)
	if err != nil {
		failFile(ctx, s.files, state, fmt.Sprintf("listing categories: %v", err))
		return fmt.Errorf("list categories: %w", err)
	}

	byName := make(map[string]string, len(existing))
	for _, cat := range existing {
		byName[strings.ToLower(cat.Name)] = cat.ID
	}

	var uncategorized []string
	state.CategoryIDs = make([]*string, len(state.Parsed.Rows))
	for i, row := range state.Parsed.Rows {
		name := row.Category
		if name == "" {
			uncategorized = append(uncategorized, row.Description)
			suggested, ok := categorize.Categorize(row.Description)
			if !ok {
				continue
			}
			name = suggested
		}

		key := strings.ToLower(name)
		id, ok := byName[key]
		if !ok {
			category := &finance.Category{
				ID:        uuid.New().String(),
				CompanyID: state.File.CompanyID,
				Name:      name,
				Color:     defaultCategoryColor,
				CreatedAt: time.Now().UTC(),
			}
			if err := s.categories.CreateCategory(ctx, category); err != nil {
				failFile(ctx, s.files, state, fmt.Sprintf("creating category %q: %v", name, err))
				return fmt.Errorf("create category %q: %w", name, err)
			}
			id = category.ID
			byName[key] = id
		}
		state.CategoryIDs[i] = &id
	}

	if len(uncategorized) > 0 {
		stats := categorize.BatchStats(uncategorized)
		log := logger.FromContext(ctx)
		log.Info().
			Str("file_id", state.File.ID).
			Int("rows", stats.Total).
			Int("categorized", stats.Categorized).
			Int("percentage", stats.Percentage).
			Msg("keyword categorization")
	}
	return nil
}

// Step 5: insertTransactionsStep converts the parsed rows into
// transactions and inserts them in one batch.
type insertTransactionsStep struct {
	transactions finance.TransactionRepository
	files        finance.FileRepository
}

func (s *insertTransactionsStep) Execute(ctx context.Context, state *State) error {
	now := time.Now().UTC()
	fileID := state.File.ID
	known := s.knownPatterns(ctx, state)

	txs := make([]*finance.Transaction, 0, len(state.Parsed.Rows))
	for i, row := range state.Parsed.Rows {
		tx := &finance.Transaction{
			ID:          uuid.New().String(),
			CompanyID:   state.File.CompanyID,
			Description: row.Description,
			Amount:      row.Amount,
			Type:        row.Type,
			Date:        row.Date,
			CategoryID:  state.CategoryIDs[i],
			FileID:      &fileID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		for _, pattern := range known {
			if recurrence.MatchesPattern(tx, pattern) {
				tx.IsRecurring = true
				tx.RecurrenceRule = pattern.Transactions[0].RecurrenceRule
				break
			}
		}
		txs = append(txs, tx)
	}

	if err := s.transactions.InsertTransactions(ctx, txs); err != nil {
		failFile(ctx, s.files, state, fmt.Sprintf("inserting transactions: %v", err))
		return fmt.Errorf("insert transactions: %w", err)
	}
	return nil
}

// knownPatterns loads the company's recurring transactions so imported
// rows matching an established pattern inherit its rule. The lookup is
// best-effort: an error only loses the flagging, not the import.
func (s *insertTransactionsStep) knownPatterns(ctx context.Context, state *State) []recurrence.Pattern {
	isRecurring := true
	recurring, err := s.transactions.ListTransactions(ctx, state.File.CompanyID, finance.TransactionFilter{
		IsRecurring: &isRecurring,
	})
	if err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Str("file_id", state.File.ID).Msg("failed to load recurring transactions")
		return nil
	}
	return recurrence.KnownPatterns(recurring)
}

// Step 6: finalizeStep writes counts and row errors back to the file
// record. A file with row errors still completes as long as at least one
// row made it through.
type finalizeStep struct {
	files finance.FileRepository
}

func (s *finalizeStep) Execute(ctx context.Context, state *State) error {
	successful := len(state.Parsed.Rows)
	failed := len(state.Parsed.Errors)

	status := finance.FileStatusCompleted
	if failed > 0 && successful == 0 {
		status = finance.FileStatusError
	}

	var errorMessage string
	if failed > 0 {
		encoded, err := json.Marshal(state.Parsed.Errors)
		if err != nil {
			failFile(ctx, s.files, state, fmt.Sprintf("encoding row errors: %v", err))
			return fmt.Errorf("encode row errors: %w", err)
		}
		errorMessage = string(encoded)
	}

	now := time.Now().UTC()
	if err := s.files.UpdateFileStatus(ctx, state.File.ID, finance.FileStatusUpdate{
		Status:         status,
		ProcessedRows:  successful + failed,
		SuccessfulRows: successful,
		FailedRows:     failed,
		ErrorMessage:   errorMessage,
		ProcessedAt:    &now,
	}); err != nil {
		failFile(ctx, s.files, state, fmt.Sprintf("finalizing file: %v", err))
		return fmt.Errorf("finalize file %s: %w", state.File.ID, err)
	}

	// The stored error message keeps the full list; callers only see a
	// sample.
	surfaced := state.Parsed.Errors
	if len(surfaced) > maxSurfacedErrors {
		surfaced = surfaced[:maxSurfacedErrors]
	}

	state.Result = &Result{
		Total:      successful + failed,
		Successful: successful,
		Failed:     failed,
		Errors:     surfaced,
	}
	return nil
}

// failFile marks the file record ERROR with the given message. The write
// is best-effort: the pipeline error, not a status write failure, is what
// surfaces to the caller.
func failFile(ctx context.Context, files finance.FileRepository, state *State, message string) {
	now := time.Now().UTC()
	err := files.UpdateFileStatus(ctx, state.FileID, finance.FileStatusUpdate{
		Status:       finance.FileStatusError,
		ErrorMessage: message,
		ProcessedAt:  &now,
	})
	if err != nil && !errors.Is(err, finance.ErrNotFound) {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Str("file_id", state.FileID).Msg("failed to mark file as errored")
	}
}
