package ingest

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/luiza-sangalli/financial-hub/internal/finance"
	"github.com/luiza-sangalli/financial-hub/internal/logger"
)

// Orchestrator wires the repositories and file store into the standard
// ingestion pipeline and runs it per file.
type Orchestrator struct {
	files        finance.FileRepository
	transactions finance.TransactionRepository
	categories   finance.CategoryRepository
	blobs        BlobFetcher
	log          zerolog.Logger
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(
	files finance.FileRepository,
	transactions finance.TransactionRepository,
	categories finance.CategoryRepository,
	blobs BlobFetcher,
	log zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		files:        files,
		transactions: transactions,
		categories:   categories,
		blobs:        blobs,
		log:          log,
	}
}

// ProcessFile runs the full ingestion pipeline over one uploaded file.
// companyID, when non-empty, must match the file's owning company.
func (o *Orchestrator) ProcessFile(ctx context.Context, fileID, companyID string) (*Result, error) {
	log := o.log.With().Str("file_id", fileID).Str("company_id", companyID).Logger()
	ctx = logger.WithContext(ctx, log)

	log.Info().Msg("starting file ingestion")

	state := &State{FileID: fileID, CompanyID: companyID}
	pipeline := NewPipeline(
		&loadFileStep{files: o.files},
		&fetchBytesStep{blobs: o.blobs, files: o.files},
		&parseRowsStep{files: o.files},
		&resolveCategoriesStep{categories: o.categories, files: o.files},
		&insertTransactionsStep{transactions: o.transactions, files: o.files},
		&finalizeStep{files: o.files},
	)

	if err := pipeline.Execute(ctx, state); err != nil {
		log.Error().Err(err).Msg("file ingestion failed")
		return nil, err
	}

	log.Info().
		Int("total", state.Result.Total).
		Int("successful", state.Result.Successful).
		Int("failed", state.Result.Failed).
		Msg("file ingestion finished")
	return state.Result, nil
}
