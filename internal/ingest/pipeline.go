// Package ingest runs the statement ingestion pipeline: load the uploaded
// file record, fetch its bytes, parse and normalize the rows, resolve
// categories, insert the transactions and write the processing result back
// to the file record.
package ingest

import (
	"context"
	"fmt"

	"github.com/luiza-sangalli/financial-hub/internal/fileparse"
	"github.com/luiza-sangalli/financial-hub/internal/finance"
)

// Step is a single stage of the ingestion pipeline.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// State is the shared state threaded through the pipeline steps.
type State struct {
	FileID    string
	CompanyID string

	File     *finance.FileRecord
	RawBytes []byte
	Parsed   *fileparse.ProcessedFileData

	// CategoryIDs maps each parsed row index to its resolved category id,
	// nil when the row has no category.
	CategoryIDs []*string

	Result *Result
}

// Result summarizes one processed file.
type Result struct {
	Total      int                 `json:"total"`
	Successful int                 `json:"successful"`
	Failed     int                 `json:"failed"`
	Errors     []fileparse.RowError `json:"errors,omitempty"`
}

// Pipeline executes steps in order, stopping at the first failure.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a pipeline from the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps sequentially against the shared state.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}
