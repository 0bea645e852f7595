package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/luiza-sangalli/financial-hub/internal/filestore"
	infraBQ "github.com/luiza-sangalli/financial-hub/internal/infra/bigquery"
	"github.com/luiza-sangalli/financial-hub/internal/ingest"
	"github.com/luiza-sangalli/financial-hub/internal/jobs"
	"github.com/luiza-sangalli/financial-hub/internal/jobs/inmemory"
	"github.com/luiza-sangalli/financial-hub/internal/logger"
)

// Standalone worker process. The in-memory queue only receives jobs
// published within the same process, so this binary is mainly useful for
// local runs; swapping the queue for Cloud Tasks or Pub/Sub would make it
// a real deployment target.
func main() {
	var (
		bucket  = flag.String("bucket", os.Getenv("GCS_BUCKET"), "GCS bucket for uploaded statements (or set GCS_BUCKET)")
		project = flag.String("project", os.Getenv("GOOGLE_CLOUD_PROJECT"), "BigQuery project ID (or set GOOGLE_CLOUD_PROJECT)")
		dataset = flag.String("dataset", envOr("BQ_DATASET", "financial_hub"), "BigQuery dataset (or set BQ_DATASET)")
		workers = flag.Int("workers", 2, "Number of concurrent ingestion workers")
	)
	flag.Parse()

	log := logger.New()

	if *bucket == "" || *project == "" {
		log.Fatal().Msg("Both a GCS bucket and a BigQuery project are required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, err := infraBQ.NewRepository(ctx, *project, *dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery repository")
	}
	defer repo.Close()

	blobs, err := filestore.New(ctx, *bucket)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create blob store")
	}
	defer blobs.Close()

	orchestrator := ingest.NewOrchestrator(repo, repo, repo, blobs, log)

	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, *workers, jobStore)

	handler := func(ctx context.Context, job jobs.Job) error {
		fileJob, ok := job.(*jobs.ProcessFileJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", fileJob.JobID).
			Str("file_id", fileJob.FileID).
			Str("company_id", fileJob.CompanyID).
			Msg("Processing file job")

		result, err := orchestrator.ProcessFile(ctx, fileJob.FileID, fileJob.CompanyID)
		if err != nil {
			log.Error().
				Err(err).
				Str("job_id", fileJob.JobID).
				Str("file_id", fileJob.FileID).
				Msg("File processing failed")
			return err
		}

		log.Info().
			Str("job_id", fileJob.JobID).
			Str("file_id", fileJob.FileID).
			Int("successful", result.Successful).
			Int("failed", result.Failed).
			Msg("File processing completed")

		return nil
	}

	if err := jobQueue.Start(ctx, handler); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job consumer")
	}

	log.Info().Int("workers", *workers).Msg("Worker service started, waiting for jobs...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down worker service...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during graceful shutdown")
	}

	log.Info().Msg("Worker exited")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
