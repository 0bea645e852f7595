package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/luiza-sangalli/financial-hub/internal/api/handlers"
	"github.com/luiza-sangalli/financial-hub/internal/api/middleware"
	"github.com/luiza-sangalli/financial-hub/internal/filestore"
	infraBQ "github.com/luiza-sangalli/financial-hub/internal/infra/bigquery"
	"github.com/luiza-sangalli/financial-hub/internal/ingest"
	"github.com/luiza-sangalli/financial-hub/internal/jobs"
	"github.com/luiza-sangalli/financial-hub/internal/jobs/inmemory"
	"github.com/luiza-sangalli/financial-hub/internal/logger"
)

func main() {
	var (
		port    = flag.String("port", envOr("PORT", "8080"), "HTTP server port")
		bucket  = flag.String("bucket", os.Getenv("GCS_BUCKET"), "GCS bucket for uploaded statements (or set GCS_BUCKET)")
		project = flag.String("project", os.Getenv("GOOGLE_CLOUD_PROJECT"), "BigQuery project ID (or set GOOGLE_CLOUD_PROJECT)")
		dataset = flag.String("dataset", envOr("BQ_DATASET", "financial_hub"), "BigQuery dataset (or set BQ_DATASET)")
		workers = flag.Int("workers", 2, "Number of concurrent ingestion workers")
	)
	flag.Parse()

	log := logger.New()

	if *bucket == "" {
		log.Fatal().Msg("No GCS bucket configured - set --bucket or GCS_BUCKET")
	}
	if *project == "" {
		log.Fatal().Msg("No BigQuery project configured - set --project or GOOGLE_CLOUD_PROJECT")
	}

	ctx := context.Background()

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

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	jobHandler := func(ctx context.Context, job jobs.Job) error {
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

	go func() {
		log.Info().Int("workers", *workers).Msg("Starting ingestion workers")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Job workers stopped with error")
		}
	}()

	filesHandler := handlers.NewFilesHandler(repo, blobs, jobQueue, log)
	transactionsHandler := handlers.NewTransactionsHandler(repo, log)
	dashboardHandler := handlers.NewDashboardHandler(repo, repo, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	mux := http.NewServeMux()
	mux.Handle("/api/files", filesHandler)
	mux.Handle("/api/files/", filesHandler)
	mux.Handle("/api/transactions", transactionsHandler)
	mux.Handle("/api/transactions/", transactionsHandler)
	mux.Handle("/api/dashboard/stats", dashboardHandler)
	mux.Handle("/api/jobs", jobsHandler)
	mux.Handle("/api/jobs/", jobsHandler)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(
					middleware.RequireCompany(mux),
				),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job workers")
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
