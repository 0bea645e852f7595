package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/luiza-sangalli/financial-hub/internal/categorize"
	"github.com/luiza-sangalli/financial-hub/internal/fileparse"
	"github.com/luiza-sangalli/financial-hub/internal/filestore"
	"github.com/luiza-sangalli/financial-hub/internal/finance"
	infraBQ "github.com/luiza-sangalli/financial-hub/internal/infra/bigquery"
	"github.com/luiza-sangalli/financial-hub/internal/ingest"
	"github.com/luiza-sangalli/financial-hub/internal/logger"
	"github.com/luiza-sangalli/financial-hub/internal/recurrence"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "process":
		runProcess(log)
	case "detect":
		runDetect(log)
	case "template":
		runTemplate(log)
	case "categories":
		runCategories()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Financial Hub CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  process     Parse and ingest an uploaded statement file")
	fmt.Println("  detect      Detect recurring transaction patterns for a company")
	fmt.Println("  template    Print the import template CSV")
	fmt.Println("  categories  Print the categories the keyword matcher can assign")
	fmt.Println("  help        Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func newRepository(ctx context.Context, log zerolog.Logger, project, dataset string) *infraBQ.Repository {
	if project == "" {
		project = os.Getenv("GOOGLE_CLOUD_PROJECT")
	}
	if project == "" {
		log.Fatal().Msg("Error: --project or GOOGLE_CLOUD_PROJECT is required")
	}

	repo, err := infraBQ.NewRepository(ctx, project, dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery repository")
	}
	return repo
}

func runProcess(log zerolog.Logger) {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	fileID := fs.String("file-id", "", "ID of the uploaded file to process")
	companyID := fs.String("company-id", "", "Company that owns the file")
	bucket := fs.String("bucket", os.Getenv("GCS_BUCKET"), "GCS bucket for uploaded statements")
	project := fs.String("project", "", "BigQuery project ID")
	dataset := fs.String("dataset", "financial_hub", "BigQuery dataset")
	fs.Parse(os.Args[2:])

	if *fileID == "" || *companyID == "" {
		log.Fatal().Msg("Usage: cli process -file-id ID -company-id ID")
	}
	if *bucket == "" {
		log.Fatal().Msg("Error: --bucket or GCS_BUCKET is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	repo := newRepository(ctx, log, *project, *dataset)
	defer repo.Close()

	blobs, err := filestore.New(ctx, *bucket)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create blob store")
	}
	defer blobs.Close()

	orchestrator := ingest.NewOrchestrator(repo, repo, repo, blobs, log)

	result, err := orchestrator.ProcessFile(ctx, *fileID, *companyID)
	if err != nil {
		log.Fatal().Err(err).Msg("Processing failed")
	}

	fmt.Printf("Processed %d rows: %d imported, %d failed.\n", result.Total, result.Successful, result.Failed)
	for _, rowErr := range result.Errors {
		fmt.Printf("  row %d: %s\n", rowErr.Row, rowErr.Message)
	}
}

func runDetect(log zerolog.Logger) {
	fs := flag.NewFlagSet("detect", flag.ExitOnError)
	companyID := fs.String("company-id", "", "Company to analyze")
	project := fs.String("project", "", "BigQuery project ID")
	dataset := fs.String("dataset", "financial_hub", "BigQuery dataset")
	minConfidence := fs.Float64("min-confidence", 0.6, "Minimum confidence for reported patterns")
	fs.Parse(os.Args[2:])

	if *companyID == "" {
		log.Fatal().Msg("Usage: cli detect -company-id ID")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	repo := newRepository(ctx, log, *project, *dataset)
	defer repo.Close()

	notRecurring := false
	txs, err := repo.ListTransactions(ctx, *companyID, finance.TransactionFilter{IsRecurring: &notRecurring})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list transactions")
	}

	patterns := recurrence.DetectPatterns(txs)

	shown := 0
	for _, p := range patterns {
		if p.Confidence < *minConfidence {
			continue
		}
		shown++
		fmt.Printf("%s\n", p.Description)
		fmt.Printf("  frequency: %s every %d, day of month %d\n", p.Rule.Frequency, p.Rule.Interval, p.Rule.DayOfMonth)
		fmt.Printf("  occurrences: %d, confidence: %.0f%%\n", len(p.Transactions), p.Confidence*100)
	}

	fmt.Printf("\nAnalyzed %d transactions, found %d patterns.\n", len(txs), shown)
}

func runTemplate(log zerolog.Logger) {
	fs := flag.NewFlagSet("template", flag.ExitOnError)
	out := fs.String("out", "", "Write the template to a file instead of stdout")
	fs.Parse(os.Args[2:])

	if *out == "" {
		fmt.Print(fileparse.Template())
		return
	}

	if err := os.WriteFile(*out, []byte(fileparse.Template()), 0o644); err != nil {
		log.Fatal().Err(err).Str("path", *out).Msg("Failed to write template")
	}
	fmt.Printf("Template written to %s\n", *out)
}

func runCategories() {
	for _, name := range categorize.Categories() {
		fmt.Println(name)
	}
}
