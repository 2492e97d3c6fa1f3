package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	bigquerylib "cloud.google.com/go/bigquery"
	"github.com/rs/zerolog"

	"github.com/dvloznov/ledger-import/internal/commit"
	"github.com/dvloznov/ledger-import/internal/export"
	"github.com/dvloznov/ledger-import/internal/extract"
	"github.com/dvloznov/ledger-import/internal/gcsfetch"
	"github.com/dvloznov/ledger-import/internal/logger"
	"github.com/dvloznov/ledger-import/internal/pipeline"
	bqstore "github.com/dvloznov/ledger-import/internal/store/bigquery"
	"github.com/dvloznov/ledger-import/internal/store/inmemory"
	notionstore "github.com/dvloznov/ledger-import/internal/store/notion"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "import":
		runImport(log)
	case "compare":
		runCompare(log)
	case "export":
		runExport(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Ledger Import CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  import    Extract transactions from a file and commit them to the ledger")
	fmt.Println("  compare   Reconcile a file against the current ledger without committing")
	fmt.Println("  export    Write the current ledger as delimited text")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runImport(log zerolog.Logger) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	file := fs.String("file", "", "local path or gs:// URI of the file to import")
	kind := fs.String("kind", "csv", "declared content kind: csv, json, text, pdf, xlsx, image")
	storeName := fs.String("store", "memory", "ledger store: memory, bigquery, notion")
	user := fs.String("user", "denis", "ledger owner")
	defaultCategory := fs.String("default-category", "", "category for records missing one (empty: reject)")
	ai := fs.Bool("ai", false, "register the Gemini strategy for binary kinds")
	fs.Parse(os.Args[2:])

	if *file == "" {
		log.Fatal().Msg("Error: --file is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	data, source := readSource(ctx, log, *file)
	store := buildStore(ctx, log, *storeName, *user)

	p := pipeline.New(pipeline.Config{UserID: *user, DefaultCategory: *defaultCategory})
	if *ai {
		registerAIStrategies(p)
	}

	result, err := p.ImportFile(ctx, data, extract.Kind(*kind), source, store)
	if err != nil {
		log.Fatal().Err(err).Msg("Import failed")
	}

	fmt.Printf("Imported %d of %d records (%d rejected during normalization).\n",
		result.Commit.Succeeded, result.Commit.Attempted, len(result.Rejections))
	for _, e := range result.Commit.Errors {
		fmt.Printf("  record %d: %s\n", e.Index, e.Message)
	}
}

func runCompare(log zerolog.Logger) {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	file := fs.String("file", "", "local path or gs:// URI of the file to reconcile")
	kind := fs.String("kind", "csv", "declared content kind: csv, json, text, pdf, xlsx, image")
	storeName := fs.String("store", "bigquery", "ledger store: memory, bigquery, notion")
	user := fs.String("user", "denis", "ledger owner")
	ai := fs.Bool("ai", false, "register the Gemini strategy for binary kinds")
	fs.Parse(os.Args[2:])

	if *file == "" {
		log.Fatal().Msg("Error: --file is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	data, source := readSource(ctx, log, *file)
	store := buildStore(ctx, log, *storeName, *user)

	p := pipeline.New(pipeline.Config{UserID: *user})
	if *ai {
		registerAIStrategies(p)
	}

	result, err := p.CompareFile(ctx, data, extract.Kind(*kind), source, store)
	if err != nil {
		log.Fatal().Err(err).Msg("Comparison failed")
	}

	r := result.Reconciliation
	fmt.Printf("Compared %d imported against %d ledger records:\n", r.Summary.TotalImported, r.Summary.TotalCurrent)
	fmt.Printf("  exact matches:   %d\n", r.Summary.ExactMatches)
	fmt.Printf("  partial matches: %d\n", r.Summary.PartialMatches)
	fmt.Printf("  new records:     %d\n", r.Summary.NewRecords)
	fmt.Printf("  missing records: %d\n", r.Summary.MissingRecords)
	for _, m := range r.Mismatched {
		fmt.Printf("  ~ %s %s %s\n", m.Imported.Date, m.Imported.Amount, m.Imported.Category)
		for _, d := range m.Differences {
			fmt.Printf("      %s\n", d)
		}
	}
}

func runExport(log zerolog.Logger) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	storeName := fs.String("store", "bigquery", "ledger store: memory, bigquery, notion")
	user := fs.String("user", "denis", "ledger owner")
	out := fs.String("out", "", "output path (default: stdout)")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	store := buildStore(ctx, log, *storeName, *user)

	ledger, err := store.List(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Listing ledger failed")
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatal().Err(err).Str("path", *out).Msg("Creating output file failed")
		}
		defer f.Close()
		w = f
	}

	if err := export.Write(w, ledger); err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}
	log.Info().Int("records", len(ledger)).Msg("Export complete")
}

// readSource resolves --file to bytes: gs:// URIs are fetched from GCS,
// anything else is read from the local filesystem.
func readSource(ctx context.Context, log zerolog.Logger, ref string) ([]byte, string) {
	if strings.HasPrefix(ref, "gs://") {
		src := gcsfetch.NewGCSSource()
		data, err := src.Fetch(ctx, ref)
		if err != nil {
			log.Fatal().Err(err).Str("uri", ref).Msg("Fetching from GCS failed")
		}
		return data, src.Filename(ref)
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		log.Fatal().Err(err).Str("path", ref).Msg("Reading file failed")
	}
	return data, filepath.Base(ref)
}

func buildStore(ctx context.Context, log zerolog.Logger, name, user string) commit.StoragePort {
	switch name {
	case "memory":
		return inmemory.NewStore()
	case "bigquery":
		projectID := os.Getenv("LEDGER_PROJECT_ID")
		if projectID == "" {
			log.Fatal().Msg("Error: LEDGER_PROJECT_ID is required for the bigquery store")
		}
		client, err := bigquerylib.NewClient(ctx, projectID)
		if err != nil {
			log.Fatal().Err(err).Msg("Creating BigQuery client failed")
		}
		return bqstore.NewStore(client, projectID, "ledger", "transactions", user)
	case "notion":
		token := os.Getenv("NOTION_TOKEN")
		databaseID := os.Getenv("NOTION_DATABASE_ID")
		if token == "" || databaseID == "" {
			log.Fatal().Msg("Error: NOTION_TOKEN and NOTION_DATABASE_ID are required for the notion store")
		}
		return notionstore.NewStore(token, databaseID)
	default:
		log.Fatal().Str("store", name).Msg("Unknown store")
		return nil
	}
}

// registerAIStrategies installs Gemini-backed extraction for binary kinds.
func registerAIStrategies(p *pipeline.Pipeline) {
	p.RegisterStrategy(extract.KindPDF, extract.NewGeminiStrategy("", "application/pdf"))
	p.RegisterStrategy(extract.KindSpreadsheet, extract.NewGeminiStrategy("", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"))
	p.RegisterStrategy(extract.KindImage, extract.NewGeminiStrategy("", "image/png"))
}
