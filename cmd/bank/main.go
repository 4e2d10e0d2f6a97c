package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/bank-ledger/internal/config"
	"github.com/dvloznov/bank-ledger/internal/domain"
	infraBQ "github.com/dvloznov/bank-ledger/internal/infra/bigquery"
	"github.com/dvloznov/bank-ledger/internal/ledger"
	"github.com/dvloznov/bank-ledger/internal/logger"
	"github.com/dvloznov/bank-ledger/internal/shell"
	"github.com/dvloznov/bank-ledger/internal/storage"
)

func main() {
	cmd, args := "shell", []string{}
	if len(os.Args) > 1 {
		cmd, args = os.Args[1], os.Args[2:]
	}

	switch cmd {
	case "shell":
		runShell(args)
	case "inspect":
		runInspect(args)
	case "migrate":
		runMigrate(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Bank Ledger")
	fmt.Println("\nUsage:")
	fmt.Println("  bank <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  shell     Run the interactive menu (default)")
	fmt.Println("  inspect   Print the accounts saved at a source")
	fmt.Println("  migrate   Create the BigQuery summaries table of a bq:// destination")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'bank <command> -h' for more information on a command.")
	if usage := config.Usage(); usage != "" {
		fmt.Println()
		fmt.Println(usage)
	}
}

func setup(fs *flag.FlagSet, args []string) (*config.Config, zerolog.Logger) {
	cfg, err := config.Load(fs, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	return cfg, log
}

func runShell(args []string) {
	fs := flag.NewFlagSet("shell", flag.ExitOnError)
	cfg, log := setup(fs, args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	l := ledger.New(log)
	if cfg.Restore != "" {
		restoreCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		records, err := storage.Load(restoreCtx, cfg.Restore, cfg.ClientOptions()...)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Str("source", cfg.Restore).Msg("Restore failed")
		}
		if err := l.Restore(records); err != nil {
			log.Fatal().Err(err).Str("source", cfg.Restore).Msg("Restore failed")
		}
	}

	startLog := logger.WithFields(log, map[string]interface{}{
		"data":     cfg.DataFile,
		"accounts": l.Len(),
	})
	startLog.Info().Msg("Starting shell")

	open := func(ctx context.Context, dest string) (storage.Sink, error) {
		return storage.Open(ctx, dest, cfg.ClientOptions()...)
	}
	sh := shell.New(l, &shell.TerminalPrompter{}, os.Stdout, cfg.DataFile, open)
	if err := sh.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Shell stopped")
	}
}

func runInspect(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	source := fs.String("source", "", "source to read (path, gs:// or bq:// URI); defaults to the data destination")
	cfg, log := setup(fs, args)

	if *source == "" {
		*source = cfg.DataFile
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	records, err := storage.Load(ctx, *source, cfg.ClientOptions()...)
	if err != nil {
		log.Fatal().Err(err).Str("source", *source).Msg("Failed to load accounts")
	}

	fmt.Printf("\n=== Accounts at %s ===\n", *source)
	for _, rec := range records {
		status := domain.StatusActive
		if rec.Locked {
			status = domain.StatusLocked
		}
		fmt.Printf("%4d  %-16s %-16s %12s  %s\n",
			rec.Number, rec.Owner.LastName, rec.Owner.FirstName, rec.Balance.StringFixed(2), status)
	}
	fmt.Printf("\nTotal: %d accounts\n", len(records))
}

func runMigrate(args []string) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	cfg, log := setup(fs, args)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	repo, err := infraBQ.NewSummaryRepository(ctx, cfg.DataFile, cfg.ClientOptions()...)
	if err != nil {
		log.Fatal().Err(err).Msg("Error: -data must be a bq://project.dataset.table URI")
	}
	defer repo.Close()

	log.Info().Str("table", repo.Table().String()).Msg("Ensuring summaries table")

	if err := repo.EnsureTable(ctx); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}

	fmt.Printf("Table %s is ready.\n", repo.Table())
}
