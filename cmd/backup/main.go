package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"vitrola/internal/config"
	"vitrola/internal/database"
	"vitrola/internal/logger"
	"vitrola/internal/service"
)

func main() {
	// Define subcommands
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)

	// Export flags
	exportOutput := exportCmd.String("output", "", "Output file path (default: words_YYYYMMDD_HHMMSS.json)")

	// Import flags
	importInput := importCmd.String("input", "", "Input file path (required)")
	importClear := importCmd.Bool("clear", false, "Delete existing words before import (WARNING: destructive)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Initialize database
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		fatal("failed to initialize database", err)
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(ctx, cfg.MigrationsPath); err != nil {
		fatal("failed to run migrations", err)
	}

	backupService := service.NewBackupService(db)

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		handleExport(ctx, backupService, *exportOutput)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		handleImport(ctx, backupService, *importInput, *importClear)

	default:
		printUsage()
		os.Exit(1)
	}
}

func handleExport(ctx context.Context, backupService *service.BackupService, outputPath string) {
	// Generate default filename if not provided
	if outputPath == "" {
		outputPath = fmt.Sprintf("words_%s.json", time.Now().Format("20060102_150405"))
	}

	// Ensure directory exists
	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fatal("failed to create output directory", err)
		}
	}

	logger.Info("exporting words", zap.String("output", outputPath))
	backup, err := backupService.ExportToFile(ctx, outputPath)
	if err != nil {
		fatal("export failed", err)
	}

	logger.Info("export complete", zap.Int("words", len(backup.Words)), zap.String("output", outputPath))
}

func handleImport(ctx context.Context, backupService *service.BackupService, inputPath string, clearData bool) {
	if _, err := os.Stat(inputPath); err != nil {
		fatal("input file is not readable", err)
	}

	if clearData {
		count, err := backupService.CountWords(ctx)
		if err != nil {
			fatal("failed to count words", err)
		}
		fmt.Printf("WARNING: This will delete all %d existing words. Type 'yes' to confirm: ", count)
		if !confirmed(bufio.NewReader(os.Stdin)) {
			logger.Info("import cancelled")
			return
		}
	}

	logger.Info("importing words", zap.String("input", inputPath), zap.Bool("clear", clearData))
	result, err := backupService.ImportFromFile(ctx, inputPath, clearData)
	if err != nil {
		fatal("import failed", err)
	}

	logger.Info("import complete", zap.Int("imported", result.Imported), zap.Int64("deleted", result.Deleted))
}

func confirmed(r *bufio.Reader) bool {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.TrimSpace(line) == "yes"
}

func fatal(msg string, err error) {
	logger.Error(msg, zap.Error(err))
	logger.Sync()
	os.Exit(1)
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  backup export [-output <file>]")
	fmt.Println("  backup import -input <file> [-clear]")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  DATABASE_TYPE  sqlite, postgres or mysql (default: sqlite)")
	fmt.Println("  DB_PATH        sqlite database file")
	fmt.Println("  DATABASE_URL   postgres or mysql connection string")
}
