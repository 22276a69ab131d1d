// Command reimport bulk-loads a directory of daily spreadsheet exports,
// optionally clearing the stock_daily table first.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"stocksheet/adapters/excel"
	"stocksheet/adapters/postgres"
	"stocksheet/app"
	"stocksheet/internal"
	"stocksheet/internal/config"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	var (
		dir   = flag.String("dir", "", "directory of spreadsheet files to import (defaults to DATA_DIR)")
		clear = flag.Bool("clear", false, "delete all existing stock_daily rows first")
		yes   = flag.Bool("yes", false, "skip confirmation prompts")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *dir == "" {
		*dir = cfg.Import.DataDir
	}
	if stat, err := os.Stat(*dir); err != nil || !stat.IsDir() {
		log.Fatalf("Not a directory: %s", *dir)
	}

	logger := internal.NewDefaultLogger()
	ctx := context.Background()

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgres.InitSchema(ctx, db); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	mapping, err := config.LoadMapping(cfg.Import.MappingFile)
	if err != nil {
		log.Fatalf("Failed to load column mapping: %v", err)
	}

	store := postgres.NewStockRepository(db, logger)

	count, err := store.CountAll(ctx)
	if err != nil {
		log.Fatalf("Failed to count records: %v", err)
	}
	fmt.Printf("Current records in database: %d\n", count)

	if *clear {
		if !*yes && !confirm("This will delete ALL existing stock data. Continue?") {
			fmt.Println("Cancelled.")
			return
		}
		deleted, err := store.DeleteAll(ctx)
		if err != nil {
			log.Fatalf("Failed to clear database: %v", err)
		}
		fmt.Printf("Deleted %d existing records.\n", deleted)
	}

	if !*yes && !confirm(fmt.Sprintf("Import all spreadsheets from %s?", *dir)) {
		fmt.Println("Cancelled.")
		return
	}

	importer := app.NewImportService(store, excel.NewReader(), mapping, logger)
	result, err := importer.ImportDirectory(ctx, *dir)
	if err != nil {
		log.Fatalf("Batch import failed: %v", err)
	}

	fmt.Println("\nImport finished.")
	for _, res := range result.Succeeded {
		fmt.Printf("  %-30s %s  %d inserted, %d skipped\n",
			res.FileName, res.TradeDate, res.Inserted, res.Skipped)
	}
	if len(result.Failed) > 0 {
		fmt.Println("Failed files:")
		names := make([]string, 0, len(result.Failed))
		for name := range result.Failed {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %-30s %s\n", name, result.Failed[name])
		}
	}
	fmt.Printf("Files: %d ok, %d failed. Records imported: %d\n",
		len(result.Succeeded), len(result.Failed), result.TotalRecords)

	final, err := store.CountAll(ctx)
	if err == nil {
		fmt.Printf("Total records in database: %d\n", final)
	}
}

func confirm(message string) bool {
	fmt.Printf("%s (yes/no): ", message)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(scanner.Text()), "yes")
}
