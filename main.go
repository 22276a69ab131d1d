package main

import (
	"context"
	"log"

	"stocksheet/adapters/excel"
	"stocksheet/adapters/postgres"
	"stocksheet/app"
	"stocksheet/internal"
	"stocksheet/internal/config"
	"stocksheet/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgres.InitSchema(context.Background(), db); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	mapping, err := config.LoadMapping(cfg.Import.MappingFile)
	if err != nil {
		log.Fatalf("Failed to load column mapping: %v", err)
	}

	store := postgres.NewStockRepository(db, logger)
	importer := app.NewImportService(store, excel.NewReader(), mapping, logger)
	queries := app.NewQueryService(store, logger)

	server := ui.NewApp(store, queries, importer, cfg.Import.HistoryLimit, logger)
	if err := server.Serve(cfg.Server.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
