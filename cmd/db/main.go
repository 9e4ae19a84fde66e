package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"polycubes/internal/cache"
)

func main() {
	dbPath := flag.String("db", getDBPath(), "Path to the sqlite generation cache")
	reset := flag.Bool("reset", false, "Drop cached generations before creating the schema")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := setup(*dbPath, *reset, logger); err != nil {
		logger.Fatal("database setup failed", zap.Error(err))
	}

	fmt.Println("\nGeneration cache ready at", *dbPath)
}

// setup creates the generations table, dropping it first when reset is set.
func setup(dbPath string, reset bool, logger *zap.Logger) error {
	logger.Info("setting up database", zap.String("path", dbPath))

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if reset {
		logger.Info("dropping existing tables")
		if _, err := db.Exec(cache.DropSchema); err != nil {
			return fmt.Errorf("failed to drop tables: %w", err)
		}
	}

	logger.Info("creating tables")
	if _, err := db.Exec(cache.Schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

func getDBPath() string {
	dbPath := os.Getenv("CUBES_DB_PATH")
	if dbPath == "" {
		dbPath = "./cubes.db"
	}
	return dbPath
}
