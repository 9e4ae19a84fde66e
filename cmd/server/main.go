package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"polycubes/internal/api"
	"polycubes/internal/cache"
	"polycubes/internal/precompute"
)

func main() {
	addr := flag.String("addr", ":8080", "Listen address")
	dbPath := flag.String("db", getDBPath(), "Path to the sqlite generation cache")
	maxCompute := flag.Int("max-compute", 8, "Largest uncached generation computed on demand")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	logger.Info("connecting to database", zap.String("path", *dbPath))
	store, err := cache.OpenSQLite(*dbPath)
	if err != nil {
		logger.Fatal("failed to open cache", zap.Error(err))
	}
	defer store.Close()

	gen := precompute.New(precompute.Options{
		Store:    store,
		UseCache: true,
		Logger:   logger,
	})
	server := api.NewServer(store, gen, *maxCompute, logger)

	s := &http.Server{
		Addr:              *addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(shutdownCtx)
	}()

	logger.Info("starting server", zap.String("addr", *addr))
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func getDBPath() string {
	dbPath := os.Getenv("CUBES_DB_PATH")
	if dbPath == "" {
		dbPath = "./cubes.db"
	}
	return dbPath
}
