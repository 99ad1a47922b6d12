package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samkim-crypto/bsaggots/cmd/bsotsd/server"
	"github.com/samkim-crypto/bsaggots/internal/store"
)

var (
	port     = flag.String("port", "8080", "HTTP server port")
	host     = flag.String("host", "127.0.0.1", "HTTP server host")
	logLevel = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	dataDir  = flag.String("data-dir", "", "Data directory for RocksDB key storage (requires a build with the rocksdb tag; empty uses the in-memory store)")
)

func main() {
	flag.Parse()

	setupLogging(*logLevel)

	keyStore, err := initializeStore(*dataDir)
	if err != nil {
		log.Fatalf("Failed to initialize key store: %v", err)
	}

	srv := server.NewServer(keyStore)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", *host, *port),
		Handler:      srv.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting bsotsd HTTP server on %s:%s", *host, *port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down bsotsd server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	if err := keyStore.Close(); err != nil {
		log.Printf("Error closing key store: %v", err)
	}

	log.Println("bsotsd server stopped")
}

func initializeStore(dataDir string) (store.KeyStore, error) {
	if dataDir == "" {
		log.Printf("No data directory given, using in-process memory store")
		return store.NewMemoryStore(), nil
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}

	log.Printf("Using data directory: %s", dataDir)

	cfg := store.DefaultConfig()
	cfg.RocksDB.Path = dataDir

	rdb, err := store.NewRocksDBStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open RocksDB key store: %w", err)
	}

	return rdb, nil
}

func setupLogging(level string) {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	switch level {
	case "debug", "info":
		log.SetOutput(os.Stdout)
	case "warn", "error":
		log.SetOutput(os.Stderr)
	default:
		log.SetOutput(os.Stdout)
	}

	log.Printf("Log level set to: %s", level)
}
