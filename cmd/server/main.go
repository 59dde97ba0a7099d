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

	"github.com/robfig/cron/v3"

	"github.com/newsdesk/article-ingestor/internal/application"
	"github.com/newsdesk/article-ingestor/internal/config"
	"github.com/newsdesk/article-ingestor/internal/transport/server"
)

var (
	Commit    string = "unknown"
	BuildTime string = "unknown"
)

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showHelp {
		fmt.Printf("Article Ingestor Server\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nEnvironment Variables:\n")
		fmt.Printf("  DATABASE_URL          postgres://, mongodb:// or sqlite:// store URL\n")
		fmt.Printf("  SUPABASE_URL          Supabase project URL (with SUPABASE_KEY)\n")
		fmt.Printf("  STORE_BACKEND         postgres, supabase, sqlite, mongo or gcs (default: inferred)\n")
		fmt.Printf("  FEED_URL              RSS feed to ingest (default: %s)\n", config.DefaultFeedURL)
		fmt.Printf("  FETCH_LIMIT           Entries per fetch (default: 5)\n")
		fmt.Printf("  FETCH_SCHEDULE        Cron expression for periodic fetches (default: off)\n")
		fmt.Printf("  API_TOKEN             Bearer token required on POST routes (default: off)\n")
		fmt.Printf("  PORT                  Server port (default: 8000)\n")
		fmt.Printf("  HOST                  Server host (default: 0.0.0.0)\n")
		os.Exit(0)
	}

	if *showVersion {
		fmt.Printf("Article Ingestor Server\n")
		fmt.Printf("Version: %s\n", application.Version)
		fmt.Printf("Commit: %s\n", Commit)
		fmt.Printf("Build Time: %s\n", BuildTime)
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := application.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	defer app.Close()

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      server.NewRouter(app),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	c := cron.New()
	if cfg.FetchSchedule != "" {
		_, err := c.AddFunc(cfg.FetchSchedule, func() {
			log.Printf("Scheduled fetch starting feed=%s", cfg.FeedURL)
			result, err := app.Ingest.Run(ctx, cfg.FeedURL)
			if err != nil {
				log.Printf("Scheduled fetch failed: %v", err)
				return
			}
			log.Printf("Scheduled fetch completed inserted=%d skipped_duplicates=%d", result.Inserted, result.SkippedDuplicates)
		})
		if err != nil {
			log.Fatalf("Invalid FETCH_SCHEDULE %q: %v", cfg.FetchSchedule, err)
		}
		log.Printf("Scheduled fetch with cron: %s", cfg.FetchSchedule)
	}
	c.Start()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server
	go func() {
		log.Printf("Starting server on %s (store=%s)", cfg.Addr(), cfg.StoreBackend)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down server...")

	cancel()

	// Wait for a running scheduled fetch to return
	<-c.Stop().Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
