/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Staffline roster engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load environment configuration
  2. Parse command-line flag overrides
  3. Initialize SQLite store
  4. Build the shift-pattern catalog (built-ins + optional JSON file)
  5. Configure HTTP router
  6. Start server with graceful shutdown

CONFIGURATION:
  Environment variables (see config package), with flag overrides:
    -port    HTTP server port
    -db      SQLite database path (":memory:" for in-memory)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (configurable timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/roster.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Register extra client-specific patterns
  PATTERNS_FILE=./patterns.json ./server

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Environment configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/staffline/roster-engine/api"
	"github.com/staffline/roster-engine/config"
	"github.com/staffline/roster-engine/factory"
	"github.com/staffline/roster-engine/roster"
	"github.com/staffline/roster-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Flag overrides for the common local-dev knobs
	port := flag.Int("port", cfg.Server.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.Database.Path, "SQLite database path")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Build pattern catalog
	catalog := roster.NewCatalog()
	if cfg.PatternsFile != "" {
		if err := loadPatterns(catalog, cfg.PatternsFile); err != nil {
			log.Fatalf("Failed to load patterns from %s: %v", cfg.PatternsFile, err)
		}
	}

	// Initialize handler and router
	handler := api.NewHandler(store, catalog)
	router := api.NewRouter(handler, cfg.CORS.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// loadPatterns registers extra shift patterns from a JSON file containing
// an array of factory.PatternJSON definitions.
func loadPatterns(catalog *roster.Catalog, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var definitions []factory.PatternJSON
	if err := json.Unmarshal(data, &definitions); err != nil {
		return fmt.Errorf("failed to parse pattern definitions: %w", err)
	}

	return factory.NewPatternFactory().RegisterAll(catalog, definitions)
}
