package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ksfraser/stock-analysis/internal/api"
	"github.com/ksfraser/stock-analysis/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Starts the HTTP API server.

Endpoints:
  GET  /health                        - Health check
  GET  /api/analysis/{symbol}         - On-demand analysis
  GET  /api/results/{symbol}          - Latest stored result
  GET  /api/results/{symbol}/history  - Stored result history
  GET  /api/results/top               - Top-rated symbols for a day
  POST /api/scan                      - Trigger a watchlist scan

Example:
  go run ./cmd/analyzer api
  go run ./cmd/analyzer api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	svc, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer svc.close()

	if apiPort != "" {
		svc.cfg.Port = apiPort
	}

	analysisHandler := handlers.NewAnalysisHandler(
		svc.scanner, svc.repo, svc.cfg.Analysis.Watchlist, svc.log)

	router := api.NewRouter(analysisHandler, svc.log)
	server := api.New(svc.cfg, svc.log, router)

	go func() {
		if err := server.Start(); err != nil {
			svc.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	svc.log.Info("API server started successfully")
	fmt.Printf("Server running on http://localhost:%s\n", svc.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	svc.log.Info("Server stopped")
	return nil
}
