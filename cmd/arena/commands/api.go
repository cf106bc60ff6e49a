package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/tradearena/backend/internal/api"
	"github.com/tradearena/backend/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the ranking API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                       - Health check
  GET  /api/rankings/leaderboard     - Leaderboard by timeframe
  GET  /api/rankings/tiers           - Rank tier catalog
  GET  /api/rankings/user/{userId}   - Single user ranking
  POST /api/rankings/update          - Trigger a recomputation pass

Example:
  go run ./cmd/arena api
  go run ./cmd/arena api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Trade Arena Ranking API ===")

	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	// Override port if flag is set
	if apiPort != "" {
		d.cfg.Port = apiPort
	}

	log := d.log
	log.WithFields(map[string]interface{}{
		"port": d.cfg.Port,
		"env":  d.cfg.Env,
	}).Info("Initializing API server")

	// Create handler
	rankingHandler := handlers.NewRankingHandler(
		d.reader,
		d.orchestrator,
		d.cache,
		d.cfg.Ranking.LeaderboardCacheTTL,
		log,
	)

	// Throttle the recompute trigger
	perMin := d.cfg.Ranking.UpdateRatePerMin
	updateLimiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMin)), 1)

	// Create router and server
	router := api.NewRouter(rankingHandler, updateLimiter, d.db, log)
	server := api.New(d.cfg, log, router)

	// Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\nServer running on http://localhost:%s\n", d.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
