package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-stock-insight/internal/insight/config"
	delivery "golang-stock-insight/internal/insight/delivery/http"
	"golang-stock-insight/internal/insight/report"
	"golang-stock-insight/internal/insight/repository"
	"golang-stock-insight/internal/insight/service"
	"golang-stock-insight/pkg/logger"
	"golang-stock-insight/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"google.golang.org/genai"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the insight service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Insight Service", logger.Field("name", cfg.App.Name))

	// Initialize Gemini client
	genAiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize Gemini client", logger.ErrorField(err))
	}

	// Initialize repositories
	aiRepo, err := repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
	if err != nil {
		appLogger.Fatal("Failed to initialize AI repository", logger.ErrorField(err))
	}
	marketRepo := repository.NewTushareRepository(cfg, appLogger)
	directoryRepo := repository.NewStockDirectoryRepository(cfg, appLogger, marketRepo)
	searchRepo := repository.NewWebSearchRepository(cfg, appLogger)

	// Initialize Telegram notifier
	var notifier telegram.Notifier
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Initialize services
	parser := service.NewQueryParser(directoryRepo, appLogger)
	newsSvc := service.NewNewsService(cfg, appLogger, searchRepo, aiRepo)
	narrativeSvc := service.NewNarrativeService(appLogger, aiRepo)
	scoreSvc := service.NewScoreService(appLogger, aiRepo)
	assembler := report.NewPDFAssembler(cfg, appLogger)
	reportSvc := service.NewReportService(cfg, appLogger, parser, marketRepo, newsSvc, narrativeSvc, scoreSvc, assembler, notifier)

	// Start the expired-report sweeper
	sweeper := service.NewReportSweeper(cfg, appLogger)
	if err := sweeper.Start(); err != nil {
		appLogger.Fatal("Failed to start report sweeper", logger.ErrorField(err))
	}
	defer sweeper.Stop()

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	reportHandler := delivery.NewReportHandler(reportSvc, appLogger)
	apiV1 := e.Group("/api/v1")
	reportHandler.RegisterRoutes(apiV1)

	// Serve generated report artifacts while they are retained
	e.Static("/reports", cfg.Report.Dir)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "insight-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-insight.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing insight-service CLI: %s\n", err)
		os.Exit(1)
	}
}
