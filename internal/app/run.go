package app

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/VaclavObornik/prg-chatbot/internal/bot"
	"github.com/VaclavObornik/prg-chatbot/internal/common/logging"
	"github.com/VaclavObornik/prg-chatbot/internal/config"
)

// Run is the main entry point for the application. The caller supplies the
// route tree the bot dispatches into.
func Run(router *bot.Router) error {
	// Load environment variables
	_ = godotenv.Load()

	// Set up CPU usage
	runtime.GOMAXPROCS(runtime.NumCPU())

	// Initialize logging
	logging.InitGlobalLogger()
	defer logging.MustSync()

	logging.Info("Starting chatbot",
		logging.Field{Key: "cpus", Value: runtime.NumCPU()},
		logging.Field{Key: "routes", Value: len(router.Paths())},
	)

	// Load and validate configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logging.Error("Configuration validation failed", err)
		return err
	}

	// Initialize application
	app, err := New(cfg, router)
	if err != nil {
		logging.Error("Failed to initialize application", err)
		return err
	}
	defer app.Cleanup()

	// Start server
	srv, _ := app.RunServer()
	if err := srv.Start(); err != nil {
		logging.Error("Server failed to start", err)
		return err
	}

	logging.Info("Webhook listening", logging.Field{Key: "port", Value: cfg.Port})

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logging.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server first so no new events arrive while the sender
	// drains its queues in Cleanup
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", err)
		return err
	}

	logging.Info("Server exited")
	return nil
}
