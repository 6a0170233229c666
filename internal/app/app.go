// Package app wires the application together: configuration, state storage,
// the outbound sender, rate limiting, the admin API and the HTTP server
// hosting the webhook.
package app

import (
	"github.com/VaclavObornik/prg-chatbot/internal/auth"
	"github.com/VaclavObornik/prg-chatbot/internal/bot"
	"github.com/VaclavObornik/prg-chatbot/internal/common/logging"
	"github.com/VaclavObornik/prg-chatbot/internal/config"
	"github.com/VaclavObornik/prg-chatbot/internal/messenger"
	"github.com/VaclavObornik/prg-chatbot/internal/processor"
	"github.com/VaclavObornik/prg-chatbot/internal/ratelimit"
	"github.com/VaclavObornik/prg-chatbot/internal/redis"
	"github.com/VaclavObornik/prg-chatbot/internal/state"
)

// App holds all the application dependencies
type App struct {
	Config      *config.Config
	Router      *bot.Router
	Store       state.Store
	Sender      *messenger.Sender
	Processor   *processor.Processor
	Auth        *auth.Auth
	RedisClient *redis.Client
	Limiter     *ratelimit.Limiter
	Logger      logging.Logger
}

// New creates a new application instance around the given route tree with
// all dependencies initialized.
func New(cfg *config.Config, router *bot.Router) (*App, error) {
	app := &App{
		Config: cfg,
		Router: router,
		Logger: logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "app"}),
	}

	// Initialize components in order of dependency
	if err := app.initializeRedis(); err != nil {
		// Redis is optional, just log the error
		app.Logger.Warn("Redis initialization failed, continuing without Redis",
			logging.Field{Key: "error", Value: err.Error()})
	}

	if err := app.initializeState(); err != nil {
		return nil, err
	}

	app.initializeSender()
	app.initializeRateLimit()

	if err := app.initializeAuth(); err != nil {
		return nil, err
	}

	app.Processor = processor.New(app.Router, app.Store, app.Sender, app.Limiter, app.Logger)

	return app, nil
}

// Cleanup releases all resources
func (app *App) Cleanup() {
	if app.Sender != nil {
		app.Sender.Close()
	}
	if app.Store != nil {
		app.Store.Close()
	}
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
