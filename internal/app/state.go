package app

import (
	"fmt"
	"time"

	"github.com/VaclavObornik/prg-chatbot/internal/common/errors"
	"github.com/VaclavObornik/prg-chatbot/internal/common/logging"
	"github.com/VaclavObornik/prg-chatbot/internal/state"
)

func (app *App) initializeState() error {
	ttl, err := time.ParseDuration(app.Config.StateTTL)
	if err != nil {
		ttl = 0
	}

	switch app.Config.StateBackend {
	case "memory":
		app.Store = state.NewMemoryStore()

	case "redis":
		if app.RedisClient == nil {
			return errors.ConfigError("redis state backend requires REDIS_ADDRESS")
		}
		app.Store = state.NewRedisStore(app.RedisClient, ttl)

	case "sqlite":
		store, err := state.NewSQLStore("sqlite3", app.Config.DatabasePath)
		if err != nil {
			return err
		}
		app.Store = store

	case "postgres", "postgresql":
		dsn := fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s sslmode=%s",
			app.Config.PostgresHost,
			app.Config.PostgresPort,
			app.Config.PostgresDB,
			app.Config.PostgresUser,
			app.Config.PostgresPassword,
			app.Config.PostgresSSLMode,
		)
		store, err := state.NewSQLStore("pgx", dsn)
		if err != nil {
			return err
		}
		app.Store = store

	default:
		return errors.ConfigError(fmt.Sprintf("unsupported state backend: %s", app.Config.StateBackend))
	}

	app.Logger.Info("Conversation state: Initialized",
		logging.Field{Key: "backend", Value: app.Config.StateBackend})
	return nil
}
