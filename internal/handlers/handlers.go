// Package handlers implements the HTTP surface: the platform webhook
// endpoints, the health check and the JWT-protected admin API.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/VaclavObornik/prg-chatbot/internal/auth"
	"github.com/VaclavObornik/prg-chatbot/internal/bot"
	"github.com/VaclavObornik/prg-chatbot/internal/common/logging"
	"github.com/VaclavObornik/prg-chatbot/internal/config"
	"github.com/VaclavObornik/prg-chatbot/internal/processor"
	"github.com/VaclavObornik/prg-chatbot/internal/redis"
	"github.com/VaclavObornik/prg-chatbot/internal/state"
)

type Handlers struct {
	cfg       *config.Config
	router    *bot.Router
	processor *processor.Processor
	auth      *auth.Auth
	redis     *redis.Client
	store     state.Store
	logger    logging.Logger
}

func New(cfg *config.Config, router *bot.Router, proc *processor.Processor, authn *auth.Auth, redisClient *redis.Client, store state.Store, logger logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Handlers{
		cfg:       cfg,
		router:    router,
		processor: proc,
		auth:      authn,
		redis:     redisClient,
		store:     store,
		logger:    logger.WithFields(logging.Field{Key: "component", Value: "handlers"}),
	}
}

// HealthCheck returns the health status of the application and its backends.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now(),
	}

	// Check Redis health if configured
	if h.redis != nil {
		if err := h.redis.Health(); err != nil {
			status["redis_status"] = "unhealthy"
			status["redis_error"] = err.Error()
		} else {
			status["redis_status"] = "healthy"
		}
	} else {
		status["redis_status"] = "not_configured"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
