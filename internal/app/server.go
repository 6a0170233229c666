package app

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/VaclavObornik/prg-chatbot/internal/handlers"
	"github.com/VaclavObornik/prg-chatbot/internal/server"
)

// RunServer builds the HTTP server with all handlers configured
func (app *App) RunServer() (*server.Server, http.Handler) {
	// Initialize handlers
	h := handlers.New(
		app.Config,
		app.Router,
		app.Processor,
		app.Auth,
		app.RedisClient,
		app.Store,
		app.Logger,
	)

	// Set up routes
	router := mux.NewRouter()
	var authMiddleware func(http.Handler) http.Handler
	if app.Auth != nil {
		authMiddleware = app.Auth.RequireAuth
	}
	SetupRoutes(router, h, authMiddleware, app.Limiter)

	// Create server
	srv := server.New(router, app.Config.Port)

	return srv, router
}
