package app

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/VaclavObornik/prg-chatbot/internal/handlers"
	"github.com/VaclavObornik/prg-chatbot/internal/middleware"
	"github.com/VaclavObornik/prg-chatbot/internal/ratelimit"
)

// SetupRoutes configures all HTTP routes for the application
func SetupRoutes(router *mux.Router, h *handlers.Handlers, authMiddleware func(http.Handler) http.Handler, limiter *ratelimit.Limiter) {
	// Add logging middleware to all routes
	router.Use(middleware.LoggingMiddleware)

	// Platform webhook endpoints (no auth; the platform authenticates with
	// the verify token and body signatures)
	if limiter != nil {
		webhook := limiter.HTTPMiddleware(ratelimit.IPBasedKey)(http.HandlerFunc(h.ReceiveWebhook))
		router.Handle("/webhook", webhook).Methods("POST")
	} else {
		router.HandleFunc("/webhook", h.ReceiveWebhook).Methods("POST")
	}
	router.HandleFunc("/webhook", h.VerifyWebhook).Methods("GET")

	// Health check (no auth required)
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")

	// Admin login (no auth required for login itself)
	router.HandleFunc("/api/login", h.Login).Methods("POST")

	// Protected admin routes
	if authMiddleware != nil {
		api := router.PathPrefix("/api").Subrouter()
		api.Use(authMiddleware)
		api.HandleFunc("/routes", h.GetRoutes).Methods("GET")
		api.HandleFunc("/stats", h.GetStats).Methods("GET")
	}
}
