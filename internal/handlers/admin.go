package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/VaclavObornik/prg-chatbot/internal/common/logging"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login issues an admin API token for valid credentials.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil {
		writeError(w, http.StatusServiceUnavailable, "admin API is not configured")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed login request")
		return
	}

	token, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		h.logger.Warn("Admin login rejected",
			logging.Field{Key: "username", Value: req.Username},
			logging.Field{Key: "remote_addr", Value: r.RemoteAddr},
		)
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// GetRoutes lists the registered route paths in registration order.
func (h *Handlers) GetRoutes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"routes": h.router.Paths(),
	})
}

// GetStats returns the processor's dispatch counters.
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.processor.Stats())
}
