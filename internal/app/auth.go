package app

import (
	"github.com/VaclavObornik/prg-chatbot/internal/auth"
)

func (app *App) initializeAuth() error {
	if app.Config.JWTSecret == "" {
		// Admin API disabled; the webhook endpoints stay available.
		app.Logger.Info("Admin API: Disabled (no JWT secret configured)")
		return nil
	}

	app.Auth = auth.New(app.Config.JWTSecret, app.Config.AdminPasswordHash)
	app.Logger.Info("Admin API: Enabled")
	return nil
}
