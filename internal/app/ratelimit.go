package app

import (
	"strconv"
	"time"

	"github.com/VaclavObornik/prg-chatbot/internal/common/logging"
	"github.com/VaclavObornik/prg-chatbot/internal/ratelimit"
)

func (app *App) initializeRateLimit() {
	if app.RedisClient == nil || !app.Config.RateLimitEnabled {
		app.Limiter = nil
		app.Logger.Info("Rate Limiting: Disabled")
		return
	}

	// Parse rate limit configuration
	defaultLimit, _ := strconv.Atoi(app.Config.RateLimitDefault)
	if defaultLimit == 0 {
		defaultLimit = 30
	}

	window, _ := time.ParseDuration(app.Config.RateLimitWindow)
	if window == 0 {
		window = time.Minute
	}

	app.Limiter = ratelimit.NewLimiter(app.RedisClient, &ratelimit.Config{
		DefaultLimit:  defaultLimit,
		DefaultWindow: window,
		Enabled:       true,
	})

	app.Logger.Info("Rate Limiting: Enabled",
		logging.Field{Key: "limit", Value: defaultLimit},
		logging.Field{Key: "window", Value: window.String()},
	)
}
