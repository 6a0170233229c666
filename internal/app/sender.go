package app

import (
	"time"

	"github.com/VaclavObornik/prg-chatbot/internal/common/logging"
	"github.com/VaclavObornik/prg-chatbot/internal/messenger"
)

func (app *App) initializeSender() {
	pace, err := time.ParseDuration(app.Config.SendPace)
	if err != nil {
		pace = 0
	}

	app.Sender = messenger.NewSender(messenger.SenderConfig{
		PageToken: app.Config.PageToken,
		APIURL:    app.Config.SendAPIURL,
		Pace:      pace,
	}, app.Logger)

	app.Logger.Info("Sender: Initialized",
		logging.Field{Key: "pace", Value: app.Config.SendPace})
}
