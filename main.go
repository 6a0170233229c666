package main

import (
	"context"
	"log"

	"github.com/VaclavObornik/prg-chatbot/internal/app"
	"github.com/VaclavObornik/prg-chatbot/internal/bot"
	"github.com/VaclavObornik/prg-chatbot/internal/messenger"
)

func main() {
	if err := app.Run(buildRouter()); err != nil {
		log.Fatal(err)
	}
}

// buildRouter assembles the demo conversation tree. Replace this with your
// own routes; app.Run takes any router.
func buildRouter() *bot.Router {
	router := bot.NewRouter()

	router.UseAt("/start", reply(textWithReplies("What can I do for you?",
		quickReply("Order food", "/order/food"),
		quickReply("Ask a question", "/faq"),
	)))

	router.UseMatched("/hello", bot.MatchText("hi"), reply(text("Hi there!")))

	router.UseAt("/order", orderRouter()).
		OnExit("done", func(ctx context.Context, ev bot.Event, exit bot.Exit, res bot.Responder, pb bot.PostBack) (bot.Resolution, error) {
			res.Send(text("Thanks for your order!"))
			return bot.Stop(), nil
		})

	router.UseAt("/faq", bot.HandlerFunc(func(ctx context.Context, ev bot.Event, res bot.Responder, pb bot.PostBack) (bot.Resolution, error) {
		res.Send(text("Ask away, I'm listening."))
		if mev, ok := ev.(*messenger.Event); ok {
			mev.State().ExpectAction("/faq/answer")
		}
		return bot.Stop(), nil
	}))

	router.UseAt("/faq/answer", reply(text("Good question! Let me get back to you.")))

	router.Use(reply(textWithReplies("Sorry, I didn't get that. Try the menu:",
		quickReply("Start over", "/start"),
	)))

	return router
}

// orderRouter is a nested scope: routes are registered relative to the mount
// point and the sub-tree hands control back through the "done" exit.
func orderRouter() *bot.Router {
	sub := bot.NewRouter()

	// Quick-reply payloads travel back through the platform, so they carry
	// the absolute path including the mount point.
	sub.UseAt("/food", reply(textWithReplies("Pizza or pasta?",
		quickReply("Pizza", "/order/confirm"),
		quickReply("Pasta", "/order/confirm"),
	)))

	sub.UseAt("/confirm", bot.HandlerFunc(func(ctx context.Context, ev bot.Event, res bot.Responder, pb bot.PostBack) (bot.Resolution, error) {
		return bot.ExitTo("done", nil), nil
	}))

	return sub
}

func reply(payload interface{}) bot.HandlerFunc {
	return func(ctx context.Context, ev bot.Event, res bot.Responder, pb bot.PostBack) (bot.Resolution, error) {
		res.Send(payload)
		return bot.Stop(), nil
	}
}

func text(s string) map[string]interface{} {
	return map[string]interface{}{"text": s}
}

func textWithReplies(s string, replies ...map[string]string) map[string]interface{} {
	return map[string]interface{}{"text": s, "quick_replies": replies}
}

func quickReply(title, action string) map[string]string {
	return map[string]string{
		"content_type": "text",
		"title":        title,
		"payload":      messenger.MakePayload(action, nil),
	}
}
