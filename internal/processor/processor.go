// Package processor drives one inbound messaging event through the dispatch
// engine: it loads the sender's conversation state, builds the event facade,
// runs the route tree and persists the state that handlers left behind.
// Events for one sender are processed strictly in arrival order.
package processor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/VaclavObornik/prg-chatbot/internal/bot"
	"github.com/VaclavObornik/prg-chatbot/internal/common/errors"
	"github.com/VaclavObornik/prg-chatbot/internal/common/logging"
	"github.com/VaclavObornik/prg-chatbot/internal/messenger"
	"github.com/VaclavObornik/prg-chatbot/internal/ratelimit"
	"github.com/VaclavObornik/prg-chatbot/internal/state"
)

// ResponderFactory yields the outbound sink for one recipient. Satisfied by
// *messenger.Sender.
type ResponderFactory interface {
	ResponderFor(recipientID string) bot.Responder
}

// Stats is a snapshot of the processor's counters.
type Stats struct {
	Received    int64            `json:"received"`
	Dispatched  int64            `json:"dispatched"`
	RateLimited int64            `json:"rate_limited"`
	Errors      int64            `json:"errors"`
	Actions     map[string]int64 `json:"actions"`
}

// Processor runs inbound events through the router.
type Processor struct {
	router  *bot.Router
	store   state.Store
	sender  ResponderFactory
	limiter *ratelimit.Limiter
	logger  logging.Logger

	mu    sync.Mutex
	stats Stats
}

// New creates a processor. The limiter may be nil to disable throttling. The
// processor registers an action observer on the router to keep per-action
// counters.
func New(router *bot.Router, store state.Store, sender ResponderFactory, limiter *ratelimit.Limiter, logger logging.Logger) *Processor {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	p := &Processor{
		router:  router,
		store:   store,
		sender:  sender,
		limiter: limiter,
		logger:  logger.WithFields(logging.Field{Key: "component", Value: "processor"}),
		stats:   Stats{Actions: make(map[string]int64)},
	}

	router.OnAction(func(senderID, absolutePath, text string, _ bot.Event) {
		p.mu.Lock()
		p.stats.Actions[absolutePath]++
		p.mu.Unlock()
		p.logger.Debug("Action resolved",
			logging.SenderID(senderID),
			logging.Action(absolutePath),
			logging.Field{Key: "text", Value: text},
		)
	})

	return p
}

// Process dispatches one messaging event. A rate-limited sender is dropped
// silently so the platform does not retry the delivery.
func (p *Processor) Process(ctx context.Context, msg messenger.Messaging) error {
	senderID := msg.Sender.ID
	if senderID == "" {
		return errors.ValidationError("messaging event has no sender")
	}

	p.count(func(s *Stats) { s.Received++ })

	if p.limiter != nil && !p.limiter.AllowSender(ctx, senderID) {
		p.count(func(s *Stats) { s.RateLimited++ })
		p.logger.Warn("Sender rate limited, dropping event",
			logging.SenderID(senderID))
		return nil
	}

	conv, err := p.store.Load(ctx, senderID)
	if err != nil {
		p.count(func(s *Stats) { s.Errors++ })
		return errors.StateError("failed to load conversation", err)
	}

	return p.run(ctx, messenger.NewEvent(msg, conv), conv)
}

// ProcessAction dispatches a bare action for a sender, as if a postback
// carrying it had just arrived. Deferred postback callbacks re-enter through
// here so the state changes they cause are persisted like any other turn.
func (p *Processor) ProcessAction(ctx context.Context, senderID, action string, data interface{}) error {
	if senderID == "" {
		return errors.ValidationError("action dispatch has no sender")
	}

	conv, err := p.store.Load(ctx, senderID)
	if err != nil {
		p.count(func(s *Stats) { s.Errors++ })
		return errors.StateError("failed to load conversation", err)
	}

	return p.run(ctx, messenger.NewActionEvent(senderID, action, data, conv), conv)
}

// run dispatches the event and persists the state handlers left behind. The
// settled flag flips when this cycle is over; a deferred postback callback
// invoked after that must not touch this cycle's state anymore.
func (p *Processor) run(ctx context.Context, ev *messenger.Event, conv *state.Conversation) error {
	var settled atomic.Bool
	defer settled.Store(true)

	if err := p.dispatch(ctx, ev, conv, &settled); err != nil {
		p.count(func(s *Stats) { s.Errors++ })
		return err
	}

	conv.LastInteraction = time.Now()
	if err := p.store.Save(ctx, conv); err != nil {
		p.count(func(s *Stats) { s.Errors++ })
		return errors.StateError("failed to save conversation", err)
	}

	p.count(func(s *Stats) { s.Dispatched++ })
	return nil
}

// dispatch runs one event through the route tree. PostBack targets re-enter
// here with a synthesized action event, still on the caller's goroutine, so
// follow-up actions stay ordered with respect to the triggering event. A
// deferred callback fired after the originating cycle has settled starts a
// fresh load-dispatch-save cycle of its own instead.
func (p *Processor) dispatch(ctx context.Context, ev *messenger.Event, conv *state.Conversation, settled *atomic.Bool) error {
	var responder bot.Responder = bot.NopResponder{}
	if p.sender != nil {
		responder = p.sender.ResponderFor(ev.SenderID())
	}

	var dispatchErr error
	pb := bot.NewPostBack(func(targetAction string, data interface{}) {
		if settled.Load() {
			if err := p.ProcessAction(context.Background(), ev.SenderID(), targetAction, data); err != nil {
				p.logger.Error("Deferred postback dispatch failed", err,
					logging.SenderID(ev.SenderID()),
					logging.Action(targetAction),
				)
			}
			return
		}
		if dispatchErr != nil {
			return
		}
		synth := messenger.NewActionEvent(ev.SenderID(), targetAction, data, conv)
		if err := p.dispatch(ctx, synth, conv, settled); err != nil {
			dispatchErr = err
		}
	})

	if _, err := p.router.Reduce(ctx, ev, responder, pb, "/"); err != nil {
		return errors.DispatchError("failed to reduce event", err)
	}
	return dispatchErr
}

// Stats returns a copy of the current counters.
func (p *Processor) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := p.stats
	out.Actions = make(map[string]int64, len(p.stats.Actions))
	for k, v := range p.stats.Actions {
		out.Actions[k] = v
	}
	return out
}

func (p *Processor) count(fn func(*Stats)) {
	p.mu.Lock()
	fn(&p.stats)
	p.mu.Unlock()
}
