package messenger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/VaclavObornik/prg-chatbot/internal/bot"
	"github.com/VaclavObornik/prg-chatbot/internal/common/errors"
	"github.com/VaclavObornik/prg-chatbot/internal/common/logging"
)

// SenderConfig configures the outbound message sender.
type SenderConfig struct {
	// PageToken authenticates against the platform Send API.
	PageToken string
	// APIURL overrides the Send API endpoint, mainly for tests.
	APIURL string
	// Pace is the minimum delay between two sends to the same recipient.
	Pace time.Duration
	// QueueSize bounds each recipient's outbound queue.
	QueueSize int
	// MaxRetries is how many times a failed send is retried before the
	// message is dropped.
	MaxRetries int
}

func (c *SenderConfig) withDefaults() SenderConfig {
	out := *c
	if out.APIURL == "" {
		out.APIURL = "https://graph.facebook.com/v2.8/me/messages"
	}
	if out.Pace <= 0 {
		out.Pace = 200 * time.Millisecond
	}
	if out.QueueSize <= 0 {
		out.QueueSize = 64
	}
	if out.MaxRetries <= 0 {
		out.MaxRetries = 3
	}
	return out
}

// Sender delivers outbound messages to the platform Send API. Messages for
// one recipient are sent strictly in order, one request at a time, paced so
// the platform's delivery limits are respected. All requests go through a
// circuit breaker so a broken upstream fails fast instead of piling up
// goroutines.
type Sender struct {
	cfg     SenderConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  logging.Logger

	mu     sync.Mutex
	queues map[string]chan outboundMessage
	closed bool
	wg     sync.WaitGroup
}

type outboundMessage struct {
	recipientID string
	payload     interface{}
}

// NewSender creates a sender. Close must be called to drain the queues.
func NewSender(cfg SenderConfig, logger logging.Logger) *Sender {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "send-api",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Send API circuit breaker state changed",
				logging.Field{Key: "breaker", Value: name},
				logging.Field{Key: "from", Value: from.String()},
				logging.Field{Key: "to", Value: to.String()},
			)
		},
	})

	return &Sender{
		cfg:     cfg.withDefaults(),
		client:  &http.Client{Timeout: 15 * time.Second},
		breaker: breaker,
		logger:  logger.WithFields(logging.Field{Key: "component", Value: "sender"}),
		queues:  make(map[string]chan outboundMessage),
	}
}

// ResponderFor returns the response sink handlers write to for one recipient.
func (s *Sender) ResponderFor(recipientID string) bot.Responder {
	return &responder{sender: s, recipientID: recipientID}
}

type responder struct {
	sender      *Sender
	recipientID string
}

func (r *responder) Send(payload interface{}) {
	r.sender.Enqueue(r.recipientID, payload)
}

// Enqueue appends payload to the recipient's outbound queue, spawning the
// recipient's worker on first use. A full queue drops the message with a log
// entry rather than blocking dispatch.
func (s *Sender) Enqueue(recipientID string, payload interface{}) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Warn("Dropping message enqueued after sender shutdown",
			logging.Field{Key: "recipient_id", Value: recipientID})
		return
	}
	q, ok := s.queues[recipientID]
	if !ok {
		q = make(chan outboundMessage, s.cfg.QueueSize)
		s.queues[recipientID] = q
		s.wg.Add(1)
		go s.worker(q)
	}
	s.mu.Unlock()

	select {
	case q <- outboundMessage{recipientID: recipientID, payload: payload}:
	default:
		s.logger.Warn("Outbound queue full, dropping message",
			logging.Field{Key: "recipient_id", Value: recipientID})
	}
}

func (s *Sender) worker(q chan outboundMessage) {
	defer s.wg.Done()
	for msg := range q {
		if err := s.deliver(msg); err != nil {
			s.logger.Error("Failed to deliver message", err,
				logging.Field{Key: "recipient_id", Value: msg.recipientID})
		}
		time.Sleep(s.cfg.Pace)
	}
}

// deliver posts one message, retrying transient failures with backoff. The
// circuit breaker wraps every attempt.
func (s *Sender) deliver(msg outboundMessage) error {
	body, err := json.Marshal(map[string]interface{}{
		"recipient": map[string]string{"id": msg.recipientID},
		"message":   msg.payload,
	})
	if err != nil {
		return errors.InternalError("failed to encode outbound message", err)
	}

	var lastErr error
	for attempt := 0; attempt < s.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * 500 * time.Millisecond)
		}
		_, lastErr = s.breaker.Execute(func() (interface{}, error) {
			return nil, s.post(body)
		})
		if lastErr == nil {
			return nil
		}
		if lastErr == gobreaker.ErrOpenState {
			// Retrying against an open breaker only burns the backoff budget.
			break
		}
	}
	return errors.TransportError("send API request failed", lastErr)
}

func (s *Sender) post(body []byte) error {
	req, err := http.NewRequest(http.MethodPost, s.cfg.APIURL+"?access_token="+s.cfg.PageToken, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send API returned %d: %s", resp.StatusCode, detail)
	}
	return nil
}

// Close stops accepting messages, drains the queues and waits for the
// workers to finish.
func (s *Sender) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for _, q := range s.queues {
		close(q)
	}
	s.mu.Unlock()
	s.wg.Wait()
}
