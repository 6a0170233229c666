package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/VaclavObornik/prg-chatbot/internal/common/logging"
	"github.com/VaclavObornik/prg-chatbot/internal/messenger"
)

// VerifyWebhook handles the platform's subscription handshake: a GET request
// carrying hub.mode=subscribe and the configured verify token is answered
// with the challenge verbatim.
func (h *Handlers) VerifyWebhook(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	mode := query.Get("hub.mode")
	token := query.Get("hub.verify_token")
	challenge := query.Get("hub.challenge")

	if mode != "subscribe" || token != h.cfg.VerifyToken {
		h.logger.Warn("Webhook verification failed",
			logging.Field{Key: "mode", Value: mode},
			logging.Field{Key: "remote_addr", Value: r.RemoteAddr},
		)
		writeError(w, http.StatusForbidden, "verification failed")
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(challenge))
}

// ReceiveWebhook handles inbound event deliveries. The body signature is
// checked before decoding; events are dispatched in delivery order. The
// platform retries non-200 responses, so processing failures are logged and
// acknowledged rather than surfaced.
func (h *Handlers) ReceiveWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if err := messenger.VerifySignature(h.cfg.AppSecret, body, r.Header.Get("X-Hub-Signature")); err != nil {
		h.logger.Warn("Webhook signature rejected",
			logging.Field{Key: "remote_addr", Value: r.RemoteAddr},
			logging.Field{Key: "reason", Value: err.Error()},
		)
		writeError(w, http.StatusForbidden, "invalid signature")
		return
	}

	var req messenger.WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed webhook payload")
		return
	}

	if req.Object != "page" {
		writeError(w, http.StatusBadRequest, "unsupported webhook object")
		return
	}

	for _, entry := range req.Entry {
		for _, msg := range entry.Messaging {
			if err := h.processor.Process(r.Context(), msg); err != nil {
				h.logger.Error("Failed to process messaging event", err,
					logging.Field{Key: "sender_id", Value: msg.Sender.ID},
					logging.Field{Key: "entry_id", Value: entry.ID},
				)
			}
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
