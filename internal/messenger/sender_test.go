package messenger

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	token string
	body  map[string]interface{}
}

// captureServer records every Send API request it receives and answers with
// the queued status codes, defaulting to 200 once they run out.
type captureServer struct {
	srv *httptest.Server

	mu       sync.Mutex
	requests []capturedRequest
	statuses []int
}

func newCaptureServer(t *testing.T, statuses ...int) *captureServer {
	cs := &captureServer{statuses: statuses}
	cs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &body))

		cs.mu.Lock()
		cs.requests = append(cs.requests, capturedRequest{
			token: r.URL.Query().Get("access_token"),
			body:  body,
		})
		status := http.StatusOK
		if len(cs.statuses) > 0 {
			status = cs.statuses[0]
			cs.statuses = cs.statuses[1:]
		}
		cs.mu.Unlock()

		w.WriteHeader(status)
	}))
	t.Cleanup(cs.srv.Close)
	return cs
}

func (cs *captureServer) captured() []capturedRequest {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return append([]capturedRequest(nil), cs.requests...)
}

func newTestSender(cs *captureServer, maxRetries int) *Sender {
	return NewSender(SenderConfig{
		PageToken:  "page-token",
		APIURL:     cs.srv.URL,
		Pace:       time.Millisecond,
		MaxRetries: maxRetries,
	}, nil)
}

func TestSender_DeliversEnvelope(t *testing.T) {
	cs := newCaptureServer(t)
	s := newTestSender(cs, 1)

	s.Enqueue("recipient-1", map[string]interface{}{"text": "hello"})
	s.Close()

	reqs := cs.captured()
	require.Len(t, reqs, 1)
	assert.Equal(t, "page-token", reqs[0].token)
	assert.Equal(t, map[string]interface{}{
		"recipient": map[string]interface{}{"id": "recipient-1"},
		"message":   map[string]interface{}{"text": "hello"},
	}, reqs[0].body)
}

func TestSender_PreservesPerRecipientOrder(t *testing.T) {
	cs := newCaptureServer(t)
	s := newTestSender(cs, 1)

	for _, text := range []string{"one", "two", "three"} {
		s.Enqueue("recipient-1", map[string]interface{}{"text": text})
	}
	s.Close()

	reqs := cs.captured()
	require.Len(t, reqs, 3)
	var texts []string
	for _, req := range reqs {
		msg := req.body["message"].(map[string]interface{})
		texts = append(texts, msg["text"].(string))
	}
	assert.Equal(t, []string{"one", "two", "three"}, texts)
}

func TestSender_ResponderForRoutesToRecipient(t *testing.T) {
	cs := newCaptureServer(t)
	s := newTestSender(cs, 1)

	s.ResponderFor("recipient-9").Send(map[string]interface{}{"text": "hi"})
	s.Close()

	reqs := cs.captured()
	require.Len(t, reqs, 1)
	assert.Equal(t, map[string]interface{}{"id": "recipient-9"},
		reqs[0].body["recipient"])
}

func TestSender_RetriesTransientFailure(t *testing.T) {
	cs := newCaptureServer(t, http.StatusInternalServerError)
	s := newTestSender(cs, 2)

	s.Enqueue("recipient-1", map[string]interface{}{"text": "retry me"})
	s.Close()

	// First attempt got a 500, the retry succeeded.
	assert.Len(t, cs.captured(), 2)
}

func TestSender_GivesUpAfterMaxRetries(t *testing.T) {
	cs := newCaptureServer(t, http.StatusInternalServerError)
	s := newTestSender(cs, 1)

	s.Enqueue("recipient-1", map[string]interface{}{"text": "doomed"})
	s.Close()

	// The message is dropped after the final attempt; delivery of later
	// messages is unaffected.
	assert.Len(t, cs.captured(), 1)
}

func TestSender_EnqueueAfterCloseIsDropped(t *testing.T) {
	cs := newCaptureServer(t)
	s := newTestSender(cs, 1)
	s.Close()

	s.Enqueue("recipient-1", map[string]interface{}{"text": "late"})
	s.Close()

	assert.Empty(t, cs.captured())
}
