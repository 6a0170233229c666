package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VaclavObornik/prg-chatbot/internal/auth"
	"github.com/VaclavObornik/prg-chatbot/internal/bot"
	"github.com/VaclavObornik/prg-chatbot/internal/config"
	"github.com/VaclavObornik/prg-chatbot/internal/processor"
	"github.com/VaclavObornik/prg-chatbot/internal/state"
)

type fakeSender struct {
	payloads []interface{}
}

func (s *fakeSender) ResponderFor(string) bot.Responder { return s }

func (s *fakeSender) Send(payload interface{}) {
	s.payloads = append(s.payloads, payload)
}

type fixture struct {
	handlers *Handlers
	sender   *fakeSender
	cfg      *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := &config.Config{
		VerifyToken: "verify-me",
		AppSecret:   "",
	}

	router := bot.NewRouter()
	router.UseAt("/greet", bot.HandlerFunc(func(ctx context.Context, ev bot.Event, res bot.Responder, pb bot.PostBack) (bot.Resolution, error) {
		res.Send("hello")
		return bot.Stop(), nil
	}))

	sender := &fakeSender{}
	proc := processor.New(router, state.NewMemoryStore(), sender, nil, nil)

	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	authn := auth.New("this-is-a-test-jwt-secret-key-that-is-long-enough", hash)

	return &fixture{
		handlers: New(cfg, router, proc, authn, nil, state.NewMemoryStore(), nil),
		sender:   sender,
		cfg:      cfg,
	}
}

func webhookBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"object": "page",
		"entry": []map[string]interface{}{
			{
				"id": "page-1",
				"messaging": []map[string]interface{}{
					{
						"sender":   map[string]string{"id": "user-1"},
						"postback": map[string]string{"payload": "/greet"},
					},
				},
			},
		},
	})
	require.NoError(t, err)
	return body
}

func TestVerifyWebhook(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name          string
		query         string
		wantStatus    int
		wantChallenge bool
	}{
		{
			name:          "valid handshake",
			query:         "hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=12345",
			wantStatus:    http.StatusOK,
			wantChallenge: true,
		},
		{
			name:       "wrong token",
			query:      "hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "wrong mode",
			query:      "hub.mode=unsubscribe&hub.verify_token=verify-me&hub.challenge=12345",
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/webhook?"+tt.query, nil)
			rec := httptest.NewRecorder()

			f.handlers.VerifyWebhook(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantChallenge {
				assert.Equal(t, "12345", rec.Body.String())
			}
		})
	}
}

func TestReceiveWebhook_DispatchesEvents(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(webhookBody(t)))
	rec := httptest.NewRecorder()

	f.handlers.ReceiveWebhook(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{"hello"}, f.sender.payloads)
}

func TestReceiveWebhook_MalformedBody(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("not json"))
	rec := httptest.NewRecorder()

	f.handlers.ReceiveWebhook(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReceiveWebhook_WrongObject(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"object":"user","entry":[]}`))
	rec := httptest.NewRecorder()

	f.handlers.ReceiveWebhook(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReceiveWebhook_SignatureChecked(t *testing.T) {
	f := newFixture(t)
	f.cfg.AppSecret = "app-secret"

	body := webhookBody(t)

	t.Run("valid signature", func(t *testing.T) {
		mac := hmac.New(sha1.New, []byte("app-secret"))
		mac.Write(body)
		sig := "sha1=" + hex.EncodeToString(mac.Sum(nil))

		req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
		req.Header.Set("X-Hub-Signature", sig)
		rec := httptest.NewRecorder()

		f.handlers.ReceiveWebhook(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("bad signature", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
		req.Header.Set("X-Hub-Signature", "sha1=deadbeef")
		rec := httptest.NewRecorder()

		f.handlers.ReceiveWebhook(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing signature", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		f.handlers.ReceiveWebhook(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestHealthCheck(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	f.handlers.HealthCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var status map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status["status"])
	assert.Equal(t, "not_configured", status["redis_status"])
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	t.Run("valid credentials", func(t *testing.T) {
		body := `{"username":"admin","password":"s3cret"}`
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
		rec := httptest.NewRecorder()

		f.handlers.Login(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		body := `{"username":"admin","password":"wrong"}`
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
		rec := httptest.NewRecorder()

		f.handlers.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader("{"))
		rec := httptest.NewRecorder()

		f.handlers.Login(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetRoutes(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/routes", nil)
	rec := httptest.NewRecorder()

	f.handlers.GetRoutes(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"/greet"}, resp["routes"])
}

func TestGetStats(t *testing.T) {
	f := newFixture(t)

	// Push one event through so the counters move
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(webhookBody(t)))
	f.handlers.ReceiveWebhook(httptest.NewRecorder(), req)

	statsReq := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()

	f.handlers.GetStats(rec, statsReq)

	assert.Equal(t, http.StatusOK, rec.Code)

	var stats processor.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.Received)
	assert.Equal(t, int64(1), stats.Dispatched)
	assert.Equal(t, int64(1), stats.Actions["/greet"])
}
