package messenger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakePayload(t *testing.T) {
	t.Run("bare action without data", func(t *testing.T) {
		assert.Equal(t, "/order/food", MakePayload("/order/food", nil))
	})

	t.Run("action with data encodes JSON", func(t *testing.T) {
		payload := MakePayload("/order/confirm", map[string]interface{}{"item": "pizza"})
		assert.JSONEq(t, `{"action":"/order/confirm","data":{"item":"pizza"}}`, payload)
	})
}

func TestParsePayload(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		wantAction string
		wantData   interface{}
	}{
		{
			name:       "bare action string",
			payload:    "/start",
			wantAction: "/start",
		},
		{
			name:       "structured payload",
			payload:    `{"action":"/order/confirm","data":{"item":"pizza"}}`,
			wantAction: "/order/confirm",
			wantData:   map[string]interface{}{"item": "pizza"},
		},
		{
			name:       "whitespace trimmed",
			payload:    "  /start  ",
			wantAction: "/start",
		},
		{
			name:    "empty payload",
			payload: "",
		},
		{
			name:       "malformed JSON falls back to verbatim",
			payload:    `{"action":`,
			wantAction: `{"action":`,
		},
		{
			name:       "JSON without action falls back to verbatim",
			payload:    `{"data":{"x":1}}`,
			wantAction: `{"data":{"x":1}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, data := parsePayload(tt.payload)
			assert.Equal(t, tt.wantAction, action)
			assert.Equal(t, tt.wantData, data)
		})
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	action, data := parsePayload(MakePayload("/menu", map[string]interface{}{"page": float64(2)}))
	assert.Equal(t, "/menu", action)
	assert.Equal(t, map[string]interface{}{"page": float64(2)}, data)
}
