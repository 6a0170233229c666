package messenger

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/VaclavObornik/prg-chatbot/internal/common/errors"
)

// VerifySignature checks the X-Hub-Signature header against the raw request
// body. The platform signs the body with HMAC-SHA1 keyed by the app secret
// and sends the hex digest as "sha1=<digest>".
func VerifySignature(appSecret string, body []byte, header string) error {
	if appSecret == "" {
		// Signature checking disabled by configuration.
		return nil
	}
	if header == "" {
		return errors.AuthError("missing webhook signature")
	}

	digest := strings.TrimPrefix(header, "sha1=")
	if digest == header {
		return errors.AuthError("malformed webhook signature")
	}

	mac := hmac.New(sha1.New, []byte(appSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(digest))) {
		return errors.AuthError("webhook signature mismatch")
	}
	return nil
}
