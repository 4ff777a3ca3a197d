package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// SignatureHeader carries the webhook signature computed by the platform.
const SignatureHeader = "X-Line-Signature"

// ValidateSignature reports whether signature matches the base64-encoded
// HMAC-SHA256 of body keyed by channelSecret. The comparison is constant
// time.
func ValidateSignature(channelSecret string, body []byte, signature string) bool {
	if channelSecret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
