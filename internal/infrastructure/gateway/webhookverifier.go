package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/paymentgateway"
)

// SignatureVerifier checks the provider's webhook signature header
// ("ts=<unix>,v1=<hex hmac>"). The signed manifest is
// "id:<payment id>;request-id:<x-request-id>;ts:<ts>;".
type SignatureVerifier struct {
	secret []byte
}

var _ paymentgateway.WebhookVerifier = (*SignatureVerifier)(nil)

func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: []byte(secret)}
}

// Enabled is false when no secret is configured; deliveries are then
// accepted unsigned and the status is still confirmed with the gateway.
func (v *SignatureVerifier) Enabled() bool {
	return len(v.secret) > 0
}

func (v *SignatureVerifier) Verify(paymentID, requestID, signatureHeader string) bool {
	ts, sig := parseSignatureHeader(signatureHeader)
	if ts == "" || sig == "" {
		return false
	}
	expected := v.sign(paymentID, requestID, ts)
	given, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, given)
}

// Sign builds a header value for the given delivery.
func (v *SignatureVerifier) Sign(paymentID, requestID, ts string) string {
	return fmt.Sprintf("ts=%s,v1=%s", ts, hex.EncodeToString(v.sign(paymentID, requestID, ts)))
}

func (v *SignatureVerifier) sign(paymentID, requestID, ts string) []byte {
	var manifest strings.Builder
	if paymentID != "" {
		manifest.WriteString("id:" + strings.ToLower(paymentID) + ";")
	}
	if requestID != "" {
		manifest.WriteString("request-id:" + requestID + ";")
	}
	manifest.WriteString("ts:" + ts + ";")

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(manifest.String()))
	return mac.Sum(nil)
}

func parseSignatureHeader(h string) (ts, sig string) {
	for _, part := range strings.Split(h, ",") {
		k, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(k) {
		case "ts":
			ts = strings.TrimSpace(val)
		case "v1":
			sig = strings.TrimSpace(val)
		}
	}
	return ts, sig
}
