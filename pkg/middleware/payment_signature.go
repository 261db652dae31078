package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"

	"bouncely/pkg/logger"
)

const (
	SignatureHeader = "X-Signature-256"
	signaturePrefix = "sha256="
)

// PaymentSignatureVerification checks the HMAC-SHA256 of the raw body sent by
// the payment provider. The body is restored for the next handler.
func PaymentSignatureVerification(secret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				log.Error("Payment webhook secret is not configured", "path", r.URL.Path)
				writeJSONError(w, http.StatusServiceUnavailable, "Payment webhook is not configured", "SERVICE_UNAVAILABLE")
				return
			}

			signature := r.Header.Get(SignatureHeader)
			if signature == "" {
				rejectSignature(w, log, r, "missing signature header")
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				log.Warn("Failed to read webhook body", "error", err, "request_id", RequestID(r.Context()))
				writeJSONError(w, http.StatusBadRequest, "Failed to read request body", "INVALID_INPUT")
				return
			}
			_ = r.Body.Close()
			r.Body = io.NopCloser(bytes.NewReader(body))

			if !ValidSignature(body, signature, secret) {
				rejectSignature(w, log, r, "signature mismatch")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ValidSignature compares "sha256=<hex>" against the HMAC of payload.
func ValidSignature(payload []byte, signature, secret string) bool {
	if !strings.HasPrefix(signature, signaturePrefix) {
		return false
	}
	got, err := hex.DecodeString(strings.TrimPrefix(signature, signaturePrefix))
	if err != nil {
		return false
	}
	return hmac.Equal(got, Sign(payload, secret))
}

func Sign(payload []byte, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return mac.Sum(nil)
}

func rejectSignature(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	log.Warn("Rejected payment webhook",
		"request_id", RequestID(r.Context()),
		"reason", reason,
		"remote_addr", r.RemoteAddr,
	)
	writeJSONError(w, http.StatusUnauthorized, "Invalid signature", "UNAUTHORIZED")
}
