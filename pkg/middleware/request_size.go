package middleware

import "net/http"

// MaxRequestSize caps request bodies. Reads past the limit fail, which the
// JSON decoders report as an invalid body.
func MaxRequestSize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes > 0 && r.ContentLength > maxBytes {
				writeJSONError(w, http.StatusRequestEntityTooLarge, "Request body too large", "INVALID_INPUT")
				return
			}
			if maxBytes > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
