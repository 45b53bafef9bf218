package middleware

import "net/http"

// MaxBytes caps request bodies at limit bytes. Reads past the limit fail
// and the decoder surfaces the error to the handler.
func MaxBytes(limit int64) Func {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
