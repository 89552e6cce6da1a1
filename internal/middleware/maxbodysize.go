package middleware

import "net/http"

// NewMaxBodySizeHandler returns a middleware that limits incoming request
// body sizes to limit bytes. A request advertising a Content-Length over the
// limit is rejected with 413 before any body bytes are read; bodies without a
// Content-Length are wrapped in http.MaxBytesReader, so the downstream
// handler's read fails once the limit is crossed.
//
// Wire it on the ingest route: multipart photo uploads are the only surface
// that accepts bodies of meaningful size.
func NewMaxBodySizeHandler(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
