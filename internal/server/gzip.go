package server

import (
	"net/http"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// gzipMiddleware compresses JSON response bodies when the client accepts it.
// Streamed downloads are never routed through here: compressing an
// attachment of unknown type would change the bytes the filename promises.
func gzipMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next(w, r)
			return
		}
		gz := gzip.NewWriter(w)
		defer func() { _ = gz.Close() }()
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Add("Vary", "Accept-Encoding")
		next(&gzipResponseWriter{ResponseWriter: w, gz: gz}, r)
	}
}

type gzipResponseWriter struct {
	http.ResponseWriter
	gz *gzip.Writer
}

func (w *gzipResponseWriter) Write(p []byte) (int, error) {
	return w.gz.Write(p)
}
