package metrics

import (
	"fmt"
	"net/http"
	"time"
)

// NewServer returns an unstarted HTTP server exposing /metrics on port. The
// caller owns ListenAndServe and Shutdown.
func NewServer(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", Handler())
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body><h1>Movie Search Metrics</h1><p><a href="/metrics">/metrics</a></p></body></html>`)
	})
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}
