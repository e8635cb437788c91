// Package httpserver builds the API's http.Server with its timeout policy.
package httpserver

import (
	"net/http"
	"time"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	// Handler deadlines come from the timeout middleware; WriteTimeout only
	// backstops it and stays generous enough for large resource payloads.
	writeTimeout = 60 * time.Second
	idleTimeout  = 120 * time.Second
)

// New wraps handler in a server listening on addr.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}
