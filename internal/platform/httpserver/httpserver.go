package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with sane defaults for this project.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// chart and workbook rendering happen inside the write window
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
