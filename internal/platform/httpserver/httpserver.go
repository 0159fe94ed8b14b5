package httpserver

import (
	"log/slog"
	"net/http"
	"time"
)

// turnBudget bounds one turn end to end. It covers the slowest upstream call a
// turn can make (the record store) plus the session store round trips.
const turnBudget = 30 * time.Second

// New builds the HTTP server. Server-level errors go to logger at warn level.
func New(addr string, handler http.Handler, logger *slog.Logger) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      turnBudget + 5*time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	if logger != nil {
		srv.ErrorLog = slog.NewLogLogger(logger.Handler(), slog.LevelWarn)
	}
	return srv
}
