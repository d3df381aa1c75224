// Package httpapi implements the control plane's single route: a
// graceful-shutdown command that sets the process-wide shutdown flag.
package httpapi

import (
	"encoding/json"
	"net"
	"net/http"
	"sync/atomic"

	"go.uber.org/zap"
)

// Command is the decoded body of a POST /robot request: a bare string enum
// with one member, the JSON literal "GracefulShutdown".
type Command string

// GracefulShutdown is the only recognized command.
const GracefulShutdown Command = "GracefulShutdown"

const (
	alreadyRequestedMessage = "The command has already been received. The process is waiting for previous trading tasks to complete."
	acceptedMessage         = "The process will not create new trading tasks and will end after all previous tasks have been completed."
)

// Server serves the control plane's HTTP route.
type Server struct {
	shutdown *atomic.Bool
	logger   *zap.Logger
	server   *http.Server
}

// New builds a Server bound to addr. Shutdown is the same flag the
// supervisor polls to detect Running -> Draining.
func New(addr *net.TCPAddr, shutdown *atomic.Bool, logger *zap.Logger) *Server {
	s := &Server{shutdown: shutdown, logger: logger}
	mux := http.NewServeMux()
	mux.HandleFunc("/robot", s.handleRobot)
	s.server = &http.Server{Addr: addr.String(), Handler: mux}
	return s
}

// ListenAndServe blocks serving the control plane until the server is
// closed, returning http.ErrServerClosed on a clean shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http control plane listening", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Close shuts the underlying listener down.
func (s *Server) Close() error {
	return s.server.Close()
}

func (s *Server) handleRobot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/octet-stream")

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var cmd Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if cmd != GracefulShutdown {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	wasAlreadySet := s.shutdown.Swap(true)
	w.WriteHeader(http.StatusOK)
	if wasAlreadySet {
		s.logger.Info("graceful shutdown already requested")
		_, _ = w.Write([]byte(alreadyRequestedMessage))
		return
	}
	s.logger.Info("graceful shutdown requested over http")
	_, _ = w.Write([]byte(acceptedMessage))
}
