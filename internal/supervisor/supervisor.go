// Package supervisor wires the Router, Geyser client, and HTTP control
// plane together and runs the two-phase graceful-shutdown state machine:
// Running -> Draining on a signal or HTTP command, Draining -> Stopped once
// every outstanding trader has completed.
package supervisor

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"

	"raydiumsentry/internal/config"
	"raydiumsentry/internal/geyser"
	"raydiumsentry/internal/httpapi"
	"raydiumsentry/internal/router"
)

// pollInterval is how often Draining checks whether the trading-task
// counter has reached zero.
const pollInterval = 10 * time.Second

// State is one of the three shutdown-state-machine states.
type State int

const (
	Running State = iota
	Draining
	Stopped
)

// Supervisor owns the process-wide shutdown flag and trading-task counter,
// and the components that read or mutate them.
type Supervisor struct {
	cfg      *config.Trade
	logger   *zap.Logger
	router   *router.Router
	http     *httpapi.Server
	geyser   *geyser.Client
	shutdown atomic.Bool
	counter  atomic.Int64
}

// New wires a Supervisor from validated configuration. It does not start
// anything; call Run to enter steady state.
func New(cfg *config.Trade, logger *zap.Logger) (*Supervisor, error) {
	client, err := geyser.Dial(cfg.GRPCURL, cfg.GRPCAuthToken, logger.Named("geyser"))
	if err != nil {
		return nil, err
	}
	client.SetFanOutCapacity(cfg.TokioRuntime.MaximumBlockingThreadsQuantity)

	s := &Supervisor{
		cfg:    cfg,
		logger: logger,
		router: router.New(logger.Named("router")),
		geyser: client,
	}
	s.http = httpapi.New(cfg.HTTPAddr, &s.shutdown, logger.Named("http"))
	return s, nil
}

// ShutdownFlag exposes the atomic the Geyser receive loop polls to decide
// whether to keep classifying new transactions.
func (s *Supervisor) ShutdownFlag() *atomic.Bool { return &s.shutdown }

// Counter exposes the trading-task counter trader tasks increment and
// decrement around their lifetime.
func (s *Supervisor) Counter() *atomic.Int64 { return &s.counter }

// Router exposes the Account Router's inbound endpoints so the caller can
// wire the classifier/trader dispatch that the Geyser client's handlers
// invoke.
func (s *Supervisor) Router() *router.Router { return s.router }

// Run starts every component, installs signal handlers, and blocks until
// the shutdown state machine reaches Stopped.
func (s *Supervisor) Run(ctx context.Context, onTransaction geyser.TransactionHandler, onAccount geyser.AccountHandler) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	routerErrCh := make(chan error, 1)
	go func() { routerErrCh <- s.router.Run() }()

	httpErrCh := make(chan error, 1)
	go func() { httpErrCh <- s.http.ListenAndServe() }()

	geyserErrCh := make(chan error, 1)
	go func() {
		geyserErrCh <- s.geyser.Run(runCtx, &s.shutdown, onTransaction, onAccount)
	}()

	state := Running
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for state != Stopped {
		select {
		case sig := <-sigCh:
			s.logger.Info("received signal, draining", zap.String("signal", sig.String()))
			s.shutdown.Store(true)
			state = Draining
		case err := <-routerErrCh:
			s.logger.Error("router exited unexpectedly", zap.Error(err))
			return err
		case err := <-httpErrCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("http control plane failed", zap.Error(err))
				return err
			}
			s.logger.Info("http control plane closed")
		case err := <-geyserErrCh:
			s.logger.Warn("geyser client exited", zap.Error(err))
		case <-ticker.C:
			if s.shutdown.Load() {
				state = Draining
			}
			if state == Draining && s.counter.Load() == 0 {
				state = Stopped
			}
		}
	}

	s.logger.Info("all trading tasks complete, stopping")
	_ = s.http.Close()
	cancel()
	return nil
}
