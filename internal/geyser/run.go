package geyser

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	gproto "raydiumsentry/internal/geyser/proto"
)

// reconnectBackoff is the short pause between a stream anomaly and the
// next dial attempt, so a persistently unreachable endpoint does not spin
// the outer loop hot.
const reconnectBackoff = 2 * time.Second

// defaultFanOutCapacity bounds how many detached per-update dispatch
// goroutines may be outstanding at once when the caller does not size the
// pool explicitly.
const defaultFanOutCapacity = 256

// TransactionHandler is invoked, as a detached goroutine per update, for
// every streamed transaction update while the shutdown flag is unset.
type TransactionHandler func(tx *gproto.TransactionUpdate)

// AccountHandler is invoked, as a detached goroutine per update, for every
// streamed account update.
type AccountHandler func(acct *gproto.AccountUpdate)

// Run drives the outer connect/subscribe loop and the inner receive loop:
// dial, subscribe to everything, then dispatch each update until a stream
// anomaly sends it back to redial. Run only returns when ctx is cancelled.
func (c *Client) Run(ctx context.Context, shutdown *atomic.Bool, onTransaction TransactionHandler, onAccount AccountHandler) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err := c.runOnce(ctx, shutdown, onTransaction, onAccount); err != nil {
			c.logger.Warn("geyser stream anomaly, reconnecting", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectBackoff):
		}
	}
}

func (c *Client) runOnce(ctx context.Context, shutdown *atomic.Bool, onTransaction TransactionHandler, onAccount AccountHandler) error {
	sub, err := c.Subscribe(ctx)
	if err != nil {
		return err
	}

	capacity := c.fanOutCapacity
	if capacity <= 0 {
		capacity = defaultFanOutCapacity
	}
	sem := semaphore.NewWeighted(capacity)

	for {
		upd, err := sub.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if upd == nil {
			return errNilUpdate
		}

		switch {
		case upd.Update.Account != nil:
			acct := upd.Update.Account
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			go func() {
				defer sem.Release(1)
				onAccount(acct)
			}()
		case upd.Update.Transaction != nil:
			if shutdown.Load() {
				continue
			}
			tx := upd.Update.Transaction
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			go func() {
				defer sem.Release(1)
				onTransaction(tx)
			}()
		default:
			c.logger.Debug("ignoring unhandled geyser update variant")
		}
	}
}

var errNilUpdate = errors.New("geyser: received a nil update payload")
