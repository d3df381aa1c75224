// Package router implements the Account Router actor: the single goroutine
// that owns the mapping from a tracked vault public key to the trader task
// watching it, and fans streamed account updates out to the matching
// trader, with registrations prioritized over the update flood.
package router

import (
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// Capacities recommended by the design: registrations and unregistrations
// are rare and must never be starved by a flood of account updates.
const (
	RegisterCapacity      = 100
	UnregisterCapacity    = 10
	AccountUpdateCapacity = 100000
)

// AccountUpdate is one account update forwarded by the Geyser client.
type AccountUpdate struct {
	Pubkey solana.PublicKey
	Data   []byte
}

// Register asks the router to start forwarding updates for CoinVault and
// PcVault to Handle. Done is closed by the trader when it exits, the only
// signal the router treats as "receiver gone" rather than back-pressure; a
// nil Done means the router always blocks delivering to Handle.
type Register struct {
	CoinVault solana.PublicKey
	PcVault   solana.PublicKey
	Handle    chan<- AccountUpdate
	Done      <-chan struct{}
}

// Unregister asks the router to stop forwarding updates for CoinVault and
// PcVault.
type Unregister struct {
	CoinVault solana.PublicKey
	PcVault   solana.PublicKey
}

// Router owns the TrackedRegistry and the three inbound channels.
type Router struct {
	registerCh      chan Register
	unregisterCh    chan Unregister
	accountUpdateCh chan AccountUpdate
	logger          *zap.Logger
}

// New creates a Router with the recommended channel capacities.
func New(logger *zap.Logger) *Router {
	return &Router{
		registerCh:      make(chan Register, RegisterCapacity),
		unregisterCh:    make(chan Unregister, UnregisterCapacity),
		accountUpdateCh: make(chan AccountUpdate, AccountUpdateCapacity),
		logger:          logger,
	}
}

// RegisterChan is the endpoint Trader tasks send Register requests on.
func (r *Router) RegisterChan() chan<- Register { return r.registerCh }

// UnregisterChan is the endpoint Trader tasks send Unregister requests on.
func (r *Router) UnregisterChan() chan<- Unregister { return r.unregisterCh }

// AccountUpdateChan is the endpoint the Geyser client forwards account
// updates on.
func (r *Router) AccountUpdateChan() chan<- AccountUpdate { return r.accountUpdateCh }

// Run executes the Router's event loop until one of its inbound channels is
// closed, which this design treats as a fatal invariant violation: the
// supervisor is expected never to close them before process shutdown.
//
// Priority is approximated rather than absolute: each iteration first
// drains any immediately-ready register, then any immediately-ready
// unregister, before falling into an unbiased three-way select. A register
// that arrives in the narrow window between the drain and the select can
// still lose a tie to an account_update; under the channel capacities in
// this package that race is vanishingly rare and never violates
// register-before-unregister ordering.
func (r *Router) Run() error {
	registry := make(map[solana.PublicKey]Register)

	for {
		// Biased priority: register, then unregister, then account_update,
		// so a flood of account updates can never starve registrations.
		select {
		case reg, ok := <-r.registerCh:
			if !ok {
				return fatalClosed("register")
			}
			registry[reg.CoinVault] = reg
			registry[reg.PcVault] = reg
			continue
		default:
		}
		select {
		case unreg, ok := <-r.unregisterCh:
			if !ok {
				return fatalClosed("unregister")
			}
			delete(registry, unreg.CoinVault)
			delete(registry, unreg.PcVault)
			continue
		default:
		}

		select {
		case reg, ok := <-r.registerCh:
			if !ok {
				return fatalClosed("register")
			}
			registry[reg.CoinVault] = reg
			registry[reg.PcVault] = reg
		case unreg, ok := <-r.unregisterCh:
			if !ok {
				return fatalClosed("unregister")
			}
			// Apply every register already queued before this unregister,
			// so a register and unregister that both became ready in the
			// same window are still applied in that order.
			for drained := false; !drained; {
				select {
				case reg, ok := <-r.registerCh:
					if !ok {
						return fatalClosed("register")
					}
					registry[reg.CoinVault] = reg
					registry[reg.PcVault] = reg
				default:
					drained = true
				}
			}
			delete(registry, unreg.CoinVault)
			delete(registry, unreg.PcVault)
		case update, ok := <-r.accountUpdateCh:
			if !ok {
				return fatalClosed("account_update")
			}
			reg, tracked := registry[update.Pubkey]
			if !tracked {
				continue
			}
			// Delivery blocks under back-pressure: a full handle buffer
			// is not "gone", and every update must reach a
			// still-registered trader. Only Done closing (the trader
			// having actually exited) excuses a drop.
			select {
			case reg.Handle <- update:
			case <-reg.Done:
				r.logger.Warn("dropping account update, trader handle is gone",
					zap.String("pubkey", update.Pubkey.String()))
			}
		}
	}
}

func fatalClosed(name string) error {
	return &ClosedChannelError{Channel: name}
}

// ClosedChannelError reports that one of the router's inbound channels was
// closed while the router was still running.
type ClosedChannelError struct {
	Channel string
}

func (e *ClosedChannelError) Error() string {
	return "router: " + e.Channel + " channel closed unexpectedly"
}
