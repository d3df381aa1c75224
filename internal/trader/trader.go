// Package trader implements the per-pool trader task: price the entry,
// submit the buy, watch the pool's two vaults, decide when to sell, submit
// the sell, and unregister. The sell decision itself is delegated to a
// pluggable Policy oracle.
package trader

import (
	"context"
	"sync/atomic"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"raydiumsentry/internal/classify"
	"raydiumsentry/internal/errs"
	"raydiumsentry/internal/pricing"
	"raydiumsentry/internal/raydium"
	"raydiumsentry/internal/router"
	"raydiumsentry/internal/swap"
	"raydiumsentry/internal/tokenaccount"
)

// handleCapacity bounds the per-trader account-update channel the router
// delivers into.
const handleCapacity = 100

// Policy decides whether to sell given the pool's coin reserve at entry
// (its initial coin reserve) and the coin vault's current balance. The
// default implementation is a fixed
// take-profit/stop-loss band over the vault's deviation from its initial
// reserve; what actually constitutes a good exit is an open trading
// question, so this is a swappable decision function rather than a
// hard-coded rule.
type Policy interface {
	ShouldSell(entryCoinReserve, currentCoinReserve uint64) bool
}

// FixedBandPolicy sells once the coin vault balance has moved by
// takeProfitBps in the trader's favor or stopLossBps against it, relative
// to the pool's initial coin reserve. A zero threshold disables that side
// of the band.
type FixedBandPolicy struct {
	TakeProfitBps int64
	StopLossBps   int64
}

// ShouldSell implements Policy.
func (p FixedBandPolicy) ShouldSell(entryCoinReserve, currentCoinReserve uint64) bool {
	if entryCoinReserve == 0 {
		return false
	}
	delta := int64(currentCoinReserve) - int64(entryCoinReserve)
	bps := delta * 10000 / int64(entryCoinReserve)
	if p.TakeProfitBps > 0 && bps >= p.TakeProfitBps {
		return true
	}
	if p.StopLossBps > 0 && -bps >= p.StopLossBps {
		return true
	}
	return false
}

// RPC is the subset of *solrpc.Client the trader depends on, narrowed to an
// interface so tests can substitute a fake broadcaster instead of dialing a
// live cluster.
type RPC interface {
	BuildSignSend(ctx context.Context, signer solana.PrivateKey, ixs ...solana.Instruction) (solana.Signature, error)
	ResolveAmmState(ctx context.Context, ammID solana.PublicKey) (*raydium.AmmState, error)
	ResolveMarketVaults(ctx context.Context, market solana.PublicKey) (*raydium.MarketVaults, error)
}

// Params bundles everything one trader invocation needs beyond the pool
// identity and its initial reserves.
type Params struct {
	InitialPcAmount uint64
	Signer          solana.PrivateKey
	RPC             RPC
	Register        chan<- router.Register
	Unregister      chan<- router.Unregister
	Counter         *atomic.Int64
	Policy          Policy
	Logger          *zap.Logger
}

// Spawn launches Run as a detached task. The trading-task counter is
// incremented before Spawn returns and decremented only after Run has
// completed, so a shutdown poll can never observe a zero counter while a
// just-classified pool's trader is still starting up. A trader error is
// logged and isolated; it never aborts the pipeline.
func Spawn(ctx context.Context, pool *classify.PoolKeys, params *classify.InitParams, p Params) {
	p.Counter.Add(1)
	go func() {
		defer p.Counter.Add(-1)
		if err := Run(ctx, pool, params, p); err != nil {
			p.Logger.Warn("trader exited with error", zap.Error(err))
		}
	}()
}

// Run executes one trader's full lifecycle. It always sends an Unregister
// on every exit path; counter bookkeeping lives in Spawn.
func Run(ctx context.Context, pool *classify.PoolKeys, params *classify.InitParams, p Params) error {
	handle := make(chan router.AccountUpdate, handleCapacity)
	done := make(chan struct{})
	defer close(done)
	p.Register <- router.Register{CoinVault: pool.AmmCoinVault, PcVault: pool.AmmPcVault, Handle: handle, Done: done}

	unregister := func() {
		p.Unregister <- router.Unregister{CoinVault: pool.AmmCoinVault, PcVault: pool.AmmPcVault}
	}

	expected, err := pricing.ExpectedCoin(p.InitialPcAmount, params.InitPcAmount, params.InitCoinAmount)
	if err != nil {
		unregister()
		p.Logger.Warn("pricing failed, not trading", zap.Error(err))
		return err
	}

	state, marketVaults, buildErr := p.resolveSwapAccounts(ctx, pool)
	if buildErr != nil {
		p.Logger.Warn("could not resolve swap accounts, buy will fail on submission", zap.Error(buildErr))
	}

	buyIx := swap.Build(swapAccountsOrZero(pool, state, marketVaults, p), p.InitialPcAmount, expected)
	if _, err := p.RPC.BuildSignSend(ctx, p.Signer, buyIx); err != nil {
		// A broadcast failure here is logged and not fatal: the trader
		// cannot tell whether the position exists on-chain without reading
		// the vault, which it is about to do anyway.
		p.Logger.Warn("buy broadcast failed", zap.Error(err))
	}

	entryCoinReserve := params.InitCoinAmount
	for {
		select {
		case <-ctx.Done():
			unregister()
			return errs.Wrap(ctx.Err())
		case update, ok := <-handle:
			if !ok {
				unregister()
				return errs.New(errs.UnreachableState)
			}
			acct, err := tokenaccount.Unpack(update.Data)
			if err != nil {
				p.Logger.Warn("failed to decode vault account", zap.String("pubkey", update.Pubkey.String()), zap.Error(err))
				continue
			}
			if !p.Policy.ShouldSell(entryCoinReserve, acct.Amount) {
				continue
			}

			sellIx := swap.Build(swapAccountsOrZero(pool, state, marketVaults, p), acct.Amount, 0)
			if _, err := p.RPC.BuildSignSend(ctx, p.Signer, sellIx); err != nil {
				p.Logger.Warn("sell broadcast failed", zap.Error(err))
			}
			unregister()
			return nil
		}
	}
}

// resolveSwapAccounts fetches and decodes the pool's AMM state to obtain
// the open-orders/target-orders/market accounts the swap instruction needs
// beyond what the classifier extracts, then follows the AMM state's own
// Market pointer to resolve the serum/OpenBook market's distinct
// SerumCoinVault/SerumPcVault. PoolKeys.AmmMarket is reused as the pool's
// AMM account id, the closest available substitute: the classifier only
// projects out three of the many accounts a full Raydium v4 swap
// references. A market-vault resolution failure is reported but does not
// prevent the AMM state itself from being used.
func (p Params) resolveSwapAccounts(ctx context.Context, pool *classify.PoolKeys) (*raydium.AmmState, *raydium.MarketVaults, error) {
	state, err := p.RPC.ResolveAmmState(ctx, pool.AmmMarket)
	if err != nil || state == nil {
		return state, nil, err
	}
	marketVaults, err := p.RPC.ResolveMarketVaults(ctx, state.Market)
	if err != nil {
		return state, nil, err
	}
	return state, marketVaults, nil
}

func swapAccountsOrZero(pool *classify.PoolKeys, state *raydium.AmmState, marketVaults *raydium.MarketVaults, p Params) swap.Accounts {
	owner := p.Signer.PublicKey()
	authority, _ := raydium.DeriveAmmAuthority()
	if state == nil {
		return swap.Accounts{UserOwner: owner, AmmID: pool.AmmMarket, AmmAuthority: authority}
	}
	accounts := swap.Accounts{
		UserOwner:       owner,
		AmmID:           pool.AmmMarket,
		AmmAuthority:    authority,
		AmmOpenOrders:   state.OpenOrders,
		AmmTargetOrders: state.TargetOrders,
		PoolCoinVault:   state.BaseVault,
		PoolPcVault:     state.QuoteVault,
		MarketProgram:   state.MarketProgram,
		Market:          state.Market,
	}
	if marketVaults != nil {
		accounts.SerumCoinVault = marketVaults.CoinVault
		accounts.SerumPcVault = marketVaults.PcVault
	}
	return accounts
}
