package raydium

import (
	"github.com/gagliardetto/solana-go"

	"raydiumsentry/internal/errs"
)

// marketStateMinLen covers a serum/OpenBook MarketStateLayoutV3 account up
// through its QuoteVault field; the struct carries further fields (request
// queue, event queue, bids, asks, lot sizes, fee rate) this module has no
// use for.
const marketStateMinLen = offsetMarketQuoteVault + 32

// Offsets into the serum/OpenBook MarketStateLayoutV3 layout: 5-byte
// padding, 8-byte account flags, 32-byte own address, 8-byte vault signer
// nonce, base mint, quote mint, the base (coin) vault, two u64 base
// totals (deposits, fees accrued), then the quote (PC) vault.
const (
	offsetMarketCoinVault  = 117
	offsetMarketQuoteVault = 165
)

// MarketVaults are the serum/OpenBook market's own coin and PC vaults, the
// two accounts a Raydium v4 swap_base_in instruction references distinctly
// from the AMM pool's own PoolCoinVault/PoolPcVault (internal/swap.Accounts).
type MarketVaults struct {
	CoinVault solana.PublicKey
	PcVault   solana.PublicKey
}

// UnpackMarketVaults decodes a serum/OpenBook market account's coin and PC
// vault addresses. It requires enough of the account to reach the quote
// vault field; any short read fails with MalformedBinary.
func UnpackMarketVaults(data []byte) (*MarketVaults, error) {
	if len(data) < marketStateMinLen {
		return nil, errs.New(errs.MalformedBinary)
	}
	return &MarketVaults{
		CoinVault: solana.PublicKeyFromBytes(data[offsetMarketCoinVault : offsetMarketCoinVault+32]),
		PcVault:   solana.PublicKeyFromBytes(data[offsetMarketQuoteVault : offsetMarketQuoteVault+32]),
	}, nil
}
