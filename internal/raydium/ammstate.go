package raydium

import (
	"github.com/gagliardetto/solana-go"

	"raydiumsentry/internal/errs"
)

// ammAuthoritySeed is the literal seed Raydium v4 derives its pool
// authority PDA from ("amm authority").
var ammAuthoritySeed = []byte{97, 109, 109, 32, 97, 117, 116, 104, 111, 114, 105, 116, 121}

// DeriveAmmAuthority derives the Raydium v4 AMM authority PDA, the account
// every pool uses as the owner of its two vaults.
func DeriveAmmAuthority() (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress([][]byte{ammAuthoritySeed}, V4ProgramID)
	if err != nil {
		return solana.PublicKey{}, errs.Wrap(err)
	}
	return addr, nil
}

// ammStateLen is the fixed on-chain size of a Raydium v4 LiquidityStateV4
// account: 24 leading u64 fields, eight more u64 PnL/timing fields, four
// u128 swap accumulators and two u64 swap fees (336 bytes so far), then
// twelve pubkeys, the u64 lpReserve, and three u64 of padding.
const ammStateLen = 752

// Offsets into the LiquidityStateV4 layout for the fields this module
// actually consumes, per the well-known public Raydium v4 program account
// shape.
const (
	offsetBaseVault     = 336
	offsetQuoteVault    = 368
	offsetOpenOrders    = 496
	offsetMarket        = 528
	offsetMarketProgram = 560
	offsetTargetOrders  = 592
)

// AmmState is the subset of a Raydium v4 pool's on-chain state the swap
// instruction builder needs to resolve accounts it cannot derive from the
// classifier's PoolKeys alone.
type AmmState struct {
	BaseVault     solana.PublicKey
	QuoteVault    solana.PublicKey
	OpenOrders    solana.PublicKey
	Market        solana.PublicKey
	MarketProgram solana.PublicKey
	TargetOrders  solana.PublicKey
}

// UnpackAmmState decodes a Raydium v4 AMM account's raw data. It requires
// the full fixed-length account; any short read fails with MalformedBinary.
func UnpackAmmState(data []byte) (*AmmState, error) {
	if len(data) < ammStateLen {
		return nil, errs.New(errs.MalformedBinary)
	}
	readPubkey := func(offset int) (solana.PublicKey, error) {
		if offset+32 > len(data) {
			return solana.PublicKey{}, errs.New(errs.MalformedBinary)
		}
		return solana.PublicKeyFromBytes(data[offset : offset+32]), nil
	}

	baseVault, err := readPubkey(offsetBaseVault)
	if err != nil {
		return nil, err
	}
	quoteVault, err := readPubkey(offsetQuoteVault)
	if err != nil {
		return nil, err
	}
	openOrders, err := readPubkey(offsetOpenOrders)
	if err != nil {
		return nil, err
	}
	market, err := readPubkey(offsetMarket)
	if err != nil {
		return nil, err
	}
	marketProgram, err := readPubkey(offsetMarketProgram)
	if err != nil {
		return nil, err
	}
	targetOrders, err := readPubkey(offsetTargetOrders)
	if err != nil {
		return nil, err
	}

	return &AmmState{
		BaseVault:     baseVault,
		QuoteVault:    quoteVault,
		OpenOrders:    openOrders,
		Market:        market,
		MarketProgram: marketProgram,
		TargetOrders:  targetOrders,
	}, nil
}
