// Package tokenaccount decodes the fixed SPL token-account layout the
// trader reads off every vault update: mint, owner, and balance, little-
// endian, at the account's standard fixed offsets.
package tokenaccount

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"raydiumsentry/internal/errs"
)

// layoutLen is the fixed size of an SPL token account: mint(32) +
// owner(32) + amount(8) + delegateOption(4) + delegate(32) + state(1) +
// isNativeOption(4) + isNative(8) + delegatedAmount(8) + closeAuthority
// Option(4) + closeAuthority(32).
const layoutLen = 165

const (
	offsetMint   = 0
	offsetOwner  = 32
	offsetAmount = 64
)

// Account is the subset of an SPL token account the trader's vault
// monitoring depends on.
type Account struct {
	Mint   solana.PublicKey
	Owner  solana.PublicKey
	Amount uint64
}

// Unpack decodes one SPL token account's raw data. Any payload shorter than
// the fixed layout fails with MalformedBinary.
func Unpack(data []byte) (*Account, error) {
	if len(data) < layoutLen {
		return nil, errs.New(errs.MalformedBinary)
	}
	return &Account{
		Mint:   solana.PublicKeyFromBytes(data[offsetMint : offsetMint+32]),
		Owner:  solana.PublicKeyFromBytes(data[offsetOwner : offsetOwner+32]),
		Amount: binary.LittleEndian.Uint64(data[offsetAmount : offsetAmount+8]),
	}, nil
}
