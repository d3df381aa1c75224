// Package classify implements the Raydium v4 initialize2 pool-creation
// classifier: a pure function over one streamed confirmed transaction that
// decides pool-creation match and projects out the pool's identifying
// accounts and initial reserves.
package classify

import (
	"bytes"

	"github.com/gagliardetto/solana-go"

	"raydiumsentry/internal/errs"
	"raydiumsentry/internal/raydium"
	"raydiumsentry/internal/txmodel"
)

// logPattern is the precompiled 48-byte literal the initialize2 instruction
// always logs as its eighth log message. It is a plain package-level value,
// not a runtime singleton, since it depends on nothing but its own bytes.
var logPattern = []byte("Program log: initialize2: InitializeInstruction2")[:48]

const (
	outerInitializeInstructionIndex = 2
	innerInitializeGroupIndex       = 2
	innerInitializeInstructionCount = 32
	createTokenAccountInnerIndex    = 16
	requiredOuterInstructionCount   = 4
	requiredLogMessageCount         = 8
	logPatternLogIndex              = 7
	ammMarketAccountIndex           = 4
	ammCoinVaultAccountIndex        = 10
	ammPcVaultAccountIndex          = 11
)

// PoolKeys are the three accounts the classifier extracts from a matched
// pool-creation transaction.
type PoolKeys struct {
	AmmMarket    solana.PublicKey
	AmmCoinVault solana.PublicKey
	AmmPcVault   solana.PublicKey
}

// InitParams are the pool's initial reserves, decoded from the matched
// instruction's payload.
type InitParams = raydium.InitializeInstruction2

// Classify decides whether tx is a Raydium v4 initialize2 pool-creation
// transaction. It returns (nil, nil, nil) on a silent reject, (nil, nil,
// err) when the transaction structurally matches but its payload fails to
// decode, and (keys, params, nil) on a match.
func Classify(tx *txmodel.Transaction) (*PoolKeys, *InitParams, error) {
	if tx.Meta.Err != nil {
		return nil, nil, nil
	}
	if len(tx.Instructions) != requiredOuterInstructionCount {
		return nil, nil, nil
	}

	outer := tx.Instructions[outerInitializeInstructionIndex]
	if int(outer.ProgramIDIndex) >= len(tx.AccountKeys) {
		return nil, nil, nil
	}
	if !tx.AccountKeys[outer.ProgramIDIndex].Equals(raydium.V4ProgramID) {
		return nil, nil, nil
	}

	if len(tx.Meta.InnerInstructions) != 1 {
		return nil, nil, nil
	}
	innerGroup := tx.Meta.InnerInstructions[0]
	if int(innerGroup.Index) != innerInitializeGroupIndex {
		return nil, nil, nil
	}
	if len(innerGroup.Instructions) != innerInitializeInstructionCount {
		return nil, nil, nil
	}

	if len(tx.Meta.LogMessages) < requiredLogMessageCount {
		return nil, nil, nil
	}
	logLine := tx.Meta.LogMessages[logPatternLogIndex]
	if len(logLine) < len(logPattern) || !bytes.Equal([]byte(logLine[:len(logPattern)]), logPattern) {
		return nil, nil, nil
	}

	createTok := innerGroup.Instructions[createTokenAccountInnerIndex]
	if int(createTok.ProgramIDIndex) >= len(tx.AccountKeys) {
		return nil, nil, nil
	}
	if !tx.AccountKeys[createTok.ProgramIDIndex].Equals(raydium.TokenProgramID) {
		return nil, nil, nil
	}
	if len(createTok.Accounts) < 2 || len(outer.Accounts) <= ammPcVaultAccountIndex {
		return nil, nil, nil
	}
	if int(createTok.Accounts[1]) >= len(tx.AccountKeys) {
		return nil, nil, nil
	}
	if !tx.AccountKeys[createTok.Accounts[1]].Equals(raydium.WrappedSOLMint) {
		return nil, nil, nil
	}
	if createTok.Accounts[0] != outer.Accounts[ammPcVaultAccountIndex] {
		return nil, nil, nil
	}

	for _, idx := range []uint16{
		outer.Accounts[ammMarketAccountIndex],
		outer.Accounts[ammCoinVaultAccountIndex],
		outer.Accounts[ammPcVaultAccountIndex],
	} {
		if int(idx) >= len(tx.AccountKeys) {
			return nil, nil, errs.New(errs.ValueDoesNotExist)
		}
	}

	keys := &PoolKeys{
		AmmMarket:    tx.AccountKeys[outer.Accounts[ammMarketAccountIndex]],
		AmmCoinVault: tx.AccountKeys[outer.Accounts[ammCoinVaultAccountIndex]],
		AmmPcVault:   tx.AccountKeys[outer.Accounts[ammPcVaultAccountIndex]],
	}

	params, err := raydium.UnpackInitializeInstruction2(outer.Data)
	if err != nil {
		return nil, nil, err
	}

	return keys, params, nil
}
