// Package swap builds the Raydium v4 swap instruction the trader submits
// for both its buy and its sell leg, parameterized over the pool accounts
// the trader resolves at runtime.
package swap

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"raydiumsentry/internal/raydium"
)

// instructionTagSwapBaseIn is Raydium v4's discriminator for a swap priced
// by a fixed input amount, the only direction the trader needs: it always
// knows the amount it is putting in and the minimum it will accept out.
const instructionTagSwapBaseIn = 9

// Accounts are the resolved on-chain accounts a Raydium v4 swap instruction
// references, beyond the amounts themselves. MarketProgram, Market, Bids,
// Asks, EventQueue, SerumCoinVault, SerumPcVault, and VaultSigner describe
// the pool's backing Serum/OpenBook market. The trader fills MarketProgram
// and Market from the pool's AMM state account (internal/raydium.AmmState)
// and SerumCoinVault/SerumPcVault from the market account it points to
// (internal/raydium.MarketVaults); it does not resolve Bids, Asks,
// EventQueue, or VaultSigner, which stay the zero PublicKey, as does any
// field whose account could not be fetched. An instruction with zero
// accounts is rejected on submission, which the trader treats as a
// logged, non-fatal broadcast failure. SerumCoinVault
// and SerumPcVault are the market's own vaults, distinct from PoolCoinVault
// and PoolPcVault, which belong to the AMM pool itself.
type Accounts struct {
	UserSourceToken solana.PublicKey
	UserDestToken   solana.PublicKey
	UserOwner       solana.PublicKey
	AmmID           solana.PublicKey
	AmmAuthority    solana.PublicKey
	AmmOpenOrders   solana.PublicKey
	AmmTargetOrders solana.PublicKey
	PoolCoinVault   solana.PublicKey
	PoolPcVault     solana.PublicKey
	MarketProgram   solana.PublicKey
	Market          solana.PublicKey
	Bids            solana.PublicKey
	Asks            solana.PublicKey
	EventQueue      solana.PublicKey
	SerumCoinVault  solana.PublicKey
	SerumPcVault    solana.PublicKey
	VaultSigner     solana.PublicKey
}

// Build encodes a Raydium v4 swap instruction: amountIn of the source
// token in, rejecting if the pool would return less than minimumAmountOut
// of the destination token.
func Build(accounts Accounts, amountIn, minimumAmountOut uint64) solana.Instruction {
	data := make([]byte, 17)
	data[0] = instructionTagSwapBaseIn
	binary.LittleEndian.PutUint64(data[1:9], amountIn)
	binary.LittleEndian.PutUint64(data[9:17], minimumAmountOut)

	metas := solana.AccountMetaSlice{
		{PublicKey: raydium.TokenProgramID, IsWritable: false, IsSigner: false},
		{PublicKey: accounts.AmmID, IsWritable: true, IsSigner: false},
		{PublicKey: accounts.AmmAuthority, IsWritable: false, IsSigner: false},
		{PublicKey: accounts.AmmOpenOrders, IsWritable: true, IsSigner: false},
		{PublicKey: accounts.AmmTargetOrders, IsWritable: true, IsSigner: false},
		{PublicKey: accounts.PoolCoinVault, IsWritable: true, IsSigner: false},
		{PublicKey: accounts.PoolPcVault, IsWritable: true, IsSigner: false},
		{PublicKey: accounts.MarketProgram, IsWritable: false, IsSigner: false},
		{PublicKey: accounts.Market, IsWritable: true, IsSigner: false},
		{PublicKey: accounts.Bids, IsWritable: true, IsSigner: false},
		{PublicKey: accounts.Asks, IsWritable: true, IsSigner: false},
		{PublicKey: accounts.EventQueue, IsWritable: true, IsSigner: false},
		{PublicKey: accounts.SerumCoinVault, IsWritable: true, IsSigner: false},
		{PublicKey: accounts.SerumPcVault, IsWritable: true, IsSigner: false},
		{PublicKey: accounts.VaultSigner, IsWritable: false, IsSigner: false},
		{PublicKey: accounts.UserSourceToken, IsWritable: true, IsSigner: false},
		{PublicKey: accounts.UserDestToken, IsWritable: true, IsSigner: false},
		{PublicKey: accounts.UserOwner, IsWritable: false, IsSigner: true},
	}

	return solana.NewInstruction(raydium.V4ProgramID, metas, data)
}
