// Package raydium holds the Raydium v4 program constants and the
// initialize2 instruction payload decoder the classifier and trader depend
// on.
package raydium

import "github.com/gagliardetto/solana-go"

// V4ProgramID is the Raydium Liquidity Pool V4 program.
var V4ProgramID = solana.MustPublicKeyFromBase58("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8")

// TokenProgramID is the SPL token program.
var TokenProgramID = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

// WrappedSOLMint is the canonical wrapped-SOL mint.
var WrappedSOLMint = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
