// Package txmodel is the pipeline-wide shape of a confirmed transaction
// update, independent of whether it arrived over the Geyser stream or was
// reconstructed from a JSON-RPC getTransaction response. The classifier
// operates exclusively on this shape so the two producers (internal/geyser,
// internal/verifier) never need to duplicate classification logic.
package txmodel

import "github.com/gagliardetto/solana-go"

// Instruction is one compiled instruction: a program-id index and an
// accounts list, both indices into the parent Transaction's AccountKeys, and
// opaque instruction data.
type Instruction struct {
	ProgramIDIndex uint16
	Accounts       []uint16
	Data           []byte
}

// InnerInstructionGroup carries the inner instructions emitted by executing
// the outer instruction at Index.
type InnerInstructionGroup struct {
	Index        uint8
	Instructions []Instruction
}

// Meta is the subset of transaction metadata the classifier and trader
// depend on.
type Meta struct {
	Err               error
	InnerInstructions []InnerInstructionGroup
	LogMessages       []string
}

// Transaction is a confirmed transaction update as the classifier sees it.
type Transaction struct {
	Signature    solana.Signature
	AccountKeys  []solana.PublicKey
	Instructions []Instruction
	Meta         Meta
}
