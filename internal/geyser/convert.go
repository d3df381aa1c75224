package geyser

import (
	"errors"

	"github.com/gagliardetto/solana-go"

	gproto "raydiumsentry/internal/geyser/proto"
	"raydiumsentry/internal/txmodel"
)

// ToTransaction projects one wire TransactionUpdate into the shared
// txmodel.Transaction shape the classifier consumes, the Geyser-side analogue
// of the verifier's getTransaction decoding path.
func ToTransaction(tx *gproto.TransactionUpdate) *txmodel.Transaction {
	accountKeys := make([]solana.PublicKey, len(tx.AccountKeys))
	for i, raw := range tx.AccountKeys {
		accountKeys[i] = solana.PublicKeyFromBytes(raw)
	}

	var sig solana.Signature
	copy(sig[:], tx.Signature)

	var metaErr error
	if len(tx.Err) > 0 {
		metaErr = errors.New("transaction failed")
	}

	return &txmodel.Transaction{
		Signature:    sig,
		AccountKeys:  accountKeys,
		Instructions: toInstructions(tx.Instructions),
		Meta: txmodel.Meta{
			Err:               metaErr,
			InnerInstructions: toInnerGroups(tx.InnerInstructions),
			LogMessages:       tx.LogMessages,
		},
	}
}

func toInstructions(raw []gproto.RawInstruction) []txmodel.Instruction {
	out := make([]txmodel.Instruction, len(raw))
	for i, r := range raw {
		out[i] = txmodel.Instruction{
			ProgramIDIndex: uint16(r.ProgramIDIndex),
			Accounts:       toUint16s(r.Accounts),
			Data:           r.Data,
		}
	}
	return out
}

func toInnerGroups(raw []gproto.RawInnerInstructionGroup) []txmodel.InnerInstructionGroup {
	out := make([]txmodel.InnerInstructionGroup, len(raw))
	for i, g := range raw {
		out[i] = txmodel.InnerInstructionGroup{
			Index:        uint8(g.Index),
			Instructions: toInstructions(g.Instructions),
		}
	}
	return out
}

func toUint16s(in []uint32) []uint16 {
	out := make([]uint16, len(in))
	for i, v := range in {
		out[i] = uint16(v)
	}
	return out
}
