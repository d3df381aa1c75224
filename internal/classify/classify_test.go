package classify

import (
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"

	"raydiumsentry/internal/raydium"
	"raydiumsentry/internal/txmodel"
)

// buildMatchingTransaction returns a transaction that satisfies every
// classifier check, so individual tests can mutate one field at a time.
func buildMatchingTransaction(t *testing.T) *txmodel.Transaction {
	t.Helper()

	accountKeys := make([]solana.PublicKey, 20)
	for i := range accountKeys {
		accountKeys[i] = solana.NewWallet().PublicKey()
	}
	accountKeys[2] = raydium.V4ProgramID // outer.ProgramIDIndex below points here

	outerAccounts := make([]uint16, 18)
	for i := range outerAccounts {
		outerAccounts[i] = uint16(i)
	}

	// tag(1) + nonce(1) + open_time(8) + init_pc_amount(8) + init_coin_amount(8) = 26 bytes.
	payload := make([]byte, 26)
	payload[0] = 1
	payload[1] = 254

	innerInstructions := make([]txmodel.Instruction, innerInitializeInstructionCount)
	createTokAccounts := []uint16{outerAccounts[ammPcVaultAccountIndex], 3}
	accountKeys[3] = raydium.WrappedSOLMint
	for i := range innerInstructions {
		innerInstructions[i] = txmodel.Instruction{ProgramIDIndex: 0}
	}
	innerInstructions[createTokenAccountInnerIndex] = txmodel.Instruction{
		ProgramIDIndex: 5,
		Accounts:       createTokAccounts,
	}
	accountKeys[5] = raydium.TokenProgramID

	logMessages := make([]string, requiredLogMessageCount)
	logMessages[logPatternLogIndex] = "Program log: initialize2: InitializeInstruction2 { nonce: 254, open_time: 1732807457, init_pc_amount: 763000000000, init_coin_amount: 206900000000000000 }"

	return &txmodel.Transaction{
		AccountKeys:  accountKeys,
		Instructions: []txmodel.Instruction{{}, {}, {ProgramIDIndex: 2, Accounts: outerAccounts, Data: payload}, {}},
		Meta: txmodel.Meta{
			InnerInstructions: []txmodel.InnerInstructionGroup{
				{Index: innerInitializeGroupIndex, Instructions: innerInstructions},
			},
			LogMessages: logMessages,
		},
	}
}

func TestClassifyMatches(t *testing.T) {
	tx := buildMatchingTransaction(t)
	keys, params, err := Classify(tx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if keys == nil || params == nil {
		t.Fatalf("expected a match, got keys=%v params=%v", keys, params)
	}
	if params.Nonce != 254 {
		t.Errorf("expected nonce 254, got %d", params.Nonce)
	}
	wantMarket := tx.AccountKeys[tx.Instructions[2].Accounts[ammMarketAccountIndex]]
	if keys.AmmMarket != wantMarket {
		t.Errorf("amm market mismatch: got %s want %s", keys.AmmMarket, wantMarket)
	}
}

func TestClassifyRejectsMetaErr(t *testing.T) {
	tx := buildMatchingTransaction(t)
	tx.Meta.Err = errors.New("boom")
	keys, params, err := Classify(tx)
	if keys != nil || params != nil || err != nil {
		t.Fatalf("expected silent reject, got keys=%v params=%v err=%v", keys, params, err)
	}
}

func TestClassifyRejectsWrongInstructionCount(t *testing.T) {
	for _, n := range []int{3, 5} {
		tx := buildMatchingTransaction(t)
		instrs := make([]txmodel.Instruction, n)
		copy(instrs, tx.Instructions)
		tx.Instructions = instrs
		keys, params, err := Classify(tx)
		if keys != nil || params != nil || err != nil {
			t.Fatalf("n=%d: expected silent reject, got keys=%v params=%v err=%v", n, keys, params, err)
		}
	}
}

func TestClassifyRejectsBadLogPattern(t *testing.T) {
	tx := buildMatchingTransaction(t)
	tx.Meta.LogMessages[logPatternLogIndex] = "Program log: something else entirely that is also quite long"
	keys, params, err := Classify(tx)
	if keys != nil || params != nil || err != nil {
		t.Fatalf("expected silent reject, got keys=%v params=%v err=%v", keys, params, err)
	}
}

func TestClassifyRejectsWrongProgramID(t *testing.T) {
	tx := buildMatchingTransaction(t)
	tx.AccountKeys[2] = solana.NewWallet().PublicKey()
	keys, params, err := Classify(tx)
	if keys != nil || params != nil || err != nil {
		t.Fatalf("expected silent reject, got keys=%v params=%v err=%v", keys, params, err)
	}
}

func TestClassifyPropagatesMalformedPayload(t *testing.T) {
	tx := buildMatchingTransaction(t)
	tx.Instructions[2].Data = []byte{1, 2, 3}
	keys, params, err := Classify(tx)
	if keys != nil || params != nil {
		t.Fatalf("expected no pool on malformed payload, got keys=%v params=%v", keys, params)
	}
	if err == nil {
		t.Fatal("expected a MalformedBinary error, got nil")
	}
}
