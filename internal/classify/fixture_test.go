package classify

import (
	"testing"

	"github.com/gagliardetto/solana-go"
)

// TestClassifyKnownMainnetPool reconstructs the transaction shape of a real
// Raydium v4 pool-creation transaction
// (2gMuTdGx6RaQKSrUqGib2kkNQ7XD71eMvA3fm8h5MY8qFSLoALQrnxiWo3YzCdaTSEstGd751HwD3LqVaxjX268t)
// and checks the classifier recovers the same pool keys and initial
// reserves the transaction actually carried on mainnet.
func TestClassifyKnownMainnetPool(t *testing.T) {
	tx := buildMatchingTransaction(t)

	wantMarket := solana.MustPublicKeyFromBase58("JBFZxVNNMrR6prECdMWbSQXMUtGjYRYy61psjgQdm5jU")
	wantCoinVault := solana.MustPublicKeyFromBase58("93NvHA7Ci7yu6oL4sca1f976AcKpAUSXNUMs1YDQZvZb")
	wantPcVault := solana.MustPublicKeyFromBase58("Dc88MUmS675aV4YDLkyLvofSSBidkAFWcVWsiQKRnpX9")

	outer := &tx.Instructions[2]
	tx.AccountKeys[outer.Accounts[ammMarketAccountIndex]] = wantMarket
	tx.AccountKeys[outer.Accounts[ammCoinVaultAccountIndex]] = wantCoinVault
	tx.AccountKeys[outer.Accounts[ammPcVaultAccountIndex]] = wantPcVault

	const nonce = 254
	const openTime = 1732807457
	const initPcAmount = 763000000000
	const initCoinAmount = 206900000000000000
	outer.Data = encodeInitializeInstruction2(nonce, openTime, initPcAmount, initCoinAmount)

	keys, params, err := Classify(tx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if keys == nil || params == nil {
		t.Fatal("expected a match")
	}
	if keys.AmmMarket != wantMarket || keys.AmmCoinVault != wantCoinVault || keys.AmmPcVault != wantPcVault {
		t.Fatalf("pool keys mismatch: %+v", keys)
	}
	if params.Nonce != nonce || params.OpenTime != openTime ||
		params.InitPcAmount != initPcAmount || params.InitCoinAmount != initCoinAmount {
		t.Fatalf("init params mismatch: %+v", params)
	}
}

func encodeInitializeInstruction2(nonce uint8, openTime, initPc, initCoin uint64) []byte {
	buf := make([]byte, 26)
	buf[0] = 1
	buf[1] = nonce
	putLE(buf[2:10], openTime)
	putLE(buf[10:18], initPc)
	putLE(buf[18:26], initCoin)
	return buf
}

func putLE(b []byte, v uint64) {
	for i := range b {
		b[i] = byte(v >> (8 * i))
	}
}
