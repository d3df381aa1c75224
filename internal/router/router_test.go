package router

import (
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

func TestRouterDeliversRegisteredVaultUpdatesInOrder(t *testing.T) {
	r := New(zap.NewNop())
	go func() {
		if err := r.Run(); err != nil {
			t.Logf("router exited: %v", err)
		}
	}()

	coinVault := solana.NewWallet().PublicKey()
	pcVault := solana.NewWallet().PublicKey()
	other := solana.NewWallet().PublicKey()
	handle := make(chan AccountUpdate, 10)

	r.RegisterChan() <- Register{CoinVault: coinVault, PcVault: pcVault, Handle: handle}
	time.Sleep(10 * time.Millisecond)

	r.AccountUpdateChan() <- AccountUpdate{Pubkey: coinVault, Data: []byte("c")}
	r.AccountUpdateChan() <- AccountUpdate{Pubkey: other, Data: []byte("x")}
	r.AccountUpdateChan() <- AccountUpdate{Pubkey: pcVault, Data: []byte("p")}

	first := recvWithTimeout(t, handle)
	if first.Pubkey != coinVault {
		t.Fatalf("expected first delivery to be the coin vault, got %s", first.Pubkey)
	}
	second := recvWithTimeout(t, handle)
	if second.Pubkey != pcVault {
		t.Fatalf("expected second delivery to be the pc vault, got %s", second.Pubkey)
	}

	select {
	case extra := <-handle:
		t.Fatalf("expected no further deliveries, got %+v", extra)
	case <-time.After(20 * time.Millisecond):
	}

	r.UnregisterChan() <- Unregister{CoinVault: coinVault, PcVault: pcVault}
	time.Sleep(10 * time.Millisecond)

	r.AccountUpdateChan() <- AccountUpdate{Pubkey: coinVault, Data: []byte("late")}
	select {
	case extra := <-handle:
		t.Fatalf("expected no delivery after unregister, got %+v", extra)
	case <-time.After(20 * time.Millisecond):
	}
}

func recvWithTimeout(t *testing.T, ch <-chan AccountUpdate) AccountUpdate {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delivery")
		return AccountUpdate{}
	}
}

func TestRouterBlocksUntilHandleDrainsThenDelivers(t *testing.T) {
	r := New(zap.NewNop())
	go func() {
		if err := r.Run(); err != nil {
			t.Logf("router exited: %v", err)
		}
	}()

	coinVault := solana.NewWallet().PublicKey()
	pcVault := solana.NewWallet().PublicKey()
	handle := make(chan AccountUpdate) // unbuffered: every send must block until drained.
	done := make(chan struct{})

	r.RegisterChan() <- Register{CoinVault: coinVault, PcVault: pcVault, Handle: handle, Done: done}
	time.Sleep(10 * time.Millisecond)

	r.AccountUpdateChan() <- AccountUpdate{Pubkey: coinVault, Data: []byte("c")}

	// The router must still be blocked trying to deliver, not having
	// dropped the update, 50ms after the send.
	time.Sleep(50 * time.Millisecond)

	got := recvWithTimeout(t, handle)
	if got.Pubkey != coinVault {
		t.Fatalf("expected the blocked delivery to arrive once drained, got %s", got.Pubkey)
	}
}

func TestRouterDropsUpdateOnceTraderHandleIsGone(t *testing.T) {
	r := New(zap.NewNop())
	go func() {
		if err := r.Run(); err != nil {
			t.Logf("router exited: %v", err)
		}
	}()

	coinVault := solana.NewWallet().PublicKey()
	pcVault := solana.NewWallet().PublicKey()
	handle := make(chan AccountUpdate) // never drained.
	done := make(chan struct{})
	close(done) // simulates the trader having already exited.

	r.RegisterChan() <- Register{CoinVault: coinVault, PcVault: pcVault, Handle: handle, Done: done}
	time.Sleep(10 * time.Millisecond)

	// This send must return (the router picks the closed Done case)
	// rather than block forever on the undrained handle.
	done2 := make(chan struct{})
	go func() {
		r.AccountUpdateChan() <- AccountUpdate{Pubkey: coinVault, Data: []byte("c")}
		close(done2)
	}()
	select {
	case <-done2:
	case <-time.After(time.Second):
		t.Fatal("account_update send did not return after the trader's Done closed")
	}

	// The account_update channel is buffered, so the send above returns
	// either way; a second pool's delivery only arrives if the router has
	// dropped the first update instead of blocking on the undrained handle.
	otherVault := solana.NewWallet().PublicKey()
	otherHandle := make(chan AccountUpdate, 1)
	r.RegisterChan() <- Register{CoinVault: otherVault, PcVault: solana.NewWallet().PublicKey(), Handle: otherHandle}
	r.AccountUpdateChan() <- AccountUpdate{Pubkey: otherVault, Data: []byte("o")}
	if got := recvWithTimeout(t, otherHandle); got.Pubkey != otherVault {
		t.Fatalf("expected delivery to the second pool, got %s", got.Pubkey)
	}
}

func TestRouterIgnoresUntrackedAccountUpdate(t *testing.T) {
	r := New(zap.NewNop())
	go r.Run()

	untracked := solana.NewWallet().PublicKey()
	r.AccountUpdateChan() <- AccountUpdate{Pubkey: untracked, Data: []byte("x")}
	// No registered handle exists anywhere; this must simply be a no-op.
	// Give the router a moment to process before the test ends.
	time.Sleep(10 * time.Millisecond)
}
