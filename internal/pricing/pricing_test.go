package pricing

import "testing"

func TestExpectedCoinMainnetExample(t *testing.T) {
	got, err := ExpectedCoin(1_000_000_000, 763_000_000_000, 206_900_000_000_000_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	const want = 271_103_446_596_857
	if got != want {
		t.Errorf("got %d, want %d", got, want)
	}
}

func TestExpectedCoinZeroInput(t *testing.T) {
	got, err := ExpectedCoin(0, 763_000_000_000, 206_900_000_000_000_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Errorf("expected_coin(0, P, C) should be 0, got %d", got)
	}
}

func TestExpectedCoinFailsOnZeroDenominator(t *testing.T) {
	// pc_in=0 and pc_reserve=0 drives denom to zero, the only way this
	// formula actually divides by zero.
	if _, err := ExpectedCoin(0, 0, 0); err == nil {
		t.Fatal("expected an error when the denominator is zero")
	}
}
