package u256

import "testing"

func TestCheckedCeilDivTinyCases(t *testing.T) {
	// a/b == 0 and 2*a < b: (0, 0).
	q, r, err := FromUint64(1).CheckedCeilDiv(FromUint64(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Uint64() != 0 || r.Uint64() != 0 {
		t.Errorf("ceil_div(1,10) = (%d,%d), want (0,0)", q.Uint64(), r.Uint64())
	}

	q, r, err = FromUint64(4).CheckedCeilDiv(FromUint64(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Uint64() != 0 || r.Uint64() != 0 {
		t.Errorf("ceil_div(4,10) = (%d,%d), want (0,0)", q.Uint64(), r.Uint64())
	}

	// a/b == 0 and 2*a >= b: (1, 0).
	q, r, err = FromUint64(6).CheckedCeilDiv(FromUint64(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Uint64() != 1 || r.Uint64() != 0 {
		t.Errorf("ceil_div(6,10) = (%d,%d), want (1,0)", q.Uint64(), r.Uint64())
	}
}

func TestCheckedCeilDivExactDivision(t *testing.T) {
	q, r, err := FromUint64(100).CheckedCeilDiv(FromUint64(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Uint64() != 10 || r.Uint64() != 10 {
		t.Errorf("ceil_div(100,10) = (%d,%d), want (10,10)", q.Uint64(), r.Uint64())
	}
}

func TestCheckedCeilDivQuantifiedInvariant(t *testing.T) {
	cases := []struct{ a, b uint64 }{
		{1, 10}, {4, 10}, {100, 10}, {103, 10}, {7, 3}, {1, 1}, {0, 5},
	}
	for _, c := range cases {
		a, b := FromUint64(c.a), FromUint64(c.b)
		q, r, err := a.CheckedCeilDiv(b)
		if err != nil {
			t.Fatalf("a=%d b=%d: unexpected error: %v", c.a, c.b, err)
		}
		divisor := r
		if divisor.IsZero() && !q.IsZero() {
			divisor = b
		}
		if !q.IsZero() {
			lhs, err := q.CheckedMul(divisor)
			if err != nil {
				t.Fatalf("a=%d b=%d: %v", c.a, c.b, err)
			}
			if lhs.Cmp(a) < 0 {
				t.Errorf("a=%d b=%d: q*divisor = %s < a", c.a, c.b, lhs)
			}
			one := FromUint64(1)
			qMinusOne, err := q.CheckedSub(one)
			if err == nil {
				lhs2, err := qMinusOne.CheckedMul(b)
				if err != nil {
					t.Fatalf("a=%d b=%d: %v", c.a, c.b, err)
				}
				if lhs2.Cmp(a) >= 0 {
					t.Errorf("a=%d b=%d: (q-1)*b = %s >= a", c.a, c.b, lhs2)
				}
			}
		}
	}
}

func TestCheckedDivByZero(t *testing.T) {
	if _, err := FromUint64(5).CheckedDiv(Zero); err == nil {
		t.Fatal("expected OutOfRange dividing by zero")
	}
}

func TestCheckedSubUnderflow(t *testing.T) {
	if _, err := FromUint64(1).CheckedSub(FromUint64(2)); err == nil {
		t.Fatal("expected OutOfRange on underflow")
	}
}
