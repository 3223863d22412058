package ratelimit

import "testing"

func TestLimiterExhaustsCapacity(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("k", 3, 0) {
			t.Fatalf("call %d: expected token", i)
		}
	}
	if l.Allow("k", 3, 0) {
		t.Fatal("expected bucket exhausted")
	}
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0) {
		t.Fatal("expected token for a")
	}
	if l.Allow("a", 1, 0) {
		t.Fatal("a should be exhausted")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatal("expected token for b")
	}
}
