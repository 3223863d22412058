package cache

import (
	"context"
	"testing"
	"time"
)

func TestTTLCacheSetGet(t *testing.T) {
	c := NewTTLCache(0)
	defer c.Close()
	ctx := context.Background()

	c.SetBytes(ctx, "k", []byte("v"), time.Minute)
	got, ok := c.GetBytes(ctx, "k")
	if !ok {
		t.Fatal("expected hit")
	}
	if string(got) != "v" {
		t.Fatalf("got %q, want %q", got, "v")
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache(0)
	defer c.Close()
	ctx := context.Background()

	c.SetBytes(ctx, "k", []byte("v"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	if _, ok := c.GetBytes(ctx, "k"); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestTTLCacheZeroTTLIgnored(t *testing.T) {
	c := NewTTLCache(0)
	defer c.Close()
	ctx := context.Background()

	c.SetBytes(ctx, "k", []byte("v"), 0)
	if _, ok := c.GetBytes(ctx, "k"); ok {
		t.Fatal("zero ttl should not store")
	}
}

func TestTTLCacheDelete(t *testing.T) {
	c := NewTTLCache(0)
	defer c.Close()
	ctx := context.Background()

	c.SetBytes(ctx, "k", []byte("v"), time.Minute)
	c.Delete(ctx, "k")
	if _, ok := c.GetBytes(ctx, "k"); ok {
		t.Fatal("expected delete to remove entry")
	}
}
