package kv

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestNewClient_InvalidURL(t *testing.T) {
	if _, err := NewClient(context.Background(), "http://localhost:6379"); err == nil {
		t.Error("expected error for non-redis scheme")
	}
}

func TestNewClient_Connects(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(context.Background(), "redis://"+mr.Addr()+"/0")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	if err := client.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, _ := mr.Get("k"); got != "v" {
		t.Errorf("expected v, got %q", got)
	}
}

func TestNewClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := NewClient(context.Background(), "redis://"+addr); err == nil {
		t.Error("expected ping error for a closed server")
	}
}
