package bredis

import (
	"context"
	"testing"
	"time"
)

func TestKeyPrefix(t *testing.T) {
	if got := (&Client{keyPrefix: "lo"}).key("result:abc"); got != "lo:result:abc" {
		t.Errorf("Expected lo:result:abc, got %s", got)
	}
	if got := (&Client{}).key("result:abc"); got != "result:abc" {
		t.Errorf("Expected unprefixed key, got %s", got)
	}
}

func TestNew_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	client, err := New(ctx, "127.0.0.1:1", "", 0, "")
	if err == nil {
		t.Fatal("Expected connection error")
	}
	if client != nil {
		t.Error("Expected nil client on error")
	}
}
