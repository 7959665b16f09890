package util

import (
	"testing"
	"time"
)

func TestToolNameFromCallID(t *testing.T) {
	clock := FixedClock{T: time.Unix(1700000000, 0)}
	id := NewToolCallID("lookup", clock, 0)
	if got := ToolNameFromCallID(id); got != "lookup" {
		t.Fatalf("round trip failed: id %q -> name %q", id, got)
	}

	// Hyphenated names survive the round trip here but are lossy in
	// general: a name ending in two numeric segments cannot be recovered.
	id = NewToolCallID("get-weather", clock, 3)
	if got := ToolNameFromCallID(id); got != "get-weather" {
		t.Fatalf("hyphenated name: id %q -> %q", id, got)
	}

	for _, bad := range []string{"call_abc123", "toolu-xyz", "short"} {
		if got := ToolNameFromCallID(bad); got != "" {
			t.Fatalf("%q should not parse, got %q", bad, got)
		}
	}
}

func TestFixedIDSource(t *testing.T) {
	src := &FixedIDSource{IDs: []string{"a", "b"}}
	if src.NewID() != "a" || src.NewID() != "b" || src.NewID() != "b" {
		t.Fatal("fixed sequence not honored")
	}
	empty := &FixedIDSource{}
	if empty.NewID() != "fixed-id" {
		t.Fatal("empty source should yield fixed-id")
	}
}

func TestCountTokens(t *testing.T) {
	if CountTokens("") != 0 {
		t.Fatal("empty text counts zero")
	}
	if CountTokens("hello world, how are you today?") <= 0 {
		t.Fatal("non-empty text should count positive")
	}
}

func TestCountRequestTokens(t *testing.T) {
	body := []byte(`{"system":"be terse","messages":[{"role":"user","content":"hello there"}]}`)
	if CountRequestTokens(body) <= 0 {
		t.Fatal("expected positive estimate")
	}
}
