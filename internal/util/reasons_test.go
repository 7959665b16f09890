package util

import "testing"

func TestReasonMapsAreInverses(t *testing.T) {
	pairs := map[string]string{
		"tool_use":   "tool_calls",
		"max_tokens": "length",
		"end_turn":   "stop",
	}
	for stop, finish := range pairs {
		if got := MapStopReasonToFinishReason(stop); got != finish {
			t.Fatalf("stop %q -> %q, want %q", stop, got, finish)
		}
		if got := MapFinishReasonToStopReason(finish); got != stop {
			t.Fatalf("finish %q -> %q, want %q", finish, got, stop)
		}
	}
}

func TestReasonMapDefaults(t *testing.T) {
	if got := MapStopReasonToFinishReason("pause_turn"); got != "stop" {
		t.Fatalf("unknown stop reason should map to stop, got %q", got)
	}
	if got := MapStopReasonToFinishReason("stop_sequence"); got != "stop" {
		t.Fatalf("stop_sequence should map to stop, got %q", got)
	}
	if got := MapFinishReasonToStopReason("content_filter"); got != "end_turn" {
		t.Fatalf("unknown finish reason should map to end_turn, got %q", got)
	}
}
