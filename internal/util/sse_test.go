package util

import "testing"

func TestExtractSSEData(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{`data: {"a":1}`, `{"a":1}`, true},
		{`data:{"a":1}`, `{"a":1}`, true},
		{`{"a":1}`, `{"a":1}`, true},
		{`data: [DONE]`, "", false},
		{`event: message_start`, "", false},
		{`: keep-alive`, "", false},
		{``, "", false},
		{`data: plain text`, "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractSSEData(tt.line)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("ExtractSSEData(%q) = %q,%v want %q,%v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSplitSSETranscript(t *testing.T) {
	transcript := []byte("event: x\ndata: {\"a\":1}\n\ndata: {\"b\":2}\n\ndata: [DONE]\n")
	got := SplitSSETranscript(transcript)
	if len(got) != 2 || got[0] != `{"a":1}` || got[1] != `{"b":2}` {
		t.Fatalf("unexpected payloads: %v", got)
	}
}
