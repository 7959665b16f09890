package translator

import "testing"

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    Format
	}{
		{
			name:    "openai messages",
			payload: `{"model":"gpt-4o","messages":[{"role":"user","content":"hi"}]}`,
			want:    FormatOpenAI,
		},
		{
			name:    "claude by model name",
			payload: `{"model":"claude-sonnet-4","messages":[{"role":"user","content":"hi"}],"max_tokens":1024}`,
			want:    FormatClaude,
		},
		{
			name:    "claude by anthropic_version",
			payload: `{"model":"m","anthropic_version":"2023-06-01","messages":[]}`,
			want:    FormatClaude,
		},
		{
			name:    "claude by typed blocks",
			payload: `{"model":"m","messages":[{"role":"user","content":[{"type":"tool_result","tool_use_id":"t1"}]}]}`,
			want:    FormatClaude,
		},
		{
			name:    "gemini",
			payload: `{"contents":[{"role":"user","parts":[{"text":"hi"}]}],"generationConfig":{}}`,
			want:    FormatGemini,
		},
		{
			name:    "gemini without generationConfig",
			payload: `{"contents":[{"role":"user","parts":[{"text":"hi"}]}]}`,
			want:    FormatGemini,
		},
		{
			name:    "gemini-cli envelope",
			payload: `{"model":"gemini-2.5-pro","request":{"contents":[{"role":"user","parts":[{"text":"hi"}]}]}}`,
			want:    FormatGeminiCLI,
		},
		{
			name:    "antigravity envelope",
			payload: `{"project":"p-1","model":"m","request":{"contents":[]}}`,
			want:    FormatAntigravity,
		},
		{
			name:    "empty",
			payload: ``,
			want:    "",
		},
		{
			name:    "not an object",
			payload: `[1,2,3]`,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat([]byte(tt.payload)); got != tt.want {
				t.Fatalf("DetectFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsKnownFormat(t *testing.T) {
	for _, f := range []Format{FormatOpenAI, FormatClaude, FormatGemini, FormatGeminiCLI, FormatAntigravity} {
		if !IsKnownFormat(f) {
			t.Fatalf("%s should be known", f)
		}
	}
	if IsKnownFormat(Format("codex")) {
		t.Fatal("codex should not be known")
	}
}
