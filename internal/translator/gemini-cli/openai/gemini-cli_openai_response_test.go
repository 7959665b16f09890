package openai

import (
	"context"
	"testing"

	"github.com/tidwall/gjson"
)

func TestConvertGeminiCLIResponseToOpenAIUnwrapsEnvelope(t *testing.T) {
	var param any
	event := `{"response":{"responseId":"resp-1","modelVersion":"gemini-2.5-pro","candidates":[{"content":{"parts":[{"text":"hello"}]},"finishReason":"STOP"}]}}`

	chunks := ConvertGeminiCLIResponseToOpenAI(context.Background(), "gemini-2.5-pro", nil, nil, []byte(event), &param)
	if len(chunks) != 3 {
		t.Fatalf("chunks = %d, want 3 (role, text, finish)", len(chunks))
	}
	if got := gjson.Get(chunks[0], "id").String(); got != "resp-1" {
		t.Fatalf("id = %q, want responseId from the wrapped payload", got)
	}
	if got := gjson.Get(chunks[1], "choices.0.delta.content").String(); got != "hello" {
		t.Fatalf("content = %q", got)
	}
	if got := gjson.Get(chunks[2], "choices.0.finish_reason").String(); got != "stop" {
		t.Fatalf("finish_reason = %q", got)
	}
}

func TestConvertGeminiCLIResponseToOpenAIBareEventPassesThrough(t *testing.T) {
	var param any
	event := `{"candidates":[{"content":{"parts":[{"text":"raw"}]}}]}`

	chunks := ConvertGeminiCLIResponseToOpenAI(context.Background(), "gemini-2.5-pro", nil, nil, []byte(event), &param)
	if len(chunks) != 2 {
		t.Fatalf("chunks = %d, want 2", len(chunks))
	}
	if got := gjson.Get(chunks[1], "choices.0.delta.content").String(); got != "raw" {
		t.Fatalf("content = %q", got)
	}
}

func TestConvertGeminiCLIResponseToOpenAINonStream(t *testing.T) {
	var param any
	body := `{"response":{"responseId":"resp-2","candidates":[{"content":{"parts":[{"text":"done"}]},"finishReason":"STOP"}],"usageMetadata":{"promptTokenCount":4,"candidatesTokenCount":2,"totalTokenCount":6}}}`

	out := ConvertGeminiCLIResponseToOpenAINonStream(context.Background(), "gemini-2.5-pro", nil, nil, []byte(body), &param)
	if got := gjson.Get(out, "choices.0.message.content").String(); got != "done" {
		t.Fatalf("content = %q", got)
	}
	if got := gjson.Get(out, "usage.total_tokens").Int(); got != 6 {
		t.Fatalf("total_tokens = %d", got)
	}
}
