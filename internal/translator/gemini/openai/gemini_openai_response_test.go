package openai

import (
	"context"
	"testing"

	"github.com/tidwall/gjson"
)

func playGeminiStream(t *testing.T, events []string) []string {
	t.Helper()
	var param any
	var out []string
	for _, event := range events {
		out = append(out, ConvertGeminiResponseToOpenAI(context.Background(), "gemini-2.5-pro", nil, nil, []byte(event), &param)...)
	}
	return out
}

func TestConvertGeminiResponseToOpenAITextAndThought(t *testing.T) {
	chunks := playGeminiStream(t, []string{
		`{"responseId":"resp-1","modelVersion":"gemini-2.5-pro","candidates":[{"content":{"role":"model","parts":[{"text":"planning","thought":true}]}}]}`,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":"hello"}]}}]}`,
		`{"candidates":[{"content":{"role":"model","parts":[]},"finishReason":"STOP"}],"usageMetadata":{"promptTokenCount":10,"candidatesTokenCount":5,"thoughtsTokenCount":3,"totalTokenCount":18}}`,
	})

	if len(chunks) != 4 {
		t.Fatalf("expected role, thought, text, finish: %v", chunks)
	}
	if gjson.Get(chunks[0], "choices.0.delta.role").String() != "assistant" {
		t.Fatalf("role chunk: %s", chunks[0])
	}
	if gjson.Get(chunks[0], "id").String() != "resp-1" {
		t.Fatalf("id: %s", chunks[0])
	}
	if gjson.Get(chunks[1], "choices.0.delta.reasoning_content").String() != "planning" {
		t.Fatalf("thought routing: %s", chunks[1])
	}
	if gjson.Get(chunks[2], "choices.0.delta.content").String() != "hello" {
		t.Fatalf("text routing: %s", chunks[2])
	}

	final := chunks[3]
	if gjson.Get(final, "choices.0.finish_reason").String() != "stop" {
		t.Fatalf("finish: %s", final)
	}
	// Prompt tokens fold the thoughts count in; reasoning surfaces in the
	// completion breakdown.
	if gjson.Get(final, "usage.prompt_tokens").Int() != 13 ||
		gjson.Get(final, "usage.completion_tokens").Int() != 5 ||
		gjson.Get(final, "usage.total_tokens").Int() != 18 ||
		gjson.Get(final, "usage.completion_tokens_details.reasoning_tokens").Int() != 3 {
		t.Fatalf("usage: %s", final)
	}
}

func TestConvertGeminiResponseToOpenAIToolCalls(t *testing.T) {
	chunks := playGeminiStream(t, []string{
		`{"responseId":"resp-2","candidates":[{"content":{"role":"model","parts":[
			{"functionCall":{"name":"lookup","args":{"q":1}}},
			{"functionCall":{"name":"lookup","args":{"q":2}}}
		]},"finishReason":"STOP"}]}`,
	})

	if len(chunks) != 4 {
		t.Fatalf("expected role + 2 calls + finish: %v", chunks)
	}

	first := gjson.Get(chunks[1], "choices.0.delta.tool_calls.0")
	second := gjson.Get(chunks[2], "choices.0.delta.tool_calls.0")
	if first.Get("index").Int() != 0 || second.Get("index").Int() != 1 {
		t.Fatalf("output indices must be sequential: %s / %s", chunks[1], chunks[2])
	}
	if first.Get("function.name").String() != "lookup" ||
		gjson.Get(first.Get("function.arguments").String(), "q").Int() != 1 {
		t.Fatalf("arguments serialized whole: %s", first.Raw)
	}
	if first.Get("id").String() == "" {
		t.Fatalf("synthesized call id expected: %s", first.Raw)
	}

	// stop overrides to tool_calls when calls were emitted.
	if gjson.Get(chunks[3], "choices.0.finish_reason").String() != "tool_calls" {
		t.Fatalf("finish override: %s", chunks[3])
	}
}

func TestConvertGeminiResponseToOpenAIInlineImage(t *testing.T) {
	chunks := playGeminiStream(t, []string{
		`{"responseId":"resp-3","candidates":[{"content":{"role":"model","parts":[
			{"inlineData":{"mimeType":"image/png","data":"QUJD"}}
		]}}]}`,
	})

	image := gjson.Get(chunks[1], "choices.0.delta.images.0.image_url.url").String()
	if image != "data:image/png;base64,QUJD" {
		t.Fatalf("image delta: %s", chunks[1])
	}
}

func TestConvertGeminiResponseToOpenAINonStream(t *testing.T) {
	body := []byte(`{
		"responseId":"resp-9","modelVersion":"gemini-2.5-pro",
		"candidates":[{"content":{"role":"model","parts":[
			{"text":"thinking...","thought":true},
			{"text":"the answer"},
			{"functionCall":{"name":"lookup","args":{"q":3}}}
		]},"finishReason":"STOP"}],
		"usageMetadata":{"promptTokenCount":4,"candidatesTokenCount":6,"totalTokenCount":10}
	}`)

	var param any
	out := ConvertGeminiResponseToOpenAINonStream(context.Background(), "m", nil, nil, body, &param)

	if gjson.Get(out, "choices.0.message.content").String() != "the answer" {
		t.Fatalf("content: %s", out)
	}
	if gjson.Get(out, "choices.0.message.reasoning_content").String() != "thinking..." {
		t.Fatalf("reasoning: %s", out)
	}
	if gjson.Get(out, "choices.0.message.tool_calls.#").Int() != 1 {
		t.Fatalf("tool calls: %s", out)
	}
	if gjson.Get(out, "choices.0.finish_reason").String() != "tool_calls" {
		t.Fatalf("finish: %s", out)
	}
	if gjson.Get(out, "usage.total_tokens").Int() != 10 {
		t.Fatalf("usage: %s", out)
	}
}

func TestConvertGeminiTokenCountToOpenAI(t *testing.T) {
	out := ConvertGeminiTokenCountToOpenAI(context.Background(), 55)
	if gjson.Get(out, "prompt_tokens").Int() != 55 || gjson.Get(out, "total_tokens").Int() != 55 {
		t.Fatalf("count body: %s", out)
	}
}
