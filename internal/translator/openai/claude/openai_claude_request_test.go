package claude

import (
	"testing"

	"github.com/tidwall/gjson"
)

func TestConvertClaudeRequestToOpenAIBasics(t *testing.T) {
	body := []byte(`{
		"model":"claude-sonnet-4","max_tokens":1024,"temperature":0.5,
		"system":[{"type":"text","text":"be terse"}],
		"messages":[{"role":"user","content":"hi"}]
	}`)

	out := string(ConvertClaudeRequestToOpenAI("gpt-4o", body, true))

	if gjson.Get(out, "model").String() != "gpt-4o" || !gjson.Get(out, "stream").Bool() {
		t.Fatalf("header fields: %s", out)
	}
	if gjson.Get(out, "max_tokens").Int() != 1024 || gjson.Get(out, "temperature").Float() != 0.5 {
		t.Fatalf("params: %s", out)
	}
	msgs := gjson.Get(out, "messages").Array()
	if len(msgs) != 2 {
		t.Fatalf("expected system + user, got %s", out)
	}
	if msgs[0].Get("role").String() != "system" || msgs[0].Get("content").String() != "be terse" {
		t.Fatalf("system message: %s", msgs[0].Raw)
	}
	if msgs[1].Get("content").String() != "hi" {
		t.Fatalf("user message: %s", msgs[1].Raw)
	}
}

func TestConvertClaudeRequestToOpenAIToolRoundTrip(t *testing.T) {
	body := []byte(`{
		"model":"m","max_tokens":1,
		"messages":[
			{"role":"assistant","content":[
				{"type":"text","text":"calling"},
				{"type":"tool_use","id":"t1","name":"lookup","input":{"q":1}}
			]},
			{"role":"user","content":[
				{"type":"tool_result","tool_use_id":"t1","content":"found it"}
			]}
		],
		"tools":[{"name":"lookup","description":"d","input_schema":{"type":"object"}}],
		"tool_choice":{"type":"any"}
	}`)

	out := string(ConvertClaudeRequestToOpenAI("m", body, false))
	msgs := gjson.Get(out, "messages").Array()
	if len(msgs) != 2 {
		t.Fatalf("expected assistant + tool, got %s", out)
	}

	assistant := msgs[0]
	if assistant.Get("content").String() != "calling" {
		t.Fatalf("assistant content: %s", assistant.Raw)
	}
	call := assistant.Get("tool_calls.0")
	if call.Get("id").String() != "t1" ||
		call.Get("function.name").String() != "lookup" ||
		gjson.Get(call.Get("function.arguments").String(), "q").Int() != 1 {
		t.Fatalf("tool call: %s", assistant.Raw)
	}

	toolMsg := msgs[1]
	if toolMsg.Get("role").String() != "tool" ||
		toolMsg.Get("tool_call_id").String() != "t1" ||
		toolMsg.Get("content").String() != "found it" {
		t.Fatalf("tool message: %s", toolMsg.Raw)
	}

	if gjson.Get(out, "tools.0.function.name").String() != "lookup" ||
		gjson.Get(out, "tools.0.function.parameters.type").String() != "object" {
		t.Fatalf("tools: %s", out)
	}
	if gjson.Get(out, "tool_choice").String() != "required" {
		t.Fatalf("tool_choice: %s", out)
	}
}

func TestConvertClaudeRequestToOpenAIImages(t *testing.T) {
	body := []byte(`{"model":"m","messages":[
		{"role":"user","content":[
			{"type":"text","text":"what is this"},
			{"type":"image","source":{"type":"base64","media_type":"image/png","data":"AAAA"}}
		]}
	]}`)

	out := string(ConvertClaudeRequestToOpenAI("m", body, false))
	parts := gjson.Get(out, "messages.0.content").Array()
	if len(parts) != 2 {
		t.Fatalf("mixed content should stay an array: %s", out)
	}
	if parts[1].Get("image_url.url").String() != "data:image/png;base64,AAAA" {
		t.Fatalf("image part: %s", parts[1].Raw)
	}
}

func TestEffortFromBudget(t *testing.T) {
	tests := []struct {
		budget int64
		want   string
	}{
		{512, "low"}, {1024, "low"}, {4096, "medium"}, {8192, "medium"}, {32768, "high"},
	}
	for _, tt := range tests {
		if got := effortFromBudget(tt.budget); got != tt.want {
			t.Fatalf("effortFromBudget(%d) = %q, want %q", tt.budget, got, tt.want)
		}
	}
}

func TestConvertClaudeToolChoiceFunction(t *testing.T) {
	out := convertClaudeToolChoice(gjson.Parse(`{"type":"tool","name":"lookup"}`))
	if gjson.Get(out, "function.name").String() != "lookup" {
		t.Fatalf("tool choice: %s", out)
	}
}
