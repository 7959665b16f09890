package openai

import (
	"testing"

	"github.com/tidwall/gjson"
)

func TestConvertOpenAIRequestToGeminiBasics(t *testing.T) {
	body := []byte(`{
		"model":"gemini-2.5-pro","max_tokens":2048,"temperature":0.7,"top_p":0.95,"top_k":40,
		"messages":[
			{"role":"system","content":"be helpful"},
			{"role":"user","content":"hi"}
		]
	}`)

	out := string(ConvertOpenAIRequestToGemini("gemini-2.5-pro", body, false))

	if gjson.Get(out, "model").String() != "gemini-2.5-pro" {
		t.Fatalf("model: %s", out)
	}
	cfg := gjson.Get(out, "generationConfig")
	if cfg.Get("maxOutputTokens").Int() != 2048 ||
		cfg.Get("temperature").Float() != 0.7 ||
		cfg.Get("topP").Float() != 0.95 ||
		cfg.Get("topK").Int() != 40 {
		t.Fatalf("generationConfig: %s", cfg.Raw)
	}
	if gjson.Get(out, "systemInstruction.parts.0.text").String() != "be helpful" {
		t.Fatalf("systemInstruction: %s", out)
	}
	if gjson.Get(out, "contents.#").Int() != 1 ||
		gjson.Get(out, "contents.0.parts.0.text").String() != "hi" {
		t.Fatalf("contents: %s", out)
	}

	settings := gjson.Get(out, "safetySettings").Array()
	if len(settings) != 5 {
		t.Fatalf("expected 5 safety settings: %s", out)
	}
	for _, s := range settings {
		if s.Get("threshold").String() != "OFF" {
			t.Fatalf("safety threshold: %s", s.Raw)
		}
	}
}

func TestConvertOpenAIRequestToGeminiLoneSystem(t *testing.T) {
	body := []byte(`{"model":"m","messages":[{"role":"system","content":"just this"}]}`)
	out := string(ConvertOpenAIRequestToGemini("m", body, false))

	if gjson.Get(out, "systemInstruction").Exists() {
		t.Fatalf("lone system should not become systemInstruction: %s", out)
	}
	if gjson.Get(out, "contents.0.role").String() != "user" ||
		gjson.Get(out, "contents.0.parts.0.text").String() != "just this" {
		t.Fatalf("lone system should become user content: %s", out)
	}
}

func TestConvertOpenAIRequestToGeminiToolFlow(t *testing.T) {
	body := []byte(`{"model":"m","messages":[
		{"role":"user","content":"look it up"},
		{"role":"assistant","tool_calls":[
			{"id":"call_1","type":"function","function":{"name":"lookup","arguments":"{\"q\":1}"}}
		]},
		{"role":"tool","tool_call_id":"call_1","content":"\"plain answer\""}
	]}`)

	out := string(ConvertOpenAIRequestToGemini("m", body, false))
	contents := gjson.Get(out, "contents").Array()
	if len(contents) != 3 {
		t.Fatalf("expected user, model, functionResponse entries: %s", out)
	}

	model := contents[1]
	if model.Get("role").String() != "model" {
		t.Fatalf("second entry role: %s", model.Raw)
	}
	call := model.Get("parts.0.functionCall")
	if call.Get("name").String() != "lookup" || call.Get("args.q").Int() != 1 {
		t.Fatalf("functionCall: %s", model.Raw)
	}
	if model.Get("parts.0.thoughtSignature").String() != skipThoughtSignature {
		t.Fatalf("functionCall part should carry the signature stamp: %s", model.Raw)
	}

	response := contents[2]
	if response.Get("role").String() != "user" {
		t.Fatalf("response entry role: %s", response.Raw)
	}
	fr := response.Get("parts.0.functionResponse")
	if fr.Get("name").String() != "lookup" {
		t.Fatalf("functionResponse: %s", response.Raw)
	}
	// Non-object results are wrapped.
	if fr.Get("response.result").String() != "plain answer" {
		t.Fatalf("non-object result should wrap: %s", response.Raw)
	}
}

func TestConvertOpenAIRequestToGeminiMissingResultDefaults(t *testing.T) {
	body := []byte(`{"model":"m","messages":[
		{"role":"assistant","tool_calls":[
			{"id":"call_x","type":"function","function":{"name":"f","arguments":"{}"}}
		]}
	]}`)

	out := string(ConvertOpenAIRequestToGemini("m", body, false))
	response := gjson.Get(out, "contents.1.parts.0.functionResponse.response")
	if !response.IsObject() || len(response.Map()) != 0 {
		t.Fatalf("missing result should default to empty object: %s", out)
	}
}

func TestConvertOpenAIRequestToGeminiOrphanToolResult(t *testing.T) {
	// No assistant turn claims the call id, so the result is emitted where it
	// appeared and the tool name is recovered from the synthesized id.
	body := []byte(`{"model":"m","messages":[
		{"role":"user","content":"resume"},
		{"role":"tool","tool_call_id":"lookup-1712000000-0","content":"{\"hit\":true}"},
		{"role":"tool","tool_call_id":"opaque_id","content":"\"x\""}
	]}`)

	out := string(ConvertOpenAIRequestToGemini("m", body, false))
	contents := gjson.Get(out, "contents").Array()
	if len(contents) != 3 {
		t.Fatalf("expected user plus two response entries: %s", out)
	}

	fr := contents[1].Get("parts.0.functionResponse")
	if fr.Get("id").String() != "lookup-1712000000-0" ||
		fr.Get("name").String() != "lookup" ||
		!fr.Get("response.hit").Bool() {
		t.Fatalf("orphan result should recover its name: %s", contents[1].Raw)
	}

	// Ids outside the synthesized pattern keep their result, name unknown.
	fr = contents[2].Get("parts.0.functionResponse")
	if fr.Get("id").String() != "opaque_id" || fr.Get("name").String() != "" {
		t.Fatalf("opaque id should pass through nameless: %s", contents[2].Raw)
	}
	if fr.Get("response.result").String() != "x" {
		t.Fatalf("orphan non-object result should wrap: %s", contents[2].Raw)
	}
}

func TestConvertOpenAIRequestToGeminiImages(t *testing.T) {
	body := []byte(`{"model":"m","messages":[
		{"role":"user","content":[
			{"type":"text","text":"what is this"},
			{"type":"image_url","image_url":{"url":"data:image/png;base64,QUJD"}}
		]}
	]}`)

	out := string(ConvertOpenAIRequestToGemini("m", body, false))
	inline := gjson.Get(out, "contents.0.parts.1.inlineData")
	if inline.Get("mimeType").String() != "image/png" || inline.Get("data").String() != "QUJD" {
		t.Fatalf("inlineData: %s", out)
	}
}

func TestConvertOpenAIToolsDropsNameless(t *testing.T) {
	tools := gjson.Parse(`[
		{"type":"function","function":{"name":"a","parameters":{"type":"object"}}},
		{"type":"function","function":{"description":"nameless"}}
	]`)
	out := convertOpenAITools(tools)
	if gjson.Get(out, "0.functionDeclarations.#").Int() != 1 {
		t.Fatalf("nameless tool should be dropped: %s", out)
	}
}
