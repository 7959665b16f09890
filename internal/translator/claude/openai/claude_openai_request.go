// Package openai converts OpenAI chat-completions traffic to and from the
// Claude Messages format. Requests are reprojected through the canonical
// content model; streamed responses are rewritten event by event.
package openai

import (
	"encoding/json"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/modelrelay/modelrelay/internal/content"
	"github.com/modelrelay/modelrelay/internal/util"
)

// systemPreamble is injected as the first system block on every translated
// request. Claude Code OAuth credentials reject requests without it.
const systemPreamble = "You are Claude Code, Anthropic's official CLI for Claude."

const defaultMaxTokens = 32000

// ConvertOpenAIRequestToClaude translates an OpenAI chat-completions request
// body into a Claude Messages request body.
func ConvertOpenAIRequestToClaude(modelName string, inputRawJSON []byte, stream bool) []byte {
	root := gjson.ParseBytes(inputRawJSON)

	out := `{"model":"","max_tokens":32000,"stream":false,"messages":[]}`
	out, _ = sjson.Set(out, "model", modelName)
	out, _ = sjson.Set(out, "stream", stream)
	out, _ = sjson.Set(out, "max_tokens", maxTokensBudget(root))

	if temperature := root.Get("temperature"); temperature.Exists() {
		out, _ = sjson.Set(out, "temperature", temperature.Float())
	}
	if topP := root.Get("top_p"); topP.Exists() {
		out, _ = sjson.Set(out, "top_p", topP.Float())
	}
	if thinking := root.Get("thinking"); thinking.IsObject() {
		out, _ = sjson.SetRaw(out, "thinking", thinking.Raw)
	}

	var normalized []content.Message
	for _, msg := range root.Get("messages").Array() {
		normalized = append(normalized, content.NormalizeMessage(msg))
	}
	systemText, merged := content.Merge(normalized)

	out, _ = sjson.SetRaw(out, "system", renderSystem(systemText))

	messages := make([]any, 0, len(merged))
	for _, msg := range merged {
		messages = append(messages, renderClaudeMessage(msg))
	}
	if data, err := json.Marshal(messages); err == nil {
		out, _ = sjson.SetRaw(out, "messages", string(data))
	}

	if tools := renderClaudeTools(root.Get("tools")); tools != "" {
		out, _ = sjson.SetRaw(out, "tools", tools)
	}
	if choice := renderClaudeToolChoice(root.Get("tool_choice")); choice != "" {
		out, _ = sjson.SetRaw(out, "tool_choice", choice)
	}

	return util.RepairToolResultPlacement([]byte(out))
}

// maxTokensBudget picks the output token budget: the caller's explicit limit
// when present, otherwise a generous default the provider will cap itself.
func maxTokensBudget(root gjson.Result) int64 {
	if v := root.Get("max_completion_tokens"); v.Exists() && v.Int() > 0 {
		return v.Int()
	}
	if v := root.Get("max_tokens"); v.Exists() && v.Int() > 0 {
		return v.Int()
	}
	return defaultMaxTokens
}

func renderSystem(systemText string) string {
	blocks := []any{
		map[string]any{"type": "text", "text": systemPreamble},
	}
	if systemText != "" {
		blocks = append(blocks, map[string]any{
			"type": "text",
			"text": systemText,
			"cache_control": map[string]any{
				"type": "ephemeral",
				"ttl":  "1h",
			},
		})
	}
	data, _ := json.Marshal(blocks)
	return string(data)
}

func renderClaudeMessage(msg content.Message) map[string]any {
	blocks := make([]any, 0, len(msg.Blocks))
	for _, block := range msg.Blocks {
		if rendered := renderClaudeBlock(block); rendered != nil {
			blocks = append(blocks, rendered)
		}
	}
	return map[string]any{
		"role":    string(msg.Role),
		"content": blocks,
	}
}

func renderClaudeBlock(block content.Block) map[string]any {
	var out map[string]any
	switch block.Kind {
	case content.KindText:
		out = map[string]any{"type": "text", "text": block.Text}
	case content.KindImage:
		out = map[string]any{
			"type": "image",
			"source": map[string]any{
				"type":       "base64",
				"media_type": block.MediaType,
				"data":       block.Data,
			},
		}
	case content.KindToolUse:
		input := block.Input
		if input == nil {
			input = map[string]any{}
		}
		out = map[string]any{
			"type":  "tool_use",
			"id":    block.ID,
			"name":  block.Name,
			"input": input,
		}
	case content.KindToolResult:
		out = map[string]any{
			"type":        "tool_result",
			"tool_use_id": block.ToolUseID,
			"content":     renderToolResultContent(block.Content),
		}
		if block.IsError {
			out["is_error"] = true
		}
	default:
		return nil
	}
	if block.CacheEligible {
		out["cache_control"] = map[string]any{"type": "ephemeral"}
	}
	return out
}

// renderToolResultContent keeps strings as-is; everything else is
// re-serialized to a string as the Messages API expects textual results.
func renderToolResultContent(v any) any {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	default:
		data, err := json.Marshal(c)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

func renderClaudeTools(tools gjson.Result) string {
	if !tools.IsArray() {
		return ""
	}
	var out []any
	for _, tool := range tools.Array() {
		fn := tool.Get("function")
		if !fn.Exists() {
			fn = tool
		}
		name := fn.Get("name").String()
		if name == "" {
			continue
		}
		entry := map[string]any{
			"name":         name,
			"description":  fn.Get("description").String(),
			"input_schema": util.ParseJSONOrRaw(fn.Get("parameters").Raw),
		}
		out = append(out, entry)
	}
	if len(out) == 0 {
		return ""
	}
	// Cache boundary on the trailing tool definition.
	out[len(out)-1].(map[string]any)["cache_control"] = map[string]any{"type": "ephemeral"}
	data, _ := json.Marshal(out)
	return string(data)
}

func renderClaudeToolChoice(choice gjson.Result) string {
	if !choice.Exists() {
		return ""
	}
	if choice.Type == gjson.String {
		switch choice.String() {
		case "auto", "none":
			return `{"type":"auto"}`
		case "required":
			return `{"type":"any"}`
		}
		return ""
	}
	if choice.IsObject() {
		// Already-native objects pass through untouched.
		if choice.Get("type").String() != "" && !choice.Get("function").Exists() {
			return choice.Raw
		}
		if name := choice.Get("function.name").String(); name != "" {
			out, _ := sjson.Set(`{"type":"tool"}`, "name", name)
			return out
		}
	}
	return ""
}
