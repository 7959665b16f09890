// Package claude converts Claude Messages traffic to and from the OpenAI
// chat-completions format.
package claude

import (
	"encoding/json"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/modelrelay/modelrelay/internal/util"
)

// ConvertClaudeRequestToOpenAI translates a Claude Messages request body
// into an OpenAI chat-completions request body.
func ConvertClaudeRequestToOpenAI(modelName string, inputRawJSON []byte, stream bool) []byte {
	root := gjson.ParseBytes(inputRawJSON)

	out := `{"model":"","messages":[],"stream":false}`
	out, _ = sjson.Set(out, "model", modelName)
	out, _ = sjson.Set(out, "stream", stream)

	if v := root.Get("max_tokens"); v.Exists() {
		out, _ = sjson.Set(out, "max_tokens", v.Int())
	}
	if v := root.Get("temperature"); v.Exists() {
		out, _ = sjson.Set(out, "temperature", v.Float())
	}
	if v := root.Get("top_p"); v.Exists() {
		out, _ = sjson.Set(out, "top_p", v.Float())
	}
	if budget := root.Get("thinking.budget_tokens"); budget.Exists() {
		out, _ = sjson.Set(out, "reasoning_effort", effortFromBudget(budget.Int()))
	}

	var messages []any
	if system := root.Get("system"); system.Exists() {
		if text := util.ExtractText(system); text != "" {
			messages = append(messages, map[string]any{"role": "system", "content": text})
		}
	}
	for _, msg := range root.Get("messages").Array() {
		messages = append(messages, convertClaudeMessage(msg)...)
	}
	if data, err := json.Marshal(messages); err == nil {
		out, _ = sjson.SetRaw(out, "messages", string(data))
	}

	if tools := convertClaudeTools(root.Get("tools")); tools != "" {
		out, _ = sjson.SetRaw(out, "tools", tools)
	}
	if choice := convertClaudeToolChoice(root.Get("tool_choice")); choice != "" {
		out, _ = sjson.SetRaw(out, "tool_choice", choice)
	}

	return []byte(out)
}

// effortFromBudget buckets an explicit thinking budget into the OpenAI
// effort keywords, mirroring the budgets used in the opposite direction.
func effortFromBudget(budget int64) string {
	switch {
	case budget <= 1024:
		return "low"
	case budget <= 8192:
		return "medium"
	default:
		return "high"
	}
}

// convertClaudeMessage may yield several OpenAI messages: tool results
// become standalone role:tool messages.
func convertClaudeMessage(msg gjson.Result) []any {
	role := msg.Get("role").String()
	content := msg.Get("content")

	if content.Type == gjson.String {
		if content.String() == "" {
			return nil
		}
		return []any{map[string]any{"role": role, "content": content.String()}}
	}

	var out []any
	var parts []any
	var toolCalls []any
	textOnly := true

	for _, block := range content.Array() {
		switch block.Get("type").String() {
		case "text":
			parts = append(parts, map[string]any{"type": "text", "text": block.Get("text").String()})
		case "image":
			source := block.Get("source")
			if source.Get("type").String() != "base64" {
				continue
			}
			uri := "data:" + source.Get("media_type").String() + ";base64," + source.Get("data").String()
			parts = append(parts, map[string]any{"type": "image_url", "image_url": map[string]any{"url": uri}})
			textOnly = false
		case "tool_use":
			arguments := block.Get("input").Raw
			if arguments == "" {
				arguments = "{}"
			}
			toolCalls = append(toolCalls, map[string]any{
				"id":   block.Get("id").String(),
				"type": "function",
				"function": map[string]any{
					"name":      block.Get("name").String(),
					"arguments": arguments,
				},
			})
		case "tool_result":
			out = append(out, map[string]any{
				"role":         "tool",
				"tool_call_id": block.Get("tool_use_id").String(),
				"content":      util.ExtractText(block.Get("content")),
			})
		}
	}

	if len(parts) > 0 || len(toolCalls) > 0 {
		converted := map[string]any{"role": role}
		if textOnly {
			text := ""
			for _, p := range parts {
				text += p.(map[string]any)["text"].(string)
			}
			converted["content"] = text
		} else {
			converted["content"] = parts
		}
		if len(toolCalls) > 0 {
			converted["tool_calls"] = toolCalls
		}
		out = append(out, converted)
	}
	return out
}

func convertClaudeTools(tools gjson.Result) string {
	if !tools.IsArray() {
		return ""
	}
	var out []any
	for _, tool := range tools.Array() {
		name := tool.Get("name").String()
		if name == "" {
			continue
		}
		out = append(out, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        name,
				"description": tool.Get("description").String(),
				"parameters":  util.ParseJSONOrRaw(tool.Get("input_schema").Raw),
			},
		})
	}
	if len(out) == 0 {
		return ""
	}
	data, _ := json.Marshal(out)
	return string(data)
}

func convertClaudeToolChoice(choice gjson.Result) string {
	if !choice.IsObject() {
		return ""
	}
	switch choice.Get("type").String() {
	case "auto":
		return `"auto"`
	case "any":
		return `"required"`
	case "tool":
		if name := choice.Get("name").String(); name != "" {
			out, _ := sjson.Set(`{"type":"function","function":{"name":""}}`, "function.name", name)
			return out
		}
	}
	return ""
}
