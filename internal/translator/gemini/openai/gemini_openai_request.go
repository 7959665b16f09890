// Package openai converts OpenAI chat-completions traffic to and from the
// Gemini generateContent format.
package openai

import (
	"encoding/json"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/modelrelay/modelrelay/internal/content"
	"github.com/modelrelay/modelrelay/internal/util"
)

// skipThoughtSignature is the sentinel the Gemini backend accepts in place
// of a real thought signature on replayed function-call parts.
const skipThoughtSignature = "skip_thought_signature_validator"

// defaultSafetySettings disables blocking across every harm category; the
// gateway leaves content policy to the callers on both sides.
const defaultSafetySettings = `[
{"category":"HARM_CATEGORY_HARASSMENT","threshold":"OFF"},
{"category":"HARM_CATEGORY_HATE_SPEECH","threshold":"OFF"},
{"category":"HARM_CATEGORY_SEXUALLY_EXPLICIT","threshold":"OFF"},
{"category":"HARM_CATEGORY_DANGEROUS_CONTENT","threshold":"OFF"},
{"category":"HARM_CATEGORY_CIVIC_INTEGRITY","threshold":"OFF"}]`

// ConvertOpenAIRequestToGemini translates an OpenAI chat-completions request
// body into a Gemini generateContent request body.
func ConvertOpenAIRequestToGemini(modelName string, inputRawJSON []byte, stream bool) []byte {
	root := gjson.ParseBytes(inputRawJSON)

	out := `{"model":"","contents":[],"generationConfig":{}}`
	out, _ = sjson.Set(out, "model", modelName)
	out, _ = sjson.SetRaw(out, "safetySettings", defaultSafetySettings)

	if v := root.Get("max_tokens"); v.Exists() {
		out, _ = sjson.Set(out, "generationConfig.maxOutputTokens", v.Int())
	}
	if v := root.Get("temperature"); v.Exists() {
		out, _ = sjson.Set(out, "generationConfig.temperature", v.Float())
	}
	if v := root.Get("top_p"); v.Exists() {
		out, _ = sjson.Set(out, "generationConfig.topP", v.Float())
	}
	if v := root.Get("top_k"); v.Exists() {
		out, _ = sjson.Set(out, "generationConfig.topK", v.Int())
	}

	messages := root.Get("messages").Array()

	// Tool results are looked up by call id while walking assistant turns.
	results := collectToolResults(messages)

	systemTexts, contents := buildContents(messages, results)
	if len(systemTexts) > 0 {
		instruction := map[string]any{"parts": textParts(systemTexts)}
		if data, err := json.Marshal(instruction); err == nil {
			out, _ = sjson.SetRaw(out, "systemInstruction", string(data))
		}
	}
	if data, err := json.Marshal(contents); err == nil {
		out, _ = sjson.SetRaw(out, "contents", string(data))
	}

	if tools := convertOpenAITools(root.Get("tools")); tools != "" {
		out, _ = sjson.SetRaw(out, "tools", tools)
	}

	return []byte(out)
}

func collectToolResults(messages []gjson.Result) map[string]any {
	results := make(map[string]any)
	for _, msg := range messages {
		if msg.Get("role").String() != "tool" {
			continue
		}
		id := msg.Get("tool_call_id").String()
		if id == "" {
			continue
		}
		results[id] = util.ParseJSONOrRaw(util.ExtractText(msg.Get("content")))
	}
	return results
}

// buildContents walks the conversation and produces Gemini content entries.
// A lone system message becomes a user entry instead of a systemInstruction.
func buildContents(messages []gjson.Result, results map[string]any) (systemTexts []string, contents []any) {
	loneSystem := len(messages) == 1 && messages[0].Get("role").String() == "system"

	normalized := make([]content.Message, 0, len(messages))
	for _, raw := range messages {
		normalized = append(normalized, content.NormalizeMessage(raw))
	}
	claimed := claimedCallIDs(normalized)

	for _, msg := range normalized {
		switch msg.Role {
		case content.RoleSystem:
			text := blocksText(msg.Blocks)
			if text == "" {
				continue
			}
			if loneSystem {
				contents = append(contents, map[string]any{
					"role":  "user",
					"parts": []any{map[string]any{"text": text}},
				})
			} else {
				systemTexts = append(systemTexts, text)
			}
		case content.RoleTool:
			// Results claimed by an assistant tool call are consumed via the
			// results map; the rest are emitted standalone in place.
			if parts := orphanResponseParts(msg.Blocks, claimed, results); len(parts) > 0 {
				contents = append(contents, map[string]any{"role": "user", "parts": parts})
			}
		case content.RoleAssistant:
			contents = append(contents, assistantEntries(msg, results)...)
		default:
			if parts := userParts(msg.Blocks); len(parts) > 0 {
				contents = append(contents, map[string]any{"role": "user", "parts": parts})
			}
		}
	}
	return systemTexts, contents
}

func claimedCallIDs(messages []content.Message) map[string]struct{} {
	claimed := make(map[string]struct{})
	for _, msg := range messages {
		if msg.Role != content.RoleAssistant {
			continue
		}
		for _, block := range msg.Blocks {
			if block.Kind == content.KindToolUse && block.ID != "" {
				claimed[block.ID] = struct{}{}
			}
		}
	}
	return claimed
}

// orphanResponseParts renders functionResponse parts for tool results whose
// call id no assistant turn claims. The tool name is recovered from the
// synthesized id when possible; it is lost otherwise.
func orphanResponseParts(blocks []content.Block, claimed map[string]struct{}, results map[string]any) []any {
	var parts []any
	for _, block := range blocks {
		if block.Kind != content.KindToolResult {
			continue
		}
		if _, ok := claimed[block.ToolUseID]; ok {
			continue
		}
		parts = append(parts, map[string]any{
			"functionResponse": map[string]any{
				"id":       block.ToolUseID,
				"name":     util.ToolNameFromCallID(block.ToolUseID),
				"response": lookupToolResult(results, block.ToolUseID),
			},
		})
	}
	return parts
}

// assistantEntries renders an assistant turn. Tool calls produce a model
// entry with signature-stamped functionCall parts followed by a user entry
// carrying the matching functionResponse parts.
func assistantEntries(msg content.Message, results map[string]any) []any {
	var parts []any
	var responseParts []any

	for _, block := range msg.Blocks {
		switch block.Kind {
		case content.KindText:
			parts = append(parts, map[string]any{"text": block.Text})
		case content.KindToolUse:
			args := block.Input
			if _, ok := args.(map[string]any); !ok {
				args = map[string]any{}
			}
			parts = append(parts, map[string]any{
				"functionCall": map[string]any{
					"id":   block.ID,
					"name": block.Name,
					"args": args,
				},
				"thoughtSignature": skipThoughtSignature,
			})
			responseParts = append(responseParts, map[string]any{
				"functionResponse": map[string]any{
					"id":       block.ID,
					"name":     block.Name,
					"response": lookupToolResult(results, block.ID),
				},
			})
		}
	}

	if len(parts) == 0 {
		return nil
	}
	entries := []any{map[string]any{"role": "model", "parts": parts}}
	if len(responseParts) > 0 {
		entries = append(entries, map[string]any{"role": "user", "parts": responseParts})
	}
	return entries
}

// lookupToolResult resolves a call id to its recorded result, defaulting to
// an empty object and wrapping non-object values so the response field is
// always a JSON object.
func lookupToolResult(results map[string]any, id string) any {
	v, ok := results[id]
	if !ok {
		return map[string]any{}
	}
	if obj, ok := v.(map[string]any); ok {
		return obj
	}
	return map[string]any{"result": v}
}

func userParts(blocks []content.Block) []any {
	var parts []any
	for _, block := range blocks {
		switch block.Kind {
		case content.KindText:
			parts = append(parts, map[string]any{"text": block.Text})
		case content.KindImage:
			parts = append(parts, map[string]any{
				"inlineData": map[string]any{
					"mimeType": block.MediaType,
					"data":     block.Data,
				},
			})
		}
	}
	return parts
}

func blocksText(blocks []content.Block) string {
	text := ""
	for _, block := range blocks {
		if block.Kind == content.KindText {
			text += block.Text
		}
	}
	return text
}

func textParts(texts []string) []any {
	parts := make([]any, 0, len(texts))
	for _, t := range texts {
		parts = append(parts, map[string]any{"text": t})
	}
	return parts
}

// convertOpenAITools maps OpenAI tool definitions to Gemini function
// declarations. Schemas pass through untouched; backends with stricter
// validators clean them afterwards.
func convertOpenAITools(tools gjson.Result) string {
	if !tools.IsArray() {
		return ""
	}
	var declarations []any
	for _, tool := range tools.Array() {
		fn := tool.Get("function")
		if !fn.Exists() {
			fn = tool
		}
		name := fn.Get("name").String()
		if name == "" {
			continue
		}
		declaration := map[string]any{
			"name":        name,
			"description": fn.Get("description").String(),
		}
		schema := fn.Get("parameters").Raw
		if schema == "" {
			schema = "{}"
		}
		declaration["parameters"] = util.ParseJSONOrRaw(schema)
		declarations = append(declarations, declaration)
	}
	if len(declarations) == 0 {
		return ""
	}
	data, _ := json.Marshal([]any{map[string]any{"functionDeclarations": declarations}})
	return string(data)
}
