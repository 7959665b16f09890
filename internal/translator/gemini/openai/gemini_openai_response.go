package openai

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/modelrelay/modelrelay/internal/util"
)

// Clock and IDs are package-level so tests can pin timestamps and ids.
var (
	Clock util.Clock    = util.WallClock
	IDs   util.IDSource = util.RandomIDs
)

// geminiStreamState tracks one Gemini->OpenAI exchange. Gemini emits whole
// function-call arguments per part, so there are no per-call argument
// buffers; only the sequential output index assignment is stateful.
type geminiStreamState struct {
	MessageID string
	Model     string
	Created   int64
	Started   bool

	NextToolIndex int
	SawToolCall   bool
	FinishSent    bool

	PromptTokens     int64
	CompletionTokens int64
	ReasoningTokens  int64
	TotalTokens      int64
}

// ConvertGeminiResponseToOpenAI translates one Gemini streamGenerateContent
// event into zero or more OpenAI chat-completion chunks.
func ConvertGeminiResponseToOpenAI(ctx context.Context, modelName string, originalRequestRawJSON, requestRawJSON, rawJSON []byte, param *any) []string {
	if *param == nil {
		*param = &geminiStreamState{
			Created: Clock.Now().Unix(),
			Model:   modelName,
		}
	}
	state := (*param).(*geminiStreamState)

	root := gjson.ParseBytes(rawJSON)
	var chunks []string

	if !state.Started {
		state.Started = true
		if id := root.Get("responseId").String(); id != "" {
			state.MessageID = id
		} else {
			state.MessageID = "chatcmpl-" + IDs.NewID()
		}
		if model := root.Get("modelVersion").String(); model != "" {
			state.Model = model
		}
		chunk := state.newChunk()
		chunk, _ = sjson.SetRaw(chunk, "choices.0.delta", `{"role":"assistant","content":""}`)
		chunks = append(chunks, chunk)
	}

	if usage := root.Get("usageMetadata"); usage.Exists() {
		state.accumulateUsage(usage)
	}

	candidate := root.Get("candidates.0")
	for _, part := range candidate.Get("content.parts").Array() {
		if chunk, ok := state.convertPart(part); ok {
			chunks = append(chunks, chunk)
		}
	}

	if finish := candidate.Get("finishReason").String(); finish != "" && !state.FinishSent {
		chunks = append(chunks, state.finishChunk(finish))
	}

	return chunks
}

func (s *geminiStreamState) convertPart(part gjson.Result) (string, bool) {
	if call := part.Get("functionCall"); call.Exists() {
		return s.toolCallChunk(call), true
	}
	if inline := part.Get("inlineData"); inline.Exists() {
		return s.imageChunk(inline), true
	}
	text := part.Get("text").String()
	if text == "" {
		return "", false
	}
	chunk := s.newChunk()
	if part.Get("thought").Bool() {
		chunk, _ = sjson.Set(chunk, "choices.0.delta.reasoning_content", text)
	} else {
		chunk, _ = sjson.Set(chunk, "choices.0.delta.content", text)
	}
	return chunk, true
}

// toolCallChunk emits a complete tool-call delta: Gemini never fragments
// function-call arguments across events.
func (s *geminiStreamState) toolCallChunk(call gjson.Result) string {
	index := s.NextToolIndex
	s.NextToolIndex++
	s.SawToolCall = true

	id := call.Get("id").String()
	if id == "" {
		id = util.NewToolCallID(call.Get("name").String(), Clock, index)
	}

	arguments := call.Get("args").Raw
	if arguments == "" {
		arguments = "{}"
	}

	chunk := s.newChunk()
	delta, _ := sjson.Set(`{"tool_calls":[{"index":0,"type":"function","function":{"name":"","arguments":""}}]}`, "tool_calls.0.index", index)
	delta, _ = sjson.Set(delta, "tool_calls.0.id", id)
	delta, _ = sjson.Set(delta, "tool_calls.0.function.name", call.Get("name").String())
	delta, _ = sjson.Set(delta, "tool_calls.0.function.arguments", arguments)
	chunk, _ = sjson.SetRaw(chunk, "choices.0.delta", delta)
	return chunk
}

func (s *geminiStreamState) imageChunk(inline gjson.Result) string {
	uri := "data:" + inline.Get("mimeType").String() + ";base64," + inline.Get("data").String()
	chunk := s.newChunk()
	image, _ := sjson.Set(`{"images":[{"type":"image_url","image_url":{"url":""}}]}`, "images.0.image_url.url", uri)
	chunk, _ = sjson.SetRaw(chunk, "choices.0.delta", image)
	return chunk
}

func (s *geminiStreamState) accumulateUsage(usage gjson.Result) {
	prompt := usage.Get("promptTokenCount").Int()
	thoughts := usage.Get("thoughtsTokenCount").Int()
	s.PromptTokens = prompt + thoughts
	s.CompletionTokens = usage.Get("candidatesTokenCount").Int()
	s.ReasoningTokens = thoughts
	s.TotalTokens = usage.Get("totalTokenCount").Int()
}

func (s *geminiStreamState) finishChunk(finishReason string) string {
	s.FinishSent = true

	finish := strings.ToLower(finishReason)
	switch finish {
	case "max_tokens":
		finish = "length"
	case "stop":
		if s.SawToolCall {
			finish = "tool_calls"
		}
	}

	chunk := s.newChunk()
	chunk, _ = sjson.SetRaw(chunk, "choices.0.delta", `{}`)
	chunk, _ = sjson.Set(chunk, "choices.0.finish_reason", finish)
	chunk, _ = sjson.SetRaw(chunk, "usage", s.usageJSON())
	return chunk
}

func (s *geminiStreamState) usageJSON() string {
	usage, _ := sjson.Set(`{}`, "prompt_tokens", s.PromptTokens)
	usage, _ = sjson.Set(usage, "completion_tokens", s.CompletionTokens)
	total := s.TotalTokens
	if total == 0 {
		total = s.PromptTokens + s.CompletionTokens
	}
	usage, _ = sjson.Set(usage, "total_tokens", total)
	if s.ReasoningTokens > 0 {
		usage, _ = sjson.Set(usage, "completion_tokens_details.reasoning_tokens", s.ReasoningTokens)
	}
	return usage
}

func (s *geminiStreamState) newChunk() string {
	chunk := `{"id":"","object":"chat.completion.chunk","created":0,"model":"","choices":[{"index":0,"delta":{},"finish_reason":null}]}`
	chunk, _ = sjson.Set(chunk, "id", s.MessageID)
	chunk, _ = sjson.Set(chunk, "created", s.Created)
	chunk, _ = sjson.Set(chunk, "model", s.Model)
	return chunk
}

// ConvertGeminiResponseToOpenAINonStream translates a complete Gemini
// generateContent response body into one OpenAI chat-completion body.
func ConvertGeminiResponseToOpenAINonStream(ctx context.Context, modelName string, originalRequestRawJSON, requestRawJSON, rawJSON []byte, param *any) string {
	root := gjson.ParseBytes(rawJSON)

	out := `{"id":"","object":"chat.completion","created":0,"model":"","choices":[{"index":0,"message":{"role":"assistant","content":""},"finish_reason":"stop"}]}`
	id := root.Get("responseId").String()
	if id == "" {
		id = "chatcmpl-" + IDs.NewID()
	}
	out, _ = sjson.Set(out, "id", id)
	out, _ = sjson.Set(out, "created", Clock.Now().Unix())
	model := root.Get("modelVersion").String()
	if model == "" {
		model = modelName
	}
	out, _ = sjson.Set(out, "model", model)

	var text, reasoning strings.Builder
	var toolCalls []any
	for _, part := range root.Get("candidates.0.content.parts").Array() {
		if call := part.Get("functionCall"); call.Exists() {
			id := call.Get("id").String()
			if id == "" {
				id = util.NewToolCallID(call.Get("name").String(), Clock, len(toolCalls))
			}
			arguments := call.Get("args").Raw
			if arguments == "" {
				arguments = "{}"
			}
			toolCalls = append(toolCalls, map[string]any{
				"id":   id,
				"type": "function",
				"function": map[string]any{
					"name":      call.Get("name").String(),
					"arguments": arguments,
				},
			})
			continue
		}
		if part.Get("thought").Bool() {
			reasoning.WriteString(part.Get("text").String())
			continue
		}
		text.WriteString(part.Get("text").String())
	}

	out, _ = sjson.Set(out, "choices.0.message.content", text.String())
	if reasoning.Len() > 0 {
		out, _ = sjson.Set(out, "choices.0.message.reasoning_content", reasoning.String())
	}
	if len(toolCalls) > 0 {
		if data, err := json.Marshal(toolCalls); err == nil {
			out, _ = sjson.SetRaw(out, "choices.0.message.tool_calls", string(data))
		}
	}

	finish := strings.ToLower(root.Get("candidates.0.finishReason").String())
	if finish == "" || (finish == "stop" && len(toolCalls) > 0) {
		if len(toolCalls) > 0 {
			finish = "tool_calls"
		} else {
			finish = "stop"
		}
	}
	if finish == "max_tokens" {
		finish = "length"
	}
	out, _ = sjson.Set(out, "choices.0.finish_reason", finish)

	if usage := root.Get("usageMetadata"); usage.Exists() {
		state := &geminiStreamState{}
		state.accumulateUsage(usage)
		out, _ = sjson.SetRaw(out, "usage", state.usageJSON())
	}
	return out
}

// ConvertGeminiTokenCountToOpenAI shapes a Gemini countTokens result the way
// an OpenAI caller expects.
func ConvertGeminiTokenCountToOpenAI(ctx context.Context, count int64) string {
	out, _ := sjson.Set(`{"object":"chat.completion.usage"}`, "prompt_tokens", count)
	out, _ = sjson.Set(out, "total_tokens", count)
	return out
}
