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

type toolCallState struct {
	OutputIndex int
	ID          string
	Name        string
	Args        strings.Builder
}

// claudeStreamState tracks one Claude->OpenAI exchange. Block indices on the
// OpenAI side are assigned sequentially and never reused; at most one of
// text/thinking is open at a time.
type claudeStreamState struct {
	MessageID string
	Model     string
	Created   int64

	TextOpen     bool
	ThinkingOpen bool

	// Provider content-block index -> output tool-call slot. The two index
	// spaces are independent; never derive one from the other.
	ToolCalls     map[int]*toolCallState
	NextToolIndex int

	StopReason    string
	FinishSent    bool
	ThinkingChars int

	PromptTokens     int64
	CompletionTokens int64
}

// ConvertClaudeResponseToOpenAI translates one Claude Messages stream event
// into zero or more OpenAI chat-completion chunks.
func ConvertClaudeResponseToOpenAI(ctx context.Context, modelName string, originalRequestRawJSON, requestRawJSON, rawJSON []byte, param *any) []string {
	if *param == nil {
		*param = &claudeStreamState{
			ToolCalls: make(map[int]*toolCallState),
			Created:   Clock.Now().Unix(),
			Model:     modelName,
		}
	}
	state := (*param).(*claudeStreamState)

	event := gjson.ParseBytes(rawJSON)
	switch event.Get("type").String() {
	case "message_start":
		return state.onMessageStart(event)
	case "content_block_start":
		return state.onBlockStart(event)
	case "content_block_delta":
		return state.onBlockDelta(event)
	case "content_block_stop":
		return state.onBlockStop()
	case "message_delta":
		return state.onMessageDelta(event)
	case "message_stop":
		return state.onMessageStop()
	}
	return nil
}

func (s *claudeStreamState) onMessageStart(event gjson.Result) []string {
	if id := event.Get("message.id").String(); id != "" {
		s.MessageID = id
	} else {
		s.MessageID = "chatcmpl-" + IDs.NewID()
	}
	if model := event.Get("message.model").String(); model != "" {
		s.Model = model
	}
	if usage := event.Get("message.usage.input_tokens"); usage.Exists() {
		s.PromptTokens = usage.Int()
	}
	s.NextToolIndex = 0

	chunk := s.newChunk()
	chunk, _ = sjson.SetRaw(chunk, "choices.0.delta", `{"role":"assistant","content":""}`)
	return []string{chunk}
}

func (s *claudeStreamState) onBlockStart(event gjson.Result) []string {
	block := event.Get("content_block")
	switch block.Get("type").String() {
	case "text":
		s.ThinkingOpen = false
		s.TextOpen = true
		return nil
	case "thinking":
		s.TextOpen = false
		s.ThinkingOpen = true
		return []string{s.contentChunk("<think>")}
	case "tool_use":
		index := int(event.Get("index").Int())
		call := &toolCallState{
			OutputIndex: s.NextToolIndex,
			ID:          block.Get("id").String(),
			Name:        block.Get("name").String(),
		}
		s.NextToolIndex++
		s.ToolCalls[index] = call

		chunk := s.newChunk()
		delta, _ := sjson.Set(`{"tool_calls":[{"index":0,"type":"function","function":{"name":"","arguments":""}}]}`, "tool_calls.0.index", call.OutputIndex)
		delta, _ = sjson.Set(delta, "tool_calls.0.id", call.ID)
		delta, _ = sjson.Set(delta, "tool_calls.0.function.name", call.Name)
		chunk, _ = sjson.SetRaw(chunk, "choices.0.delta", delta)
		return []string{chunk}
	}
	return nil
}

func (s *claudeStreamState) onBlockDelta(event gjson.Result) []string {
	delta := event.Get("delta")
	switch delta.Get("type").String() {
	case "text_delta":
		return []string{s.contentChunk(delta.Get("text").String())}
	case "thinking_delta":
		text := delta.Get("thinking").String()
		s.ThinkingChars += len(text)
		return []string{s.contentChunk(text)}
	case "input_json_delta":
		index := int(event.Get("index").Int())
		call, ok := s.ToolCalls[index]
		if !ok {
			return nil
		}
		fragment := delta.Get("partial_json").String()
		call.Args.WriteString(fragment)

		chunk := s.newChunk()
		d, _ := sjson.Set(`{"tool_calls":[{"index":0,"function":{"arguments":""}}]}`, "tool_calls.0.index", call.OutputIndex)
		d, _ = sjson.Set(d, "tool_calls.0.id", call.ID)
		d, _ = sjson.Set(d, "tool_calls.0.function.arguments", fragment)
		chunk, _ = sjson.SetRaw(chunk, "choices.0.delta", d)
		return []string{chunk}
	}
	return nil
}

func (s *claudeStreamState) onBlockStop() []string {
	if s.ThinkingOpen {
		s.ThinkingOpen = false
		return []string{s.contentChunk("</think>")}
	}
	s.TextOpen = false
	return nil
}

func (s *claudeStreamState) onMessageDelta(event gjson.Result) []string {
	if tokens := event.Get("usage.output_tokens"); tokens.Exists() {
		s.CompletionTokens = tokens.Int()
	}
	stopReason := event.Get("delta.stop_reason").String()
	if stopReason == "" {
		return nil
	}
	s.StopReason = stopReason
	return s.finishChunks(util.MapStopReasonToFinishReason(stopReason))
}

func (s *claudeStreamState) onMessageStop() []string {
	if s.FinishSent {
		return nil
	}
	finish := "stop"
	if s.StopReason != "" {
		finish = util.MapStopReasonToFinishReason(s.StopReason)
	} else if len(s.ToolCalls) > 0 {
		finish = "tool_calls"
	}
	return s.finishChunks(finish)
}

func (s *claudeStreamState) finishChunks(finishReason string) []string {
	if s.FinishSent {
		return nil
	}
	s.FinishSent = true

	chunk := s.newChunk()
	chunk, _ = sjson.SetRaw(chunk, "choices.0.delta", `{}`)
	chunk, _ = sjson.Set(chunk, "choices.0.finish_reason", finishReason)
	chunk, _ = sjson.SetRaw(chunk, "usage", s.usageJSON())
	return []string{chunk}
}

func (s *claudeStreamState) usageJSON() string {
	usage, _ := sjson.Set(`{}`, "prompt_tokens", s.PromptTokens)
	usage, _ = sjson.Set(usage, "completion_tokens", s.CompletionTokens)
	usage, _ = sjson.Set(usage, "total_tokens", s.PromptTokens+s.CompletionTokens)
	if s.ThinkingChars > 0 {
		// Rough chars-per-token estimate for the reasoning breakdown.
		usage, _ = sjson.Set(usage, "completion_tokens_details.reasoning_tokens", int64(s.ThinkingChars+2)/3)
	}
	return usage
}

func (s *claudeStreamState) newChunk() string {
	chunk := `{"id":"","object":"chat.completion.chunk","created":0,"model":"","choices":[{"index":0,"delta":{},"finish_reason":null}]}`
	chunk, _ = sjson.Set(chunk, "id", s.MessageID)
	chunk, _ = sjson.Set(chunk, "created", s.Created)
	chunk, _ = sjson.Set(chunk, "model", s.Model)
	return chunk
}

func (s *claudeStreamState) contentChunk(text string) string {
	chunk := s.newChunk()
	chunk, _ = sjson.Set(chunk, "choices.0.delta.content", text)
	return chunk
}

// ConvertClaudeResponseToOpenAINonStream translates a complete Claude
// Messages response body into one OpenAI chat-completion body.
func ConvertClaudeResponseToOpenAINonStream(ctx context.Context, modelName string, originalRequestRawJSON, requestRawJSON, rawJSON []byte, param *any) string {
	root := gjson.ParseBytes(rawJSON)

	out := `{"id":"","object":"chat.completion","created":0,"model":"","choices":[{"index":0,"message":{"role":"assistant","content":""},"finish_reason":"stop"}]}`
	out, _ = sjson.Set(out, "id", root.Get("id").String())
	out, _ = sjson.Set(out, "created", Clock.Now().Unix())
	out, _ = sjson.Set(out, "model", root.Get("model").String())

	var text, reasoning strings.Builder
	var toolCalls []any
	for _, block := range root.Get("content").Array() {
		switch block.Get("type").String() {
		case "text":
			text.WriteString(block.Get("text").String())
		case "thinking":
			reasoning.WriteString(block.Get("thinking").String())
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
		}
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
	out, _ = sjson.Set(out, "choices.0.finish_reason", util.MapStopReasonToFinishReason(root.Get("stop_reason").String()))

	usage, _ := sjson.Set(`{}`, "prompt_tokens", root.Get("usage.input_tokens").Int())
	usage, _ = sjson.Set(usage, "completion_tokens", root.Get("usage.output_tokens").Int())
	usage, _ = sjson.Set(usage, "total_tokens", root.Get("usage.input_tokens").Int()+root.Get("usage.output_tokens").Int())
	out, _ = sjson.SetRaw(out, "usage", usage)

	return out
}

// ConvertClaudeTokenCountToOpenAI shapes a token count the way an OpenAI
// caller expects from a usage probe.
func ConvertClaudeTokenCountToOpenAI(ctx context.Context, count int64) string {
	out, _ := sjson.Set(`{"object":"chat.completion.usage"}`, "prompt_tokens", count)
	out, _ = sjson.Set(out, "total_tokens", count)
	return out
}
