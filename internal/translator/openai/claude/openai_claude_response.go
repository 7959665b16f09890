package claude

import (
	"context"
	"encoding/json"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/modelrelay/modelrelay/internal/util"
)

// IDs can be pinned by tests.
var IDs util.IDSource = util.RandomIDs

const (
	blockNone = iota
	blockText
	blockThinking
)

type toolBlock struct {
	BlockIndex int
	ID         string
}

// openaiStreamState tracks one OpenAI->Claude exchange. Claude block indices
// are assigned sequentially; text and thinking are mutually exclusive and a
// switch between them emits an explicit content_block_stop first.
type openaiStreamState struct {
	MessageID string
	Model     string
	Started   bool

	OpenKind       int
	OpenBlockIndex int
	NextBlockIndex int

	// OpenAI tool-call slot -> Claude block.
	ToolBlocks map[int]*toolBlock

	FinishSent       bool
	CompletionTokens int64
}

// ConvertOpenAIResponseToClaude translates one OpenAI chat-completion chunk
// into zero or more Claude Messages stream events.
func ConvertOpenAIResponseToClaude(ctx context.Context, modelName string, originalRequestRawJSON, requestRawJSON, rawJSON []byte, param *any) []string {
	if *param == nil {
		*param = &openaiStreamState{
			OpenKind:   blockNone,
			ToolBlocks: make(map[int]*toolBlock),
			Model:      modelName,
		}
	}
	state := (*param).(*openaiStreamState)

	chunk := gjson.ParseBytes(rawJSON)
	var events []string

	if !state.Started {
		state.Started = true
		state.MessageID = resolveMessageID(chunk)
		if model := chunk.Get("model").String(); model != "" {
			state.Model = model
		}
		events = append(events, state.messageStart(chunk))
	}

	if tokens := chunk.Get("usage.completion_tokens"); tokens.Exists() {
		state.CompletionTokens = tokens.Int()
	}

	choice := chunk.Get("choices.0")
	delta := choice.Get("delta")

	if reasoning := delta.Get("reasoning_content"); reasoning.Exists() && reasoning.String() != "" {
		events = append(events, state.appendThinking(reasoning.String())...)
	}
	if contentDelta := delta.Get("content"); contentDelta.Exists() && contentDelta.String() != "" {
		events = append(events, state.appendText(contentDelta.String())...)
	}
	for _, call := range delta.Get("tool_calls").Array() {
		events = append(events, state.appendToolCall(call)...)
	}

	if finish := choice.Get("finish_reason"); finish.Exists() && finish.String() != "" {
		events = append(events, state.finish(finish.String())...)
	}

	return events
}

// resolveMessageID prefers the chunk id, then alternate trace identifiers,
// then a generated id. Very short ids are treated as missing.
func resolveMessageID(chunk gjson.Result) string {
	for _, path := range []string{"id", "response_id", "request_id"} {
		if id := chunk.Get(path).String(); len(id) >= 8 {
			return id
		}
	}
	return "msg_" + IDs.NewID()
}

func (s *openaiStreamState) messageStart(chunk gjson.Result) string {
	event := `{"type":"message_start","message":{"id":"","type":"message","role":"assistant","model":"","content":[],"stop_reason":null,"usage":{"input_tokens":0,"output_tokens":0}}}`
	event, _ = sjson.Set(event, "message.id", s.MessageID)
	event, _ = sjson.Set(event, "message.model", s.Model)
	if prompt := chunk.Get("usage.prompt_tokens"); prompt.Exists() {
		event, _ = sjson.Set(event, "message.usage.input_tokens", prompt.Int())
	}
	return event
}

func (s *openaiStreamState) appendText(text string) []string {
	var events []string
	if s.OpenKind == blockThinking {
		events = append(events, s.blockStop(s.OpenBlockIndex))
		s.OpenKind = blockNone
	}
	if s.OpenKind == blockNone {
		index := s.NextBlockIndex
		s.NextBlockIndex++
		s.OpenKind = blockText
		s.OpenBlockIndex = index

		start, _ := sjson.Set(`{"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}`, "index", index)
		events = append(events, start)
	}
	delta, _ := sjson.Set(`{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":""}}`, "index", s.OpenBlockIndex)
	delta, _ = sjson.Set(delta, "delta.text", text)
	return append(events, delta)
}

func (s *openaiStreamState) appendThinking(text string) []string {
	var events []string
	if s.OpenKind == blockText {
		events = append(events, s.blockStop(s.OpenBlockIndex))
		s.OpenKind = blockNone
	}
	if s.OpenKind == blockNone {
		index := s.NextBlockIndex
		s.NextBlockIndex++
		s.OpenKind = blockThinking
		s.OpenBlockIndex = index

		start, _ := sjson.Set(`{"type":"content_block_start","index":0,"content_block":{"type":"thinking","thinking":""}}`, "index", index)
		events = append(events, start)
	}
	delta, _ := sjson.Set(`{"type":"content_block_delta","index":0,"delta":{"type":"thinking_delta","thinking":""}}`, "index", s.OpenBlockIndex)
	delta, _ = sjson.Set(delta, "delta.thinking", text)
	return append(events, delta)
}

func (s *openaiStreamState) appendToolCall(call gjson.Result) []string {
	var events []string
	slot := int(call.Get("index").Int())

	if id := call.Get("id").String(); id != "" {
		// A fragment with an id opens a new tool_use block.
		if s.OpenKind != blockNone {
			events = append(events, s.blockStop(s.OpenBlockIndex))
			s.OpenKind = blockNone
		}
		index := s.NextBlockIndex
		s.NextBlockIndex++
		s.ToolBlocks[slot] = &toolBlock{BlockIndex: index, ID: id}

		start := `{"type":"content_block_start","index":0,"content_block":{"type":"tool_use","id":"","name":"","input":{}}}`
		start, _ = sjson.Set(start, "index", index)
		start, _ = sjson.Set(start, "content_block.id", id)
		start, _ = sjson.Set(start, "content_block.name", call.Get("function.name").String())
		events = append(events, start)
	}

	block, ok := s.ToolBlocks[slot]
	if !ok {
		return events
	}
	if args := call.Get("function.arguments").String(); args != "" {
		delta, _ := sjson.Set(`{"type":"content_block_delta","index":0,"delta":{"type":"input_json_delta","partial_json":""}}`, "index", block.BlockIndex)
		delta, _ = sjson.Set(delta, "delta.partial_json", args)
		events = append(events, delta)
	}
	return events
}

func (s *openaiStreamState) finish(finishReason string) []string {
	if s.FinishSent {
		return nil
	}
	s.FinishSent = true

	var events []string
	if s.OpenKind != blockNone {
		events = append(events, s.blockStop(s.OpenBlockIndex))
		s.OpenKind = blockNone
	}
	// Outstanding tool blocks close in block-index order.
	indices := make([]int, 0, len(s.ToolBlocks))
	for _, block := range s.ToolBlocks {
		indices = append(indices, block.BlockIndex)
	}
	sortInts(indices)
	for _, index := range indices {
		events = append(events, s.blockStop(index))
	}
	s.ToolBlocks = make(map[int]*toolBlock)

	messageDelta := `{"type":"message_delta","delta":{"stop_reason":"","stop_sequence":null},"usage":{"output_tokens":0}}`
	messageDelta, _ = sjson.Set(messageDelta, "delta.stop_reason", util.MapFinishReasonToStopReason(finishReason))
	messageDelta, _ = sjson.Set(messageDelta, "usage.output_tokens", s.CompletionTokens)
	events = append(events, messageDelta)
	events = append(events, `{"type":"message_stop"}`)
	return events
}

func (s *openaiStreamState) blockStop(index int) string {
	event, _ := sjson.Set(`{"type":"content_block_stop","index":0}`, "index", index)
	return event
}

func sortInts(v []int) {
	for i := 1; i < len(v); i++ {
		for j := i; j > 0 && v[j-1] > v[j]; j-- {
			v[j-1], v[j] = v[j], v[j-1]
		}
	}
}

// ConvertOpenAIResponseToClaudeNonStream translates a complete OpenAI
// chat-completion body into a Claude Messages response body.
func ConvertOpenAIResponseToClaudeNonStream(ctx context.Context, modelName string, originalRequestRawJSON, requestRawJSON, rawJSON []byte, param *any) string {
	root := gjson.ParseBytes(rawJSON)
	message := root.Get("choices.0.message")

	out := `{"id":"","type":"message","role":"assistant","model":"","content":[],"stop_reason":"end_turn","stop_sequence":null,"usage":{"input_tokens":0,"output_tokens":0}}`
	out, _ = sjson.Set(out, "id", resolveMessageID(root))
	out, _ = sjson.Set(out, "model", root.Get("model").String())

	var blocks []any
	if reasoning := message.Get("reasoning_content").String(); reasoning != "" {
		blocks = append(blocks, map[string]any{"type": "thinking", "thinking": reasoning})
	}
	if text := message.Get("content").String(); text != "" {
		blocks = append(blocks, map[string]any{"type": "text", "text": text})
	}
	for _, call := range message.Get("tool_calls").Array() {
		name := call.Get("function.name").String()
		if name == "" {
			continue
		}
		blocks = append(blocks, map[string]any{
			"type":  "tool_use",
			"id":    call.Get("id").String(),
			"name":  name,
			"input": util.ParseJSONOrRaw(call.Get("function.arguments").String()),
		})
	}
	if data, err := json.Marshal(blocks); err == nil && len(blocks) > 0 {
		out, _ = sjson.SetRaw(out, "content", string(data))
	}

	out, _ = sjson.Set(out, "stop_reason", util.MapFinishReasonToStopReason(root.Get("choices.0.finish_reason").String()))
	out, _ = sjson.Set(out, "usage.input_tokens", root.Get("usage.prompt_tokens").Int())
	out, _ = sjson.Set(out, "usage.output_tokens", root.Get("usage.completion_tokens").Int())
	return out
}

// ConvertOpenAITokenCountToClaude shapes a token count as a Claude
// count_tokens response.
func ConvertOpenAITokenCountToClaude(ctx context.Context, count int64) string {
	out, _ := sjson.Set(`{"input_tokens":0}`, "input_tokens", count)
	return out
}
