// Package content defines the canonical message representation shared by the
// request translators: a message is an ordered sequence of typed blocks,
// independent of the wire format it was parsed from.
package content

import (
	"github.com/tidwall/gjson"

	"github.com/modelrelay/modelrelay/internal/util"
)

// Role classifies a message for merge purposes.
type Role string

// Canonical roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// BlockKind tags a content block variant.
type BlockKind string

// Block variants.
const (
	KindText       BlockKind = "text"
	KindImage      BlockKind = "image"
	KindToolUse    BlockKind = "tool_use"
	KindToolResult BlockKind = "tool_result"
)

// Block is one canonical content block. Fields are populated per Kind.
type Block struct {
	Kind BlockKind

	// KindText
	Text string

	// KindImage
	MediaType string
	Data      string

	// KindToolUse
	ID    string
	Name  string
	Input any

	// KindToolResult
	ToolUseID string
	Content   any
	IsError   bool

	// Set by Merge on the prefix-cache boundary block.
	CacheEligible bool
}

// Message is a role plus its ordered blocks.
type Message struct {
	Role   Role
	Blocks []Block
}

// recognizers are tried in fixed priority order against each array element.
// The first one whose shape matches produces the block; unrecognized
// elements are dropped.
var recognizers = []func(gjson.Result) (Block, bool){
	recognizeText,
	recognizeToolUse,
	recognizeFunctionCall,
	recognizeToolResult,
	recognizeImage,
	recognizeImageURL,
}

// NormalizeBlocks converts a source-format content value into canonical
// blocks. A plain string becomes a single text block when non-empty; arrays
// are normalized element by element.
func NormalizeBlocks(value gjson.Result) []Block {
	if value.Type == gjson.String {
		if value.String() == "" {
			return nil
		}
		return []Block{{Kind: KindText, Text: value.String()}}
	}
	if !value.IsArray() {
		return nil
	}

	var blocks []Block
	for _, elem := range value.Array() {
		for _, recognize := range recognizers {
			if block, ok := recognize(elem); ok {
				blocks = append(blocks, block)
				break
			}
		}
	}
	return blocks
}

// NormalizeMessage converts one OpenAI-style message into a canonical
// Message, folding the tool_calls field and tool-role results into blocks.
func NormalizeMessage(msg gjson.Result) Message {
	role := canonicalRole(msg.Get("role").String())
	out := Message{Role: role}

	if role == RoleTool {
		out.Blocks = append(out.Blocks, Block{
			Kind:      KindToolResult,
			ToolUseID: msg.Get("tool_call_id").String(),
			Content:   util.ParseJSONOrRaw(util.ExtractText(msg.Get("content"))),
		})
		return out
	}

	out.Blocks = NormalizeBlocks(msg.Get("content"))

	for _, call := range msg.Get("tool_calls").Array() {
		if block, ok := recognizeFunctionCall(call); ok {
			out.Blocks = append(out.Blocks, block)
		}
	}
	return out
}

func canonicalRole(role string) Role {
	switch role {
	case "system", "developer":
		return RoleSystem
	case "assistant", "model":
		return RoleAssistant
	case "tool", "function":
		return RoleTool
	default:
		return RoleUser
	}
}

func recognizeText(elem gjson.Result) (Block, bool) {
	if elem.Get("type").String() != "text" {
		return Block{}, false
	}
	text := elem.Get("text").String()
	if text == "" {
		return Block{}, false
	}
	return Block{Kind: KindText, Text: text}, true
}

func recognizeToolUse(elem gjson.Result) (Block, bool) {
	if elem.Get("type").String() != "tool_use" {
		return Block{}, false
	}
	name := elem.Get("name").String()
	if name == "" {
		return Block{}, false
	}
	return Block{
		Kind:  KindToolUse,
		ID:    elem.Get("id").String(),
		Name:  name,
		Input: util.ParseJSONOrRaw(elem.Get("input").Raw),
	}, true
}

func recognizeFunctionCall(elem gjson.Result) (Block, bool) {
	if elem.Get("type").String() != "function" && !elem.Get("function").Exists() {
		return Block{}, false
	}
	name := elem.Get("function.name").String()
	if name == "" {
		return Block{}, false
	}
	return Block{
		Kind:  KindToolUse,
		ID:    elem.Get("id").String(),
		Name:  name,
		Input: util.ParseJSONOrRaw(elem.Get("function.arguments").String()),
	}, true
}

func recognizeToolResult(elem gjson.Result) (Block, bool) {
	if elem.Get("type").String() != "tool_result" {
		return Block{}, false
	}
	return Block{
		Kind:      KindToolResult,
		ToolUseID: elem.Get("tool_use_id").String(),
		Content:   util.ParseJSONOrRaw(elem.Get("content").Raw),
		IsError:   elem.Get("is_error").Bool(),
	}, true
}

func recognizeImage(elem gjson.Result) (Block, bool) {
	if elem.Get("type").String() != "image" {
		return Block{}, false
	}
	source := elem.Get("source")
	if source.Get("type").String() != "base64" {
		return Block{}, false
	}
	return Block{
		Kind:      KindImage,
		MediaType: source.Get("media_type").String(),
		Data:      source.Get("data").String(),
	}, true
}

func recognizeImageURL(elem gjson.Result) (Block, bool) {
	if elem.Get("type").String() != "image_url" {
		return Block{}, false
	}
	mediaType, data, ok := util.SplitDataURI(elem.Get("image_url.url").String())
	if !ok {
		return Block{}, false
	}
	return Block{Kind: KindImage, MediaType: mediaType, Data: data}, true
}
