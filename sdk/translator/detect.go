package translator

import (
	"strings"

	"github.com/tidwall/gjson"
)

// DetectFormat sniffs the wire format of a request payload from its shape.
// Returns the empty Format when the payload matches no known format.
func DetectFormat(payload []byte) Format {
	if len(payload) == 0 {
		return ""
	}

	result := gjson.ParseBytes(payload)
	if !result.IsObject() {
		return ""
	}

	// Envelope variants nest the Gemini body under "request".
	if result.Get("request.contents").Exists() {
		if result.Get("project").Exists() {
			return FormatAntigravity
		}
		return FormatGeminiCLI
	}

	if result.Get("contents").Exists() {
		if result.Get("generationConfig").Exists() {
			return FormatGemini
		}
		if contents := result.Get("contents"); contents.IsArray() {
			arr := contents.Array()
			if len(arr) > 0 && arr[0].Get("parts").Exists() {
				return FormatGemini
			}
		}
	}

	if result.Get("messages").Exists() && result.Get("model").Exists() {
		if result.Get("anthropic_version").Exists() {
			return FormatClaude
		}

		modelLower := strings.ToLower(result.Get("model").String())
		if strings.Contains(modelLower, "claude") || strings.Contains(modelLower, "anthropic") {
			return FormatClaude
		}

		// Claude message content arrays carry typed blocks.
		if messages := result.Get("messages"); messages.IsArray() {
			arr := messages.Array()
			if len(arr) > 0 {
				if content := arr[0].Get("content"); content.IsArray() {
					blocks := content.Array()
					if len(blocks) > 0 {
						switch blocks[0].Get("type").String() {
						case "tool_use", "tool_result":
							return FormatClaude
						}
					}
				}
			}
		}

		// messages+model with no Claude markers is the common OpenAI shape.
		return FormatOpenAI
	}

	return ""
}

// IsKnownFormat reports whether f names one of the supported wire formats.
func IsKnownFormat(f Format) bool {
	switch f {
	case FormatOpenAI, FormatClaude, FormatGemini, FormatGeminiCLI, FormatAntigravity:
		return true
	default:
		return false
	}
}
