package openai

import (
	"context"

	"github.com/tidwall/gjson"

	geminiopenai "github.com/modelrelay/modelrelay/internal/translator/gemini/openai"
)

// ConvertGeminiCLIResponseToOpenAI translates one Gemini CLI stream event
// into OpenAI chat-completion chunks. CLI events carry the native Gemini
// payload under a "response" wrapper; unwrapped events pass straight
// through to the Gemini state machine.
func ConvertGeminiCLIResponseToOpenAI(ctx context.Context, modelName string, originalRequestRawJSON, requestRawJSON, rawJSON []byte, param *any) []string {
	return geminiopenai.ConvertGeminiResponseToOpenAI(ctx, modelName, originalRequestRawJSON, requestRawJSON, unwrap(rawJSON), param)
}

// ConvertGeminiCLIResponseToOpenAINonStream translates a complete Gemini CLI
// response body into a single OpenAI chat-completion object.
func ConvertGeminiCLIResponseToOpenAINonStream(ctx context.Context, modelName string, originalRequestRawJSON, requestRawJSON, rawJSON []byte, param *any) string {
	return geminiopenai.ConvertGeminiResponseToOpenAINonStream(ctx, modelName, originalRequestRawJSON, requestRawJSON, unwrap(rawJSON), param)
}

// ConvertGeminiCLITokenCountToOpenAI renders a token count in the OpenAI
// usage shape.
func ConvertGeminiCLITokenCountToOpenAI(ctx context.Context, count int64) string {
	return geminiopenai.ConvertGeminiTokenCountToOpenAI(ctx, count)
}

func unwrap(rawJSON []byte) []byte {
	if wrapped := gjson.GetBytes(rawJSON, "response"); wrapped.Exists() && wrapped.IsObject() {
		return []byte(wrapped.Raw)
	}
	return rawJSON
}
