package openai

import (
	"context"

	geminicliopenai "github.com/modelrelay/modelrelay/internal/translator/gemini-cli/openai"
)

// ConvertAntigravityResponseToOpenAI translates one Antigravity stream event
// into OpenAI chat-completion chunks. Antigravity streams the same wrapped
// Gemini events as the CLI backend.
func ConvertAntigravityResponseToOpenAI(ctx context.Context, modelName string, originalRequestRawJSON, requestRawJSON, rawJSON []byte, param *any) []string {
	return geminicliopenai.ConvertGeminiCLIResponseToOpenAI(ctx, modelName, originalRequestRawJSON, requestRawJSON, rawJSON, param)
}

// ConvertAntigravityResponseToOpenAINonStream translates a complete
// Antigravity response body into a single OpenAI chat-completion object.
func ConvertAntigravityResponseToOpenAINonStream(ctx context.Context, modelName string, originalRequestRawJSON, requestRawJSON, rawJSON []byte, param *any) string {
	return geminicliopenai.ConvertGeminiCLIResponseToOpenAINonStream(ctx, modelName, originalRequestRawJSON, requestRawJSON, rawJSON, param)
}

// ConvertAntigravityTokenCountToOpenAI renders a token count in the OpenAI
// usage shape.
func ConvertAntigravityTokenCountToOpenAI(ctx context.Context, count int64) string {
	return geminicliopenai.ConvertGeminiCLITokenCountToOpenAI(ctx, count)
}
