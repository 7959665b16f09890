// Package openai converts OpenAI chat-completions traffic to and from the
// Antigravity backend. Requests are Gemini CLI bodies nested inside the
// Antigravity transport envelope; responses are Gemini events, optionally
// under a "response" wrapper.
package openai

import (
	"github.com/tidwall/gjson"

	"github.com/modelrelay/modelrelay/internal/translator/antigravity"
	geminicliopenai "github.com/modelrelay/modelrelay/internal/translator/gemini-cli/openai"
)

// ConvertOpenAIRequestToAntigravity translates an OpenAI chat-completions
// request into an enveloped Antigravity request. An optional top-level
// "credentials" object on the inbound body supplies the projectId; it never
// reaches the nested payload.
func ConvertOpenAIRequestToAntigravity(modelName string, inputRawJSON []byte, stream bool) []byte {
	var credentials []byte
	if creds := gjson.GetBytes(inputRawJSON, "credentials"); creds.IsObject() {
		credentials = []byte(creds.Raw)
	}
	body := geminicliopenai.ConvertOpenAIRequestToGeminiCLI(modelName, inputRawJSON, stream)
	return antigravity.WrapRequest(modelName, body, credentials)
}
