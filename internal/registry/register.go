// Package registry wires every supported translator pair into the default
// translation registry at init time. Importing this package (typically with a
// blank import from the server entry point) is all a caller needs to make
// the full compatibility matrix available.
package registry

import (
	"github.com/modelrelay/modelrelay/internal/interfaces"
	antigravityopenai "github.com/modelrelay/modelrelay/internal/translator/antigravity/openai"
	claudeopenai "github.com/modelrelay/modelrelay/internal/translator/claude/openai"
	geminicliopenai "github.com/modelrelay/modelrelay/internal/translator/gemini-cli/openai"
	geminiopenai "github.com/modelrelay/modelrelay/internal/translator/gemini/openai"
	openaiclaude "github.com/modelrelay/modelrelay/internal/translator/openai/claude"
	"github.com/modelrelay/modelrelay/sdk/translator"
)

func init() {
	// OpenAI clients talking to Claude upstreams.
	translator.Register(
		translator.FormatOpenAI, translator.FormatClaude,
		claudeopenai.ConvertOpenAIRequestToClaude,
		interfaces.TranslateResponse{
			Stream:     claudeopenai.ConvertClaudeResponseToOpenAI,
			NonStream:  claudeopenai.ConvertClaudeResponseToOpenAINonStream,
			TokenCount: claudeopenai.ConvertClaudeTokenCountToOpenAI,
		},
	)

	// Claude clients talking to OpenAI upstreams.
	translator.Register(
		translator.FormatClaude, translator.FormatOpenAI,
		openaiclaude.ConvertClaudeRequestToOpenAI,
		interfaces.TranslateResponse{
			Stream:     openaiclaude.ConvertOpenAIResponseToClaude,
			NonStream:  openaiclaude.ConvertOpenAIResponseToClaudeNonStream,
			TokenCount: openaiclaude.ConvertOpenAITokenCountToClaude,
		},
	)

	// OpenAI clients talking to Gemini upstreams.
	translator.Register(
		translator.FormatOpenAI, translator.FormatGemini,
		geminiopenai.ConvertOpenAIRequestToGemini,
		interfaces.TranslateResponse{
			Stream:     geminiopenai.ConvertGeminiResponseToOpenAI,
			NonStream:  geminiopenai.ConvertGeminiResponseToOpenAINonStream,
			TokenCount: geminiopenai.ConvertGeminiTokenCountToOpenAI,
		},
	)

	// OpenAI clients talking to Gemini CLI upstreams.
	translator.Register(
		translator.FormatOpenAI, translator.FormatGeminiCLI,
		geminicliopenai.ConvertOpenAIRequestToGeminiCLI,
		interfaces.TranslateResponse{
			Stream:     geminicliopenai.ConvertGeminiCLIResponseToOpenAI,
			NonStream:  geminicliopenai.ConvertGeminiCLIResponseToOpenAINonStream,
			TokenCount: geminicliopenai.ConvertGeminiCLITokenCountToOpenAI,
		},
	)

	// OpenAI clients talking to Antigravity upstreams.
	translator.Register(
		translator.FormatOpenAI, translator.FormatAntigravity,
		antigravityopenai.ConvertOpenAIRequestToAntigravity,
		interfaces.TranslateResponse{
			Stream:     antigravityopenai.ConvertAntigravityResponseToOpenAI,
			NonStream:  antigravityopenai.ConvertAntigravityResponseToOpenAINonStream,
			TokenCount: antigravityopenai.ConvertAntigravityTokenCountToOpenAI,
		},
	)
}
