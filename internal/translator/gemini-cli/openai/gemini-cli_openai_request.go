// Package openai converts OpenAI chat-completions traffic to and from the
// Gemini CLI variant of the generateContent format. The CLI variant is the
// native Gemini body plus an explicit thinking budget and function
// declaration schemas stripped down to what the CLI backend validator
// accepts.
package openai

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	geminiopenai "github.com/modelrelay/modelrelay/internal/translator/gemini/openai"
	"github.com/modelrelay/modelrelay/internal/util"
)

// Effort keyword budgets, in thinking tokens.
const (
	budgetLow     = 1024
	budgetMedium  = 8192
	budgetHigh    = 32768
	budgetDefault = 8192
)

// ConvertOpenAIRequestToGeminiCLI translates an OpenAI chat-completions
// request body into a Gemini CLI request body.
func ConvertOpenAIRequestToGeminiCLI(modelName string, inputRawJSON []byte, stream bool) []byte {
	root := gjson.ParseBytes(inputRawJSON)

	out := string(geminiopenai.ConvertOpenAIRequestToGemini(modelName, inputRawJSON, stream))

	out, _ = sjson.Set(out, "generationConfig.thinkingConfig.includeThoughts", true)
	out, _ = sjson.Set(out, "generationConfig.thinkingConfig.thinkingBudget", thinkingBudget(root))

	out = rewriteDeclarationSchemas(out, modelName)

	return []byte(out)
}

// thinkingBudget derives the thinking token budget: an explicit budget wins,
// then the effort keyword, then the default.
func thinkingBudget(root gjson.Result) int64 {
	if budget := root.Get("thinking.budget_tokens"); budget.Exists() && budget.Int() > 0 {
		return budget.Int()
	}
	switch root.Get("reasoning_effort").String() {
	case "low":
		return budgetLow
	case "medium":
		return budgetMedium
	case "high":
		return budgetHigh
	}
	return budgetDefault
}

// rewriteDeclarationSchemas cleans every function declaration schema and
// places it under the key the backend expects: Claude-compatible backends
// validate "parameters", native Gemini backends read "parametersJsonSchema".
func rewriteDeclarationSchemas(body, modelName string) string {
	claudeBackend := strings.Contains(strings.ToLower(modelName), "claude")

	declarations := gjson.Get(body, "tools.0.functionDeclarations")
	if !declarations.IsArray() {
		return body
	}
	for i, declaration := range declarations.Array() {
		schema := declaration.Get("parameters").Raw
		if schema == "" {
			schema = "{}"
		}
		cleaned := util.CleanJSONSchema(schema)
		path := "tools.0.functionDeclarations." + strconv.Itoa(i)
		if claudeBackend {
			body, _ = sjson.SetRaw(body, path+".parameters", cleaned)
		} else {
			body, _ = sjson.SetRaw(body, path+".parametersJsonSchema", cleaned)
			body, _ = sjson.Delete(body, path+".parameters")
		}
	}
	return body
}
