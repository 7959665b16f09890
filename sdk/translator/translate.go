// Package translator converts LLM API payloads between provider wire formats.
// Request bodies are rewritten by stateless transforms; streamed responses are
// rewritten incrementally by stateful transforms that carry per-exchange state
// in an opaque parameter owned by the caller.
package translator

import "context"

// Format identifies a provider wire format.
type Format string

// String returns the format identifier.
func (f Format) String() string { return string(f) }

// FromString converts a format identifier to a Format. Unknown identifiers
// are returned verbatim; IsKnownFormat distinguishes them.
func FromString(s string) Format { return Format(s) }

// Known wire formats.
var (
	FormatOpenAI      = Format("openai")
	FormatClaude      = Format("claude")
	FormatGemini      = Format("gemini")
	FormatGeminiCLI   = Format("gemini-cli")
	FormatAntigravity = Format("antigravity")
)

// RequestTransform rewrites a request body from one format to another.
// It must be pure: no shared state, deterministic apart from any identifier
// generation the target protocol requires.
type RequestTransform func(model string, rawJSON []byte, stream bool) []byte

// ResponseStreamTransform rewrites one provider stream event into zero or
// more target-format stream chunks. originalRequestRawJSON is the body as the
// client sent it, requestRawJSON the translated body sent upstream. param
// carries per-exchange translator state: it is nil on the first event of an
// exchange and must not be shared across exchanges.
type ResponseStreamTransform func(ctx context.Context, model string, originalRequestRawJSON, requestRawJSON, rawJSON []byte, param *any) []string

// ResponseNonStreamTransform rewrites a complete provider response body into
// a single target-format body.
type ResponseNonStreamTransform func(ctx context.Context, model string, originalRequestRawJSON, requestRawJSON, rawJSON []byte, param *any) string

// ResponseTokenCountTransform shapes a token count into a target-format
// count-tokens response body.
type ResponseTokenCountTransform func(ctx context.Context, count int64) string

// ResponseTransform bundles the response-direction transforms for one
// format pair. Any slot may be nil when that direction is not supported.
type ResponseTransform struct {
	Stream     ResponseStreamTransform
	NonStream  ResponseNonStreamTransform
	TokenCount ResponseTokenCountTransform
}
