package translator

import (
	"context"
	"sync"
)

// Registry holds the translation functions between wire formats. Both maps
// are keyed by the (from, to) pair passed to Register, where `from` is the
// client's format and `to` the upstream's. The response transform installed
// for (from, to) rewrites a `to`-format stream into `from`-format chunks;
// TranslateStream names the upstream format first, so its lookup transposes
// the pair.
type Registry struct {
	mu        sync.RWMutex
	requests  map[Format]map[Format]RequestTransform
	responses map[Format]map[Format]ResponseTransform
}

// NewRegistry constructs an empty translator registry.
func NewRegistry() *Registry {
	return &Registry{
		requests:  make(map[Format]map[Format]RequestTransform),
		responses: make(map[Format]map[Format]ResponseTransform),
	}
}

// Register stores the request and response transforms for a from->to pair.
// A nil request transform leaves any existing registration untouched.
func (r *Registry) Register(from, to Format, request RequestTransform, response ResponseTransform) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.requests[from]; !ok {
		r.requests[from] = make(map[Format]RequestTransform)
	}
	if request != nil {
		r.requests[from][to] = request
	}

	if _, ok := r.responses[from]; !ok {
		r.responses[from] = make(map[Format]ResponseTransform)
	}
	r.responses[from][to] = response
}

// Unregister removes the transforms registered for a from->to pair.
func (r *Registry) Unregister(from, to Format) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if byTarget, ok := r.requests[from]; ok {
		delete(byTarget, to)
	}
	if byTarget, ok := r.responses[from]; ok {
		delete(byTarget, to)
	}
}

// TranslateRequest converts a request body between formats. When no
// transform is registered for the pair the payload passes through unchanged.
func (r *Registry) TranslateRequest(from, to Format, model string, rawJSON []byte, stream bool) []byte {
	r.mu.RLock()
	fn := r.requests[from][to]
	r.mu.RUnlock()

	if fn == nil {
		return rawJSON
	}
	return fn(model, rawJSON, stream)
}

// TranslateStream applies the registered streaming response transform for a
// stream produced in `from` format on behalf of a client speaking `to`.
// Unregistered pairs pass the event through as-is.
func (r *Registry) TranslateStream(ctx context.Context, from, to Format, model string, originalRequestRawJSON, requestRawJSON, rawJSON []byte, param *any) []string {
	r.mu.RLock()
	fn := r.responses[to][from]
	r.mu.RUnlock()

	if fn.Stream == nil {
		return []string{string(rawJSON)}
	}
	return fn.Stream(ctx, model, originalRequestRawJSON, requestRawJSON, rawJSON, param)
}

// TranslateNonStream applies the registered non-stream response transform for
// a body produced in `from` format on behalf of a client speaking `to`.
// Unregistered pairs pass the body through as-is.
func (r *Registry) TranslateNonStream(ctx context.Context, from, to Format, model string, originalRequestRawJSON, requestRawJSON, rawJSON []byte, param *any) string {
	r.mu.RLock()
	fn := r.responses[to][from]
	r.mu.RUnlock()

	if fn.NonStream == nil {
		return string(rawJSON)
	}
	return fn.NonStream(ctx, model, originalRequestRawJSON, requestRawJSON, rawJSON, param)
}

// TranslateTokenCount shapes a token count for the client's format. When no
// transform is registered the raw payload is returned unchanged.
func (r *Registry) TranslateTokenCount(ctx context.Context, from, to Format, count int64, rawJSON []byte) string {
	r.mu.RLock()
	fn := r.responses[to][from]
	r.mu.RUnlock()

	if fn.TokenCount == nil {
		return string(rawJSON)
	}
	return fn.TokenCount(ctx, count)
}

// HasRequestTranslator reports whether a request transform exists for the pair.
func (r *Registry) HasRequestTranslator(from, to Format) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.requests[from][to] != nil
}

// HasResponseTransformer reports whether a response transform exists for the pair.
func (r *Registry) HasResponseTransformer(from, to Format) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if byTarget, ok := r.responses[from]; ok {
		_, ok = byTarget[to]
		return ok
	}
	return false
}

var defaultRegistry = NewRegistry()

// Default exposes the package-level registry shared by the translator packages.
func Default() *Registry {
	return defaultRegistry
}

// Register attaches transforms to the default registry.
func Register(from, to Format, request RequestTransform, response ResponseTransform) {
	defaultRegistry.Register(from, to, request, response)
}

// Unregister removes transforms from the default registry.
func Unregister(from, to Format) {
	defaultRegistry.Unregister(from, to)
}

// TranslateRequest is a helper on the default registry.
func TranslateRequest(from, to Format, model string, rawJSON []byte, stream bool) []byte {
	return defaultRegistry.TranslateRequest(from, to, model, rawJSON, stream)
}

// TranslateStream is a helper on the default registry.
func TranslateStream(ctx context.Context, from, to Format, model string, originalRequestRawJSON, requestRawJSON, rawJSON []byte, param *any) []string {
	return defaultRegistry.TranslateStream(ctx, from, to, model, originalRequestRawJSON, requestRawJSON, rawJSON, param)
}

// TranslateNonStream is a helper on the default registry.
func TranslateNonStream(ctx context.Context, from, to Format, model string, originalRequestRawJSON, requestRawJSON, rawJSON []byte, param *any) string {
	return defaultRegistry.TranslateNonStream(ctx, from, to, model, originalRequestRawJSON, requestRawJSON, rawJSON, param)
}

// TranslateTokenCount is a helper on the default registry.
func TranslateTokenCount(ctx context.Context, from, to Format, count int64, rawJSON []byte) string {
	return defaultRegistry.TranslateTokenCount(ctx, from, to, count, rawJSON)
}

// HasRequestTranslator inspects the default registry.
func HasRequestTranslator(from, to Format) bool {
	return defaultRegistry.HasRequestTranslator(from, to)
}

// HasResponseTransformer inspects the default registry.
func HasResponseTransformer(from, to Format) bool {
	return defaultRegistry.HasResponseTransformer(from, to)
}
