// Package handlers provides HTTP handlers for the API server.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/modelrelay/modelrelay/internal/errors"
	"github.com/modelrelay/modelrelay/internal/util"
	"github.com/modelrelay/modelrelay/sdk/translator"
)

// TranslatorHandler provides HTTP handlers for translation endpoints.
type TranslatorHandler struct{}

// NewTranslatorHandler creates a translator handler.
func NewTranslatorHandler() *TranslatorHandler {
	return &TranslatorHandler{}
}

// TranslateRequestBody is the payload for POST /v1/translate/request.
type TranslateRequestBody struct {
	From   string          `json:"from,omitempty"`
	To     string          `json:"to" binding:"required"`
	Model  string          `json:"model" binding:"required"`
	Stream bool            `json:"stream,omitempty"`
	Body   json.RawMessage `json:"body" binding:"required"`
}

// TranslateRequestResponse is the result of a request translation.
type TranslateRequestResponse struct {
	From  string          `json:"from"`
	To    string          `json:"to"`
	Model string          `json:"model"`
	Body  json.RawMessage `json:"body"`
}

// TranslateRequest converts a request body between formats. The source
// format is detected from the body when not declared.
// POST /v1/translate/request
func (h *TranslatorHandler) TranslateRequest(c *gin.Context) {
	var req TranslateRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.BadRequest("invalid_body", "could not parse request body", err))
		return
	}

	from := translator.FromString(req.From)
	if req.From == "" {
		from = translator.DetectFormat(req.Body)
	}
	to := translator.FromString(req.To)
	if !translator.IsKnownFormat(to) {
		writeError(c, apperrors.BadRequest("unknown_format", "unknown target format", nil).WithDetail("to", req.To))
		return
	}

	out := translator.TranslateRequest(from, to, req.Model, req.Body, req.Stream)
	c.JSON(http.StatusOK, TranslateRequestResponse{
		From:  from.String(),
		To:    to.String(),
		Model: req.Model,
		Body:  json.RawMessage(out),
	})
}

// TranslateStreamBody is the payload for POST /v1/translate/stream: a
// provider SSE transcript plus the pair of formats in play. From names the
// upstream provider format, To the format the client speaks.
type TranslateStreamBody struct {
	From       string          `json:"from" binding:"required"`
	To         string          `json:"to" binding:"required"`
	Model      string          `json:"model" binding:"required"`
	Transcript string          `json:"transcript" binding:"required"`
	Request    json.RawMessage `json:"request,omitempty"`
}

// TranslateStreamResponse carries the translated chunks in emission order.
type TranslateStreamResponse struct {
	Chunks []json.RawMessage `json:"chunks"`
}

// TranslateStream folds a complete provider SSE transcript through the
// streaming state machine for the pair and returns every emitted chunk.
// POST /v1/translate/stream
func (h *TranslatorHandler) TranslateStream(c *gin.Context) {
	var req TranslateStreamBody
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.BadRequest("invalid_body", "could not parse request body", err))
		return
	}

	from := translator.FromString(req.From)
	to := translator.FromString(req.To)
	if !translator.IsKnownFormat(from) || !translator.IsKnownFormat(to) {
		writeError(c, apperrors.BadRequest("unknown_format", "unknown format pair", nil).
			WithDetail("from", req.From).WithDetail("to", req.To))
		return
	}

	events := util.SplitSSETranscript([]byte(req.Transcript))
	chunks := make([]json.RawMessage, 0, len(events))

	var param any
	ctx := c.Request.Context()
	for _, event := range events {
		out := translator.TranslateStream(ctx, from, to, req.Model, req.Request, nil, []byte(event), &param)
		for _, chunk := range out {
			chunks = append(chunks, json.RawMessage(chunk))
		}
	}
	c.JSON(http.StatusOK, TranslateStreamResponse{Chunks: chunks})
}

// CountTokensBody is the payload for POST /v1/tokens/count.
type CountTokensBody struct {
	To   string          `json:"to,omitempty"`
	Body json.RawMessage `json:"body" binding:"required"`
}

// CountTokens estimates the prompt tokens of a request body and shapes the
// result for the requested client format.
// POST /v1/tokens/count
func (h *TranslatorHandler) CountTokens(c *gin.Context) {
	var req CountTokensBody
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.BadRequest("invalid_body", "could not parse request body", err))
		return
	}

	count := util.CountRequestTokens(req.Body)
	if req.To != "" {
		from := translator.DetectFormat(req.Body)
		to := translator.FromString(req.To)
		body := translator.TranslateTokenCount(c.Request.Context(), from, to, count, nil)
		if body != "" {
			c.Data(http.StatusOK, "application/json", []byte(body))
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"input_tokens": count})
}

// GetFormats lists every wire format the registry knows about.
// GET /v1/formats
func (h *TranslatorHandler) GetFormats(c *gin.Context) {
	formats := translator.GetSupportedFormats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}
	c.JSON(http.StatusOK, gin.H{"formats": names})
}

// TranslationsMatrixResponse is the response of the translations endpoint.
type TranslationsMatrixResponse struct {
	Matrix  map[string][]string          `json:"matrix"`
	Formats []string                     `json:"formats"`
	Total   int                          `json:"total_translations"`
	Details []translator.TranslationInfo `json:"details,omitempty"`
}

// GetTranslationsMatrix returns the compatibility matrix of supported
// translations; ?details=true includes per-pair capability info.
// GET /v1/translations
func (h *TranslatorHandler) GetTranslationsMatrix(c *gin.Context) {
	matrix := translator.GetCompatibilityMatrix()
	formats := translator.GetSupportedFormats()

	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}
	total := 0
	for _, targets := range matrix {
		total += len(targets)
	}

	response := TranslationsMatrixResponse{
		Matrix:  matrix,
		Formats: names,
		Total:   total,
	}
	if c.Query("details") == "true" {
		response.Details = translator.GetAllTranslations()
	}
	c.JSON(http.StatusOK, response)
}

// CheckTranslationResponse reports support for one translation pair.
type CheckTranslationResponse struct {
	Supported    bool                        `json:"supported"`
	Passthrough  bool                        `json:"passthrough"`
	From         string                      `json:"from"`
	To           string                      `json:"to"`
	Info         *translator.TranslationInfo `json:"info,omitempty"`
	Alternatives []string                    `json:"alternatives,omitempty"`
}

// CheckTranslation checks whether a specific pair is supported.
// GET /v1/translations/check?from=X&to=Y
func (h *TranslatorHandler) CheckTranslation(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		writeError(c, apperrors.BadRequest("missing_parameters", "both 'from' and 'to' query parameters are required", nil))
		return
	}

	supported := translator.IsTranslationSupported(translator.FromString(from), translator.FromString(to))
	response := CheckTranslationResponse{
		Supported: supported,
		From:      from,
		To:        to,
	}
	if supported {
		response.Info = translator.GetTranslationInfo(translator.FromString(from), translator.FromString(to))
	} else {
		if targets, ok := translator.GetCompatibilityMatrix()[from]; ok {
			response.Alternatives = targets
		}
		// Same-format pairs pass the payload through unchanged.
		if from == to {
			response.Supported = true
			response.Passthrough = true
		}
	}
	c.JSON(http.StatusOK, response)
}
