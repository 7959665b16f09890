package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/modelrelay/modelrelay/internal/errors"
	"github.com/modelrelay/modelrelay/internal/logging"
)

// LogsHandler serves recent log entries captured by the ring buffer hook.
type LogsHandler struct {
	buffer *logging.RingBuffer
}

// NewLogsHandler creates a logs handler backed by buffer.
func NewLogsHandler(buffer *logging.RingBuffer) *LogsHandler {
	return &LogsHandler{buffer: buffer}
}

// GetRecent returns up to ?limit= recent log entries, oldest first.
// GET /v1/logs/recent
func (h *LogsHandler) GetRecent(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(c, apperrors.BadRequest("invalid_limit", "limit must be a non-negative integer", err))
			return
		}
		limit = parsed
	}
	entries := h.buffer.Recent(limit)
	c.JSON(http.StatusOK, gin.H{
		"count":   len(entries),
		"entries": entries,
	})
}
