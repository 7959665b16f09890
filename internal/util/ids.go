package util

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IDSource produces the random identifiers the wire formats call for
// (message ids, request ids, session ids, project ids). Translators take an
// IDSource instead of calling uuid directly so tests can pin the values.
type IDSource interface {
	NewID() string
}

// Clock supplies wall-clock time for created timestamps.
type Clock interface {
	Now() time.Time
}

type uuidSource struct{}

func (uuidSource) NewID() string { return uuid.NewString() }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// RandomIDs is the production IDSource backed by UUIDv4.
var RandomIDs IDSource = uuidSource{}

// WallClock is the production Clock.
var WallClock Clock = systemClock{}

// FixedIDSource yields a fixed sequence of ids, then falls back to the last
// one. Intended for tests.
type FixedIDSource struct {
	IDs  []string
	next int
}

// NewID returns the next fixed id.
func (f *FixedIDSource) NewID() string {
	if len(f.IDs) == 0 {
		return "fixed-id"
	}
	if f.next >= len(f.IDs) {
		return f.IDs[len(f.IDs)-1]
	}
	id := f.IDs[f.next]
	f.next++
	return id
}

// FixedClock always reports T.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed instant.
func (f FixedClock) Now() time.Time { return f.T }

// ToolNameFromCallID recovers a tool name from a synthesized call id of the
// form "<name>-<timestamp>-<index>". This is a lossy best-effort fallback:
// names containing hyphens cannot be recovered reliably. Returns "" when the
// id does not match the pattern.
func ToolNameFromCallID(id string) string {
	parts := strings.Split(id, "-")
	if len(parts) < 3 {
		return ""
	}
	// The trailing two segments must be numeric for the pattern to apply.
	if _, err := strconv.ParseInt(parts[len(parts)-1], 10, 64); err != nil {
		return ""
	}
	if _, err := strconv.ParseInt(parts[len(parts)-2], 10, 64); err != nil {
		return ""
	}
	return strings.Join(parts[:len(parts)-2], "-")
}

// NewToolCallID synthesizes a call id for providers that do not issue one,
// pairing with ToolNameFromCallID.
func NewToolCallID(name string, clock Clock, index int) string {
	return name + "-" + strconv.FormatInt(clock.Now().UnixNano(), 10) + "-" + strconv.Itoa(index)
}
