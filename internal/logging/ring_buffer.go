package logging

import (
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultBufferSize is the default capacity of the ring buffer.
const DefaultBufferSize = 1000

// Entry is a single captured log record.
type Entry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Source    string         `json:"source,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// RingBuffer is a thread-safe circular buffer of recent log entries. It
// implements logrus.Hook so it can be attached to the global logger and
// queried by the recent-logs endpoint.
type RingBuffer struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
	head     int
	count    int
}

// NewRingBuffer creates a ring buffer with the given capacity; non-positive
// capacities fall back to DefaultBufferSize.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = DefaultBufferSize
	}
	return &RingBuffer{
		entries:  make([]Entry, capacity),
		capacity: capacity,
	}
}

// Levels implements logrus.Hook; every level is captured.
func (rb *RingBuffer) Levels() []log.Level {
	return log.AllLevels
}

// Fire implements logrus.Hook.
func (rb *RingBuffer) Fire(entry *log.Entry) error {
	source := ""
	if entry.Caller != nil {
		source = formatSource(entry.Caller.File, entry.Caller.Line)
	}

	level := entry.Level.String()
	if level == "warning" {
		level = "warn"
	}

	fields := make(map[string]any, len(entry.Data))
	for k, v := range entry.Data {
		fields[k] = v
	}

	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.entries[rb.head] = Entry{
		Timestamp: entry.Time,
		Level:     level,
		Message:   entry.Message,
		Source:    source,
		Fields:    fields,
	}
	rb.head = (rb.head + 1) % rb.capacity
	if rb.count < rb.capacity {
		rb.count++
	}
	return nil
}

// Recent returns up to n entries, oldest first. n <= 0 returns everything
// buffered.
func (rb *RingBuffer) Recent(n int) []Entry {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	if n <= 0 || n > rb.count {
		n = rb.count
	}
	out := make([]Entry, 0, n)
	start := rb.head - n
	if start < 0 {
		start += rb.capacity
	}
	for i := 0; i < n; i++ {
		out = append(out, rb.entries[(start+i)%rb.capacity])
	}
	return out
}

// Len reports how many entries are currently buffered.
func (rb *RingBuffer) Len() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.count
}

func formatSource(file string, line int) string {
	short := file
	for i := len(file) - 1; i > 0; i-- {
		if file[i] == '/' || file[i] == '\\' {
			short = file[i+1:]
			break
		}
	}
	return short + ":" + strconv.Itoa(line)
}
