package util

import "strings"

// ExtractSSEData strips the SSE framing from one stream line and reports
// whether the remainder is a forwardable JSON payload. Lines that are blank,
// comments, non-data fields, or the "[DONE]" sentinel yield ok=false.
func ExtractSSEData(line string) (data string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, ":") {
		return "", false
	}
	if strings.HasPrefix(line, "event:") {
		return "", false
	}
	if strings.HasPrefix(line, "data:") {
		line = strings.TrimSpace(line[len("data:"):])
	}
	if line == "" || line == "[DONE]" {
		return "", false
	}
	if !strings.HasPrefix(line, "{") {
		return "", false
	}
	return line, true
}

// SplitSSETranscript extracts every forwardable data payload from a full
// SSE transcript, in order.
func SplitSSETranscript(transcript []byte) []string {
	var out []string
	for _, line := range strings.Split(string(transcript), "\n") {
		if data, ok := ExtractSSEData(line); ok {
			out = append(out, data)
		}
	}
	return out
}
