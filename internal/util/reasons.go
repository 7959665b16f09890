package util

// Finish-reason and stop-reason vocabularies differ between the OpenAI and
// Claude wire formats. The two tables below are inverses over the defined
// set; unrecognized values map to the format's neutral terminal reason.

var stopReasonToFinishReason = map[string]string{
	"end_turn":      "stop",
	"stop_sequence": "stop",
	"max_tokens":    "length",
	"tool_use":      "tool_calls",
}

var finishReasonToStopReason = map[string]string{
	"stop":       "end_turn",
	"length":     "max_tokens",
	"tool_calls": "tool_use",
}

// MapStopReasonToFinishReason converts a Claude stop_reason into an OpenAI
// finish_reason, defaulting to "stop".
func MapStopReasonToFinishReason(stopReason string) string {
	if v, ok := stopReasonToFinishReason[stopReason]; ok {
		return v
	}
	return "stop"
}

// MapFinishReasonToStopReason converts an OpenAI finish_reason into a Claude
// stop_reason, defaulting to "end_turn".
func MapFinishReasonToStopReason(finishReason string) string {
	if v, ok := finishReasonToStopReason[finishReason]; ok {
		return v
	}
	return "end_turn"
}
