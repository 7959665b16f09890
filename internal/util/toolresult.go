// Package util holds shared helpers used by the translator packages:
// JSON-safe parsing, data URI handling, schema cleanup, finish/stop reason
// tables, identifier generation, and Claude message repair.
package util

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RepairToolResultPlacement rewrites a Claude Messages payload so that every
// tool_result block sits in a tool_result-only user message immediately after
// the assistant turn holding the matching tool_use. Clients sometimes insert
// plain user text between the call and its result, or deliver results late;
// both break the Messages API contract. Tool calls left without any result
// get a placeholder result so the turn structure stays valid.
func RepairToolResultPlacement(body []byte) []byte {
	var root map[string]any
	if err := json.Unmarshal(body, &root); err != nil {
		return body
	}
	messages, ok := root["messages"].([]any)
	if !ok || len(messages) == 0 {
		return body
	}

	changed := false

	for i := 0; i < len(messages); i++ {
		msg, ok := messages[i].(map[string]any)
		if !ok || messageRole(msg) != "assistant" {
			continue
		}

		callIDs := toolUseIDs(msg)
		if len(callIDs) == 0 {
			continue
		}

		insertAt := i + 1

		// Reuse a result-only user message already in position, otherwise
		// insert a fresh one right after the assistant turn.
		var resultMsg map[string]any
		inserted := false
		if insertAt < len(messages) {
			if next, ok := messages[insertAt].(map[string]any); ok && isToolResultOnlyUser(next) {
				resultMsg = next
			}
		}
		if resultMsg == nil {
			resultMsg = map[string]any{"role": "user", "content": []any{}}
			messages = append(messages, nil)
			copy(messages[insertAt+1:], messages[insertAt:])
			messages[insertAt] = resultMsg
			inserted = true
			changed = true
			i++
		}

		// Pull matching results out of any later user message.
		for j := insertAt + 1; j < len(messages); {
			later, ok := messages[j].(map[string]any)
			if !ok || messageRole(later) != "user" {
				j++
				continue
			}
			moved, kept := splitToolResults(later, callIDs)
			if len(moved) == 0 {
				j++
				continue
			}
			appendContent(resultMsg, moved)
			changed = true
			if len(kept) == 0 {
				messages = append(messages[:j], messages[j+1:]...)
				continue
			}
			later["content"] = kept
			j++
		}

		// Placeholder results for calls nothing answered.
		seen := toolResultIDs(resultMsg)
		var orphans []any
		for id := range callIDs {
			if _, ok := seen[id]; !ok {
				orphans = append(orphans, map[string]any{
					"type":        "tool_result",
					"tool_use_id": id,
					"content":     fmt.Sprintf("tool_result missing for %s", id),
				})
			}
		}
		if len(orphans) > 0 {
			appendContent(resultMsg, orphans)
			changed = true
		}

		if inserted {
			if content, ok := resultMsg["content"].([]any); ok && len(content) == 0 {
				messages = append(messages[:insertAt], messages[insertAt+1:]...)
				i--
			}
		}
	}

	if !changed {
		return body
	}
	root["messages"] = messages
	updated, err := json.Marshal(root)
	if err != nil {
		return body
	}
	return updated
}

func messageRole(msg map[string]any) string {
	role, _ := msg["role"].(string)
	return strings.TrimSpace(role)
}

func toolUseIDs(msg map[string]any) map[string]struct{} {
	out := make(map[string]struct{})
	content, ok := msg["content"].([]any)
	if !ok {
		return out
	}
	for _, raw := range content {
		block, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if typ, _ := block["type"].(string); typ != "tool_use" {
			continue
		}
		if id, _ := block["id"].(string); strings.TrimSpace(id) != "" {
			out[strings.TrimSpace(id)] = struct{}{}
		}
	}
	return out
}

func toolResultIDs(msg map[string]any) map[string]struct{} {
	out := make(map[string]struct{})
	content, ok := msg["content"].([]any)
	if !ok {
		return out
	}
	for _, raw := range content {
		block, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if typ, _ := block["type"].(string); typ != "tool_result" {
			continue
		}
		if id, _ := block["tool_use_id"].(string); id != "" {
			out[strings.TrimSpace(id)] = struct{}{}
		}
	}
	return out
}

func isToolResultOnlyUser(msg map[string]any) bool {
	if messageRole(msg) != "user" {
		return false
	}
	content, ok := msg["content"].([]any)
	if !ok || len(content) == 0 {
		return false
	}
	for _, raw := range content {
		block, ok := raw.(map[string]any)
		if !ok {
			return false
		}
		if typ, _ := block["type"].(string); typ != "tool_result" {
			return false
		}
	}
	return true
}

func splitToolResults(msg map[string]any, ids map[string]struct{}) (moved, kept []any) {
	content, ok := msg["content"].([]any)
	if !ok {
		return nil, nil
	}
	for _, raw := range content {
		block, ok := raw.(map[string]any)
		if !ok {
			kept = append(kept, raw)
			continue
		}
		typ, _ := block["type"].(string)
		id, _ := block["tool_use_id"].(string)
		id = strings.TrimSpace(id)
		if typ == "tool_result" && id != "" {
			if _, match := ids[id]; match {
				moved = append(moved, raw)
				continue
			}
		}
		kept = append(kept, raw)
	}
	return moved, kept
}

func appendContent(msg map[string]any, blocks []any) {
	if len(blocks) == 0 {
		return
	}
	content, _ := msg["content"].([]any)
	msg["content"] = append(content, blocks...)
}
