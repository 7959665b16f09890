package content

import "strings"

// Merge assembles normalized messages into the alternating block-message
// form the Claude Messages API expects, returning the newline-joined system
// text separately.
//
// Tool results must be the sole content of a user message placed directly
// after the turn that issued the call, and a tool call ends its turn, so
// both force a flush of the pending accumulator. The final block of the last
// non-empty assistant message is marked cache-eligible to pin the provider's
// prompt-cache boundary.
func Merge(messages []Message) (system string, merged []Message) {
	var systemParts []string
	var pending *Message

	flush := func() {
		if pending != nil && len(pending.Blocks) > 0 {
			merged = append(merged, *pending)
		}
		pending = nil
	}

	for _, msg := range messages {
		if msg.Role == RoleSystem {
			for _, block := range msg.Blocks {
				if block.Kind == KindText {
					systemParts = append(systemParts, block.Text)
				}
			}
			continue
		}

		role := RoleAssistant
		if msg.Role == RoleUser || msg.Role == RoleTool {
			role = RoleUser
		}

		var results, rest []Block
		hasToolUse := false
		for _, block := range msg.Blocks {
			switch block.Kind {
			case KindToolResult:
				results = append(results, block)
			default:
				if block.Kind == KindToolUse {
					hasToolUse = true
				}
				rest = append(rest, block)
			}
		}

		if len(results) > 0 {
			flush()
			merged = append(merged, Message{Role: RoleUser, Blocks: results})
			if len(rest) > 0 {
				pending = &Message{Role: role, Blocks: rest}
			}
			continue
		}

		if pending != nil && pending.Role != role {
			flush()
		}
		if pending == nil {
			pending = &Message{Role: role}
		}
		pending.Blocks = append(pending.Blocks, rest...)

		if hasToolUse {
			flush()
		}
	}
	flush()

	markCacheBoundary(merged)
	return strings.Join(systemParts, "\n"), merged
}

func markCacheBoundary(merged []Message) {
	for i := len(merged) - 1; i >= 0; i-- {
		if merged[i].Role == RoleAssistant && len(merged[i].Blocks) > 0 {
			merged[i].Blocks[len(merged[i].Blocks)-1].CacheEligible = true
			return
		}
	}
}
