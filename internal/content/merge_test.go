package content

import "testing"

func TestMergeSystemExtraction(t *testing.T) {
	system, merged := Merge([]Message{
		{Role: RoleSystem, Blocks: []Block{{Kind: KindText, Text: "be terse"}}},
		{Role: RoleSystem, Blocks: []Block{{Kind: KindText, Text: "be kind"}}},
		{Role: RoleUser, Blocks: []Block{{Kind: KindText, Text: "hi"}}},
	})
	if system != "be terse\nbe kind" {
		t.Fatalf("system text: %q", system)
	}
	if len(merged) != 1 || merged[0].Role != RoleUser {
		t.Fatalf("merged: %#v", merged)
	}
}

func TestMergeToolResultStandsAlone(t *testing.T) {
	_, merged := Merge([]Message{
		{Role: RoleUser, Blocks: []Block{{Kind: KindText, Text: "q"}}},
		{Role: RoleAssistant, Blocks: []Block{{Kind: KindToolUse, ID: "c1", Name: "f"}}},
		{Role: RoleTool, Blocks: []Block{{Kind: KindToolResult, ToolUseID: "c1", Content: "ok"}}},
		{Role: RoleUser, Blocks: []Block{{Kind: KindText, Text: "next"}}},
	})

	if len(merged) != 4 {
		t.Fatalf("expected 4 merged messages, got %#v", merged)
	}
	result := merged[2]
	if result.Role != RoleUser || len(result.Blocks) != 1 || result.Blocks[0].Kind != KindToolResult {
		t.Fatalf("tool result should be a standalone user message: %#v", result)
	}
	if merged[1].Blocks[0].Kind != KindToolUse {
		t.Fatalf("tool result should follow its tool use: %#v", merged[1])
	}
}

func TestMergeToolUseFlushesTurn(t *testing.T) {
	// One assistant message with text + tool_use flushes as exactly one
	// merged message preserving block order.
	_, merged := Merge([]Message{
		{Role: RoleAssistant, Blocks: []Block{
			{Kind: KindText, Text: "thinking out loud"},
			{Kind: KindToolUse, ID: "c1", Name: "f"},
		}},
	})
	if len(merged) != 1 {
		t.Fatalf("expected one flushed message, got %#v", merged)
	}
	if merged[0].Blocks[0].Kind != KindText || merged[0].Blocks[1].Kind != KindToolUse {
		t.Fatalf("block order not preserved: %#v", merged[0].Blocks)
	}
}

func TestMergeRoleChangeFlushes(t *testing.T) {
	_, merged := Merge([]Message{
		{Role: RoleUser, Blocks: []Block{{Kind: KindText, Text: "a"}}},
		{Role: RoleUser, Blocks: []Block{{Kind: KindText, Text: "b"}}},
		{Role: RoleAssistant, Blocks: []Block{{Kind: KindText, Text: "c"}}},
	})
	if len(merged) != 2 {
		t.Fatalf("adjacent same-role messages should merge: %#v", merged)
	}
	if len(merged[0].Blocks) != 2 {
		t.Fatalf("user blocks should accumulate: %#v", merged[0].Blocks)
	}
}

func TestMergeMarksCacheBoundary(t *testing.T) {
	_, merged := Merge([]Message{
		{Role: RoleUser, Blocks: []Block{{Kind: KindText, Text: "q1"}}},
		{Role: RoleAssistant, Blocks: []Block{{Kind: KindText, Text: "a1"}, {Kind: KindText, Text: "a2"}}},
		{Role: RoleUser, Blocks: []Block{{Kind: KindText, Text: "q2"}}},
	})

	assistant := merged[1]
	if !assistant.Blocks[1].CacheEligible {
		t.Fatalf("last assistant block should be cache eligible: %#v", assistant.Blocks)
	}
	if assistant.Blocks[0].CacheEligible || merged[2].Blocks[0].CacheEligible {
		t.Fatalf("only the boundary block should be marked: %#v", merged)
	}
}
