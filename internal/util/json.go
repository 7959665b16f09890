package util

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ParseJSONOrRaw parses s as JSON, falling back to the raw string when
// parsing fails. Tool-call arguments arrive as JSON-encoded strings that
// are occasionally truncated or plain text.
func ParseJSONOrRaw(s string) any {
	if s == "" {
		return map[string]any{}
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}

// SplitDataURI splits a "data:<mediaType>;base64,<payload>" URI into its
// media type and base64 payload. ok is false for anything else; malformed
// URIs are dropped by callers rather than propagated.
func SplitDataURI(uri string) (mediaType, data string, ok bool) {
	if !strings.HasPrefix(uri, "data:") {
		return "", "", false
	}
	rest := uri[len("data:"):]
	semi := strings.Index(rest, ";base64,")
	if semi <= 0 {
		return "", "", false
	}
	mediaType = rest[:semi]
	data = rest[semi+len(";base64,"):]
	if data == "" {
		return "", "", false
	}
	return mediaType, data, true
}

// ExtractText concatenates the text carried by a message content value,
// which may be a plain string or an array of typed blocks.
func ExtractText(content gjson.Result) string {
	if content.Type == gjson.String {
		return content.String()
	}
	if !content.IsArray() {
		return ""
	}
	var sb strings.Builder
	for _, block := range content.Array() {
		if block.Get("type").String() == "text" {
			sb.WriteString(block.Get("text").String())
		}
	}
	return sb.String()
}

// schemaUnsupportedKeys lists JSON-Schema keywords the Gemini function
// declaration validator rejects.
var schemaUnsupportedKeys = []string{
	"$schema",
	"additionalProperties",
	"minLength",
	"maxLength",
	"minimum",
	"maximum",
	"exclusiveMinimum",
	"exclusiveMaximum",
	"pattern",
	"format",
	"default",
	"examples",
	"title",
	"$id",
	"$ref",
	"$defs",
	"definitions",
	"const",
}

// CleanJSONSchema strips schema keywords the Gemini validator rejects and
// collapses union types to their first non-null member, recursing through
// properties and items. The input raw JSON is returned unchanged on parse
// failure.
func CleanJSONSchema(schema string) string {
	parsed := gjson.Parse(schema)
	if !parsed.IsObject() {
		return schema
	}

	out := schema
	for _, key := range schemaUnsupportedKeys {
		if gjson.Get(out, key).Exists() {
			out, _ = sjson.Delete(out, key)
		}
	}

	// ["string","null"] style unions collapse to the first non-null type.
	if typ := gjson.Get(out, "type"); typ.IsArray() {
		picked := ""
		for _, t := range typ.Array() {
			if t.String() != "null" {
				picked = t.String()
				break
			}
		}
		if picked == "" {
			picked = "string"
		}
		out, _ = sjson.Set(out, "type", picked)
	}

	if props := gjson.Get(out, "properties"); props.IsObject() {
		props.ForEach(func(key, value gjson.Result) bool {
			cleaned := CleanJSONSchema(value.Raw)
			out, _ = sjson.SetRaw(out, "properties."+escapePathKey(key.String()), cleaned)
			return true
		})
	}
	if items := gjson.Get(out, "items"); items.IsObject() {
		out, _ = sjson.SetRaw(out, "items", CleanJSONSchema(items.Raw))
	}
	if anyOf := gjson.Get(out, "anyOf"); anyOf.IsArray() {
		for i, variant := range anyOf.Array() {
			if variant.IsObject() {
				out, _ = sjson.SetRaw(out, "anyOf."+strconv.Itoa(i), CleanJSONSchema(variant.Raw))
			}
		}
	}

	return out
}

func escapePathKey(key string) string {
	key = strings.ReplaceAll(key, ".", `\.`)
	key = strings.ReplaceAll(key, "*", `\*`)
	key = strings.ReplaceAll(key, "?", `\?`)
	return key
}
