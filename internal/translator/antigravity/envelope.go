// Package antigravity wraps Gemini CLI request bodies in the transport
// envelope the Antigravity backend expects: the generateContent payload
// moves under a "request" key, and the envelope carries the project,
// request, and session identifiers alongside it.
package antigravity

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/modelrelay/modelrelay/internal/util"
)

// IDs is package-level so tests can pin generated identifiers.
var IDs util.IDSource = util.RandomIDs

const envelopeUserAgent = "antigravity"

// envelopeKeys are the payload fields that move under the "request" key.
var envelopeKeys = []string{
	"contents",
	"systemInstruction",
	"generationConfig",
	"safetySettings",
	"tools",
	"toolConfig",
}

// WrapRequest nests a Gemini CLI body inside an Antigravity envelope.
// credentialsRawJSON may be nil; when it carries a projectId that project is
// used, otherwise a fresh identifier is generated.
func WrapRequest(modelName string, geminiCLIBody, credentialsRawJSON []byte) []byte {
	body := gjson.ParseBytes(geminiCLIBody)

	out, _ := sjson.Set(`{}`, "model", modelName)
	out, _ = sjson.Set(out, "userAgent", envelopeUserAgent)
	out, _ = sjson.Set(out, "requestType", "agent")

	project := gjson.GetBytes(credentialsRawJSON, "projectId").String()
	if project == "" {
		project = IDs.NewID()
	}
	out, _ = sjson.Set(out, "project", project)
	out, _ = sjson.Set(out, "requestId", "agent-"+IDs.NewID())
	out, _ = sjson.Set(out, "request.sessionId", "-"+IDs.NewID())

	for _, key := range envelopeKeys {
		if field := body.Get(key); field.Exists() {
			out, _ = sjson.SetRaw(out, "request."+key, field.Raw)
		}
	}
	return []byte(out)
}
