package util

import (
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tiktoken-go/tokenizer"
)

var (
	encOnce sync.Once
	enc     tokenizer.Codec
)

func codec() tokenizer.Codec {
	encOnce.Do(func() {
		// O200kBase is close enough for budget estimation across the
		// model families the gateway fronts.
		enc, _ = tokenizer.Get(tokenizer.O200kBase)
	})
	return enc
}

// CountTokens estimates the token count of text with the tiktoken BPE
// tokenizer, falling back to a bytes/4 heuristic when the codec is
// unavailable.
func CountTokens(text string) int64 {
	if text == "" {
		return 0
	}
	if c := codec(); c != nil {
		if _, tokens, err := c.Encode(text); err == nil {
			return int64(len(tokens))
		}
	}
	return int64(len(text)+3) / 4
}

// CountRequestTokens estimates the prompt token count of a chat request
// body by summing the text carried in its messages, system prompt, and
// message content arrays.
func CountRequestTokens(rawJSON []byte) int64 {
	root := gjson.ParseBytes(rawJSON)
	var total int64

	if system := root.Get("system"); system.Exists() {
		total += CountTokens(ExtractText(system))
	}
	for _, msg := range root.Get("messages").Array() {
		total += CountTokens(ExtractText(msg.Get("content")))
	}
	for _, content := range root.Get("contents").Array() {
		for _, part := range content.Get("parts").Array() {
			total += CountTokens(part.Get("text").String())
		}
	}
	return total
}
