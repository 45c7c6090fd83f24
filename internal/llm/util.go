// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import (
	"regexp"
	"strings"
)

// ResponseTag is the tag prompts ask the model to wrap its answer in.
const ResponseTag = "response"

// TextBetweenTags returns the trimmed content of the first <tag>...</tag> pair in source.
// Matching ignores case and spans newlines. When no pair is found, source is
// returned unchanged.
func TextBetweenTags(source, tag string) string {
	quoted := regexp.QuoteMeta(tag)
	pattern := regexp.MustCompile(`(?is)<` + quoted + `>(.*?)</` + quoted + `>`)

	match := pattern.FindStringSubmatch(source)
	if match == nil {
		return source
	}
	return strings.TrimSpace(match[1])
}
