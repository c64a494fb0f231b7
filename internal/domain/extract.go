package domain

import "strings"

// ExtractCommand derives a single candidate command from raw model output.
//
// Markdown fence lines are dropped, then contiguous non-blank lines are
// collected from the first content line, stopping at the first blank line
// after content and capped at MaxExtractedLines. The result is trimmed and
// may be multi-line; downstream treats it as the literal command text.
//
// Extraction is pure and idempotent. An empty result is a terminal failure
// for the invocation.
func ExtractCommand(raw string) string {
	var collected []string
	started := false
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if isFenceMarker(trimmed) {
			continue
		}
		if trimmed == "" {
			if started {
				break
			}
			continue
		}
		collected = append(collected, line)
		started = true
		if len(collected) == MaxExtractedLines {
			break
		}
	}
	return strings.TrimSpace(strings.Join(collected, "\n"))
}

// isFenceMarker matches lines that open or close a markdown code block,
// with or without a language tag.
func isFenceMarker(line string) bool {
	return strings.HasPrefix(line, "```")
}
