package optimize

import "strings"

// listMarker is the set of characters stripped from the start of each line.
const listMarker = "0123456789). "

// ParsePrompts splits a numbered-list response into discrete prompts.
// Blank lines are dropped; leading ordering markers such as "1.", "2)" or "3 "
// are removed. Response order is preserved.
func ParsePrompts(raw string) []string {
	lines := strings.Split(raw, "\n")
	prompts := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(strings.TrimLeft(line, listMarker))
		// A bare marker such as "3." carries no prompt
		if line == "" {
			continue
		}
		prompts = append(prompts, line)
	}
	return prompts
}
