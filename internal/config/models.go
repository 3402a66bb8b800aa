package config

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ModelLabel returns a display name for a model ID, e.g.
// "gpt-4-1106-preview" -> "GPT-4 1106 Preview".
func ModelLabel(id string) string {
	parts := strings.Split(id, "-")
	if len(parts) == 0 || parts[0] == "" {
		return id
	}

	// Short family prefixes are acronyms (gpt, o1); longer ones are names
	family := cases.Title(language.English).String(parts[0])
	if len(parts[0]) <= 3 {
		family = cases.Upper(language.English).String(parts[0])
	}
	if len(parts) == 1 {
		return family
	}

	head := family + "-" + parts[1]
	if len(parts) == 2 {
		return head
	}

	rest := make([]string, 0, len(parts)-2)
	for _, p := range parts[2:] {
		rest = append(rest, cases.Title(language.English).String(p))
	}
	return head + " " + strings.Join(rest, " ")
}
