package optimize

import (
	"strings"
	"unicode/utf8"
)

// complexityMarks are the punctuation characters that add to a prompt's complexity score.
const complexityMarks = ",.;:"

// Row is one line of the side-by-side prompt comparison.
type Row struct {
	Index           int // 1-based position in the optimized list
	Text            string
	WordCount       int
	ComplexityScore int
	Tokens          int
}

// Compare builds the comparison table for a list of optimized prompts.
// It is a pure function of prompts and holds no state of its own.
func Compare(prompts []string) []Row {
	rows := make([]Row, 0, len(prompts))
	for i, p := range prompts {
		rows = append(rows, Row{
			Index:           i + 1,
			Text:            p,
			WordCount:       WordCount(p),
			ComplexityScore: ComplexityScore(p),
			Tokens:          CountTokens(p),
		})
	}
	return rows
}

// WordCount returns the number of whitespace-delimited tokens in prompt.
func WordCount(prompt string) int {
	return len(strings.Fields(prompt))
}

// ComplexityScore is the word count plus the number of , . ; : characters.
// It is a display heuristic only.
func ComplexityScore(prompt string) int {
	marks := 0
	for _, r := range prompt {
		if strings.ContainsRune(complexityMarks, r) {
			marks++
		}
	}
	return WordCount(prompt) + marks
}

// CountTokens estimates the token count for content using runes/4 approximation.
// This provides a reasonable estimate for common chat-model tokenizers without
// requiring external vocabulary files.
func CountTokens(content string) int {
	if len(content) == 0 {
		return 0
	}
	return utf8.RuneCountInString(content) / 4
}

// TokenStats holds original/selected token statistics.
type TokenStats struct {
	Before int
	After  int
}

// Added returns the number of tokens the rewrite added (negative when it shrank).
func (s TokenStats) Added() int {
	return s.After - s.Before
}

// PercentChange returns the relative size change of the rewrite.
func (s TokenStats) PercentChange() float64 {
	if s.Before == 0 {
		return 0
	}
	return float64(s.Added()) / float64(s.Before) * 100
}
