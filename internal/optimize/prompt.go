package optimize

import "fmt"

// ExplainTemperature is used for every explanation call, independent of the
// generation temperature.
const ExplainTemperature = 0.5

const explainSystemPrompt = "You are a prompt engineering expert who explains prompt design improvements."

// buildSystemPrompt creates the system instruction for generating count alternatives.
func buildSystemPrompt(count int) string {
	return fmt.Sprintf(`You are a prompt engineering assistant. Your task is to improve user prompts.
Suggest %d optimized versions of the prompt below, formatted as a numbered list.`, count)
}

// buildExplainPrompt creates the user message comparing the original and improved prompt.
func buildExplainPrompt(original, improved string) string {
	return fmt.Sprintf(`Original Prompt: %s

Improved Prompt: %s

Explain why the improved prompt is more effective.`, original, improved)
}
