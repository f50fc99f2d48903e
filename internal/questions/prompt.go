package questions

import (
	"fmt"
	"strings"
)

// DefaultStack replaces an empty tech stack.
const DefaultStack = "General Programming"

const promptTemplate = `Generate 4 practical technical interview questions for a candidate skilled in %s. Each question should be unique, clear, and based on real-world scenarios. Respond with only the following numbered format:
1. <question one>
2. <question two>
3. <question three>
4. <question four>
strictly Do not include any introductions, explanations, markdown formatting, or extra text. Only return the 4 questions.`

func normalizeStack(stack string) string {
	stack = strings.TrimSpace(stack)
	if stack == "" {
		return DefaultStack
	}
	return stack
}

// BuildPrompt renders the generation prompt for a tech stack.
func BuildPrompt(stack string) string {
	return fmt.Sprintf(promptTemplate, normalizeStack(stack))
}
