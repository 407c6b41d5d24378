package agent

import (
	"strings"
)

// chainOfThoughtPrompt builds the four-question step-by-step template.
func chainOfThoughtPrompt(query, context string) string {
	var sb strings.Builder
	sb.WriteString("Let's think step by step about this query: ")
	sb.WriteString(query)
	sb.WriteString("\n\nContext: ")
	sb.WriteString(context)
	sb.WriteString("\n\n")
	sb.WriteString("1. What is being asked?\n")
	sb.WriteString("2. What information do I already have?\n")
	sb.WriteString("3. What steps should I follow?\n")
	sb.WriteString("4. What is my conclusion?\n\n")
	sb.WriteString("Provide your reasoning and final answer.")
	return sb.String()
}

// thoughtPrompt builds the per-iteration ReAct prompt. Only the last
// two log entries are echoed back to keep the prompt bounded.
func thoughtPrompt(query, contextText string, reasoningLog []string, toolMenu string) string {
	recent := "None"
	if len(reasoningLog) > 0 {
		tail := reasoningLog
		if len(tail) > 2 {
			tail = tail[len(tail)-2:]
		}
		recent = strings.Join(tail, "\n")
	}

	var sb strings.Builder
	sb.WriteString("Query: ")
	sb.WriteString(query)
	if contextText != "" {
		sb.WriteString("\nContext: ")
		sb.WriteString(contextText)
	}
	sb.WriteString("\nPrevious reasoning steps: ")
	sb.WriteString(recent)
	sb.WriteString("\n\nAvailable tools:\n")
	sb.WriteString(toolMenu)
	sb.WriteString("\nThink about the next action. If you have enough information, respond with 'finish'.\n")
	sb.WriteString("Otherwise, choose a tool and provide parameters.\n\n")
	sb.WriteString("Respond in the format:\n")
	sb.WriteString("Thought: ...\n")
	sb.WriteString("Action: <tool_name or 'finish'>\n")
	sb.WriteString("Parameters: { ... }")
	return sb.String()
}

// synthesisPrompt builds the final-answer prompt over the full
// reasoning log.
func synthesisPrompt(query string, reasoningLog []string) string {
	var sb strings.Builder
	sb.WriteString("Original query: ")
	sb.WriteString(query)
	sb.WriteString("\nReasoning steps:\n")
	for _, entry := range reasoningLog {
		sb.WriteString(entry)
		sb.WriteString("\n")
	}
	sb.WriteString("\nBased on the above reasoning, provide a concise final answer.")
	return sb.String()
}
