package ai

import "strings"

// BuildPrompt wraps the Markdown body in the fixed instruction asking for the
// two labeled output lines the response parser expects.
func BuildPrompt(body string) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following Markdown formatted page content and generate a concise, SEO-friendly description and a list of relevant keywords.\n")
	sb.WriteString("\n")
	sb.WriteString("**Markdown Content:**\n")
	sb.WriteString("```markdown\n")
	sb.WriteString(body)
	sb.WriteString("\n```\n")
	sb.WriteString("\n")
	sb.WriteString("**Instructions:**\n")
	sb.WriteString("1.  **Description:** Create a single sentence description (ideally under 160 characters).\n")
	sb.WriteString("2.  **Keywords:** Provide a comma-separated list of 5 to 10 relevant keywords.\n")
	sb.WriteString("\n")
	sb.WriteString("**Output Format:**\n")
	sb.WriteString("Return ONLY the description and keywords in the following format, with each key on a new line:\n")
	sb.WriteString("description: [Your generated description]\n")
	sb.WriteString("keywords: [keyword1, keyword2, keyword3]\n")
	return sb.String()
}
