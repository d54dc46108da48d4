package analyze

import "strings"

// buildReviewPrompt embeds file content in the review instruction. The
// category list here must line up with what the normalizer expects back.
func buildReviewPrompt(content string) string {
	var b strings.Builder

	b.WriteString("Analyze the following code for potential issues, improvements, and best practices:\n\n")
	b.WriteString(content)
	b.WriteString("\n\nProvide a structured analysis covering:\n")
	b.WriteString("1. security\n")
	b.WriteString("2. performance\n")
	b.WriteString("3. code_style\n")
	b.WriteString("4. potential_bugs\n")
	b.WriteString("5. best_practices\n\n")
	b.WriteString("Format the response as a JSON object with exactly these five categories as keys.\n")
	b.WriteString("Each category maps to an array of findings with line, severity, description, and suggestion fields.\n")

	return b.String()
}
