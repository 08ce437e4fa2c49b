package llm

import "strings"

// StripFences removes a single leading markdown code-fence opener
// (language-tagged or bare) and a single trailing closer, then trims
// surrounding whitespace. Models habitually wrap JSON and policy output
// in fences even when told not to. Idempotent on already-clean text; no
// other malformation is touched.
func StripFences(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}

	if strings.HasSuffix(text, "```") {
		text = text[:len(text)-len("```")]
	}

	return strings.TrimSpace(text)
}
