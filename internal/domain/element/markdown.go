package element

import "strings"

// RenderMarkdown flattens an element sequence into the text artifact searched
// by the pattern engine. Formatting by category: titles become headings, list
// items become bullet lines, tables become fenced blocks, everything else is
// a plain paragraph. Elements with empty (after trimming) text are skipped.
// The output is a pure function of the input sequence.
func RenderMarkdown(elements []Element) string {
	var b strings.Builder
	for _, el := range elements {
		text := strings.TrimSpace(el.Text)
		if text == "" {
			continue
		}

		switch el.Category {
		case Title:
			b.WriteString("# ")
			b.WriteString(text)
			b.WriteString("\n\n")
		case ListItem:
			b.WriteString("- ")
			b.WriteString(text)
			b.WriteString("\n")
		case Table:
			b.WriteString("```\n")
			b.WriteString(text)
			b.WriteString("\n```\n\n")
		default:
			b.WriteString(text)
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

// PreviewLimit bounds the content preview stored on a document record.
const PreviewLimit = 500

// Preview returns a bounded prefix of the flattened text. Truncation is
// rune-safe and marked with an ellipsis suffix.
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= PreviewLimit {
		return text
	}
	return string(runes[:PreviewLimit]) + "..."
}
