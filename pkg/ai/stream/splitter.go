package stream

import "strings"

// SplitParagraphs breaks a complete reply into streamable chunks on blank-line
// boundaries. Paragraph structure is preserved: every chunk except the last
// ends with the "\n\n" separator so the client can concatenate chunks verbatim
// to reconstruct the full text. Empty input yields no chunks.
func SplitParagraphs(text string) []string {
	if text == "" {
		return nil
	}

	parts := strings.Split(text, "\n\n")
	chunks := make([]string, 0, len(parts))
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i < len(parts)-1 {
			part += "\n\n"
		}
		chunks = append(chunks, part)
	}

	if len(chunks) == 0 {
		return []string{text}
	}
	return chunks
}
