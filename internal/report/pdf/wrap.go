package pdf

import "strings"

// wrap splits s into lines no wider than maxWidth, breaking on spaces. A word
// wider than maxWidth on its own is split between characters. The result
// always has at least one line.
func wrap(s string, maxWidth float64, f font, m measurer) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		lines = append(lines, wrapParagraph(para, maxWidth, f, m)...)
	}
	return lines
}

func wrapParagraph(s string, maxWidth float64, f font, m measurer) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	cur := ""
	for _, w := range words {
		candidate := w
		if cur != "" {
			candidate = cur + " " + w
		}
		if m.width(candidate, f) <= maxWidth {
			cur = candidate
			continue
		}
		if cur != "" {
			lines = append(lines, cur)
			cur = ""
		}
		for m.width(w, f) > maxWidth {
			head, tail := splitWord(w, maxWidth, f, m)
			lines = append(lines, head)
			w = tail
		}
		cur = w
	}
	return append(lines, cur)
}

// splitWord returns the longest prefix of w that fits, and the rest. The
// prefix holds at least one character.
func splitWord(w string, maxWidth float64, f font, m measurer) (string, string) {
	runes := []rune(w)
	n := 1
	for n < len(runes) && m.width(string(runes[:n+1]), f) <= maxWidth {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}
