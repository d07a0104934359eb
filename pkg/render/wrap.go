package render

import (
	"strings"

	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/export"
)

// wrap breaks s into lines no wider than width, with the first line limited
// to first. Newlines are kept; words wider than a line are split by rune.
func wrap(s string, size float64, bold bool, first, width float64) []string {
	var out []string
	limit := func() float64 {
		if len(out) == 0 {
			return first
		}
		return width
	}
	fits := func(t string) bool { return export.MeasureText(t, size, bold) <= limit() }

	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		cur := ""
		for _, word := range words {
			cand := word
			if cur != "" {
				cand = cur + " " + word
			}
			if fits(cand) {
				cur = cand
				continue
			}
			if cur != "" {
				out = append(out, cur)
				cur = ""
			}
			for word != "" && !fits(word) {
				head := splitToFit(word, fits)
				out = append(out, head)
				word = word[len(head):]
			}
			cur = word
		}
		out = append(out, cur)
	}
	// drop trailing empty lines
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

// splitToFit returns the longest rune prefix of word that fits, at least one rune.
func splitToFit(word string, fits func(string) bool) string {
	runes := []rune(word)
	n := 1
	for n < len(runes) && fits(string(runes[:n+1])) {
		n++
	}
	return string(runes[:n])
}
