package shopping

import (
	"regexp"
	"strings"
)

var (
	// "- [ ] ", "- [x] ", "• ", "* ", "– "
	bulletPattern = regexp.MustCompile(`^(?:[-*•–—]\s*)?(?:\[[ xX]?\]\s*)?(?:[•*–—]\s*)?`)
	// "1. " or "1) " but not "1.5 кг"
	numberingPattern = regexp.MustCompile(`^\d+[.)]\s+`)
)

// SplitNoteLines splits free text, such as an OCR'd note or a pasted list,
// into ingredient lines with list markers stripped. Blank lines are dropped.
func SplitNoteLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))
		line = bulletPattern.ReplaceAllString(line, "")
		line = numberingPattern.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
