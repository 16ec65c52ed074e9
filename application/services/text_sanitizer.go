package services

import (
	"regexp"
	"strings"
)

// TextSanitizer normalizes extracted transcript text before segmentation.
// Paragraph breaks survive as newlines; everything else is collapsed.
type TextSanitizer struct {
	wordRegexp        *regexp.Regexp
	spaceRegexp       *regexp.Regexp
	newlineRegexp     *regexp.Regexp
	ellipsisRegexp    *regexp.Regexp
	missingGapRegexp  *regexp.Regexp
	danglingGapRegexp *regexp.Regexp
}

func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{
		wordRegexp:        regexp.MustCompile(`[\p{L}\p{N}]+`),
		spaceRegexp:       regexp.MustCompile(`[ \t]+`),
		newlineRegexp:     regexp.MustCompile(`\n{3,}`),
		ellipsisRegexp:    regexp.MustCompile(`\.{2,}`),
		missingGapRegexp:  regexp.MustCompile(`([.!?])(\p{Lu})`),
		danglingGapRegexp: regexp.MustCompile(`\s+([.!?,;:])`),
	}
}

func (t *TextSanitizer) Clean(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = t.spaceRegexp.ReplaceAllString(text, " ")
	text = t.newlineRegexp.ReplaceAllString(text, "\n\n")
	text = t.ellipsisRegexp.ReplaceAllString(text, ".")
	text = t.missingGapRegexp.ReplaceAllString(text, "$1 $2")
	text = t.danglingGapRegexp.ReplaceAllString(text, "$1")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func (t *TextSanitizer) CountWords(text string) int {
	return len(t.wordRegexp.FindAllString(text, -1))
}
