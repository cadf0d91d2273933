package speech

import (
	"regexp"
	"strings"
)

var (
	linkPattern  = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	chunkPattern = regexp.MustCompile(`[^.!?]+[.!?]+[\])'"` + "`" + `’”]*|.+`)
)

// Sanitize prepares message text for synthesis: emoji, exclamation marks
// and bold markers are stripped, and markdown links collapse to their
// labels.
func Sanitize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if isEmoji(r) {
			continue
		}
		b.WriteRune(r)
	}
	cleaned := b.String()

	cleaned = strings.ReplaceAll(cleaned, "!", "")
	cleaned = strings.ReplaceAll(cleaned, "**", "")
	cleaned = linkPattern.ReplaceAllString(cleaned, "$1")
	return cleaned
}

// Chunk splits text into sentence-like pieces on terminal punctuation,
// keeping trailing quotes and brackets with their sentence.
func Chunk(text string) []string {
	var out []string
	for _, c := range chunkPattern.FindAllString(text, -1) {
		if strings.TrimSpace(c) == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// isEmoji covers the pictographic blocks plus joiners and variation
// selectors so composed emoji disappear cleanly.
func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F000 && r <= 0x1FAFF: // mahjong..symbols ext-A, incl. emoji & flags
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
		return true
	case r >= 0x2B00 && r <= 0x2BFF: // arrows & symbols used as emoji
		return true
	case r >= 0xFE00 && r <= 0xFE0F: // variation selectors
		return true
	case r == 0x200D: // zero-width joiner
		return true
	}
	return false
}
