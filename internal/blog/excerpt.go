package blog

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const (
	maxExcerptLength = 160
	ellipsis         = "…"
	punctuation      = ",.;:!? "
)

var (
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
	strictPolicy        = bluemonday.StrictPolicy()
)

// Excerpt strips markup from text and shortens it to a feed-friendly summary
func Excerpt(text string) string {
	text = strictPolicy.Sanitize(text)

	// StrictPolicy escapes what it keeps, feeds escape again on marshaling
	text = html.UnescapeString(text)

	text = multipleSpacesRegex.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	return truncateAtWordBoundary(text, maxExcerptLength)
}

// truncateAtWordBoundary truncates text at a word boundary
func truncateAtWordBoundary(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}

	lastWordEnd := 0
	currentCount := 0

	for i, r := range text {
		currentCount++

		if unicode.IsSpace(r) {
			lastWordEnd = i
		}

		if currentCount >= limit {
			var truncated string

			if lastWordEnd > 0 {
				// Truncate at the last word boundary
				truncated = text[:lastWordEnd]
			} else {
				// If no word boundary found, just truncate at the limit
				truncated = text[:i]
			}

			// Remove trailing punctuation before adding ellipsis
			truncated = strings.TrimRight(truncated, punctuation)

			return truncated + ellipsis
		}
	}

	return text
}
