// Package markdown extracts the structural representation of a Markdown
// body: heading hierarchy, fenced code blocks, inline links, and a
// plain-text rendering used for excerpts.
//
// Coverage is intentionally narrow: ATX/Setext headings, triple-backtick
// fences, and inline [text](url) links. Tables, nested emphasis edge cases,
// and raw HTML are out of scope.
package markdown

import (
	"regexp"
	"strings"

	"github.com/starford/ansuz/internal/models"
)

var linkRe = regexp.MustCompile(`\[([^\]]*)\]\(([^)]+)\)`)

// ExtractLinks returns every inline link in document order. Image syntax is
// not distinguished here; images are only filtered during StripMarkdown.
func ExtractLinks(body string) []models.DocumentLink {
	matches := linkRe.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]models.DocumentLink, 0, len(matches))
	for _, m := range matches {
		url := m[2]
		out = append(out, models.DocumentLink{
			Text:       m[1],
			URL:        url,
			IsExternal: isExternal(url),
		})
	}
	return out
}

func isExternal(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

// Strip patterns, applied in order. Later patterns assume earlier ones have
// already collapsed their targets, so the order is load-bearing.
var (
	stripFenceRe      = regexp.MustCompile("(?s)```.*?```")
	stripInlineCodeRe = regexp.MustCompile("`[^`]*`")
	stripImageRe      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	stripLinkRe       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	stripHeadingRe    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	stripBoldRe       = regexp.MustCompile(`\*\*(.+?)\*\*|__(.+?)__`)
	stripItalicRe     = regexp.MustCompile(`\*(.+?)\*|_(.+?)_`)
	stripQuoteRe      = regexp.MustCompile(`(?m)^>\s?`)
	stripRuleRe       = regexp.MustCompile(`(?m)^(?:-{3,}|_{3,}|\*{3,})\s*$`)
	stripListRe       = regexp.MustCompile(`(?m)^\s*(?:[-*+]|\d+\.)\s+`)
	stripNewlinesRe   = regexp.MustCompile(`\n{3,}`)
)

// StripMarkdown renders body down to plain text: code blocks and inline
// code are dropped, images collapse to their alt text, links to their link
// text, and all remaining markers are removed.
func StripMarkdown(body string) string {
	s := body
	s = stripFenceRe.ReplaceAllString(s, "")
	s = stripInlineCodeRe.ReplaceAllString(s, "")
	s = stripImageRe.ReplaceAllString(s, "$1")
	s = stripLinkRe.ReplaceAllString(s, "$1")
	s = stripHeadingRe.ReplaceAllString(s, "")
	s = stripBoldRe.ReplaceAllString(s, "$1$2")
	s = stripItalicRe.ReplaceAllString(s, "$1$2")
	s = stripQuoteRe.ReplaceAllString(s, "")
	s = stripRuleRe.ReplaceAllString(s, "")
	s = stripListRe.ReplaceAllString(s, "")
	s = stripNewlinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// ExtractExcerpt strips body to plain text and truncates to maxLength
// runes, preferring a sentence boundary past the halfway mark, then the
// last word boundary, then a hard cut. The result is never longer than
// maxLength plus an appended ellipsis.
func ExtractExcerpt(body string, maxLength int) string {
	plain := StripMarkdown(body)
	runes := []rune(plain)
	if len(runes) <= maxLength {
		return plain
	}

	window := runes[:maxLength]

	// Natural break: last sentence terminator past half the window.
	if pos := lastSentenceEnd(window); pos > maxLength/2 {
		return string(window[:pos+1])
	}

	if pos := lastIndexRune(window, ' '); pos > 0 {
		return string(window[:pos]) + "..."
	}
	return string(window) + "..."
}

func lastSentenceEnd(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		switch runes[i] {
		case '.', '!', '?':
			return i
		}
	}
	return -1
}

func lastIndexRune(runes []rune, r rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}
