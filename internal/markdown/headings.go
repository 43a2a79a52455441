package markdown

import (
	"regexp"
	"strings"

	"github.com/starford/ansuz/internal/models"
)

var (
	atxRe            = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	setextH1Re       = regexp.MustCompile(`^=+\s*$`)
	setextH2Re       = regexp.MustCompile(`^-+\s*$`)
	slugStripRe      = regexp.MustCompile(`[^\w\s-]`)
	slugWhitespaceRe = regexp.MustCompile(`\s+`)
)

// headingNode is one arena entry used while building the tree. Children are
// arena indices, so no back-reference from child to parent is needed.
type headingNode struct {
	heading  models.DocumentHeading
	children []int
}

// ExtractHeadings scans body line by line for ATX and Setext headings and
// builds the heading tree. Document order is preserved at every level and
// each child's level is strictly greater than its parent's.
//
// Known limitation: heading detection is not suppressed inside fenced code
// blocks, so a dashed line beneath text in a code sample is still detected
// as a level-2 Setext heading. Downstream consumers rely on the current
// output, so this is preserved.
func ExtractHeadings(body string) []models.DocumentHeading {
	lines := strings.Split(body, "\n")

	arena := make([]headingNode, 0, 8)
	var roots []int
	var stack []int // arena indices of currently open headings

	push := func(level int, text string) {
		h := models.DocumentHeading{
			Level: level,
			Text:  text,
			ID:    Slug(text),
		}
		idx := len(arena)
		arena = append(arena, headingNode{heading: h})

		// Pop anything at the same or deeper level; equal-level siblings
		// never nest.
		for len(stack) > 0 && arena[stack[len(stack)-1]].heading.Level >= level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, idx)
		} else {
			top := stack[len(stack)-1]
			arena[top].children = append(arena[top].children, idx)
		}
		stack = append(stack, idx)
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if m := atxRe.FindStringSubmatch(line); m != nil {
			push(len(m[1]), strings.TrimSpace(m[2]))
			continue
		}

		// Setext lookahead: a non-empty plain-text line underlined by = or -.
		text := strings.TrimSpace(line)
		if text == "" || i+1 >= len(lines) {
			continue
		}
		next := lines[i+1]
		switch {
		case setextH1Re.MatchString(next):
			push(1, text)
			i++
		case setextH2Re.MatchString(next):
			push(2, text)
			i++
		}
	}

	return materialize(arena, roots)
}

// materialize converts arena indices into the owned value tree.
func materialize(arena []headingNode, ids []int) []models.DocumentHeading {
	if len(ids) == 0 {
		return nil
	}
	out := make([]models.DocumentHeading, len(ids))
	for i, id := range ids {
		h := arena[id].heading
		h.Children = materialize(arena, arena[id].children)
		out[i] = h
	}
	return out
}

// Slug derives a heading id: lower-cased, punctuation stripped, whitespace
// runs collapsed to single hyphens. Collisions are not deduplicated.
func Slug(text string) string {
	s := strings.ToLower(text)
	s = slugStripRe.ReplaceAllString(s, "")
	s = slugWhitespaceRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
