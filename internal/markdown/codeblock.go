package markdown

import (
	"regexp"
	"strings"

	"github.com/starford/ansuz/internal/models"
)

// DefaultLanguage is assigned to fences with no language tag.
const DefaultLanguage = "text"

var fenceRe = regexp.MustCompile("^```(\\S*)\\s*$")

// ExtractCodeBlocks runs a two-state scan over body: outside-fence and
// inside-fence. A fence line toggles the state; lines between a fence pair
// are accumulated verbatim. An opening fence with no matching close emits
// nothing — the partial block is discarded, not an error.
func ExtractCodeBlocks(body string) []models.CodeBlock {
	var out []models.CodeBlock

	var (
		inside    bool
		language  string
		lineStart int
		buf       []string
	)

	for i, line := range strings.Split(body, "\n") {
		m := fenceRe.FindStringSubmatch(line)
		if m == nil {
			if inside {
				buf = append(buf, line)
			}
			continue
		}

		if !inside {
			inside = true
			language = m[1]
			if language == "" {
				language = DefaultLanguage
			}
			lineStart = i + 1 // fences are recorded 1-based
			buf = buf[:0]
			continue
		}

		out = append(out, models.CodeBlock{
			Language:  language,
			Code:      strings.Join(buf, "\n"),
			LineStart: lineStart,
			LineEnd:   i + 1,
		})
		inside = false
	}

	return out
}
