// Package frontmatter extracts and serializes the delimited metadata block
// at the top of a Markdown document.
//
// The dialect is a deliberate subset: scalars, quoted scalars, inline arrays,
// block arrays, and block scalars (| and >). It is not YAML; a line-oriented
// state machine keeps the termination rules mechanically checkable.
package frontmatter

import (
	"regexp"
	"strings"

	"github.com/starford/ansuz/internal/models"
)

// DefaultTitle is used when a document has no usable title field.
const DefaultTitle = "Untitled"

const delim = "---"

var keyRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*):(.*)$`)

// scan states.
type state int

const (
	stateTopLevel state = iota
	stateBlockArray
	stateBlockScalar
)

// Extract splits text into typed metadata and the remaining body.
//
// The metadata block must start at the very first byte of the input: a line
// of exactly "---", the block content, and a second "---" line. Any input
// that does not match yields default metadata and the full input as body —
// malformed frontmatter is never an error.
func Extract(text string) (models.DocumentMetadata, string) {
	meta := models.DocumentMetadata{Title: DefaultTitle}

	block, body, ok := splitBlock(text)
	if !ok {
		return meta, text
	}

	parseBlock(block, &meta)
	if meta.Title == "" {
		meta.Title = DefaultTitle
	}
	return meta, body
}

// splitBlock returns the raw block content and the body after the closing
// delimiter. ok is false when the input does not begin with a well-formed
// delimited block.
func splitBlock(text string) (block, body string, ok bool) {
	if !strings.HasPrefix(text, delim+"\n") {
		return "", "", false
	}
	rest := text[len(delim)+1:]

	if idx := strings.Index(rest, "\n"+delim+"\n"); idx >= 0 {
		return rest[:idx], rest[idx+len(delim)+2:], true
	}
	if strings.HasSuffix(rest, "\n"+delim) {
		return rest[:len(rest)-len(delim)-1], "", true
	}
	return "", "", false
}

// parseBlock walks the block line by line, tracking whether the scanner is
// inside a block array or block scalar continuation.
func parseBlock(block string, meta *models.DocumentMetadata) {
	lines := strings.Split(block, "\n")

	var (
		st     = stateTopLevel
		key    string
		scalar strings.Builder
		items  []string
	)

	flush := func() {
		switch st {
		case stateBlockScalar:
			assignScalar(meta, key, strings.TrimSpace(scalar.String()))
		case stateBlockArray:
			assignArray(meta, key, items)
		}
		st = stateTopLevel
		scalar.Reset()
		items = nil
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		// Blank lines and comments never change state.
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		switch st {
		case stateBlockScalar:
			// A line starting with a letter or underscore ends the scalar
			// and is reparsed as a new key.
			if isKeyStart(line) {
				flush()
				i-- // reprocess
				continue
			}
			if scalar.Len() > 0 {
				scalar.WriteByte(' ')
			}
			scalar.WriteString(trimmed)

		case stateBlockArray:
			if strings.HasPrefix(trimmed, "-") {
				items = append(items, unquote(strings.TrimSpace(trimmed[1:])))
				continue
			}
			// The terminator is not consumed; parsing resumes from it.
			flush()
			i--

		case stateTopLevel:
			m := keyRe.FindStringSubmatch(line)
			if m == nil {
				continue // stray line, dropped
			}
			key = m[1]
			value := strings.TrimSpace(m[2])

			switch {
			case value == "|" || value == ">":
				st = stateBlockScalar
			case value == "":
				st = stateBlockArray
			case strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]"):
				assignArray(meta, key, splitInline(value))
			default:
				assignScalar(meta, key, unquote(value))
			}
		}
	}
	flush()
}

func isKeyStart(line string) bool {
	if line == "" {
		return false
	}
	c := line[0]
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// splitInline parses an inline [a, b, c] array.
func splitInline(value string) []string {
	inner := strings.TrimSpace(value[1 : len(value)-1])
	if inner == "" {
		return nil
	}
	parts := strings.Split(inner, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, unquote(strings.TrimSpace(p)))
	}
	return out
}

// unquote strips one pair of matching single or double quotes.
// No escape-sequence processing is performed.
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// assignScalar maps a scalar value onto the metadata record.
// Unrecognized keys are silently dropped.
func assignScalar(meta *models.DocumentMetadata, key, value string) {
	switch key {
	case "title":
		meta.Title = value
	case "description":
		meta.Description = value
	case "category":
		meta.Category = value
	case "author":
		meta.Author = value
	case "dateCreated":
		meta.DateCreated = value
	case "dateModified":
		meta.DateModified = value
	case "version":
		meta.Version = value
	case "tags", "relatedDocs":
		// Array-typed keys always store a sequence, even for one value.
		if value != "" {
			assignArray(meta, key, []string{value})
		}
	}
}

// assignArray maps a sequence value onto the metadata record.
func assignArray(meta *models.DocumentMetadata, key string, values []string) {
	if len(values) == 0 {
		return
	}
	switch key {
	case "tags":
		meta.Tags = values
	case "relatedDocs":
		meta.RelatedDocs = values
	case "title", "description", "category", "author", "dateCreated", "dateModified", "version":
		// Scalar key given a sequence: keep the first item.
		assignScalar(meta, key, values[0])
	}
}

// Serialize renders metadata back into the delimited-block format.
// Field order is fixed; re-parsing the output reproduces every non-empty
// field. Byte-for-byte reproduction of the source is not a goal.
func Serialize(meta models.DocumentMetadata) string {
	var b strings.Builder
	b.WriteString(delim + "\n")

	writeScalar := func(key, value string) {
		if value != "" {
			b.WriteString(key + ": " + value + "\n")
		}
	}
	writeArray := func(key string, values []string) {
		if len(values) == 0 {
			return
		}
		b.WriteString(key + ":\n")
		for _, v := range values {
			b.WriteString("  - " + v + "\n")
		}
	}

	title := meta.Title
	if title == "" {
		title = DefaultTitle
	}
	writeScalar("title", title)
	writeScalar("description", meta.Description)
	writeScalar("category", meta.Category)
	writeScalar("author", meta.Author)
	writeScalar("dateCreated", meta.DateCreated)
	writeScalar("dateModified", meta.DateModified)
	writeScalar("version", meta.Version)
	writeArray("tags", meta.Tags)
	writeArray("relatedDocs", meta.RelatedDocs)

	b.WriteString(delim + "\n")
	return b.String()
}
