// Package document assembles parsed Markdown files into immutable
// ParsedDocument records.
package document

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/starford/ansuz/internal/frontmatter"
	"github.com/starford/ansuz/internal/markdown"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
)

const docsAnchor = "/docs/"

// Assembler reads documents through a storage provider and builds their
// structural representation.
type Assembler struct {
	store storage.Provider
}

// NewAssembler creates an Assembler backed by store.
func NewAssembler(store storage.Provider) *Assembler {
	return &Assembler{store: store}
}

// Parse reads filePath and assembles the full document record.
// A read failure is fatal for this document and is propagated with the
// path; no partial document is returned.
func (a *Assembler) Parse(filePath string) (*models.ParsedDocument, error) {
	raw, err := a.store.Read(filePath)
	if err != nil {
		return nil, fmt.Errorf("document: parse %s: %w", filePath, err)
	}
	return Assemble(filePath, raw), nil
}

// Assemble builds a ParsedDocument from raw content. It never fails:
// malformed frontmatter falls back to defaults and unterminated fences are
// dropped by the structural parser.
func Assemble(filePath string, raw []byte) *models.ParsedDocument {
	rawContent := string(raw)
	meta, body := frontmatter.Extract(rawContent)

	return &models.ParsedDocument{
		ID:         DocID(filePath),
		FilePath:   filePath,
		Metadata:   meta,
		Content:    body,
		RawContent: rawContent,
		Headings:   markdown.ExtractHeadings(body),
		CodeBlocks: markdown.ExtractCodeBlocks(body),
		Links:      markdown.ExtractLinks(body),
	}
}

// DocID derives a document id from its file path: the portion following a
// /docs/ anchor in the forward-slash form, with any .md suffix stripped.
// Paths without the anchor fall back to the bare file name.
func DocID(filePath string) string {
	// filepath.ToSlash only rewrites the host separator, so backslashes
	// must be rewritten explicitly to stay platform-independent.
	normalized := strings.ReplaceAll(filepath.ToSlash(filePath), `\`, "/")

	// The leading slash lets a root-relative "docs/..." path anchor too.
	if idx := strings.Index("/"+normalized, docsAnchor); idx >= 0 {
		return strings.TrimSuffix(normalized[idx+len(docsAnchor)-1:], ".md")
	}

	base := normalized
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IndexEntry projects a parsed document into the flat shape consumed by
// the search index.
func IndexEntry(doc *models.ParsedDocument, checksum string, excerptLen int) models.DocumentIndexEntry {
	return models.DocumentIndexEntry{
		Path:     doc.FilePath,
		DocID:    doc.ID,
		Title:    doc.Metadata.Title,
		Category: doc.Metadata.Category,
		Tags:     doc.Metadata.Tags,
		Checksum: checksum,
		Excerpt:  markdown.ExtractExcerpt(doc.Content, excerptLen),
	}
}
