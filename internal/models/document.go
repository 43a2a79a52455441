// Package models defines the domain types for Ansuz.
package models

import "time"

// DocumentMetadata is the typed frontmatter record of a document.
// Produced once by the frontmatter parser and immutable thereafter.
type DocumentMetadata struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Category     string   `json:"category,omitempty"`
	Author       string   `json:"author,omitempty"`
	DateCreated  string   `json:"dateCreated,omitempty"`
	DateModified string   `json:"dateModified,omitempty"`
	Version      string   `json:"version,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	RelatedDocs  []string `json:"relatedDocs,omitempty"`
}

// ParsedDocument is the normalized structural representation of one
// Markdown file. It owns all nested structures; nothing is shared.
type ParsedDocument struct {
	ID         string            `json:"id"`
	FilePath   string            `json:"filePath"`
	Metadata   DocumentMetadata  `json:"metadata"`
	Content    string            `json:"content"`
	RawContent string            `json:"rawContent"`
	Headings   []DocumentHeading `json:"headings"`
	CodeBlocks []CodeBlock       `json:"codeBlocks"`
	Links      []DocumentLink    `json:"links"`
}

// DocumentHeading is one node of the heading tree. Children always have a
// strictly greater level than their parent and preserve document order.
type DocumentHeading struct {
	Level    int               `json:"level"`
	Text     string            `json:"text"`
	ID       string            `json:"id"`
	Children []DocumentHeading `json:"children,omitempty"`
}

// CodeBlock is one fenced code block. LineStart and LineEnd are the 1-based
// line numbers of the opening and closing fence lines.
type CodeBlock struct {
	Language  string `json:"language"`
	Code      string `json:"code"`
	LineStart int    `json:"lineStart"`
	LineEnd   int    `json:"lineEnd"`
}

// DocumentLink is one inline Markdown link.
type DocumentLink struct {
	Text       string `json:"text"`
	URL        string `json:"url"`
	IsExternal bool   `json:"isExternal"`
}

// CachedDocument is a fetched document stored in the tiered cache.
// FetchedAt is epoch milliseconds at insertion; TTL is milliseconds.
type CachedDocument struct {
	URL       string `json:"url"`
	Content   string `json:"content"`
	FetchedAt int64  `json:"fetchedAt"`
	TTL       int64  `json:"ttl"`
	ETag      string `json:"etag,omitempty"`
}

// DocumentFile is lightweight file info returned by storage list operations.
type DocumentFile struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentIndexEntry is the flat projection of a document handed to the
// search index. The ranking engine consuming it lives outside this module.
type DocumentIndexEntry struct {
	Path     string   `json:"path"`
	DocID    string   `json:"docId"`
	Title    string   `json:"title"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Checksum string   `json:"checksum"`
	Excerpt  string   `json:"excerpt,omitempty"`
}

// SearchResult is one search hit as served to protocol consumers.
type SearchResult struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}
