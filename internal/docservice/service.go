// Package docservice coordinates storage, parsing, indexing, and caching
// of documentation files.
package docservice

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/cache"
	"github.com/starford/ansuz/internal/document"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
)

// Service is the core document access layer used by the API and MCP
// surfaces. Parsed documents are cached by path with a default TTL.
type Service struct {
	store storage.Provider
	db    index.DocumentIndex
	asm   *document.Assembler
	docs  *cache.Cache[models.ParsedDocument]
	ttl   time.Duration
}

// NewService creates a new document service. docs may be nil to disable
// caching (useful in tests).
func NewService(store storage.Provider, db index.DocumentIndex, docs *cache.Cache[models.ParsedDocument], ttl time.Duration) *Service {
	return &Service{
		store: store,
		db:    db,
		asm:   document.NewAssembler(store),
		docs:  docs,
		ttl:   ttl,
	}
}

// GetDocument returns the parsed document at path, from cache when a fresh
// entry exists. A missing file maps to apperr.ErrNotFound.
func (s *Service) GetDocument(_ context.Context, path string) (*models.ParsedDocument, error) {
	if s.docs == nil {
		doc, err := s.asm.Parse(path)
		if err != nil {
			return nil, mapNotFound(err)
		}
		return doc, nil
	}

	doc, err := s.docs.GetOrFetch(path, s.ttl, func() (models.ParsedDocument, error) {
		d, err := s.asm.Parse(path)
		if err != nil {
			return models.ParsedDocument{}, err
		}
		return *d, nil
	})
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &doc, nil
}

// mapNotFound translates a missing-file parse error into the service's
// not-found sentinel; everything else passes through.
func mapNotFound(err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return apperr.ErrNotFound
	}
	return err
}

// GetOutline returns only the heading tree of the document at path.
func (s *Service) GetOutline(ctx context.Context, path string) ([]models.DocumentHeading, error) {
	doc, err := s.GetDocument(ctx, path)
	if err != nil {
		return nil, err
	}
	return doc.Headings, nil
}

// ListDocuments returns paginated index entries with an optional category filter.
func (s *Service) ListDocuments(_ context.Context, limit, offset int, category string) ([]models.DocumentIndexEntry, int, error) {
	return s.db.ListDocuments(limit, offset, category)
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]models.SearchResult, error) {
	return s.db.Search(query, limit)
}

// Backlinks returns all document paths that link to the given target.
func (s *Service) Backlinks(_ context.Context, target string) ([]string, error) {
	return s.db.Backlinks(target)
}

// Invalidate drops the cached parse of path. Called by the watcher when a
// file changes or disappears.
func (s *Service) Invalidate(path string) {
	if s.docs != nil {
		s.docs.Remove(path)
	}
}

// CacheStats reports the document cache population.
func (s *Service) CacheStats() cache.Stats {
	if s.docs == nil {
		return cache.Stats{}
	}
	return s.docs.Stats()
}

// PruneCache removes expired document cache entries and returns the count.
func (s *Service) PruneCache() int {
	if s.docs == nil {
		return 0
	}
	return s.docs.Prune()
}
