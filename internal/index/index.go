package index

import "github.com/starford/ansuz/internal/models"

// DocumentIndex defines the interface for document indexing operations.
// Consumers should depend on this interface rather than the concrete *DB
// type to facilitate testing with mocks.
type DocumentIndex interface {
	UpsertDocument(e models.DocumentIndexEntry, body string, inline, related []string) error
	DeleteDocument(path string) error
	GetDocument(path string) (*models.DocumentIndexEntry, error)
	ListDocuments(limit, offset int, category string) ([]models.DocumentIndexEntry, int, error)
	Search(query string, limit int) ([]models.SearchResult, error)
	Backlinks(target string) ([]string, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies DocumentIndex at compile time.
var _ DocumentIndex = (*DB)(nil)
