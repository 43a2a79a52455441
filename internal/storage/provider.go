// Package storage defines the docs-root file-system abstraction.
package storage

import "github.com/starford/ansuz/internal/models"

// Provider is the interface for docs-root file operations. The docs tree is
// authored externally; the core only reads it.
type Provider interface {
	// List returns file info for every .md file under dir (relative to the docs root).
	List(dir string) ([]models.DocumentFile, error)
	// Read returns the raw bytes of the file at path (relative to the docs root).
	// A missing file fails with an error wrapping os.ErrNotExist.
	Read(path string) ([]byte, error)
}
