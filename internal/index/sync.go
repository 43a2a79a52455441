package index

import (
	"log/slog"
	"strings"

	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/document"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
)

// excerptLength is the plain-text excerpt size stored per document.
const excerptLength = 200

// Sync walks the docs root and brings the index up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the index
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	files, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(files))
	for _, f := range files {
		disk[f.Path] = struct{}{}

		if checksums[f.Path] == f.Checksum {
			continue
		}

		data, err := store.Read(f.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", f.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexDocument(db, f.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", f.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", f.Path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteDocument(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// indexDocument assembles data and upserts it into the DB.
func indexDocument(db *DB, path string, data []byte) error {
	doc := document.Assemble(path, data)
	entry := document.IndexEntry(doc, checksum.Sum(data), excerptLength)
	return db.UpsertDocument(entry, doc.Content, internalTargets(doc.Links), doc.Metadata.RelatedDocs)
}

// internalTargets returns the internal link targets of a document:
// non-external URLs with any fragment stripped. Pure-anchor links are
// dropped, they point back into the same document.
func internalTargets(links []models.DocumentLink) []string {
	var out []string
	for _, l := range links {
		if l.IsExternal {
			continue
		}
		target := l.URL
		if i := strings.Index(target, "#"); i >= 0 {
			target = target[:i]
		}
		if target == "" {
			continue
		}
		out = append(out, target)
	}
	return out
}
