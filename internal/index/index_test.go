package index

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func entry(path, title string) models.DocumentIndexEntry {
	return models.DocumentIndexEntry{
		Path:     path,
		DocID:    path,
		Title:    title,
		Checksum: "cs-" + path,
		Tags:     []string{"guide"},
		Excerpt:  "excerpt of " + title,
	}
}

func TestUpsertAndGetDocument(t *testing.T) {
	db := openTestDB(t)

	if err := db.UpsertDocument(entry("a.md", "Alpha"), "alpha body", nil, nil); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := db.GetDocument("a.md")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("expected entry")
	}
	if got.Title != "Alpha" || got.Checksum != "cs-a.md" {
		t.Errorf("got %+v", got)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "guide" {
		t.Errorf("tags = %v", got.Tags)
	}
}

func TestGetDocumentAbsentIsNil(t *testing.T) {
	db := openTestDB(t)
	got, err := db.GetDocument("nope.md")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestUpsertReplaces(t *testing.T) {
	db := openTestDB(t)

	if err := db.UpsertDocument(entry("a.md", "Old"), "old", nil, nil); err != nil {
		t.Fatal(err)
	}
	e := entry("a.md", "New")
	e.Checksum = "cs-2"
	if err := db.UpsertDocument(e, "new", nil, nil); err != nil {
		t.Fatal(err)
	}

	got, err := db.GetDocument("a.md")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "New" || got.Checksum != "cs-2" {
		t.Errorf("got %+v", got)
	}

	_, total, err := db.ListDocuments(10, 0, "")
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("total = %d, want 1 after replace", total)
	}
}

func TestDeleteDocument(t *testing.T) {
	db := openTestDB(t)

	if err := db.UpsertDocument(entry("a.md", "A"), "body", []string{"b.md"}, nil); err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteDocument("a.md"); err != nil {
		t.Fatal(err)
	}

	got, err := db.GetDocument("a.md")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Error("document not deleted")
	}
	back, err := db.Backlinks("b.md")
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != 0 {
		t.Errorf("links not deleted: %v", back)
	}
}

func TestListDocuments(t *testing.T) {
	db := openTestDB(t)
	for _, p := range []string{"c.md", "a.md", "b.md"} {
		e := entry(p, "T "+p)
		if p == "b.md" {
			e.Category = "api"
		}
		if err := db.UpsertDocument(e, "body", nil, nil); err != nil {
			t.Fatal(err)
		}
	}

	docs, total, err := db.ListDocuments(2, 0, "")
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 {
		t.Errorf("total = %d", total)
	}
	if len(docs) != 2 || docs[0].Path != "a.md" || docs[1].Path != "b.md" {
		t.Errorf("page = %+v", docs)
	}

	docs, _, err = db.ListDocuments(2, 2, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].Path != "c.md" {
		t.Errorf("second page = %+v", docs)
	}

	docs, total, err = db.ListDocuments(0, 0, "api")
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(docs) != 1 || docs[0].Path != "b.md" {
		t.Errorf("category filter = %+v (total %d)", docs, total)
	}
}

func TestSearch(t *testing.T) {
	db := openTestDB(t)
	if err := db.UpsertDocument(entry("a.md", "Install Guide"), "how to install the server", nil, nil); err != nil {
		t.Fatal(err)
	}
	if err := db.UpsertDocument(entry("b.md", "API Reference"), "endpoints and payloads", nil, nil); err != nil {
		t.Fatal(err)
	}

	res, err := db.Search("install", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 1 || res[0].Path != "a.md" {
		t.Fatalf("results = %+v", res)
	}
	if res[0].Snippet == "" {
		t.Error("expected snippet")
	}

	res, err = db.Search("zyxxyz", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 0 {
		t.Errorf("results = %+v, want none", res)
	}
}

func TestBacklinks(t *testing.T) {
	db := openTestDB(t)
	if err := db.UpsertDocument(entry("a.md", "A"), "", []string{"target.md"}, nil); err != nil {
		t.Fatal(err)
	}
	if err := db.UpsertDocument(entry("b.md", "B"), "", []string{"target.md"}, []string{"target.md"}); err != nil {
		t.Fatal(err)
	}

	back, err := db.Backlinks("target.md")
	if err != nil {
		t.Fatal(err)
	}
	// b.md links twice (inline and related) but appears once.
	if len(back) != 2 || back[0] != "a.md" || back[1] != "b.md" {
		t.Errorf("backlinks = %v", back)
	}
}

func TestAllChecksums(t *testing.T) {
	db := openTestDB(t)
	if err := db.UpsertDocument(entry("a.md", "A"), "", nil, nil); err != nil {
		t.Fatal(err)
	}
	cs, err := db.AllChecksums()
	if err != nil {
		t.Fatal(err)
	}
	if cs["a.md"] != "cs-a.md" {
		t.Errorf("checksums = %v", cs)
	}
}

func TestInternalTargets(t *testing.T) {
	links := []models.DocumentLink{
		{URL: "guides/setup.md", IsExternal: false},
		{URL: "https://example.com", IsExternal: true},
		{URL: "api.md#auth", IsExternal: false},
		{URL: "#local-anchor", IsExternal: false},
	}
	got := internalTargets(links)
	if len(got) != 2 || got[0] != "guides/setup.md" || got[1] != "api.md" {
		t.Errorf("targets = %v", got)
	}
}

func TestSync(t *testing.T) {
	db := openTestDB(t)
	root := t.TempDir()
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	logger := discardLogger()

	write := func(rel, content string) {
		t.Helper()
		abs := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("intro.md", "---\ntitle: Intro\n---\nWelcome. See [setup](guides/setup.md).")
	write("guides/setup.md", "---\ntitle: Setup\n---\nInstall steps.")

	if err := Sync(db, store, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	_, total, err := db.ListDocuments(10, 0, "")
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}

	got, err := db.GetDocument("intro.md")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Title != "Intro" {
		t.Fatalf("entry = %+v", got)
	}
	back, err := db.Backlinks("guides/setup.md")
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != 1 || back[0] != "intro.md" {
		t.Errorf("backlinks = %v", back)
	}

	// Unchanged files are skipped, changed ones re-indexed, removed ones dropped.
	write("intro.md", "---\ntitle: Intro v2\n---\nUpdated.")
	if err := os.Remove(filepath.Join(root, "guides", "setup.md")); err != nil {
		t.Fatal(err)
	}

	if err := Sync(db, store, logger); err != nil {
		t.Fatalf("second Sync: %v", err)
	}

	got, err = db.GetDocument("intro.md")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Title != "Intro v2" {
		t.Errorf("entry after resync = %+v", got)
	}
	gone, err := db.GetDocument("guides/setup.md")
	if err != nil {
		t.Fatal(err)
	}
	if gone != nil {
		t.Errorf("stale entry not removed: %+v", gone)
	}
}
