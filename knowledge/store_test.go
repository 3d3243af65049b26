package knowledge

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "kb.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestStoreSaveLoadList(t *testing.T) {
	ctx := context.Background()
	doc := populatedBase(t).Snapshot()

	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Load(ctx, "model-1"); !errors.Is(err, ErrDocumentNotFound) {
				t.Errorf("load before save: err = %v, want ErrDocumentNotFound", err)
			}

			if err := store.Save(ctx, doc); err != nil {
				t.Fatalf("save: %v", err)
			}
			back, err := store.Load(ctx, "model-1")
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if diff := cmp.Diff(doc, back); diff != "" {
				t.Errorf("store round trip mismatch (-want +got):\n%s", diff)
			}

			ids, err := store.List(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(ids) != 1 || ids[0] != "model-1" {
				t.Errorf("list = %v", ids)
			}
		})
	}
}

func TestStoreSaveReplacesAndDelete(t *testing.T) {
	ctx := context.Background()
	doc := populatedBase(t).Snapshot()

	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Save(ctx, doc); err != nil {
				t.Fatalf("save: %v", err)
			}
			updated := *doc
			updated.Siphons = nil
			if err := store.Save(ctx, &updated); err != nil {
				t.Fatalf("second save: %v", err)
			}
			back, err := store.Load(ctx, "model-1")
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if len(back.Siphons) != 0 {
				t.Error("second save must replace the first document")
			}

			if err := store.Delete(ctx, "model-1"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := store.Load(ctx, "model-1"); !errors.Is(err, ErrDocumentNotFound) {
				t.Errorf("load after delete: err = %v", err)
			}
			// Deleting a missing document is not an error.
			if err := store.Delete(ctx, "model-1"); err != nil {
				t.Errorf("repeat delete: %v", err)
			}
		})
	}
}
