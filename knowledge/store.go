package knowledge

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	_ "modernc.org/sqlite"
)

// Store archives knowledge base documents by model identifier so a
// base can be saved and reloaded alongside its model file.
type Store interface {
	// Save persists a document, replacing any previous document for
	// the same model.
	Save(ctx context.Context, doc *Document) error

	// Load retrieves the document for a model. Returns
	// ErrDocumentNotFound when no document exists.
	Load(ctx context.Context, modelID string) (*Document, error)

	// List returns the model identifiers with stored documents, sorted.
	List(ctx context.Context) ([]string, error)

	// Delete removes the document for a model. Deleting a missing
	// document is not an error.
	Delete(ctx context.Context, modelID string) error

	// Close releases store resources.
	Close() error
}

// MemoryStore is an in-memory Store for tests and single-session use.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (s *MemoryStore) Save(_ context.Context, doc *Document) error {
	if doc == nil {
		return ErrNilRecord
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("knowledge: marshal document: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ModelID] = data
	return nil
}

func (s *MemoryStore) Load(_ context.Context, modelID string) (*Document, error) {
	s.mu.RLock()
	data, ok := s.docs[modelID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: model %s", ErrDocumentNotFound, modelID)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("knowledge: unmarshal document: %w", err)
	}
	return &doc, nil
}

func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) Delete(_ context.Context, modelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, modelID)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// SQLiteStore persists documents in a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) a SQLite-backed store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("knowledge: open database: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("knowledge: migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kb_documents (
		model_id TEXT PRIMARY KEY,
		version  TEXT NOT NULL,
		saved_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		document TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Save(ctx context.Context, doc *Document) error {
	if doc == nil {
		return ErrNilRecord
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("knowledge: marshal document: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kb_documents (model_id, version, saved_at, document)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(model_id) DO UPDATE SET
			version = excluded.version,
			saved_at = excluded.saved_at,
			document = excluded.document`,
		doc.ModelID, doc.Version, doc.SavedAt, string(data))
	if err != nil {
		return fmt.Errorf("knowledge: save document: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, modelID string) (*Document, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM kb_documents WHERE model_id = ?`, modelID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: model %s", ErrDocumentNotFound, modelID)
	}
	if err != nil {
		return nil, fmt.Errorf("knowledge: load document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("knowledge: unmarshal document: %w", err)
	}
	return &doc, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT model_id FROM kb_documents ORDER BY model_id`)
	if err != nil {
		return nil, fmt.Errorf("knowledge: list documents: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("knowledge: scan model id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, modelID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM kb_documents WHERE model_id = ?`, modelID)
	if err != nil {
		return fmt.Errorf("knowledge: delete document: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
