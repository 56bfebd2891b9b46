// Package scenestore persists the scene entity list in SQLite. It keeps a
// validated in-memory copy and writes every mutation through.
package scenestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/philipparndt/yardplan/internal/scene"
	"github.com/philipparndt/yardplan/pkg/geometry"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const schema = `
CREATE TABLE IF NOT EXISTS entities (
    id       TEXT PRIMARY KEY,
    seq      INTEGER NOT NULL,
    kind     TEXT NOT NULL,
    body     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS entities_seq ON entities(seq);
`

// Store is a scene.Store backed by a SQLite database
type Store struct {
	db  *sql.DB
	ctx context.Context
	log *slog.Logger

	mu  sync.Mutex
	mem *scene.MemoryStore
	seq int64
}

var _ scene.Store = (*Store)(nil)

// OpenSQLite opens (creating if needed) the database file at path
func OpenSQLite(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// Open opens the scene database at path and loads its entities. ctx bounds
// every statement the store issues.
func Open(ctx context.Context, path string, log *slog.Logger) (*Store, error) {
	db, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	s, err := New(ctx, db, log)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database, applying the schema and loading entities
func New(ctx context.Context, db *sql.DB, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	s := &Store{db: db, ctx: ctx, log: log}
	items, err := s.load()
	if err != nil {
		return nil, err
	}
	s.mem = scene.NewMemoryStore(items...)
	// deletions leave gaps, so continue after the highest stored position
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM entities`).Scan(&s.seq); err != nil {
		return nil, fmt.Errorf("read sequence: %w", err)
	}
	log.Debug("scene loaded", "entities", len(items))
	return s, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) load() ([]scene.Entity, error) {
	rows, err := s.db.QueryContext(s.ctx, `SELECT id, body FROM entities ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query entities: %w", err)
	}
	defer rows.Close()

	var items []scene.Entity
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, err
		}
		var e scene.Entity
		if err := json.Unmarshal([]byte(body), &e); err != nil {
			return nil, fmt.Errorf("decode entity %s: %w", id, err)
		}
		if err := e.Validate(); err != nil {
			s.log.Warn("skipping invalid stored entity", "id", id, "error", err)
			continue
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

// Items returns a copy of the entity list
func (s *Store) Items() []scene.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mem.Items()
}

// Get returns a copy of one entity
func (s *Store) Get(id string) (scene.Entity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mem.Get(id)
}

// Add validates, stores and appends an entity
func (s *Store) Add(e scene.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mem.Add(e); err != nil {
		return err
	}
	s.seq++
	if err := s.upsert(s.db, e, s.seq); err != nil {
		_ = s.mem.Remove(e.ID)
		return err
	}
	return nil
}

// UpdateTransform replaces the transform of an entity
func (s *Store) UpdateTransform(id string, t geometry.Transform) error {
	return s.update(id, func(m *scene.MemoryStore) error { return m.UpdateTransform(id, t) })
}

// UpdatePoints replaces the points of a floor or fence
func (s *Store) UpdatePoints(id string, points []geometry.Vector2) error {
	return s.update(id, func(m *scene.MemoryStore) error { return m.UpdatePoints(id, points) })
}

// UpdateFenceConfig replaces the configuration of a fence
func (s *Store) UpdateFenceConfig(id string, cfg scene.FenceConfig) error {
	return s.update(id, func(m *scene.MemoryStore) error { return m.UpdateFenceConfig(id, cfg) })
}

// UpdateFloorSpec replaces the surface of a floor
func (s *Store) UpdateFloorSpec(id string, spec scene.FloorSpec) error {
	return s.update(id, func(m *scene.MemoryStore) error { return m.UpdateFloorSpec(id, spec) })
}

// UpdatePrice overrides the fixed price of a model
func (s *Store) UpdatePrice(id string, price float64) error {
	return s.update(id, func(m *scene.MemoryStore) error { return m.UpdatePrice(id, price) })
}

// Remove deletes an entity
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mem.Remove(id); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(s.ctx, `DELETE FROM entities WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

// Replace swaps the whole list in one transaction
func (s *Store) Replace(items []scene.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := scene.NewMemoryStore()
	if err := staged.Replace(items); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(s.ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(s.ctx, `DELETE FROM entities`); err != nil {
		return fmt.Errorf("clear entities: %w", err)
	}
	for i, e := range items {
		if err := s.upsert(tx, e, int64(i+1)); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.mem = staged
	s.seq = int64(len(items))
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) upsert(db execer, e scene.Entity, seq int64) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode %s: %w", e.ID, err)
	}
	_, err = db.ExecContext(s.ctx, `
        INSERT INTO entities (id, seq, kind, body) VALUES (?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET kind = excluded.kind, body = excluded.body
    `, e.ID, seq, string(e.Kind), string(body))
	if err != nil {
		return fmt.Errorf("store %s: %w", e.ID, err)
	}
	return nil
}

func (s *Store) update(id string, fn func(*scene.MemoryStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	before, _ := s.mem.Get(id)
	if err := fn(s.mem); err != nil {
		return err
	}
	after, _ := s.mem.Get(id)
	if err := s.upsert(s.db, after, 0); err != nil {
		// roll the cache back to what the database still holds
		items := s.mem.Items()
		if i := scene.Find(items, id); i >= 0 {
			items[i] = before
			_ = s.mem.Replace(items)
		}
		return err
	}
	return nil
}
