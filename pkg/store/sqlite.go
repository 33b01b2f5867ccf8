package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// timeLayout has fixed width so created_at sorts lexicographically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS lattices (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		input_hash TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		node_count INTEGER NOT NULL,
		edge_count INTEGER NOT NULL,
		ranks INTEGER NOT NULL,
		built_dually INTEGER NOT NULL,
		data BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS lattices_created_at ON lattices(created_at);`

// SQLiteStore keeps records in a single SQLite table.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and ensures the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Save upserts a record.
func (s *SQLiteStore) Save(ctx context.Context, r Record) (Record, error) {
	r = prepare(r, time.Now().UTC())
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lattices (id, name, input_hash, created_at, updated_at, node_count, edge_count, ranks, built_dually, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			input_hash = excluded.input_hash,
			updated_at = excluded.updated_at,
			node_count = excluded.node_count,
			edge_count = excluded.edge_count,
			ranks = excluded.ranks,
			built_dually = excluded.built_dually,
			data = excluded.data`,
		r.ID.String(),
		r.Name,
		r.InputHash,
		r.CreatedAt.Format(timeLayout),
		r.UpdatedAt.Format(timeLayout),
		r.NodeCount,
		r.EdgeCount,
		r.Ranks,
		r.Dual,
		r.Data,
	)
	if err != nil {
		return Record{}, fmt.Errorf("upsert lattice: %w", err)
	}
	return r, nil
}

// Update replaces a record if updated_at still matches since.
func (s *SQLiteStore) Update(ctx context.Context, r Record, since time.Time) (Record, error) {
	r.UpdatedAt = stamp(since.UTC(), time.Now().UTC(), time.Nanosecond)
	res, err := s.db.ExecContext(ctx,
		`UPDATE lattices SET
			name = ?, input_hash = ?, updated_at = ?,
			node_count = ?, edge_count = ?, ranks = ?, built_dually = ?, data = ?
		 WHERE id = ? AND updated_at = ?`,
		r.Name,
		r.InputHash,
		r.UpdatedAt.Format(timeLayout),
		r.NodeCount,
		r.EdgeCount,
		r.Ranks,
		r.Dual,
		r.Data,
		r.ID.String(),
		since.UTC().Format(timeLayout),
	)
	if err != nil {
		return Record{}, fmt.Errorf("update lattice: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		cur, err := s.Load(ctx, r.ID)
		if err != nil {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("%w: %s was updated at %s", ErrConflict, r.ID, cur.UpdatedAt.Format(time.RFC3339Nano))
	}
	if r.CreatedAt.IsZero() {
		return s.Load(ctx, r.ID)
	}
	return r, nil
}

// Load fetches a record with its data.
func (s *SQLiteStore) Load(ctx context.Context, id uuid.UUID) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, input_hash, created_at, updated_at, node_count, edge_count, ranks, built_dually, data
		 FROM lattices WHERE id = ?`, id.String())

	var r Record
	if err := scanRecord(row, &r, &r.Data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Record{}, fmt.Errorf("load lattice: %w", err)
	}
	return r, nil
}

// List returns summaries, newest first. A non-positive limit means all.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, input_hash, created_at, updated_at, node_count, edge_count, ranks, built_dually
		 FROM lattices ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list lattices: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := scanRecord(rows, &r); err != nil {
			return nil, fmt.Errorf("scan lattice: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Delete removes a record.
func (s *SQLiteStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM lattices WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete lattice: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner, r *Record, extra ...any) error {
	var id, created, updated string
	dest := append([]any{&id, &r.Name, &r.InputHash, &created, &updated,
		&r.NodeCount, &r.EdgeCount, &r.Ranks, &r.Dual}, extra...)
	if err := sc.Scan(dest...); err != nil {
		return err
	}

	var err error
	if r.ID, err = uuid.Parse(id); err != nil {
		return fmt.Errorf("bad id %q: %w", id, err)
	}
	if r.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return fmt.Errorf("bad created_at: %w", err)
	}
	if r.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
		return fmt.Errorf("bad updated_at: %w", err)
	}
	return nil
}

var _ Store = (*SQLiteStore)(nil)
