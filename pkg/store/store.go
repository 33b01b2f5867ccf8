// Package store persists built lattices.
//
// A [Record] holds the lattice JSON document (see pkg/io) together with
// enough summary data to list records without decoding them. Two backends
// implement [Store]: [SQLiteStore] for single-host use and [MongoStore] for a
// shared deployment.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	errs "github.com/matzehuels/hasse/pkg/errors"
)

var (
	// ErrNotFound is returned by Load, Update and Delete for unknown ids.
	ErrNotFound = errs.New(errs.ErrCodeNotFound, "lattice not found")

	// ErrConflict is returned by Update when the record changed after it was
	// loaded.
	ErrConflict = errs.New(errs.ErrCodeConflict, "lattice was modified concurrently")
)

// Record is one stored lattice.
type Record struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	InputHash string    `json:"input_hash,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	NodeCount int       `json:"node_count"`
	EdgeCount int       `json:"edge_count"`
	Ranks     int       `json:"ranks"`
	Dual      bool      `json:"built_dually"`
	// Data is the lattice document. List leaves it empty.
	Data []byte `json:"-"`
}

// Store saves and loads lattice records.
type Store interface {
	// Save inserts or replaces the record with r.ID. A zero ID is replaced
	// by a fresh UUID; the stored record is returned.
	Save(ctx context.Context, r Record) (Record, error)
	// Update replaces the record with r.ID only if its stored UpdatedAt
	// still equals since, and returns ErrConflict otherwise. CreatedAt is
	// left as stored.
	Update(ctx context.Context, r Record, since time.Time) (Record, error)
	Load(ctx context.Context, id uuid.UUID) (Record, error)
	// List returns records newest first, without Data.
	List(ctx context.Context, limit int) ([]Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Close() error
}

// prepare fills in the generated fields of a record about to be saved.
func prepare(r Record, now time.Time) Record {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	return r
}

// stamp returns the UpdatedAt for a record replacing one last written at
// since. It is strictly later than since even if the clock has not advanced.
func stamp(since, now time.Time, resolution time.Duration) time.Time {
	if now.After(since) {
		return now
	}
	return since.Add(resolution)
}
