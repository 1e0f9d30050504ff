// Package sqlite implements a reference Executor backed by a SQLite
// database. It lets the router's fallback path run against real storage:
// descriptors are translated to SQL and rows come back as JSON, mirroring
// what a remote table API would return.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/detour/pkg/types"
)

//go:embed schema.sql
var sampleSchema string

// DatabaseFile is the name of the SQLite database inside DataDir.
const DatabaseFile = "detour.db"

// Backend lifecycle and execution errors.
var (
	ErrAlreadyAttached = errors.New("backend is already attached")
	ErrDetached        = errors.New("backend is detached")
	ErrUnsupportedKind = errors.New("unsupported operation kind")
	ErrInvalidFilter   = errors.New("invalid filter value type")
	ErrInvalidPayload  = errors.New("invalid payload shape")
)

// Config holds parameters for Backend.Attach.
type Config struct {
	DataDir string // created if missing; "." when empty
	Schema  string // SQL applied on attach; the embedded sample schema when empty
}

// SampleSchema returns the embedded schema used by the CLI and tests.
func SampleSchema() string {
	return sampleSchema
}

// Backend executes Descriptors against a SQLite database. Its Execute method
// satisfies types.Executor.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   Config
	db       *sql.DB
}

// NewBackend creates a new backend. The backend is not attached; call
// Attach with a Config to open the database.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach creates the data directory if needed, opens the database, and
// applies the schema. The schema is expected to use CREATE TABLE IF NOT
// EXISTS so reattaching to an existing database is safe.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return ErrAlreadyAttached
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, DatabaseFile))
	if err != nil {
		return err
	}

	schema := config.Schema
	if schema == "" {
		schema = sampleSchema
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return fmt.Errorf("apply schema: %w", err)
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// Detach closes the database. Idempotent: multiple calls succeed. After
// Detach, Execute returns ErrDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil // idempotent
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// Execute runs the operation described by d and returns the serialized
// response: a JSON array of rows for fetchMany, a single JSON object for
// fetchOne, the affected rows for mutations with a representation response,
// and an empty payload for minimal responses.
func (b *Backend) Execute(ctx context.Context, d types.Descriptor) ([]byte, error) {
	switch d.Kind {
	case types.KindFetchMany, types.KindFetchOne, types.KindCustom:
		b.mu.RLock()
		defer b.mu.RUnlock()
	default:
		b.mu.Lock()
		defer b.mu.Unlock()
	}

	if !b.attached {
		return nil, ErrDetached
	}

	switch d.Kind {
	case types.KindFetchMany:
		return b.fetchMany(ctx, d)
	case types.KindFetchOne:
		return b.fetchOne(ctx, d)
	case types.KindInsert:
		return b.insert(ctx, d, false)
	case types.KindUpsert:
		return b.insert(ctx, d, true)
	case types.KindUpdate:
		return b.update(ctx, d)
	case types.KindDelete:
		return b.delete(ctx, d)
	case types.KindCustom:
		if d.Custom == nil {
			return nil, types.ErrNoHandler
		}
		return d.Custom(ctx)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, d.Kind)
	}
}
