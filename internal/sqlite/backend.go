// Package sqlite implements the SQLite storage backend for cfgsync: the
// store lifecycle (Backend), the generic record mapper (Mapper), and JSONL
// export and import of both entity tables.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/cfgsync/pkg/types"
)

// driverName is the database/sql name registered by modernc.org/sqlite.
const driverName = "sqlite"

// Compile-time interface check.
var _ types.Store = (*Backend)(nil)

// Backend owns the database handle for one command invocation and hands out
// mappers for the entity tables.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.StoreConfig
	db       *sqlx.DB
	log      *slog.Logger

	versions *Mapper[types.Version, *types.Version]
	configs  *Mapper[types.Config, *types.Config]
}

// NewBackend creates a detached backend. A nil logger discards output.
func NewBackend(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Backend{log: logger}
}

// Attach opens the SQLite file named by config, creating its parent
// directory if needed. Tables are not created; call Init for that.
// Failures to open or reach the file wrap ErrStorageUnavailable.
func (b *Backend) Attach(config types.StoreConfig) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	if dir := filepath.Dir(config.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: creating %s: %w", types.ErrStorageUnavailable, dir, err)
		}
	}

	db, err := sqlx.Open(driverName, config.Path)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %w", types.ErrStorageUnavailable, config.Path, err)
	}
	// One writer, one connection: keeps the single-process model honest.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("%w: opening %s: %w", types.ErrStorageUnavailable, config.Path, err)
	}

	b.db = db
	b.config = config
	b.versions = NewMapper[types.Version](db)
	b.configs = NewMapper[types.Config](db)
	b.attached = true

	b.log.Debug("store attached", "path", config.Path)
	return nil
}

// Init creates the versions and configs tables if they do not exist.
// Safe to call on every invocation.
func (b *Backend) Init(ctx context.Context) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrDetached
	}
	if err := b.versions.EnsureTable(ctx); err != nil {
		return err
	}
	return b.configs.EnsureTable(ctx)
}

// Detach closes the database handle. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	err := b.db.Close()
	b.db = nil
	b.versions = nil
	b.configs = nil
	b.attached = false
	if err != nil {
		return fmt.Errorf("closing %s: %w", b.config.Path, err)
	}

	b.log.Debug("store detached", "path", b.config.Path)
	return nil
}

// Path returns the database file of the attached store.
func (b *Backend) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config.Path
}

// Versions returns the mapper for the versions table.
// Returns ErrDetached if the backend is not attached.
func (b *Backend) Versions() (*Mapper[types.Version, *types.Version], error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrDetached
	}
	return b.versions, nil
}

// Configs returns the mapper for the configs table.
// Returns ErrDetached if the backend is not attached.
func (b *Backend) Configs() (*Mapper[types.Config, *types.Config], error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrDetached
	}
	return b.configs, nil
}
