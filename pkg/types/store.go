package types

import "context"

// StoreConfig holds the parameters for Store.Attach.
type StoreConfig struct {
	// Path is the SQLite database file. Its parent directory is created on
	// attach if missing.
	Path string `json:"path" yaml:"path"`
}

// Validate checks that the StoreConfig is well-formed.
func (c StoreConfig) Validate() error {
	if c.Path == "" {
		return ErrDBPathEmpty
	}
	return nil
}

// Store is the lifecycle contract of a database handle. One invocation
// attaches once, runs a command, and detaches on every exit path.
type Store interface {
	// Attach opens the database described by config.
	// Returns ErrAlreadyAttached if called while attached.
	Attach(config StoreConfig) error

	// Init ensures every entity table exists. Idempotent.
	Init(ctx context.Context) error

	// Detach releases the handle. Idempotent.
	Detach() error
}
