package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds connection settings for either backend.
type Config struct {
	// Driver selects the backend. Empty or "auto" detects from URL.
	Driver Driver

	// URL is the PostgreSQL connection string.
	URL string

	// SQLitePath is the database file for the SQLite backend.
	// Defaults to ~/.seaops/seaops.db.
	SQLitePath string

	// MaxConns caps the pool size (PostgreSQL only).
	MaxConns int
}

// NewConnection opens a connection for the configured backend.
func NewConnection(ctx context.Context, cfg Config) (Connection, error) {
	driver := cfg.Driver
	if driver == "" || driver == "auto" {
		driver = DetectDriver(cfg.URL)
	}

	switch driver {
	case DriverPostgres:
		return newPostgresConnection(ctx, cfg)
	case DriverSQLite:
		return newSQLiteConnection(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// DefaultSQLitePath returns the database file used in local mode.
func DefaultSQLitePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".seaops", "seaops.db")
}

// DefaultLocalConfig is the zero-configuration SQLite setup.
func DefaultLocalConfig() Config {
	return Config{
		Driver:     DriverSQLite,
		SQLitePath: DefaultSQLitePath(),
	}
}

// EnsureDirectory creates the parent directory of a file path.
func EnsureDirectory(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// Backend factories register themselves from their driver packages so
// importing a backend is what enables it.
var newPostgresConnection func(ctx context.Context, cfg Config) (Connection, error)

var newSQLiteConnection func(ctx context.Context, cfg Config) (Connection, error)

// RegisterPostgresDriver installs the PostgreSQL connection factory.
func RegisterPostgresDriver(fn func(ctx context.Context, cfg Config) (Connection, error)) {
	newPostgresConnection = fn
}

// RegisterSQLiteDriver installs the SQLite connection factory.
func RegisterSQLiteDriver(fn func(ctx context.Context, cfg Config) (Connection, error)) {
	newSQLiteConnection = fn
}
