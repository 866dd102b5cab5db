//go:build !integration

package database

import (
	"myMovieRecs/pkg/config"
	"path/filepath"
	"testing"
)

func TestOpenSQLite(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:       "sqlite",
			Path:         filepath.Join(t.TempDir(), "movies.db"),
			MaxOpenConns: 2,
			MaxIdleConns: 1,
		},
	}

	db, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := Close(db); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "mssql"}}
	if _, err := Open(cfg); err == nil {
		t.Fatal("expected an error for an unsupported driver")
	}
}

func TestCloseNil(t *testing.T) {
	if err := Close(nil); err != nil {
		t.Fatalf("Close(nil) error = %v", err)
	}
}
