package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Health captures diagnostic information about the fixtures database.
type Health struct {
	DBPath         string         `json:"db_path"`
	DatabaseExists bool           `json:"database_exists"`
	Readable       bool           `json:"readable"`
	SchemaVersion  int            `json:"schema_version"`
	SchemaCurrent  bool           `json:"schema_current"`
	MissingTables  []string       `json:"missing_tables,omitempty"`
	IntegrityCheck bool           `json:"integrity_check"`
	Counts         map[string]int `json:"counts"`
	Error          string         `json:"error,omitempty"`
}

var expectedTables = []string{"categories", "series", "item_numbers", "operations", "fixtures"}

// CheckHealth returns diagnostic information about the database.
func (s *Store) CheckHealth(ctx context.Context) (Health, error) {
	health := Health{
		DBPath: s.path,
		Counts: make(map[string]int, len(expectedTables)),
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return health, nil
		}
		return health, fmt.Errorf("stat database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	connCtx, cancel := context.WithTimeout(ensureContext(ctx), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping database: %w", err)
	}
	health.Readable = true

	version, err := s.readSchemaVersion(connCtx)
	if err != nil {
		health.Error = err.Error()
		return health, err
	}
	health.SchemaVersion = version
	health.SchemaCurrent = version == schemaVersion

	for _, table := range expectedTables {
		var present int
		if err := s.db.QueryRowContext(connCtx,
			"SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&present); err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("query table info: %w", err)
		}
		if present == 0 {
			health.MissingTables = append(health.MissingTables, table)
			continue
		}
		var count int
		if err := s.db.QueryRowContext(connCtx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("count %s: %w", table, err)
		}
		health.Counts[table] = count
	}

	var integrityResult string
	if err := s.db.QueryRowContext(connCtx, "PRAGMA integrity_check").Scan(&integrityResult); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("integrity check: %w", err)
	}
	health.IntegrityCheck = strings.EqualFold(integrityResult, "ok")

	return health, nil
}
