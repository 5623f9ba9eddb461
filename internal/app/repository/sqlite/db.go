package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"audio-pipeline/internal/app/repository"
)

// NewSQLiteStore opens a sqlite database. dsn is a file path or a file: URI;
// the parent directory is created when missing.
func NewSQLiteStore(dsn string) (*repository.CommonDB, error) {
	path, uri := normalize(dsn)
	if path != "" && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open(repository.DriverSQLite, uri)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite has a single writer
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return repository.NewCommonDB(db, repository.DriverSQLite), nil
}

// normalize returns the file path inside dsn and a URI with foreign keys and busy timeout set.
func normalize(dsn string) (path, uri string) {
	dsn = strings.TrimPrefix(strings.TrimPrefix(dsn, "sqlite3://"), "sqlite://")
	path = strings.TrimPrefix(dsn, "file:")
	query := ""
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path, query = path[:i], path[i+1:]
	}
	if !strings.Contains(query, "_busy_timeout") {
		if query != "" {
			query += "&"
		}
		query += "_busy_timeout=5000"
	}
	return path, "file:" + path + "?" + query
}
