package pg

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"audio-pipeline/internal/app/repository"
)

// NewPostgresStore opens a postgres database from a URL or keyword DSN.
func NewPostgresStore(dsn string) (*repository.CommonDB, error) {
	db, err := sql.Open(repository.DriverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return NewPostgresStoreFromDB(db), nil
}

// NewPostgresStoreFromDB wraps an already opened handle, used with sqlmock in tests.
func NewPostgresStoreFromDB(db *sql.DB) *repository.CommonDB {
	return repository.NewCommonDB(db, repository.DriverPostgres)
}
