// Package duckdb stores merged gene spans and annotation results in DuckDB.
// The gene index itself is always rebuilt from the annotation file; the
// database is an export for downstream queries.
package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"

	goduckdb "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for exported gene data.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS gene_spans (
			chrom VARCHAR,
			gene_name VARCHAR,
			start_pos BIGINT,
			stop_pos BIGINT,
			PRIMARY KEY (chrom, gene_name)
		)`,
		`CREATE TABLE IF NOT EXISTS annotation_runs (
			run_id VARCHAR PRIMARY KEY,
			coord_path VARCHAR,
			coord_size BIGINT,
			anno_path VARCHAR,
			anno_size BIGINT,
			anno_modtime TIMESTAMP,
			created_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS annotation_results (
			run_id VARCHAR,
			seq BIGINT,
			chrom VARCHAR,
			pos BIGINT,
			gene_name VARCHAR,
			annotated BOOLEAN,
			PRIMARY KEY (run_id, seq)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// appendRows runs fn with an Appender on table and flushes it afterwards.
func (s *Store) appendRows(table string, fn func(*goduckdb.Appender) error) error {
	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	if err := fn(appender); err != nil {
		return err
	}
	return appender.Flush()
}
