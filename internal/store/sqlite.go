package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/drape-io/confmod/internal/tree"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS config (
	collection TEXT NOT NULL DEFAULT '',
	name       TEXT NOT NULL,
	data       TEXT NOT NULL,
	PRIMARY KEY (collection, name)
)`

// SQLiteStore keeps configuration objects in a "config" table, one row per
// (collection, name), with the tree stored as YAML text.
type SQLiteStore struct {
	db         *sql.DB
	collection string
}

// OpenSQLite opens (and if needed creates) the database at path.
func OpenSQLite(path, collection string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare schema in %s: %w", path, err)
	}
	return &SQLiteStore{db: db, collection: collection}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ListAll implements Store.
func (s *SQLiteStore) ListAll() ([]string, error) {
	rows, err := s.db.Query(
		`SELECT name FROM config WHERE collection = ? ORDER BY name`,
		s.collection,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list configuration: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to list configuration: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list configuration: %w", err)
	}
	return names, nil
}

// Read implements Store.
func (s *SQLiteStore) Read(name string) (*tree.Map, error) {
	var data string
	err := s.db.QueryRow(
		`SELECT data FROM config WHERE collection = ? AND name = ?`,
		s.collection, name,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	m, err := tree.Decode([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return m, nil
}

// Write implements Store.
func (s *SQLiteStore) Write(name string, data *tree.Map) error {
	encoded, err := tree.Encode(data)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO config (collection, name, data) VALUES (?, ?, ?)
		 ON CONFLICT (collection, name) DO UPDATE SET data = excluded.data`,
		s.collection, name, string(encoded),
	)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(name string) error {
	res, err := s.db.Exec(
		`DELETE FROM config WHERE collection = ? AND name = ?`,
		s.collection, name,
	)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return requireRow(res, name)
}

// Rename implements Store. An existing row under newName is replaced.
func (s *SQLiteStore) Rename(oldName, newName string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to rename %s: %w", oldName, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(
		`DELETE FROM config WHERE collection = ? AND name = ?`,
		s.collection, newName,
	); err != nil {
		return fmt.Errorf("failed to rename %s: %w", oldName, err)
	}
	res, err := tx.Exec(
		`UPDATE config SET name = ? WHERE collection = ? AND name = ?`,
		newName, s.collection, oldName,
	)
	if err != nil {
		return fmt.Errorf("failed to rename %s: %w", oldName, err)
	}
	if err := requireRow(res, oldName); err != nil {
		return err
	}
	return tx.Commit()
}

// Exists implements Store.
func (s *SQLiteStore) Exists(name string) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM config WHERE collection = ? AND name = ?`,
		s.collection, name,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to look up %s: %w", name, err)
	}
	return n > 0, nil
}

func requireRow(res sql.Result, name string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check result for %s: %w", name, err)
	}
	if n == 0 {
		return &NotFoundError{Name: name}
	}
	return nil
}
