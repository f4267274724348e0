// Package store persists one conversation per SQLite database file.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/lmchat/lmchat/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// ErrStorageUnavailable wraps every failure to create, open or write the
// database file. Callers surface it; nothing here retries.
var ErrStorageUnavailable = errors.New("storage unavailable")

const schema = `
CREATE TABLE IF NOT EXISTS messages (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    role TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

// Store is an open handle on one conversation database. A caller holds at
// most one at a time and must Close it before opening another.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens the database at path, creating the file and the message table
// if they do not exist.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	// sql.Open is lazy; the schema exec is what actually touches the file
	// and rejects paths that are not writable or not SQLite.
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return &Store{db: db, path: path}, nil
}

// Create makes a new database at path, failing if a file already exists
// there.
func Create(path string) (*Store, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s already exists", ErrStorageUnavailable, path)
	}
	return Open(path)
}

// Path returns the file path this handle was opened on.
func (s *Store) Path() string {
	return s.path
}

// Append records a message and returns its assigned sequence number.
// Sequence numbers are strictly increasing and never reused, including
// after Clear.
func (s *Store) Append(role, content string) (int64, error) {
	query := `
        INSERT INTO messages (role, content, created_at)
        VALUES (?, ?, CURRENT_TIMESTAMP)
        RETURNING seq`

	var seq int64
	if err := s.db.QueryRow(query, role, content).Scan(&seq); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return seq, nil
}

// History returns every stored message in ascending sequence order. It is
// recomputed on each call and has no side effects.
func (s *Store) History() ([]models.Message, error) {
	query := `
        SELECT seq, role, content, created_at
        FROM messages
        ORDER BY seq ASC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.Seq, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return messages, nil
}

// Clear deletes all messages but keeps the file. Clearing an empty store
// succeeds silently. The sequence counter is not reset.
func (s *Store) Clear() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM messages"); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
