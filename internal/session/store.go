package session

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Fixed keys the session is persisted under.
const (
	keyToken = "jwt"
	keyEmail = "username"
)

const schema = `
CREATE TABLE IF NOT EXISTS session (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Store persists the session between runs
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the session database in dataDir.
// An empty dataDir falls back to the user's XDG data directory.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		var err error
		dataDir, err = defaultDataDir()
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", filepath.Join(dataDir, "bildy.db"))
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func defaultDataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "bildy"), nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads the persisted session. ok is false when no token is stored;
// an absent session is not an error.
func (s *Store) Load() (sess Session, ok bool, err error) {
	sess.Token, err = s.get(keyToken)
	if err != nil {
		return Session{}, false, err
	}
	sess.Email, err = s.get(keyEmail)
	if err != nil {
		return Session{}, false, err
	}
	return sess, sess.Token != "", nil
}

// Save persists the session, replacing any previous one.
func (s *Store) Save(sess Session) error {
	if err := s.set(keyToken, sess.Token); err != nil {
		return err
	}
	return s.set(keyEmail, sess.Email)
}

// Clear wipes the persisted session (logout).
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM session")
	return err
}

func (s *Store) get(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM session WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (s *Store) set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO session (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
