package internal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// SettingsKey is the row holding the UI preferences. The browser mirrors
// the same object in localStorage under this name.
const SettingsKey = "aza-ui-settings"

// UISettings are the last-used explorer controls
type UISettings struct {
	Project string `json:"project,omitempty"`
	Limit   string `json:"limit,omitempty"`
	Order   string `json:"order,omitempty"`
	Mode    string `json:"mode,omitempty"`
}

// PrefsStore persists UISettings in a SQLite key/value table. Last write
// wins; reads never fail.
type PrefsStore struct {
	mu sync.Mutex
	db *sql.DB
}

// DefaultPrefsPath is ~/.aza/ui.db
func DefaultPrefsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".aza", "ui.db"), nil
}

// OpenPrefsStore opens (creating if needed) the database at path
func OpenPrefsStore(path string) (*PrefsStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create preferences directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	store, err := NewPrefsStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// CheckPrefsPath reports whether the database at path exists and, without
// creating anything, whether OpenPrefsStore could use it: an existing file
// must be a readable SQLite database, otherwise the nearest existing
// ancestor directory must be writable.
func CheckPrefsPath(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if info.IsDir() {
			return true, fmt.Errorf("%s is a directory", path)
		}
		db, err := sql.Open("sqlite", path)
		if err != nil {
			return true, fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		var n int
		if err := db.QueryRowContext(ctx, "SELECT count(*) FROM sqlite_master").Scan(&n); err != nil {
			return true, fmt.Errorf("unreadable preferences database: %w", err)
		}
		return true, nil
	case !errors.Is(err, os.ErrNotExist):
		return false, err
	}

	dir := filepath.Dir(path)
	for {
		info, err := os.Stat(dir)
		if err == nil {
			if !info.IsDir() {
				return false, fmt.Errorf("%s is not a directory", dir)
			}
			break
		}
		if !errors.Is(err, os.ErrNotExist) {
			return false, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return false, fmt.Errorf("no existing directory above %s", path)
		}
		dir = parent
	}
	tmp, err := os.CreateTemp(dir, ".aza-write-check-*")
	if err != nil {
		return false, fmt.Errorf("%s is not writable: %w", dir, err)
	}
	name := tmp.Name()
	tmp.Close()
	return false, os.Remove(name)
}

// NewPrefsStore wraps an open database, creating the settings table
func NewPrefsStore(db *sql.DB) (*PrefsStore, error) {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create settings table: %w", err)
	}
	return &PrefsStore{db: db}, nil
}

// Load returns the stored settings. A missing row, a database failure or
// a malformed value all yield empty settings.
func (s *PrefsStore) Load(ctx context.Context) UISettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	var value sql.NullString
	err := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", SettingsKey).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			LogWarn("Failed to read UI settings: %v", err)
		}
		return UISettings{}
	}
	if !value.Valid {
		return UISettings{}
	}
	return ParseUISettings([]byte(value.String))
}

// Save replaces the stored settings
func (s *PrefsStore) Save(ctx context.Context, settings UISettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode UI settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		SettingsKey, string(data))
	if err != nil {
		return fmt.Errorf("failed to save UI settings: %w", err)
	}
	return nil
}

// Close closes the underlying database
func (s *PrefsStore) Close() error {
	return s.db.Close()
}

// ParseUISettings decodes settings leniently: unparseable input gives empty
// settings and fields of the wrong type are ignored. A numeric limit is
// accepted.
func ParseUISettings(data []byte) UISettings {
	raw, err := DecodeJSON(data)
	if err != nil {
		LogDebug("Ignoring malformed UI settings: %v", err)
		return UISettings{}
	}
	settings := UISettings{
		Project: stringAt(raw, "project"),
		Order:   stringAt(raw, "order"),
		Mode:    stringAt(raw, "mode"),
	}
	switch limit := lookup(raw, "limit").(type) {
	case string:
		settings.Limit = limit
	case json.Number:
		settings.Limit = limit.String()
	}
	return settings
}
