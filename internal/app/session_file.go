// internal/app/session_file.go
package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"estate-client/internal/models"
)

// SessionFile stores the session so consecutive CLI runs stay signed in.
type SessionFile struct {
	path string
}

// SavedSession keeps the user next to the token. Backend tokens may carry
// nothing but the user id, so role and demo status cannot be recovered
// from the token alone.
type SavedSession struct {
	Token   string      `json:"token"`
	User    models.User `json:"user"`
	SavedAt time.Time   `json:"savedAt"`
}

func NewSessionFile(path string) *SessionFile {
	return &SessionFile{path: path}
}

// DefaultSessionPath is <user config dir>/estate-cli/session.json.
func DefaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "estate-cli", "session.json")
}

func (f *SessionFile) Path() string { return f.path }

// Load returns an empty token when nothing is saved.
func (f *SessionFile) Load() (SavedSession, error) {
	var s SavedSession
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return SavedSession{}, fmt.Errorf("parse %s: %w", f.path, err)
	}
	return s, nil
}

func (f *SessionFile) Save(token string, user models.User) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(SavedSession{Token: token, User: user, SavedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o600)
}

func (f *SessionFile) Clear() error {
	err := os.Remove(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
