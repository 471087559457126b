package client

import (
	"os"
	"path/filepath"
	"strings"
)

// TokenStore persists the current credential across process restarts.
type TokenStore interface {
	// Save overwrites any previously stored credential.
	Save(token string) error
	// Load returns the stored credential, or ok=false when the slot is empty.
	Load() (token string, ok bool)
	// Clear removes the stored credential. Clearing an empty store is a no-op.
	Clear() error
}

// FileTokenStore keeps the credential in a single file, the CLI analogue of
// the browser's localStorage slot.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore builds a store rooted at path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// DefaultTokenPath places the credential under the user config directory.
func DefaultTokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "snapcart", "token"), nil
}

func (s *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

func (s *FileTokenStore) Load() (string, bool) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", false
	}
	return token, true
}

func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
