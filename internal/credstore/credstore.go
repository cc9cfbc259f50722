// Package credstore persists the single bearer credential on the local
// device. Absence of a stored credential is a valid state.
package credstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// tokenFileName is the fixed key under which the credential is stored.
const tokenFileName = "auth_token"

// Store holds at most one credential. Implementations are synchronous
// and local to the client device.
type Store interface {
	Get() (string, bool)
	Set(token string) error
	Remove() error
}

// FileStore keeps the credential in a 0600 file under the state
// directory. It survives process restarts and is cleared only by
// Remove.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(stateDir string) *FileStore {
	return &FileStore{path: filepath.Join(stateDir, tokenFileName)}
}

func (s *FileStore) Get() (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", false
	}
	return token, true
}

func (s *FileStore) Set(token string) error {
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing credential file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing credential file: %w", err)
	}
	return nil
}

func (s *FileStore) Remove() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing credential file: %w", err)
	}
	return nil
}
