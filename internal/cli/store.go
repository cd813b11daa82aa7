package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// tokenStore keeps the session token at ~/.crmctl/session.
type tokenStore struct {
	path string
}

func newTokenStore() (tokenStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return tokenStore{}, fmt.Errorf("locate home directory: %w", err)
	}
	return tokenStore{path: filepath.Join(home, ".crmctl", "session")}, nil
}

func (s tokenStore) Load() (string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read session: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func (s tokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s tokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
