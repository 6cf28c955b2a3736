package authimpl

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/orgball2608/elixir/internal/auth"
)

// sessionFile persists the signed-in token between runs.
type sessionFile struct {
	path string
}

type storedSession struct {
	AccessToken string `json:"access_token"`
}

func (f *sessionFile) save(token string) error {
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create session dir: %w", err)
		}
	}
	b, err := json.Marshal(storedSession{AccessToken: token})
	if err != nil {
		return err
	}
	if err := os.WriteFile(f.path, b, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func (f *sessionFile) load() (string, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", auth.ErrNoSession
		}
		return "", fmt.Errorf("failed to read session: %w", err)
	}

	var s storedSession
	if err := json.Unmarshal(b, &s); err != nil || s.AccessToken == "" {
		return "", auth.ErrNoSession
	}
	return s.AccessToken, nil
}

func (f *sessionFile) clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
