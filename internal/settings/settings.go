// Package settings persists the user's translation preferences between
// sessions.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

// Settings is the persisted state.
type Settings struct {
	Provider      string `json:"provider"`
	APIKey        string `json:"api_key,omitempty"`
	AutoTranslate bool   `json:"auto_translate"`
}

// DefaultSettings returns the settings used before anything is saved.
func DefaultSettings() Settings {
	return Settings{Provider: "openrouter", AutoTranslate: true}
}

// CredentialStatus compares a key in use with the saved one.
type CredentialStatus string

const (
	CredentialEmpty   CredentialStatus = "empty"
	CredentialSaved   CredentialStatus = "saved"
	CredentialUnsaved CredentialStatus = "unsaved"
)

// DefaultPath returns settings.json under the XDG config directory, creating
// the parent directory if needed.
func DefaultPath() (string, error) {
	return xdg.ConfigFile(filepath.Join("manga-overlay-mcp", "settings.json"))
}

// Store reads and writes Settings at a fixed path. It is safe for concurrent
// use.
type Store struct {
	path string

	mu sync.Mutex
	s  Settings
}

// Open loads the settings at path. A missing file yields defaults; a corrupt
// one yields defaults and the decode error.
func Open(path string) (*Store, error) {
	st := &Store{path: path, s: DefaultSettings()}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return st, err
	}
	defer f.Close()

	var s Settings
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return st, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if s.Provider == "" {
		s.Provider = DefaultSettings().Provider
	}
	st.s = s
	return st, nil
}

// Path returns the file backing the store.
func (st *Store) Path() string {
	return st.path
}

// Get returns a copy of the current settings.
func (st *Store) Get() Settings {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s
}

// SaveCredential stores key for provider. An empty key removes the saved
// credential and leaves the saved provider alone.
func (st *Store) SaveCredential(provider, key string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	next := st.s
	key = strings.TrimSpace(key)
	if key == "" {
		next.APIKey = ""
	} else {
		next.APIKey = key
		next.Provider = provider
	}
	return st.commitLocked(next)
}

// SetAutoTranslate stores whether new selections are translated after OCR.
func (st *Store) SetAutoTranslate(on bool) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	next := st.s
	next.AutoTranslate = on
	return st.commitLocked(next)
}

// CredentialStatus reports whether key is empty, the saved key, or unsaved.
func (st *Store) CredentialStatus(key string) CredentialStatus {
	key = strings.TrimSpace(key)
	if key == "" {
		return CredentialEmpty
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if key == st.s.APIKey {
		return CredentialSaved
	}
	return CredentialUnsaved
}

// commitLocked writes next and adopts it only when the write succeeded.
func (st *Store) commitLocked(next Settings) error {
	if err := write(st.path, next); err != nil {
		return err
	}
	st.s = next
	return nil
}

// write replaces path atomically. The file holds an API key, so it is
// readable by the owner only.
func write(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".settings-*.json")
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save settings: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
