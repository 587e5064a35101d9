package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Preferences are per-operator CLI settings kept outside the planner database.
// Tokens never go here; characters carry their own.
type Preferences struct {
	DefaultUserID *int `yaml:"default_user_id,omitempty"`
}

// PreferencesStore reads and writes one preferences file
type PreferencesStore struct {
	path string
}

// NewPreferencesStore opens ~/.industry-planner/preferences.yaml
func NewPreferencesStore() (*PreferencesStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate home directory: %w", err)
	}
	return OpenPreferencesStore(filepath.Join(home, ".industry-planner", "preferences.yaml"))
}

// OpenPreferencesStore opens the preferences file at path, creating its directory
func OpenPreferencesStore(path string) (*PreferencesStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create preferences directory: %w", err)
	}
	return &PreferencesStore{path: path}, nil
}

// Load returns empty preferences when the file does not exist yet
func (s *PreferencesStore) Load() (*Preferences, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Preferences{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	var prefs Preferences
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("failed to parse preferences %s: %w", s.path, err)
	}
	return &prefs, nil
}

func (s *PreferencesStore) save(prefs *Preferences) error {
	data, err := yaml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}

func (s *PreferencesStore) update(edit func(*Preferences)) error {
	prefs, err := s.Load()
	if err != nil {
		return err
	}
	edit(prefs)
	return s.save(prefs)
}

// SetDefaultUser makes commands without --user-id act for userID
func (s *PreferencesStore) SetDefaultUser(userID int) error {
	return s.update(func(p *Preferences) { p.DefaultUserID = &userID })
}

func (s *PreferencesStore) ClearDefaultUser() error {
	return s.update(func(p *Preferences) { p.DefaultUserID = nil })
}

func (s *PreferencesStore) Path() string {
	return s.path
}
