// Package store provides document storage backends for NoteKeep.
//
// This file implements JSON-file-backed stores matching the layout the
// admin surface writes: one config document and one profile mapping, each a
// single pretty-printed JSON file under the state directory.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/notekeep/notekeep/internal/models"
)

// DefaultDirPermissions defines the default permissions for state directories.
const DefaultDirPermissions = 0755

// FileConfigStore reads the configuration document from a JSON file.
type FileConfigStore struct {
	path string
}

// NewFileConfigStore creates a config store backed by the given file path.
func NewFileConfigStore(path string) *FileConfigStore {
	slog.Debug("NewFileConfigStore invoked", "path", path)
	return &FileConfigStore{path: path}
}

// Read loads the config document. A missing file yields (nil, nil); a
// corrupt file yields an error the resolver swallows.
func (s *FileConfigStore) Read() (*models.GlobalConfig, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("FileConfigStore Read: no config document", "path", s.path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config document %s: %w", s.path, err)
	}
	var cfg models.GlobalConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config document %s: %w", s.path, err)
	}
	return &cfg, nil
}

// FileProfileStore persists the profile mapping as a JSON file.
type FileProfileStore struct {
	path string
}

// NewFileProfileStore creates a profile store backed by the given file path.
func NewFileProfileStore(path string) *FileProfileStore {
	slog.Debug("NewFileProfileStore invoked", "path", path)
	return &FileProfileStore{path: path}
}

// ReadAll loads the complete profile mapping from disk.
func (s *FileProfileStore) ReadAll() (map[string]*models.UserProfile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("FileProfileStore ReadAll: no profile document", "path", s.path)
			return make(map[string]*models.UserProfile), nil
		}
		return nil, fmt.Errorf("failed to read profile document %s: %w", s.path, err)
	}
	profiles := make(map[string]*models.UserProfile)
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to parse profile document %s: %w", s.path, err)
	}
	return profiles, nil
}

// WriteAll overwrites the profile mapping on disk. The document is written
// to a temporary file first and renamed into place so readers never observe
// a torn write.
func (s *FileProfileStore) WriteAll(profiles map[string]*models.UserProfile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), DefaultDirPermissions); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}
	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile mapping: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write profile document: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace profile document: %w", err)
	}
	slog.Debug("FileProfileStore WriteAll succeeded", "path", s.path, "users", len(profiles))
	return nil
}

// WriteConfigDocument writes a config document to the given path. It lives
// here rather than on FileConfigStore because the engine never writes the
// config document; only the admin surface does.
func WriteConfigDocument(path string, cfg *models.GlobalConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPermissions); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config document: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write config document: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace config document: %w", err)
	}
	return nil
}
