package admin

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/notekeep/notekeep/internal/models"
)

// Version is one saved snapshot of the configuration document.
type Version struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Timestamp int64                `json:"timestamp"`
	Config    *models.GlobalConfig `json:"config"`
}

// VersionStore keeps config snapshots as individual JSON files in a
// directory, ids being millisecond timestamps.
type VersionStore struct {
	dir string
}

// NewVersionStore creates the version directory if needed.
func NewVersionStore(dir string) (*VersionStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create versions directory %s: %w", dir, err)
	}
	return &VersionStore{dir: dir}, nil
}

// Save stores a snapshot and returns its id.
func (vs *VersionStore) Save(name string, cfg *models.GlobalConfig) (string, error) {
	id := strconv.FormatInt(time.Now().UnixMilli(), 10)
	v := Version{ID: id, Name: name, Timestamp: time.Now().UnixMilli(), Config: cfg}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal version: %w", err)
	}
	if err := os.WriteFile(vs.path(id), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write version file: %w", err)
	}
	return id, nil
}

// Get loads one snapshot by id.
func (vs *VersionStore) Get(id string) (*Version, error) {
	data, err := os.ReadFile(vs.path(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read version %s: %w", id, err)
	}
	var v Version
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to parse version %s: %w", id, err)
	}
	v.ID = id
	return &v, nil
}

// List returns all snapshots, newest first.
func (vs *VersionStore) List() ([]Version, error) {
	entries, err := os.ReadDir(vs.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read versions directory: %w", err)
	}
	versions := make([]Version, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		v, err := vs.Get(id)
		if err != nil {
			continue
		}
		versions = append(versions, *v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i].Timestamp > versions[j].Timestamp })
	return versions, nil
}

// Delete removes one snapshot.
func (vs *VersionStore) Delete(id string) error {
	if err := os.Remove(vs.path(id)); err != nil {
		return fmt.Errorf("failed to delete version %s: %w", id, err)
	}
	return nil
}

func (vs *VersionStore) path(id string) string {
	return filepath.Join(vs.dir, id+".json")
}
