// Package admin exposes the HTTP API that edits the global configuration
// document and its version history. The engine never writes the config
// document; this surface is its sole writer.
package admin

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/notekeep/notekeep/internal/config"
	"github.com/notekeep/notekeep/internal/models"
	"github.com/notekeep/notekeep/internal/store"
)

// Server serves the admin configuration API.
type Server struct {
	configPath string
	versions   *VersionStore
}

// NewServer creates the admin server over the given config file path and
// version directory, seeding the default config document when none exists.
func NewServer(configPath, versionsDir string) (*Server, error) {
	versions, err := NewVersionStore(versionsDir)
	if err != nil {
		return nil, err
	}
	s := &Server{configPath: configPath, versions: versions}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := store.WriteConfigDocument(configPath, config.DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to seed default config: %w", err)
		}
		slog.Info("Admin seeded default config document", "path", configPath)
	}
	return s, nil
}

// Router builds the chi router for the admin API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/api/config", s.getConfig)
	r.Post("/api/config", s.postConfig)
	r.Get("/api/versions", s.listVersions)
	r.Post("/api/versions", s.saveVersion)
	r.Post("/api/versions/{id}/restore", s.restoreVersion)
	r.Delete("/api/versions/{id}", s.deleteVersion)
	r.Get("/api/export", s.exportConfig)
	r.Post("/api/import", s.postConfig)
	return r
}

// loadConfig reads the stored document, falling back to the built-in
// default when missing or corrupt.
func (s *Server) loadConfig() *models.GlobalConfig {
	cfg, err := store.NewFileConfigStore(s.configPath).Read()
	if err != nil || cfg == nil {
		if err != nil {
			slog.Error("Admin failed to load config document", "error", err)
		}
		return config.DefaultConfig()
	}
	return cfg
}

func (s *Server) getConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.loadConfig())
}

func (s *Server) postConfig(w http.ResponseWriter, r *http.Request) {
	var cfg models.GlobalConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, models.Error("invalid config document: "+err.Error()))
		return
	}
	if err := store.WriteConfigDocument(s.configPath, &cfg); err != nil {
		slog.Error("Admin failed to write config document", "error", err)
		writeJSON(w, http.StatusInternalServerError, models.Error(err.Error()))
		return
	}
	slog.Info("Admin updated config document", "path", s.configPath)
	writeJSON(w, http.StatusOK, models.Success(nil))
}

func (s *Server) listVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := s.versions.List()
	if err != nil {
		slog.Error("Admin failed to list versions", "error", err)
		versions = []Version{}
	}
	writeJSON(w, http.StatusOK, versions)
}

func (s *Server) saveVersion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string               `json:"name"`
		Config *models.GlobalConfig `json:"config"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Config == nil {
		writeJSON(w, http.StatusBadRequest, models.Error("version payload must carry a name and config"))
		return
	}
	id, err := s.versions.Save(req.Name, req.Config)
	if err != nil {
		slog.Error("Admin failed to save version", "error", err)
		writeJSON(w, http.StatusInternalServerError, models.Error(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, models.Success(map[string]string{"id": id}))
}

func (s *Server) restoreVersion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	version, err := s.versions.Get(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, models.Error("version not found"))
		return
	}
	if err := store.WriteConfigDocument(s.configPath, version.Config); err != nil {
		slog.Error("Admin failed to restore version", "error", err, "id", id)
		writeJSON(w, http.StatusInternalServerError, models.Error(err.Error()))
		return
	}
	slog.Info("Admin restored config version", "id", id, "name", version.Name)
	writeJSON(w, http.StatusOK, models.Success(nil))
}

func (s *Server) deleteVersion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.versions.Delete(id); err != nil {
		writeJSON(w, http.StatusNotFound, models.Error("version not found"))
		return
	}
	writeJSON(w, http.StatusOK, models.Success(nil))
}

func (s *Server) exportConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Disposition", "attachment; filename=notekeep-config.json")
	writeJSON(w, http.StatusOK, s.loadConfig())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Admin failed to encode response", "error", err)
	}
}
