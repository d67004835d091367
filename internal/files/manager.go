package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"shillergen/internal/config"
)

// Manager provides file management operations
type Manager struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewManager creates a new file manager instance
func NewManager(paths *config.Paths) *Manager {
	return &Manager{paths: paths, logger: slog.Default()}
}

// WithLogger returns a copy of the manager logging to logger
func (m *Manager) WithLogger(logger *slog.Logger) *Manager {
	if logger == nil {
		return m
	}
	return &Manager{paths: m.paths, logger: logger}
}

// FileExists checks if a file exists at the given path
func (m *Manager) FileExists(path string) bool {
	fullPath := m.resolvePath(path)
	_, err := os.Stat(fullPath)
	exists := err == nil

	m.logger.Debug("FileExists check",
		slog.String("path", path),
		slog.String("full_path", fullPath),
		slog.Bool("exists", exists))

	return exists
}

// WriteFile replaces the file at path with data in place, creating parent directories.
// It reports whether a previous file was overwritten.
func (m *Manager) WriteFile(path string, data []byte) (bool, error) {
	fullPath := m.resolvePath(path)
	_, statErr := os.Stat(fullPath)
	existed := statErr == nil

	m.logger.Info("Writing file",
		slog.String("path", path),
		slog.String("full_path", fullPath),
		slog.Int("size_bytes", len(data)),
		slog.Bool("overwrite", existed))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return existed, fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return existed, fmt.Errorf("failed to write %s: %w", fullPath, err)
	}
	return existed, nil
}

// resolvePath resolves a path relative to the data directory
func (m *Manager) resolvePath(path string) string {
	if filepath.IsAbs(path) || m.paths == nil {
		return path
	}
	return filepath.Join(m.paths.DataDir, path)
}
