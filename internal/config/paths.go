package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Paths contains the resolved locations used by one generator run.
// Absolute fields are for file access; *Rel fields are root-relative, slash-separated
// forms safe to embed in generated output.
type Paths struct {
	Root       string
	DataDir    string
	InputFile  string
	OutputFile string

	InputRel  string
	OutputRel string
}

// ResolvePaths anchors the configured paths at the project root.
// An empty root means the current working directory.
func ResolvePaths(cfg PathsConfig) (*Paths, error) {
	root := cfg.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		root = wd
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", cfg.Root, err)
	}

	dataDir := anchor(root, cfg.DataDir)
	paths := &Paths{
		Root:       root,
		DataDir:    dataDir,
		InputFile:  anchor(dataDir, cfg.InputFile),
		OutputFile: anchor(dataDir, cfg.OutputFile),
	}
	paths.InputRel = paths.relative(paths.InputFile)
	paths.OutputRel = paths.relative(paths.OutputFile)

	return paths, nil
}

// EnsureDataDir creates the data directory if it doesn't exist
func (p *Paths) EnsureDataDir() error {
	if err := os.MkdirAll(p.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", p.DataDir, err)
	}
	return nil
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("Path resolution summary",
		slog.String("root", p.Root),
		slog.String("data_dir", p.DataDir),
		slog.Group("input",
			slog.String("path", p.InputFile),
			slog.Bool("exists", FileExists(p.InputFile)),
		),
		slog.String("output", p.OutputFile))
}

// relative returns path relative to the root in slash form, or the base name when
// the path lies outside the root.
func (p *Paths) relative(path string) string {
	rel, err := filepath.Rel(p.Root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

func anchor(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}
