package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "shillergen/internal/errors"
)

// Format identifies how a source file is read
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const utf8BOM = "\ufeff"

// FileValidator provides the input and output checks run before transcoding
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputFile checks that path exists, is a regular file and is readable, and
// reports the format it should be read as.
func (v *FileValidator) ValidateInputFile(path string) (Format, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Input file does not exist",
			slog.String("file", path))
		return "", apperrors.NewNotFoundError("input file "+path, err)
	}
	if err != nil {
		v.logger.Error("Failed to stat input file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return "", apperrors.NewStorageError("failed to stat input file "+path, err)
	}
	if info.IsDir() {
		return "", apperrors.NewValidationError(fmt.Sprintf("%s is a directory, not a file", path))
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Input file is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return "", apperrors.NewStorageError("input file "+path+" is not readable", err)
	}
	file.Close()

	format, err := DetectFormat(path)
	if err != nil {
		return "", err
	}

	v.logger.Debug("Input file validated",
		slog.String("file", path),
		slog.String("format", string(format)),
		slog.Int64("size", info.Size()))
	return format, nil
}

// DetectFormat maps a file extension to a Format. Anything that is not a workbook is
// treated as delimited text.
func DetectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".xls":
		return "", apperrors.NewValidationError(
			fmt.Sprintf("legacy workbook %s is not supported, save it as .xlsx or export CSV", filepath.Base(path)))
	default:
		return FormatCSV, nil
	}
}

// ValidateHeader locates every required column in header and returns its index.
// Header cells are trimmed and a leading UTF-8 BOM is ignored. When a name repeats,
// the first occurrence is used.
func ValidateHeader(header []string, required ...string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimSpace(strings.TrimPrefix(name, utf8BOM))
		}
		if _, seen := positions[name]; !seen {
			positions[name] = i
		}
	}

	indices := make(map[string]int, len(required))
	var missing []string
	for _, name := range required {
		idx, ok := positions[name]
		if !ok {
			missing = append(missing, fmt.Sprintf("%q", name))
			continue
		}
		indices[name] = idx
	}

	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("required column(s) missing from header: "+strings.Join(missing, ", ")).
			WithContext("header", strings.Join(header, ","))
	}
	return indices, nil
}

// ValidateOutputDirectory ensures output directory exists or can be created, and is writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError("failed to create output directory "+dir, err)
	}

	testFile, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError("output directory "+dir+" is not writable", err)
	}
	testFile.Close()
	os.Remove(testFile.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}
