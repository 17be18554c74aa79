package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// CSVExtensions and ExcelExtensions are the formats of the stock parsers.
var (
	CSVExtensions   = []string{".csv"}
	ExcelExtensions = []string{".xlsx", ".xlsm"}
)

// FileLoader reads local files whose extension is in Extensions. An empty
// list accepts any extension.
type FileLoader struct {
	Extensions []string
}

// NewFileLoader creates a loader restricted to the given extensions.
func NewFileLoader(extensions ...string) *FileLoader {
	return &FileLoader{Extensions: extensions}
}

// Validate checks the extension and that source is an existing regular file.
func (l *FileLoader) Validate(source string) error {
	if strings.TrimSpace(source) == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidSource)
	}

	if len(l.Extensions) > 0 && !hasExtension(source, l.Extensions) {
		return fmt.Errorf("%w: %s: extension %q not in %v",
			ErrInvalidSource, source, filepath.Ext(source), l.Extensions)
	}

	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidSource, source)
	}

	return nil
}

// Load reads the whole file.
func (l *FileLoader) Load(ctx context.Context, source string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}

	return data, nil
}

func hasExtension(source string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(source))

	return slices.ContainsFunc(extensions, func(e string) bool {
		return strings.ToLower(e) == ext
	})
}
