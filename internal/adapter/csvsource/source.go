// Package csvsource reads bulk-parameter exports from disk.
package csvsource

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-gota/gota/dataframe"

	"github.com/couchcryptid/wave-data-etl/internal/ingest"
)

// FileSource implements pipeline.Extractor over a local CSV file.
type FileSource struct {
	path   string
	logger *slog.Logger
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	return &FileSource{path: path, logger: logger}
}

// Path returns the file the source reads.
func (s *FileSource) Path() string { return s.path }

// Extract loads the whole file as a string-typed frame.
func (s *FileSource) Extract(ctx context.Context) (dataframe.DataFrame, error) {
	if err := ctx.Err(); err != nil {
		return dataframe.DataFrame{}, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	frame, err := ingest.ReadCSV(f)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%s: %w", s.path, err)
	}
	s.logger.Info("input loaded", "path", s.path, "rows", frame.Nrow(), "columns", frame.Ncol())
	return frame, nil
}
