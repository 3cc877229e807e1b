// Package export writes accepted NutritionRecords to disk and reads exports
// back for inspection.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/law-makers/nutricrawl/pkg/models"
	"github.com/rs/zerolog/log"
)

// ErrNoRecords is returned by Save when there is nothing to write. No file is
// created in that case.
var ErrNoRecords = errors.New("no records to export")

// Format names an export encoding
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Sink encodes a batch of records
type Sink interface {
	Extension() string
	Encode(w io.Writer, records []models.NutritionRecord) error
}

// For returns the sink for format
func For(format Format) (Sink, error) {
	switch format {
	case FormatCSV, "":
		return CSVSink{}, nil
	case FormatJSON:
		return JSONSink{Indent: true}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// Save encodes records into dir/base.<ext> and returns the path written
func Save(dir, base string, sink Sink, records []models.NutritionRecord) (string, error) {
	if len(records) == 0 {
		return "", ErrNoRecords
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create output dir: %w", err)
		}
	}
	path := filepath.Join(dir, base+"."+sink.Extension())

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export: %w", err)
	}
	if err := sink.Encode(f, records); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("encode export: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export: %w", err)
	}

	log.Debug().Str("path", path).Int("records", len(records)).Msg("Export written")
	return path, nil
}

// WriteDiagnostic stores markup verbatim as dir/name and returns the path.
// Errors are logged and returned; callers treat them as non-fatal.
func WriteDiagnostic(dir, name, markup string) (string, error) {
	path := filepath.Join(dir, name)
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to write diagnostic")
			return "", err
		}
	}
	if err := os.WriteFile(path, []byte(markup), 0o644); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to write diagnostic")
		return "", err
	}
	log.Debug().Str("path", path).Int("bytes", len(markup)).Msg("Diagnostic written")
	return path, nil
}
