// Package pipeline validates, de-duplicates, and batches records into the
// configured output writers.
package pipeline

import (
	"errors"
	"fmt"
	"sync"

	"github.com/aluiziolira/go-scrape-streams/models"
)

type namedWriter struct {
	name string
	OutputWriter
}

// DualWriter fans every batch out to several writers, CSV and JSONL by
// default.
type DualWriter struct {
	writers []namedWriter
	mu      sync.Mutex
}

// NewDualWriter creates a new dual writer for both CSV and JSONL output
func NewDualWriter(csvFilename, jsonFilename string) (*DualWriter, error) {
	csvWriter, err := NewCSVWriter(csvFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV writer: %w", err)
	}

	jsonWriter, err := NewJSONWriter(jsonFilename)
	if err != nil {
		csvWriter.Close()
		return nil, fmt.Errorf("failed to create JSON writer: %w", err)
	}

	return &DualWriter{
		writers: []namedWriter{
			{name: "CSV", OutputWriter: csvWriter},
			{name: "JSON", OutputWriter: jsonWriter},
		},
	}, nil
}

// Write writes records to every output, stopping at the first failure.
func (dw *DualWriter) Write(records []*models.Record) error {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	for _, w := range dw.writers {
		if err := w.Write(records); err != nil {
			return fmt.Errorf("%s write failed: %w", w.name, err)
		}
	}
	return nil
}

// Close closes every output even when one of them fails.
func (dw *DualWriter) Close() error {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	var errs []error
	for _, w := range dw.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s close failed: %w", w.name, err))
		}
	}
	return errors.Join(errs...)
}

// Validate validates every output file
func (dw *DualWriter) Validate() error {
	var errs []error
	for _, w := range dw.writers {
		if err := w.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s validation failed: %w", w.name, err))
		}
	}
	return errors.Join(errs...)
}
