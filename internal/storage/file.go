package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/dvloznov/bank-ledger/internal/domain"
)

// FileSink writes records to a local text file. The content goes to
// Path+".tmp" first and is renamed over Path once complete, so an
// interrupted save leaves the previous file intact.
type FileSink struct {
	Path string
}

// NewFileSink returns a sink writing to path.
func NewFileSink(path string) *FileSink {
	return &FileSink{Path: path}
}

// Save implements the ledger Sink interface.
func (s *FileSink) Save(ctx context.Context, records []domain.Record) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("FileSink.Save: %w", err)
	}

	tmp := s.Path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("FileSink.Save: create %q: %w: %w", tmp, domain.ErrPersistence, err)
	}

	if err := WriteRecords(f, records); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("FileSink.Save: %w: %w", domain.ErrPersistence, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("FileSink.Save: close %q: %w: %w", tmp, domain.ErrPersistence, err)
	}

	if err := os.Rename(tmp, s.Path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("FileSink.Save: rename to %q: %w: %w", s.Path, domain.ErrPersistence, err)
	}
	return nil
}

// Close implements Sink. A file sink holds nothing open between saves.
func (s *FileSink) Close() error {
	return nil
}

// LoadFile reads the records saved at path.
func LoadFile(path string) ([]domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("LoadFile: open %q: %w: %w", path, domain.ErrPersistence, err)
	}
	defer f.Close()

	records, err := ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("LoadFile: %q: %w", path, err)
	}
	return records, nil
}
