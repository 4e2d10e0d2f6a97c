package storage

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dvloznov/bank-ledger/internal/domain"
)

// WriteRecords encodes records one per line, in order, with no header.
func WriteRecords(w io.Writer, records []domain.Record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		if _, err := bw.WriteString(rec.String() + "\n"); err != nil {
			return fmt.Errorf("WriteRecords: account %d: %w", rec.Number, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("WriteRecords: flush: %w", err)
	}
	return nil
}

// ReadRecords decodes lines written by WriteRecords. Blank lines are skipped.
func ReadRecords(r io.Reader) ([]domain.Record, error) {
	var records []domain.Record

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := domain.ParseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("ReadRecords: line %d: %w", lineNo, err)
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("ReadRecords: scanning: %w", err)
	}

	return records, nil
}
