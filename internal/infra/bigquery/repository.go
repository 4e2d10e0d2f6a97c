package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/option"

	"github.com/dvloznov/bank-ledger/internal/domain"
)

// SummaryRepository stores ledger snapshots in a BigQuery table. It holds a
// shared client so that repeated saves reuse one connection.
type SummaryRepository struct {
	client *bigquery.Client
	table  TableRef
}

// NewSummaryRepository creates a repository for the table at a bq:// URI.
func NewSummaryRepository(ctx context.Context, uri string, opts ...option.ClientOption) (*SummaryRepository, error) {
	table, err := ParseTableURI(uri)
	if err != nil {
		return nil, fmt.Errorf("NewSummaryRepository: %w", err)
	}

	client, err := bigquery.NewClient(ctx, table.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewSummaryRepository: creating client: %w", err)
	}
	return &SummaryRepository{client: client, table: table}, nil
}

// Close closes the BigQuery client connection.
func (r *SummaryRepository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// Save implements the ledger Sink interface by appending a snapshot.
func (r *SummaryRepository) Save(ctx context.Context, records []domain.Record) error {
	if _, err := InsertSummariesWithClient(ctx, r.client, r.table, records); err != nil {
		return fmt.Errorf("SummaryRepository.Save: %s: %w: %w", r.table, domain.ErrPersistence, err)
	}
	return nil
}

// LatestSnapshot delegates to LatestSnapshotWithClient with the shared client.
func (r *SummaryRepository) LatestSnapshot(ctx context.Context) ([]domain.Record, error) {
	records, err := LatestSnapshotWithClient(ctx, r.client, r.table)
	if err != nil {
		return nil, fmt.Errorf("SummaryRepository.LatestSnapshot: %s: %w: %w", r.table, domain.ErrPersistence, err)
	}
	return records, nil
}

// EnsureTable creates the repository's table if it is missing.
func (r *SummaryRepository) EnsureTable(ctx context.Context) error {
	if err := EnsureTableWithClient(ctx, r.client, r.table); err != nil {
		return fmt.Errorf("SummaryRepository.EnsureTable: %s: %w", r.table, err)
	}
	return nil
}

// Table returns the table the repository writes to.
func (r *SummaryRepository) Table() TableRef {
	return r.table
}
