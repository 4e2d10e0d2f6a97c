package storage

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"

	"github.com/dvloznov/bank-ledger/internal/domain"
	infraBQ "github.com/dvloznov/bank-ledger/internal/infra/bigquery"
)

const bigQueryScheme = "bq://"

// Sink is a persistence destination for ledger records.
type Sink interface {
	Save(ctx context.Context, records []domain.Record) error
	Close() error
}

// Open returns the sink for dest:
//
//	gs://bucket/object          Cloud Storage object
//	bq://project.dataset.table  BigQuery table, one snapshot per save
//	anything else               local file path
//
// opts are only used by the cloud sinks.
func Open(ctx context.Context, dest string, opts ...option.ClientOption) (Sink, error) {
	switch {
	case dest == "":
		return nil, fmt.Errorf("Open: empty destination: %w", domain.ErrPersistence)
	case strings.HasPrefix(dest, gcsScheme):
		sink, err := NewGCSSink(ctx, dest, opts...)
		if err != nil {
			return nil, fmt.Errorf("Open: %w: %w", domain.ErrPersistence, err)
		}
		return sink, nil
	case strings.HasPrefix(dest, bigQueryScheme):
		repo, err := infraBQ.NewSummaryRepository(ctx, dest, opts...)
		if err != nil {
			return nil, fmt.Errorf("Open: %w: %w", domain.ErrPersistence, err)
		}
		return repo, nil
	default:
		return NewFileSink(dest), nil
	}
}

// Load reads the records saved at source, which takes the same forms as an
// Open destination.
func Load(ctx context.Context, source string, opts ...option.ClientOption) ([]domain.Record, error) {
	switch {
	case source == "":
		return nil, fmt.Errorf("Load: empty source: %w", domain.ErrPersistence)
	case strings.HasPrefix(source, gcsScheme):
		return FetchFromGCS(ctx, source, opts...)
	case strings.HasPrefix(source, bigQueryScheme):
		repo, err := infraBQ.NewSummaryRepository(ctx, source, opts...)
		if err != nil {
			return nil, fmt.Errorf("Load: %w: %w", domain.ErrPersistence, err)
		}
		defer repo.Close()
		return repo.LatestSnapshot(ctx)
	default:
		return LoadFile(source)
	}
}
