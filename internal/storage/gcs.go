package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/dvloznov/bank-ledger/internal/domain"
)

const gcsScheme = "gs://"

// uploadTimeout bounds a single object write.
const uploadTimeout = 2 * time.Minute

// ParseGCSURI splits gs://bucket/path/to/object into bucket and object name.
func ParseGCSURI(uri string) (bucket, object string, err error) {
	if !strings.HasPrefix(uri, gcsScheme) {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}

	parts := strings.SplitN(strings.TrimPrefix(uri, gcsScheme), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}
	return parts[0], parts[1], nil
}

// GCSSink writes records as a text object in a Cloud Storage bucket, using
// the same line format as FileSink.
type GCSSink struct {
	client *gcs.Client
	bucket string
	object string
}

// NewGCSSink creates a sink for the gs:// URI. It relies on Application
// Default Credentials unless opts say otherwise.
func NewGCSSink(ctx context.Context, uri string, opts ...option.ClientOption) (*GCSSink, error) {
	bucket, object, err := ParseGCSURI(uri)
	if err != nil {
		return nil, fmt.Errorf("NewGCSSink: %w", err)
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewGCSSink: create storage client: %w", err)
	}

	return &GCSSink{client: client, bucket: bucket, object: object}, nil
}

// Save implements the ledger Sink interface.
func (s *GCSSink) Save(ctx context.Context, records []domain.Record) error {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(s.object).NewWriter(ctx)
	w.ContentType = "text/plain; charset=utf-8"

	if err := WriteRecords(w, records); err != nil {
		// cancelling the context aborts the upload
		cancel()
		_ = w.Close()
		return fmt.Errorf("GCSSink.Save: gs://%s/%s: %w: %w", s.bucket, s.object, domain.ErrPersistence, err)
	}

	// Close finalizes the upload
	if err := w.Close(); err != nil {
		return fmt.Errorf("GCSSink.Save: finalize gs://%s/%s: %w: %w", s.bucket, s.object, domain.ErrPersistence, err)
	}
	return nil
}

// Close releases the storage client.
func (s *GCSSink) Close() error {
	return s.client.Close()
}

// FetchFromGCS reads the records saved in the object at a gs:// URI.
func FetchFromGCS(ctx context.Context, uri string, opts ...option.ClientOption) ([]domain.Record, error) {
	bucket, object, err := ParseGCSURI(uri)
	if err != nil {
		return nil, fmt.Errorf("FetchFromGCS: %w", err)
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("FetchFromGCS: creating storage client: %w", err)
	}
	defer client.Close()

	rc, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("FetchFromGCS: reading object %s/%s: %w: %w", bucket, object, domain.ErrPersistence, err)
	}
	defer rc.Close()

	records, err := ReadRecords(rc)
	if err != nil {
		return nil, fmt.Errorf("FetchFromGCS: %s/%s: %w", bucket, object, err)
	}
	return records, nil
}
