package bigquery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/bank-ledger/internal/domain"
)

const tableScheme = "bq://"

// TableRef names a fully qualified table.
type TableRef struct {
	ProjectID string
	DatasetID string
	TableID   string
}

// String renders the reference as a standard SQL table path.
func (t TableRef) String() string {
	return t.ProjectID + "." + t.DatasetID + "." + t.TableID
}

// ParseTableURI parses bq://project.dataset.table.
func ParseTableURI(uri string) (TableRef, error) {
	if !strings.HasPrefix(uri, tableScheme) {
		return TableRef{}, fmt.Errorf("invalid BigQuery URI: %s", uri)
	}

	parts := strings.Split(strings.TrimPrefix(uri, tableScheme), ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return TableRef{}, fmt.Errorf("invalid BigQuery URI (want bq://project.dataset.table): %s", uri)
	}
	return TableRef{ProjectID: parts[0], DatasetID: parts[1], TableID: parts[2]}, nil
}

// InsertSummariesWithClient appends a new snapshot of records to the table
// and returns its snapshot_id.
func InsertSummariesWithClient(ctx context.Context, client *bigquery.Client, table TableRef, records []domain.Record) (string, error) {
	snapshotID := uuid.NewString()
	rows := ToSummaryRows(records, snapshotID, time.Now().UTC())

	// Use fully qualified table name to avoid project ID issues
	inserter := client.DatasetInProject(table.ProjectID, table.DatasetID).Table(table.TableID).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return "", fmt.Errorf("InsertSummariesWithClient: inserting rows: %w", err)
	}

	return snapshotID, nil
}

// LatestSnapshotWithClient reads back the most recently saved snapshot in
// ledger order. It returns no records when the table is empty or when the
// latest snapshot is of an empty ledger.
func LatestSnapshotWithClient(ctx context.Context, client *bigquery.Client, table TableRef) ([]domain.Record, error) {
	query := fmt.Sprintf(`
		SELECT
			snapshot_id,
			position,
			account_number,
			last_name,
			first_name,
			contact,
			email,
			balance,
			locked,
			saved_ts
		FROM `+"`%s`"+`
		WHERE snapshot_id = (
			SELECT snapshot_id
			FROM `+"`%s`"+`
			ORDER BY saved_ts DESC
			LIMIT 1
		)
		ORDER BY position
	`, table, table)

	it, err := client.Query(query).Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("LatestSnapshotWithClient: reading query: %w", err)
	}

	var rows []*SummaryRow
	for {
		var row SummaryRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("LatestSnapshotWithClient: iterating: %w", err)
		}
		rows = append(rows, &row)
	}

	records, err := FromSummaryRows(rows)
	if err != nil {
		return nil, fmt.Errorf("LatestSnapshotWithClient: %w", err)
	}
	return records, nil
}

// EnsureTableWithClient creates the summaries table if it does not exist.
// Existing tables are left as they are.
func EnsureTableWithClient(ctx context.Context, client *bigquery.Client, table TableRef) error {
	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS `+"`%s`"+` (
			snapshot_id     STRING NOT NULL,
			position        INT64 NOT NULL,
			account_number  INT64 NOT NULL,
			last_name       STRING,
			first_name      STRING,
			contact         STRING,
			email           STRING,
			balance         NUMERIC NOT NULL,
			locked          BOOL NOT NULL,
			saved_ts        TIMESTAMP NOT NULL
		)
	`, table)

	job, err := client.Query(ddl).Run(ctx)
	if err != nil {
		return fmt.Errorf("EnsureTableWithClient: running query: %w", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("EnsureTableWithClient: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("EnsureTableWithClient: job error: %w", err)
	}

	return nil
}
