package bigquery

import (
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/bank-ledger/internal/domain"
)

// numericScale is the number of fractional digits of a BigQuery NUMERIC.
const numericScale = 9

// SummaryRow is one account summary in the account_summaries table.
// Every save appends a full snapshot of the ledger sharing one snapshot_id.
type SummaryRow struct {
	SnapshotID string `bigquery:"snapshot_id"` // REQUIRED
	Position   int64  `bigquery:"position"`    // REQUIRED, ledger order within the snapshot

	AccountNumber int64  `bigquery:"account_number"` // REQUIRED
	LastName      string `bigquery:"last_name"`      // NULLABLE (empty string → "")
	FirstName     string `bigquery:"first_name"`     // NULLABLE
	Contact       string `bigquery:"contact"`        // NULLABLE
	Email         string `bigquery:"email"`          // NULLABLE

	Balance *big.Rat `bigquery:"balance"` // REQUIRED NUMERIC
	Locked  bool     `bigquery:"locked"`  // REQUIRED BOOLEAN

	SavedTS time.Time `bigquery:"saved_ts"` // REQUIRED TIMESTAMP
}

// emptySnapshotPosition marks the single row stored for a snapshot of an
// empty ledger. It carries no account and is skipped when reading.
const emptySnapshotPosition = -1

// ToSummaryRows maps ledger records onto rows of a single snapshot. An empty
// ledger maps to one marker row so that the snapshot still exists.
func ToSummaryRows(records []domain.Record, snapshotID string, savedAt time.Time) []*SummaryRow {
	if len(records) == 0 {
		return []*SummaryRow{{
			SnapshotID: snapshotID,
			Position:   emptySnapshotPosition,
			Balance:    new(big.Rat),
			SavedTS:    savedAt,
		}}
	}

	rows := make([]*SummaryRow, 0, len(records))
	for i, rec := range records {
		rows = append(rows, &SummaryRow{
			SnapshotID:    snapshotID,
			Position:      int64(i),
			AccountNumber: int64(rec.Number),
			LastName:      rec.Owner.LastName,
			FirstName:     rec.Owner.FirstName,
			Contact:       rec.Owner.Contact,
			Email:         rec.Owner.Email,
			Balance:       rec.Balance.Rat(),
			Locked:        rec.Locked,
			SavedTS:       savedAt,
		})
	}
	return rows
}

// Record maps a row back onto a ledger record.
func (r *SummaryRow) Record() (domain.Record, error) {
	if r.Balance == nil {
		return domain.Record{}, fmt.Errorf("SummaryRow.Record: account %d has no balance: %w", r.AccountNumber, domain.ErrMalformedRecord)
	}
	balance, err := decimal.NewFromString(r.Balance.FloatString(numericScale))
	if err != nil {
		return domain.Record{}, fmt.Errorf("SummaryRow.Record: account %d balance: %w", r.AccountNumber, err)
	}

	return domain.Record{
		Number: int(r.AccountNumber),
		Owner: domain.Owner{
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Contact:   r.Contact,
			Email:     r.Email,
		},
		Balance: balance,
		Locked:  r.Locked,
	}, nil
}

// FromSummaryRows maps the rows of one snapshot back onto records, keeping
// their order and dropping the empty-snapshot marker.
func FromSummaryRows(rows []*SummaryRow) ([]domain.Record, error) {
	records := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		if row.Position == emptySnapshotPosition {
			continue
		}
		rec, err := row.Record()
		if err != nil {
			return nil, fmt.Errorf("FromSummaryRows: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
