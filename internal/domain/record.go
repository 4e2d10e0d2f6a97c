package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// recordFields is the number of comma-separated fields in a summary line.
const recordFields = 7

// Record is the persisted summary of an account:
//
//	<number>,<last name>,<first name>,<contact>,<email>,<balance>,<locked 1|0>
//
// Fields are not quoted, so a comma inside a field corrupts the line.
type Record struct {
	Number  int
	Owner   Owner
	Balance decimal.Decimal
	Locked  bool
}

// String encodes the record as a single line without a trailing newline.
func (r Record) String() string {
	locked := "0"
	if r.Locked {
		locked = "1"
	}
	return strings.Join([]string{
		strconv.Itoa(r.Number),
		r.Owner.LastName,
		r.Owner.FirstName,
		r.Owner.Contact,
		r.Owner.Email,
		r.Balance.String(),
		locked,
	}, ",")
}

// ParseRecord decodes one summary line produced by Record.String.
func ParseRecord(line string) (Record, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), ",")
	if len(fields) != recordFields {
		return Record{}, fmt.Errorf("ParseRecord: want %d fields, got %d: %w", recordFields, len(fields), ErrMalformedRecord)
	}

	number, err := strconv.Atoi(fields[0])
	if err != nil || number <= 0 {
		return Record{}, fmt.Errorf("ParseRecord: account number %q: %w", fields[0], ErrMalformedRecord)
	}

	balance, err := decimal.NewFromString(fields[5])
	if err != nil {
		return Record{}, fmt.Errorf("ParseRecord: balance %q: %w", fields[5], ErrMalformedRecord)
	}

	var locked bool
	switch fields[6] {
	case "1":
		locked = true
	case "0":
	default:
		return Record{}, fmt.Errorf("ParseRecord: locked flag %q: %w", fields[6], ErrMalformedRecord)
	}

	return Record{
		Number: number,
		Owner: Owner{
			LastName:  fields[1],
			FirstName: fields[2],
			Contact:   fields[3],
			Email:     fields[4],
		},
		Balance: balance,
		Locked:  locked,
	}, nil
}
