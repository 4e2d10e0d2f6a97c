package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryKind tells what kind of movement a log entry records.
type EntryKind string

const (
	// EntryDeposit records money coming into the account.
	EntryDeposit EntryKind = "deposit"
	// EntryWithdrawal records money leaving the account.
	EntryWithdrawal EntryKind = "withdrawal"
)

// NoTransactions is what a statement yields for an account with an empty log.
const NoTransactions = "No transactions recorded."

// Entry is one line of an account's transaction log.
// Entries are session-only: they are never written to a summary record.
type Entry struct {
	ID           uuid.UUID       // random, assigned when the entry is appended
	Kind         EntryKind       // deposit or withdrawal
	Amount       decimal.Decimal // always positive
	BalanceAfter decimal.Decimal // balance right after the movement
	Time         time.Time
}

func newEntry(kind EntryKind, amount, balanceAfter decimal.Decimal) Entry {
	return Entry{
		ID:           uuid.New(),
		Kind:         kind,
		Amount:       amount,
		BalanceAfter: balanceAfter,
		Time:         time.Now(),
	}
}

// Description renders the entry as the human-readable line shown in statements.
func (e Entry) Description() string {
	switch e.Kind {
	case EntryDeposit:
		return fmt.Sprintf("Deposit of %s", e.Amount.StringFixed(2))
	case EntryWithdrawal:
		return fmt.Sprintf("Withdrawal of %s", e.Amount.StringFixed(2))
	default:
		return fmt.Sprintf("%s of %s", e.Kind, e.Amount.StringFixed(2))
	}
}
