package domain

import (
	"iter"

	"github.com/shopspring/decimal"
)

// Status is the lock state of an account.
type Status string

const (
	// StatusActive accounts accept deposits and withdrawals.
	StatusActive Status = "Active"
	// StatusLocked accounts only accept read-only queries.
	StatusLocked Status = "Locked"
)

// Owner identifies the holder of an account.
type Owner struct {
	FirstName string
	LastName  string
	Contact   string
	Email     string
}

// Details is a read-only snapshot of an account for display.
type Details struct {
	Owner
	Number  int
	Balance decimal.Decimal
	Status  Status
}

// Account holds an owner's balance, lock state and transaction log.
// An Account is not safe for concurrent use; the owning ledger is the only
// mutator.
type Account struct {
	owner   Owner
	number  int
	balance decimal.Decimal
	locked  bool
	entries []Entry
}

// NewAccount creates an active account with an empty transaction log.
// The initial balance is taken as is, without a sign check.
func NewAccount(number int, owner Owner, initialBalance decimal.Decimal) *Account {
	return &Account{
		owner:   owner,
		number:  number,
		balance: initialBalance,
	}
}

// RestoreAccount rebuilds an account from a summary record. The transaction
// log starts empty because records do not carry it.
func RestoreAccount(rec Record) *Account {
	return &Account{
		owner:   rec.Owner,
		number:  rec.Number,
		balance: rec.Balance,
		locked:  rec.Locked,
	}
}

// Number returns the immutable account number.
func (a *Account) Number() int {
	return a.number
}

// LastName returns the owner's last name, the key used by name search.
func (a *Account) LastName() string {
	return a.owner.LastName
}

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal {
	return a.balance
}

// Locked reports whether the account is locked.
func (a *Account) Locked() bool {
	return a.locked
}

// Deposit adds amount to the balance and logs it. It returns the new balance.
func (a *Account) Deposit(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return a.balance, ErrInvalidAmount
	}
	if a.locked {
		return a.balance, ErrAccountLocked
	}

	a.balance = a.balance.Add(amount)
	a.entries = append(a.entries, newEntry(EntryDeposit, amount, a.balance))
	return a.balance, nil
}

// Withdraw takes amount off the balance and logs it. It returns the new
// balance; a nil error means the money left the account.
func (a *Account) Withdraw(amount decimal.Decimal) (decimal.Decimal, error) {
	if err := a.CanWithdraw(amount); err != nil {
		return a.balance, err
	}

	a.balance = a.balance.Sub(amount)
	a.entries = append(a.entries, newEntry(EntryWithdrawal, amount, a.balance))
	return a.balance, nil
}

// CanWithdraw reports the error Withdraw would return for amount, without
// changing the account. Checks run in order: lock, amount, funds.
func (a *Account) CanWithdraw(amount decimal.Decimal) error {
	if a.locked {
		return ErrAccountLocked
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(a.balance) {
		return ErrInsufficientFunds
	}
	return nil
}

// Lock forbids further balance changes. Locking a locked account is a no-op.
func (a *Account) Lock() {
	a.locked = true
}

// Unlock re-allows balance changes. Unlocking an active account is a no-op.
func (a *Account) Unlock() {
	a.locked = false
}

// Status returns the state derived from the lock flag.
func (a *Account) Status() Status {
	if a.locked {
		return StatusLocked
	}
	return StatusActive
}

// Details returns a display snapshot of the account.
func (a *Account) Details() Details {
	return Details{
		Owner:   a.owner,
		Number:  a.number,
		Balance: a.balance,
		Status:  a.Status(),
	}
}

// Entries returns a copy of the transaction log in insertion order.
func (a *Account) Entries() []Entry {
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Statement returns the transaction descriptions in insertion order. The
// sequence reads the live log each time it is ranged over and can be
// restarted freely. An empty log yields NoTransactions once.
func (a *Account) Statement() iter.Seq[string] {
	return func(yield func(string) bool) {
		if len(a.entries) == 0 {
			yield(NoTransactions)
			return
		}
		for _, e := range a.entries {
			if !yield(e.Description()) {
				return
			}
		}
	}
}

// Record projects the account onto its persisted summary.
func (a *Account) Record() Record {
	return Record{
		Number:  a.number,
		Owner:   a.owner,
		Balance: a.balance,
		Locked:  a.locked,
	}
}

// Serialize returns the account's one-line summary record. The transaction
// log is not part of it.
func (a *Account) Serialize() string {
	return a.Record().String()
}
