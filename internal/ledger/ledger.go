// Package ledger owns the bank's accounts and routes every operation to them.
package ledger

import (
	"context"
	"fmt"
	"iter"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/bank-ledger/internal/domain"
)

// Sink persists account summary records in ledger order.
type Sink interface {
	Save(ctx context.Context, records []domain.Record) error
}

// Ledger is the ordered collection of all accounts. Account numbers are
// assigned sequentially from 1 and accounts are never removed.
// A Ledger is not safe for concurrent use.
type Ledger struct {
	accounts []*domain.Account
	index    map[int]int // account number -> position in accounts
	last     int         // highest number handed out so far
	log      zerolog.Logger
}

// New creates an empty ledger that logs through log.
func New(log zerolog.Logger) *Ledger {
	return &Ledger{
		index: make(map[int]int),
		log:   log.With().Str("component", "ledger").Logger(),
	}
}

// Len returns the number of accounts.
func (l *Ledger) Len() int {
	return len(l.accounts)
}

// OpenAccount creates an account with an empty log and returns its number.
// The initial balance is not validated.
func (l *Ledger) OpenAccount(firstName, lastName, contact, email string, initialBalance decimal.Decimal) int {
	l.last++
	number := l.last

	owner := domain.Owner{
		FirstName: firstName,
		LastName:  lastName,
		Contact:   contact,
		Email:     email,
	}
	l.index[number] = len(l.accounts)
	l.accounts = append(l.accounts, domain.NewAccount(number, owner, initialBalance))

	l.log.Info().
		Int("account_number", number).
		Str("last_name", lastName).
		Str("initial_balance", initialBalance.String()).
		Msg("Account opened")

	return number
}

// account returns the account with the given number. The pointer never
// leaves the ledger.
func (l *Ledger) account(number int) (*domain.Account, error) {
	i, ok := l.index[number]
	if !ok {
		return nil, fmt.Errorf("account %d: %w", number, domain.ErrAccountNotFound)
	}
	return l.accounts[i], nil
}

// Deposit credits amount to an account and returns its new balance.
func (l *Ledger) Deposit(number int, amount decimal.Decimal) (decimal.Decimal, error) {
	acct, err := l.account(number)
	if err != nil {
		l.reject("Deposit", number, amount, err)
		return decimal.Zero, fmt.Errorf("Deposit: %w", err)
	}

	balance, err := acct.Deposit(amount)
	if err != nil {
		l.reject("Deposit", number, amount, err)
		return balance, fmt.Errorf("Deposit: account %d: %w", number, err)
	}

	l.log.Info().
		Int("account_number", number).
		Str("amount", amount.String()).
		Str("balance", balance.String()).
		Msg("Deposit accepted")
	return balance, nil
}

// Withdraw debits amount from an account and returns its new balance.
func (l *Ledger) Withdraw(number int, amount decimal.Decimal) (decimal.Decimal, error) {
	acct, err := l.account(number)
	if err != nil {
		l.reject("Withdraw", number, amount, err)
		return decimal.Zero, fmt.Errorf("Withdraw: %w", err)
	}

	balance, err := acct.Withdraw(amount)
	if err != nil {
		l.reject("Withdraw", number, amount, err)
		return balance, fmt.Errorf("Withdraw: account %d: %w", number, err)
	}

	l.log.Info().
		Int("account_number", number).
		Str("amount", amount.String()).
		Str("balance", balance.String()).
		Msg("Withdrawal accepted")
	return balance, nil
}

// Transfer moves amount from source to destination. Either both balances
// change or neither does.
func (l *Ledger) Transfer(sourceNumber, destNumber int, amount decimal.Decimal) error {
	source, err := l.account(sourceNumber)
	if err != nil {
		l.reject("Transfer", sourceNumber, amount, err)
		return fmt.Errorf("Transfer: source: %w", err)
	}
	dest, err := l.account(destNumber)
	if err != nil {
		l.reject("Transfer", destNumber, amount, err)
		return fmt.Errorf("Transfer: destination: %w", err)
	}

	// Source first, in Withdraw's order. After that only a locked
	// destination can fail the deposit leg.
	if err := source.CanWithdraw(amount); err != nil {
		l.reject("Transfer", sourceNumber, amount, err)
		return fmt.Errorf("Transfer: source account %d: %w", sourceNumber, err)
	}
	if dest.Locked() {
		l.reject("Transfer", destNumber, amount, domain.ErrAccountLocked)
		return fmt.Errorf("Transfer: destination account %d: %w", destNumber, domain.ErrAccountLocked)
	}

	if _, err := source.Withdraw(amount); err != nil {
		return fmt.Errorf("Transfer: source account %d: %w", sourceNumber, err)
	}
	if _, err := dest.Deposit(amount); err != nil {
		return fmt.Errorf("Transfer: destination account %d: %w", destNumber, err)
	}

	l.log.Info().
		Int("source_account", sourceNumber).
		Int("dest_account", destNumber).
		Str("amount", amount.String()).
		Msg("Transfer completed")
	return nil
}

// LockAccount locks an account against balance changes.
func (l *Ledger) LockAccount(number int) error {
	acct, err := l.account(number)
	if err != nil {
		return fmt.Errorf("LockAccount: %w", err)
	}
	acct.Lock()
	l.log.Info().Int("account_number", number).Msg("Account locked")
	return nil
}

// UnlockAccount lifts the lock on an account.
func (l *Ledger) UnlockAccount(number int) error {
	acct, err := l.account(number)
	if err != nil {
		return fmt.Errorf("UnlockAccount: %w", err)
	}
	acct.Unlock()
	l.log.Info().Int("account_number", number).Msg("Account unlocked")
	return nil
}

// FindByName returns the details of the first account, in creation order,
// whose owner's last name is exactly lastName. Later accounts with the same
// name are not reachable through this call.
func (l *Ledger) FindByName(lastName string) (domain.Details, error) {
	for _, acct := range l.accounts {
		if acct.LastName() == lastName {
			return acct.Details(), nil
		}
	}
	return domain.Details{}, fmt.Errorf("FindByName: %q: %w", lastName, domain.ErrNoMatch)
}

// Details returns the display snapshot of an account.
func (l *Ledger) Details(number int) (domain.Details, error) {
	acct, err := l.account(number)
	if err != nil {
		return domain.Details{}, fmt.Errorf("Details: %w", err)
	}
	return acct.Details(), nil
}

// Statement returns the transaction descriptions of an account.
func (l *Ledger) Statement(number int) (iter.Seq[string], error) {
	acct, err := l.account(number)
	if err != nil {
		return nil, fmt.Errorf("Statement: %w", err)
	}
	return acct.Statement(), nil
}

// Records returns the summary record of every account in ledger order.
func (l *Ledger) Records() []domain.Record {
	out := make([]domain.Record, 0, len(l.accounts))
	for _, acct := range l.accounts {
		out = append(out, acct.Record())
	}
	return out
}

// SaveAll writes every account's summary record to sink. Transaction logs are
// not persisted.
func (l *Ledger) SaveAll(ctx context.Context, sink Sink) error {
	records := l.Records()
	if err := sink.Save(ctx, records); err != nil {
		l.log.Error().Err(err).Int("accounts", len(records)).Msg("Save failed")
		return fmt.Errorf("SaveAll: %w: %w", domain.ErrPersistence, err)
	}

	l.log.Info().Int("accounts", len(records)).Msg("Accounts saved")
	return nil
}

// Restore replaces the ledger's content with accounts rebuilt from records,
// kept in the given order. Restored accounts have empty transaction logs.
// The next opened account gets the highest restored number plus one.
func (l *Ledger) Restore(records []domain.Record) error {
	accounts := make([]*domain.Account, 0, len(records))
	index := make(map[int]int, len(records))
	last := 0

	for _, rec := range records {
		if rec.Number <= 0 {
			return fmt.Errorf("Restore: account number %d: %w", rec.Number, domain.ErrMalformedRecord)
		}
		if _, dup := index[rec.Number]; dup {
			return fmt.Errorf("Restore: duplicate account number %d: %w", rec.Number, domain.ErrMalformedRecord)
		}
		index[rec.Number] = len(accounts)
		accounts = append(accounts, domain.RestoreAccount(rec))
		last = max(last, rec.Number)
	}

	l.accounts = accounts
	l.index = index
	l.last = last

	l.log.Info().Int("accounts", len(accounts)).Int("last_number", last).Msg("Accounts restored")
	return nil
}

func (l *Ledger) reject(op string, number int, amount decimal.Decimal, err error) {
	l.log.Warn().
		Err(err).
		Str("op", op).
		Int("account_number", number).
		Str("amount", amount.String()).
		Msg("Operation rejected")
}
