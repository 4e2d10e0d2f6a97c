// Package shell is the interactive text menu in front of the ledger. It owns
// every piece of console I/O: it reads operator input through a Prompter,
// coerces it to numbers and amounts, calls the ledger and prints the outcome.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/bank-ledger/internal/domain"
	"github.com/dvloznov/bank-ledger/internal/ledger"
	"github.com/dvloznov/bank-ledger/internal/logger"
	"github.com/dvloznov/bank-ledger/internal/storage"
)

// Ledger is the set of operations the shell dispatches to.
type Ledger interface {
	OpenAccount(firstName, lastName, contact, email string, initialBalance decimal.Decimal) int
	Deposit(number int, amount decimal.Decimal) (decimal.Decimal, error)
	Withdraw(number int, amount decimal.Decimal) (decimal.Decimal, error)
	Transfer(sourceNumber, destNumber int, amount decimal.Decimal) error
	Details(number int) (domain.Details, error)
	Statement(number int) (iter.Seq[string], error)
	FindByName(lastName string) (domain.Details, error)
	LockAccount(number int) error
	UnlockAccount(number int) error
	SaveAll(ctx context.Context, sink ledger.Sink) error
}

// OpenFunc opens the sink for a save destination.
type OpenFunc func(ctx context.Context, dest string) (storage.Sink, error)

type action int

const (
	actionOpen action = iota
	actionDeposit
	actionWithdraw
	actionTransfer
	actionDetails
	actionStatement
	actionSearch
	actionLock
	actionUnlock
	actionSave
	actionQuit
)

var menu = []string{
	actionOpen:      "Open an account",
	actionDeposit:   "Make a deposit",
	actionWithdraw:  "Make a withdrawal",
	actionTransfer:  "Make a transfer",
	actionDetails:   "Show account details",
	actionStatement: "Show account statement",
	actionSearch:    "Search an account by last name",
	actionLock:      "Lock an account",
	actionUnlock:    "Unlock an account",
	actionSave:      "Save accounts",
	actionQuit:      "Quit",
}

// Shell runs the menu loop.
type Shell struct {
	ledger Ledger
	prompt Prompter
	out    io.Writer
	dest   string
	open   OpenFunc
}

// New creates a shell that saves to dest through open.
func New(l Ledger, p Prompter, out io.Writer, dest string, open OpenFunc) *Shell {
	return &Shell{
		ledger: l,
		prompt: p,
		out:    out,
		dest:   dest,
		open:   open,
	}
}

// Run shows the menu until the operator quits, input ends or ctx is done. A
// failing operation is reported and the loop goes on; only a broken prompt
// stops it with an error.
func (s *Shell) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	for {
		if ctx.Err() != nil {
			s.printf("\n%s\n", goodbye)
			return nil
		}

		idx, err := s.prompt.Choose("Bank menu", menu)
		if errors.Is(err, io.EOF) || ctx.Err() != nil {
			s.printf("\n%s\n", goodbye)
			return nil
		}
		if err != nil {
			return fmt.Errorf("shell: menu: %w", err)
		}

		a := action(idx)
		if a == actionQuit {
			s.printf("%s\n", goodbye)
			return nil
		}

		err = s.dispatch(ctx, a)
		if errors.Is(err, io.EOF) || ctx.Err() != nil {
			s.printf("\n%s\n", goodbye)
			return nil
		}
		if err != nil {
			log.Debug().Err(err).Str("action", menuLabel(a)).Msg("Menu action failed")
			s.failure(err)
		}
	}
}

func (s *Shell) dispatch(ctx context.Context, a action) error {
	switch a {
	case actionOpen:
		return s.openAccount()
	case actionDeposit:
		return s.deposit()
	case actionWithdraw:
		return s.withdraw()
	case actionTransfer:
		return s.transfer()
	case actionDetails:
		return s.details()
	case actionStatement:
		return s.statement()
	case actionSearch:
		return s.search()
	case actionLock:
		return s.lock()
	case actionUnlock:
		return s.unlock()
	case actionSave:
		return s.save(ctx)
	default:
		return errInvalidChoice
	}
}

func (s *Shell) openAccount() error {
	lastName, err := s.prompt.Text("Last name", required)
	if err != nil {
		return err
	}
	firstName, err := s.prompt.Text("First name", required)
	if err != nil {
		return err
	}
	contact, err := s.prompt.Text("Contact", nil)
	if err != nil {
		return err
	}
	email, err := s.prompt.Text("Email", nil)
	if err != nil {
		return err
	}
	initial, err := s.askAmount("Initial balance")
	if err != nil {
		return err
	}

	number := s.ledger.OpenAccount(firstName, lastName, contact, email, initial)
	s.success("Account opened. Account number: %d.\n", number)
	return nil
}

func (s *Shell) deposit() error {
	number, err := s.askNumber("Account number")
	if err != nil {
		return err
	}
	amount, err := s.askAmount("Amount to deposit")
	if err != nil {
		return err
	}

	balance, err := s.ledger.Deposit(number, amount)
	if err != nil {
		return err
	}
	s.success("Deposit accepted. New balance: %s.\n", money(balance))
	return nil
}

func (s *Shell) withdraw() error {
	number, err := s.askNumber("Account number")
	if err != nil {
		return err
	}
	amount, err := s.askAmount("Amount to withdraw")
	if err != nil {
		return err
	}

	balance, err := s.ledger.Withdraw(number, amount)
	if err != nil {
		return err
	}
	s.success("Withdrawal accepted. New balance: %s.\n", money(balance))
	return nil
}

func (s *Shell) transfer() error {
	source, err := s.askNumber("Source account number")
	if err != nil {
		return err
	}
	dest, err := s.askNumber("Destination account number")
	if err != nil {
		return err
	}
	amount, err := s.askAmount("Amount to transfer")
	if err != nil {
		return err
	}

	if err := s.ledger.Transfer(source, dest, amount); err != nil {
		return err
	}
	s.success("Transferred %s from account %d to account %d.\n", money(amount), source, dest)
	return nil
}

func (s *Shell) details() error {
	number, err := s.askNumber("Account number")
	if err != nil {
		return err
	}

	d, err := s.ledger.Details(number)
	if err != nil {
		return err
	}
	s.printDetails(d)
	return nil
}

func (s *Shell) statement() error {
	number, err := s.askNumber("Account number")
	if err != nil {
		return err
	}

	lines, err := s.ledger.Statement(number)
	if err != nil {
		return err
	}
	headerColor.Fprintf(s.out, "\n--- Transaction statement ---\n")
	for line := range lines {
		s.printf("- %s\n", line)
	}
	return nil
}

func (s *Shell) search() error {
	lastName, err := s.prompt.Text("Last name", required)
	if err != nil {
		return err
	}

	d, err := s.ledger.FindByName(lastName)
	if err != nil {
		return err
	}
	s.printDetails(d)
	return nil
}

func (s *Shell) lock() error {
	number, err := s.askNumber("Account number")
	if err != nil {
		return err
	}
	if err := s.ledger.LockAccount(number); err != nil {
		return err
	}
	s.success("Account %d locked.\n", number)
	return nil
}

func (s *Shell) unlock() error {
	number, err := s.askNumber("Account number")
	if err != nil {
		return err
	}
	if err := s.ledger.UnlockAccount(number); err != nil {
		return err
	}
	s.success("Account %d unlocked.\n", number)
	return nil
}

func (s *Shell) save(ctx context.Context) error {
	sink, err := s.open(ctx, s.dest)
	if err != nil {
		return err
	}
	defer sink.Close()

	if err := s.ledger.SaveAll(ctx, sink); err != nil {
		return err
	}
	s.success("Accounts saved to %s.\n", s.dest)
	return nil
}

func (s *Shell) askNumber(label string) (int, error) {
	raw, err := s.prompt.Text(label, func(in string) error {
		_, err := parseNumber(in)
		return err
	})
	if err != nil {
		return 0, err
	}
	return parseNumber(raw)
}

func (s *Shell) askAmount(label string) (decimal.Decimal, error) {
	raw, err := s.prompt.Text(label, func(in string) error {
		_, err := parseAmount(in)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}
	return parseAmount(raw)
}

var (
	errInvalidChoice = errors.New("invalid choice")
	errEmptyInput    = errors.New("input is empty")
	errNotANumber    = errors.New("not an account number")
	errNotAnAmount   = errors.New("not an amount")
)

func required(in string) error {
	if strings.TrimSpace(in) == "" {
		return errEmptyInput
	}
	return nil
}

func parseNumber(in string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(in))
	if err != nil {
		return 0, fmt.Errorf("%q: %w", in, errNotANumber)
	}
	return n, nil
}

func parseAmount(in string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(in))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q: %w", in, errNotAnAmount)
	}
	return d, nil
}

func menuLabel(a action) string {
	if a < 0 || int(a) >= len(menu) {
		return "unknown"
	}
	return menu[a]
}
