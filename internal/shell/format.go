package shell

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/bank-ledger/internal/domain"
)

const goodbye = "Goodbye!"

var (
	successColor = color.New(color.FgGreen)
	failureColor = color.New(color.FgRed)
	headerColor  = color.New(color.FgCyan, color.Bold)
)

// operatorMessages maps domain errors to what the operator reads.
var operatorMessages = []struct {
	err error
	msg string
}{
	{domain.ErrInvalidAmount, "Invalid amount: it must be greater than zero."},
	{domain.ErrAccountLocked, "This account is locked. Operation refused."},
	{domain.ErrInsufficientFunds, "Insufficient funds."},
	{domain.ErrAccountNotFound, "Account not found."},
	{domain.ErrNoMatch, "No account found for this name."},
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) success(format string, args ...any) {
	successColor.Fprintf(s.out, format, args...)
}

func (s *Shell) failure(err error) {
	failureColor.Fprintf(s.out, "%s\n", describe(err))
}

// describe turns an operation error into a one-line message.
func describe(err error) string {
	for _, m := range operatorMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	if errors.Is(err, domain.ErrPersistence) {
		return fmt.Sprintf("Could not save accounts: %v", err)
	}
	return fmt.Sprintf("Error: %v", err)
}

func (s *Shell) printDetails(d domain.Details) {
	headerColor.Fprintf(s.out, "\n--- Account details ---\n")
	s.printf("Last name:      %s\n", d.LastName)
	s.printf("First name:     %s\n", d.FirstName)
	s.printf("Contact:        %s\n", d.Contact)
	s.printf("Email:          %s\n", d.Email)
	s.printf("Account number: %d\n", d.Number)
	s.printf("Balance:        %s\n", money(d.Balance))
	s.printf("Status:         %s\n", d.Status)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
