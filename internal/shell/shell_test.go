package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/bank-ledger/internal/domain"
	"github.com/dvloznov/bank-ledger/internal/ledger"
	"github.com/dvloznov/bank-ledger/internal/storage"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// scriptedPrompter answers prompts from a fixed script. Menu choices are
// given as their index. Running out of answers behaves like Ctrl-D.
type scriptedPrompter struct {
	answers []string
	labels  []string
}

func (p *scriptedPrompter) next(label string) (string, error) {
	p.labels = append(p.labels, label)
	if len(p.answers) == 0 {
		return "", io.EOF
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

func (p *scriptedPrompter) Choose(label string, items []string) (int, error) {
	a, err := p.next(label)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(a)
}

func (p *scriptedPrompter) Text(label string, validate func(string) error) (string, error) {
	a, err := p.next(label)
	if err != nil {
		return "", err
	}
	if validate != nil {
		if err := validate(a); err != nil {
			return "", err
		}
	}
	return a, nil
}

func choice(a action) string {
	return strconv.Itoa(int(a))
}

func script(steps ...[]string) []string {
	var out []string
	for _, s := range steps {
		out = append(out, s...)
	}
	return out
}

func openStep(last, first, contact, email, balance string) []string {
	return []string{choice(actionOpen), last, first, contact, email, balance}
}

func runShell(t *testing.T, l *ledger.Ledger, dest string, answers ...string) string {
	t.Helper()
	out := &bytes.Buffer{}
	open := func(ctx context.Context, dest string) (storage.Sink, error) {
		return storage.Open(ctx, dest)
	}
	sh := New(l, &scriptedPrompter{answers: answers}, out, dest, open)
	require.NoError(t, sh.Run(context.Background()))
	return out.String()
}

func TestShell_AccountLifecycle(t *testing.T) {
	l := ledger.New(zerolog.Nop())

	out := runShell(t, l, "",
		script(
			openStep("Dupont", "Jean", "0600000000", "j@example.com", "100.0"),
			[]string{choice(actionDeposit), "1", "50"},
			[]string{choice(actionWithdraw), "1", "200"},
			[]string{choice(actionWithdraw), "1", "150"},
			[]string{choice(actionLock), "1"},
			[]string{choice(actionDeposit), "1", "10"},
			[]string{choice(actionStatement), "1"},
			[]string{choice(actionQuit)},
		)...,
	)

	assert.Contains(t, out, "Account opened. Account number: 1.")
	assert.Contains(t, out, "Deposit accepted. New balance: 150.00.")
	assert.Contains(t, out, "Insufficient funds.")
	assert.Contains(t, out, "Withdrawal accepted. New balance: 0.00.")
	assert.Contains(t, out, "Account 1 locked.")
	assert.Contains(t, out, "This account is locked. Operation refused.")
	assert.Contains(t, out, "- Deposit of 50.00\n- Withdrawal of 150.00\n")
	assert.True(t, strings.HasSuffix(out, goodbye+"\n"))
}

func TestShell_TransferAndDetails(t *testing.T) {
	l := ledger.New(zerolog.Nop())

	out := runShell(t, l, "",
		script(
			openStep("Dupont", "Jean", "0600000000", "j@example.com", "100"),
			openStep("Curie", "Marie", "0611111111", "m@example.com", "0"),
			[]string{choice(actionTransfer), "1", "2", "40"},
			[]string{choice(actionTransfer), "1", "3", "1"},
			[]string{choice(actionDetails), "2"},
			[]string{choice(actionSearch), "Dupont"},
			[]string{choice(actionSearch), "Nobody"},
		)...,
	)

	assert.Contains(t, out, "Transferred 40.00 from account 1 to account 2.")
	assert.Contains(t, out, "Account not found.")
	assert.Contains(t, out, "Account number: 2\nBalance:        40.00\nStatus:         Active\n")
	assert.Contains(t, out, "Last name:      Dupont\n")
	assert.Contains(t, out, "Balance:        60.00\n")
	assert.Contains(t, out, "No account found for this name.")
}

func TestShell_UnlockRestoresOperations(t *testing.T) {
	l := ledger.New(zerolog.Nop())

	out := runShell(t, l, "",
		script(
			openStep("Dupont", "Jean", "06", "j@example.com", "10"),
			[]string{choice(actionLock), "1"},
			[]string{choice(actionDetails), "1"},
			[]string{choice(actionUnlock), "1"},
			[]string{choice(actionWithdraw), "1", "5"},
		)...,
	)

	assert.Contains(t, out, "Status:         Locked")
	assert.Contains(t, out, "Account 1 unlocked.")
	assert.Contains(t, out, "Withdrawal accepted. New balance: 5.00.")
}

func TestShell_InvalidInputKeepsLooping(t *testing.T) {
	l := ledger.New(zerolog.Nop())

	out := runShell(t, l, "",
		script(
			[]string{choice(actionDeposit), "one"},
			[]string{choice(actionDeposit), "1", "ten"},
			[]string{choice(actionOpen), ""},
			[]string{"99"},
			openStep("Dupont", "Jean", "06", "j@example.com", "1"),
			[]string{choice(actionDeposit), "1", "-5"},
		)...,
	)

	assert.Contains(t, out, "not an account number")
	assert.Contains(t, out, "not an amount")
	assert.Contains(t, out, "input is empty")
	assert.Contains(t, out, "invalid choice")
	assert.Contains(t, out, "Account opened. Account number: 1.")
	assert.Contains(t, out, "Invalid amount: it must be greater than zero.")
}

func TestShell_EmptyStatement(t *testing.T) {
	l := ledger.New(zerolog.Nop())

	out := runShell(t, l, "",
		script(
			openStep("Dupont", "Jean", "06", "j@example.com", "1"),
			[]string{choice(actionStatement), "1"},
		)...,
	)

	assert.Contains(t, out, "- "+domain.NoTransactions)
}

func TestShell_Save(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "accounts.txt")
	l := ledger.New(zerolog.Nop())

	out := runShell(t, l, dest,
		script(
			openStep("Durand", "Paul", "0600000000", "p@example.com", "25.5"),
			[]string{choice(actionSave)},
		)...,
	)

	assert.Contains(t, out, "Accounts saved to "+dest+".")
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "1,Durand,Paul,0600000000,p@example.com,25.5,0\n", string(data))
}

func TestShell_SaveFailure(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "missing", "accounts.txt")
	l := ledger.New(zerolog.Nop())

	out := runShell(t, l, dest, choice(actionSave), choice(actionQuit))

	assert.Contains(t, out, "Could not save accounts")
	assert.True(t, strings.HasSuffix(out, goodbye+"\n"))
}

func TestShell_EndOfInputMidAction(t *testing.T) {
	l := ledger.New(zerolog.Nop())

	out := runShell(t, l, "", choice(actionOpen), "Dupont")

	assert.Equal(t, 0, l.Len())
	assert.True(t, strings.HasSuffix(out, goodbye+"\n"))
}

func TestShell_BrokenPrompt(t *testing.T) {
	broken := errors.New("terminal gone")
	sh := New(ledger.New(zerolog.Nop()), failingPrompter{err: broken}, io.Discard, "", nil)

	err := sh.Run(context.Background())
	assert.ErrorIs(t, err, broken)
}

func TestShell_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := &bytes.Buffer{}
	p := &scriptedPrompter{answers: []string{choice(actionOpen)}}
	sh := New(ledger.New(zerolog.Nop()), p, out, "", nil)

	require.NoError(t, sh.Run(ctx))
	assert.Empty(t, p.labels, "no prompt after cancellation")
	assert.Equal(t, "\n"+goodbye+"\n", out.String())
}

// cancellingPrompter answers one menu choice, then cancels the session while
// the action reads its next input.
type cancellingPrompter struct {
	scriptedPrompter
	cancel context.CancelFunc
}

func (p *cancellingPrompter) Text(label string, validate func(string) error) (string, error) {
	p.cancel()
	return "", context.Canceled
}

func TestShell_CancelledMidAction(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &bytes.Buffer{}
	p := &cancellingPrompter{scriptedPrompter: scriptedPrompter{answers: []string{choice(actionDeposit)}}, cancel: cancel}
	sh := New(ledger.New(zerolog.Nop()), p, out, "", nil)

	require.NoError(t, sh.Run(ctx))
	assert.True(t, strings.HasSuffix(out.String(), goodbye+"\n"))
	assert.NotContains(t, out.String(), "Error:")
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{domain.ErrInvalidAmount, "Invalid amount: it must be greater than zero."},
		{domain.ErrAccountLocked, "This account is locked. Operation refused."},
		{domain.ErrInsufficientFunds, "Insufficient funds."},
		{domain.ErrAccountNotFound, "Account not found."},
		{domain.ErrNoMatch, "No account found for this name."},
		{errors.New("boom"), "Error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, describe(tt.err))
		})
	}
}

func TestParseHelpers(t *testing.T) {
	n, err := parseNumber(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	_, err = parseNumber("1.5")
	assert.ErrorIs(t, err, errNotANumber)

	d, err := parseAmount("25.50")
	require.NoError(t, err)
	assert.Equal(t, "25.50", money(d))

	_, err = parseAmount("")
	assert.ErrorIs(t, err, errNotAnAmount)
}

type failingPrompter struct {
	err error
}

func (f failingPrompter) Choose(string, []string) (int, error) { return 0, f.err }

func (f failingPrompter) Text(string, func(string) error) (string, error) { return "", f.err }
