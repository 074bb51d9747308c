package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	interfaces "github.com/sheikh-saqib/ledger-replay/internal/interfaces"
	"github.com/sheikh-saqib/ledger-replay/internal/models"
)

// Source yields transactions in log order. Next returns io.EOF once the log
// is exhausted; any other error is structural and aborts the replay.
type Source interface {
	Next() (models.Transaction, error)
}

// Stats counts what a replay did with its input.
type Stats struct {
	Rows     int
	ByAction map[models.Action]int // rows seen per action, effective or not
	Ignored  int                   // dispute, resolve and chargeback rows that changed nothing
}

// Ledger replays transactions into an account table.
// It owns the account table and uses the index to resolve dispute rows.
// A Ledger is not safe for concurrent use; rows must be applied in log order.
type Ledger struct {
	index    interfaces.TransactionIndex // disputable transactions by tx id
	accounts map[uint16]*models.Account  // created on first reference, never removed
	primed   bool                        // index was built up front by Prime
	stats    Stats
}

// NewLedger creates a Ledger backed by the given transaction index.
func NewLedger(index interfaces.TransactionIndex) *Ledger {
	return &Ledger{
		index:    index,
		accounts: make(map[uint16]*models.Account),
		stats:    Stats{ByAction: make(map[models.Action]int)},
	}
}

// Prime indexes every disputable transaction up front and turns off the
// lazy indexing done by Apply, so each deposit enters the index exactly once.
// With an in-order log both strategies produce the same result. Priming only
// changes behavior when a dispute row precedes its deposit, in which case the
// dispute takes effect and stays active until resolved or charged back.
func (l *Ledger) Prime(txs []models.Transaction) {
	for _, tx := range txs {
		if tx.IsDisputable() {
			l.index.Save(tx)
		}
	}
	l.primed = true
}

// Apply runs one transaction through the state machine. It never fails:
// rows that break a business rule are dropped silently.
func (l *Ledger) Apply(tx models.Transaction) {
	account := l.ensureAccount(tx.Client)
	l.stats.Rows++

	switch tx.Action {
	case models.ActionDeposit:
		account.Deposit(tx.Amount)
	case models.ActionWithdrawal:
		account.Withdraw(tx.Amount)
	case models.ActionDispute, models.ActionResolve, models.ActionChargeback:
		if !l.applyDispute(account, tx) {
			l.stats.Ignored++
		}
	}
	l.stats.ByAction[tx.Action]++

	// Disputes only ever reference earlier rows, so indexing after the
	// transaction is applied is enough for an in-order log.
	if !l.primed && tx.IsDisputable() {
		l.index.Save(tx)
	}
}

// Replay applies every transaction from src in order. It stops at the first
// source error or when ctx is cancelled.
func (l *Ledger) Replay(ctx context.Context, src Source) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		tx, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read transaction %d: %w", l.stats.Rows+1, err)
		}

		l.Apply(tx)
	}
}

// Account returns a copy of the client's account.
func (l *Ledger) Account(client uint16) (models.Account, bool) {
	account, exists := l.accounts[client]
	if !exists {
		return models.Account{}, false
	}
	return *account, true
}

// Accounts returns a copy of the account table ordered by client id.
func (l *Ledger) Accounts() []models.Account {
	out := make([]models.Account, 0, len(l.accounts))
	for _, account := range l.accounts {
		out = append(out, *account)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Client < out[j].Client })
	return out
}

// Stats returns a copy of the replay counters.
func (l *Ledger) Stats() Stats {
	out := l.stats
	out.ByAction = make(map[models.Action]int, len(l.stats.ByAction))
	for action, n := range l.stats.ByAction {
		out.ByAction[action] = n
	}
	return out
}

// IndexSize is the number of disputable transactions currently indexed.
func (l *Ledger) IndexSize() int {
	return l.index.Len()
}

func (l *Ledger) ensureAccount(client uint16) *models.Account {
	account, exists := l.accounts[client]
	if !exists {
		account = models.NewAccount(client)
		l.accounts[client] = account
	}
	return account
}
