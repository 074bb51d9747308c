package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	interfaces "github.com/sheikh-saqib/ledger-replay/internal/interfaces"
	"github.com/sheikh-saqib/ledger-replay/internal/models"
)

const createAccountBalances = `CREATE TABLE IF NOT EXISTS account_balances (
	run_id    uuid    NOT NULL,
	client    integer NOT NULL,
	available numeric NOT NULL,
	held      numeric NOT NULL,
	total     numeric NOT NULL,
	locked    boolean NOT NULL,
	PRIMARY KEY (run_id, client)
)`

// AccountStore exports the final account table of a run into Postgres.
// Rows are keyed by run id; nothing is read back into a later run.
type AccountStore struct {
	db    *sql.DB
	runID uuid.UUID
}

func NewAccountStore(db *sql.DB, runID uuid.UUID) *AccountStore {
	return &AccountStore{
		db:    db,
		runID: runID,
	}
}

func (p *AccountStore) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, createAccountBalances); err != nil {
		return fmt.Errorf("create account_balances: %w", err)
	}
	return nil
}

// WriteAccounts bulk loads the accounts with COPY inside a single transaction.
func (p *AccountStore) WriteAccounts(ctx context.Context, accounts []models.Account) (err error) {
	dbTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	stmt, err := dbTx.PrepareContext(ctx, pq.CopyIn("account_balances",
		"run_id", "client", "available", "held", "total", "locked"))
	if err != nil {
		return fmt.Errorf("prepare copy: %w", err)
	}

	for _, account := range accounts {
		_, err = stmt.ExecContext(ctx,
			p.runID.String(),
			int(account.Client),
			account.Available,
			account.Held,
			account.Total(),
			account.Locked,
		)
		if err != nil {
			stmt.Close()
			return fmt.Errorf("copy account %d: %w", account.Client, err)
		}
	}

	// an argument-less Exec flushes the COPY buffer
	if _, err = stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("flush copy: %w", err)
	}
	if err = stmt.Close(); err != nil {
		return fmt.Errorf("close copy: %w", err)
	}

	return dbTx.Commit()
}

// Accounts returns the rows stored for this run ordered by client.
func (p *AccountStore) Accounts(ctx context.Context) ([]models.Account, error) {
	const query = `SELECT client, available, held, locked FROM account_balances
	WHERE run_id = $1 ORDER BY client`

	rows, err := p.db.QueryContext(ctx, query, p.runID.String())
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(&account.Client, &account.Available, &account.Held, &account.Locked); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

var _ interfaces.AccountSink = (*AccountStore)(nil)
