package models

import (
	"github.com/shopspring/decimal"
)

// Account is the running state of one client.
//
// Every mutator is a silent no-op when the account is locked or when the
// amount is absent. Locking is terminal.
type Account struct {
	Client    uint16
	Available decimal.Decimal // may go negative after a hold
	Held      decimal.Decimal
	Locked    bool
}

// NewAccount returns an unlocked account with zero balances.
func NewAccount(client uint16) *Account {
	return &Account{
		Client:    client,
		Available: decimal.Zero,
		Held:      decimal.Zero,
	}
}

// Total is available plus held.
func (a *Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}

// Deposit credits available funds.
func (a *Account) Deposit(amount decimal.NullDecimal) {
	if a.Locked || !amount.Valid {
		return
	}
	a.Available = a.Available.Add(amount.Decimal)
}

// Withdraw is dropped when the amount exceeds the available funds.
func (a *Account) Withdraw(amount decimal.NullDecimal) {
	if a.Locked || !amount.Valid {
		return
	}
	if amount.Decimal.GreaterThan(a.Available) {
		return
	}
	a.Available = a.Available.Sub(amount.Decimal)
}

// Hold moves funds from available to held. Available is allowed to go
// negative: funds withdrawn before the dispute are only clawed back by a
// chargeback.
func (a *Account) Hold(amount decimal.NullDecimal) {
	if a.Locked || !amount.Valid {
		return
	}
	a.Available = a.Available.Sub(amount.Decimal)
	a.Held = a.Held.Add(amount.Decimal)
}

// Release moves held funds back to available.
func (a *Account) Release(amount decimal.NullDecimal) {
	if a.Locked || !amount.Valid {
		return
	}
	a.Available = a.Available.Add(amount.Decimal)
	a.Held = a.Held.Sub(amount.Decimal)
}

// Chargeback removes held funds and locks the account.
func (a *Account) Chargeback(amount decimal.NullDecimal) {
	if a.Locked || !amount.Valid {
		return
	}
	a.Held = a.Held.Sub(amount.Decimal)
	a.Locked = true
}
