package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Action is the kind of a ledger record.
type Action uint8

const (
	ActionDeposit Action = iota + 1
	ActionWithdrawal
	ActionDispute
	ActionResolve
	ActionChargeback
)

var actionNames = map[Action]string{
	ActionDeposit:    "deposit",
	ActionWithdrawal: "withdrawal",
	ActionDispute:    "dispute",
	ActionResolve:    "resolve",
	ActionChargeback: "chargeback",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}

// ParseAction maps the textual record type onto an Action. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseAction(s string) (Action, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for action, name := range actionNames {
		if name == s {
			return action, true
		}
	}
	return 0, false
}

// Transaction is one record of the replayed log.
type Transaction struct {
	Action     Action
	Client     uint16
	TxID       uint32
	Amount     decimal.NullDecimal // absent for dispute, resolve and chargeback rows
	IsDisputed bool
}

// IsDisputable reports whether later rows may dispute this transaction.
// Only deposits can be disputed.
func (t Transaction) IsDisputable() bool {
	return t.Action == ActionDeposit
}

// NewAmount wraps a value as a present amount.
func NewAmount(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
