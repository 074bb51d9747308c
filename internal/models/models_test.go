package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func amt(s string) decimal.NullDecimal {
	return NewAmount(decimal.RequireFromString(s))
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		input  string
		want   Action
		wantOK bool
	}{
		{"deposit", ActionDeposit, true},
		{" Withdrawal ", ActionWithdrawal, true},
		{"DISPUTE", ActionDispute, true},
		{"resolve", ActionResolve, true},
		{"chargeback", ActionChargeback, true},
		{"transfer", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseAction(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "chargeback", ActionChargeback.String())
	assert.Equal(t, "Action(42)", Action(42).String())
}

func TestTransaction_IsDisputable(t *testing.T) {
	assert.True(t, Transaction{Action: ActionDeposit}.IsDisputable())
	for _, action := range []Action{ActionWithdrawal, ActionDispute, ActionResolve, ActionChargeback} {
		assert.False(t, Transaction{Action: action}.IsDisputable(), action.String())
	}
}

func TestAccount_Transitions(t *testing.T) {
	a := NewAccount(1)

	a.Deposit(amt("10"))
	assert.Equal(t, "10", a.Available.String())

	a.Withdraw(amt("10.0001"))
	assert.Equal(t, "10", a.Available.String())

	a.Withdraw(amt("4"))
	assert.Equal(t, "6", a.Available.String())

	a.Hold(amt("8"))
	assert.Equal(t, "-2", a.Available.String())
	assert.Equal(t, "8", a.Held.String())
	assert.Equal(t, "6", a.Total().String())

	a.Release(amt("3"))
	assert.Equal(t, "1", a.Available.String())
	assert.Equal(t, "5", a.Held.String())

	a.Chargeback(amt("5"))
	assert.Equal(t, "0", a.Held.String())
	assert.Equal(t, "1", a.Total().String())
	assert.True(t, a.Locked)
}

func TestAccount_LockedIgnoresEverything(t *testing.T) {
	a := NewAccount(1)
	a.Deposit(amt("3"))
	a.Hold(amt("1"))
	a.Chargeback(amt("1"))
	assert.True(t, a.Locked)

	before := *a
	a.Deposit(amt("1"))
	a.Withdraw(amt("1"))
	a.Hold(amt("1"))
	a.Release(amt("1"))
	a.Chargeback(amt("1"))

	assert.Equal(t, before, *a)
}

func TestAccount_AbsentAmountIsNoOp(t *testing.T) {
	a := NewAccount(1)
	a.Deposit(decimal.NullDecimal{})
	a.Hold(decimal.NullDecimal{})
	a.Chargeback(decimal.NullDecimal{})

	assert.True(t, a.Total().IsZero())
	assert.False(t, a.Locked)
}
