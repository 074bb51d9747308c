package ledger

import (
	"github.com/sheikh-saqib/ledger-replay/internal/models"
)

// applyDispute moves the referenced transaction through its dispute
// lifecycle: normal -> disputed -> normal (resolve) or charged back.
// It reports whether the row changed any state.
func (l *Ledger) applyDispute(account *models.Account, tx models.Transaction) bool {
	disputed, exists := l.index.Lookup(tx.TxID)
	if !exists || !disputed.IsDisputable() {
		return false
	}
	// a client may only dispute its own transactions
	if disputed.Client != tx.Client {
		return false
	}

	switch tx.Action {
	case models.ActionDispute:
		if disputed.IsDisputed {
			return false
		}
		disputed.IsDisputed = true
		account.Hold(disputed.Amount)

	case models.ActionResolve:
		if !disputed.IsDisputed {
			return false
		}
		disputed.IsDisputed = false
		account.Release(disputed.Amount)

	case models.ActionChargeback:
		if !disputed.IsDisputed {
			return false
		}
		disputed.IsDisputed = false
		account.Chargeback(disputed.Amount)

	default:
		return false
	}
	return true
}
