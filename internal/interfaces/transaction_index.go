package interfaces

import (
	"github.com/sheikh-saqib/ledger-replay/internal/models"
)

// TransactionIndex is the lookup of disputable transactions by id.
// Lookup hands out the stored record so dispute transitions update it in place.
type TransactionIndex interface {
	Lookup(txID uint32) (*models.Transaction, bool)
	Save(tx models.Transaction)
	Len() int
}
