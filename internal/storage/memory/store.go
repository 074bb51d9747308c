package memory

import (
	interfaces "github.com/sheikh-saqib/ledger-replay/internal/interfaces"
	"github.com/sheikh-saqib/ledger-replay/internal/models"
)

// TransactionIndex is an in-memory implementation of interfaces.TransactionIndex.
// A replay run owns it exclusively, so it carries no lock.
type TransactionIndex struct {
	transactions map[uint32]*models.Transaction // disputable transactions keyed by tx id
}

// NewTransactionIndex creates an empty index.
func NewTransactionIndex() *TransactionIndex {
	return &TransactionIndex{
		transactions: make(map[uint32]*models.Transaction),
	}
}

// Lookup returns the stored record for txID. The pointer stays valid for the
// lifetime of the index unless Save overwrites the same id.
func (m *TransactionIndex) Lookup(txID uint32) (*models.Transaction, bool) {
	tx, exists := m.transactions[txID]
	return tx, exists
}

// Save inserts tx, replacing any record already stored under its id.
func (m *TransactionIndex) Save(tx models.Transaction) {
	stored := tx
	m.transactions[tx.TxID] = &stored
}

func (m *TransactionIndex) Len() int {
	return len(m.transactions)
}

// Compile-time check: ensure TransactionIndex implements the TransactionIndex interface
var _ interfaces.TransactionIndex = (*TransactionIndex)(nil)
