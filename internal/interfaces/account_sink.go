package interfaces

import (
	"context"

	"github.com/sheikh-saqib/ledger-replay/internal/models"
)

// AccountSink receives the final account table of a run.
type AccountSink interface {
	WriteAccounts(ctx context.Context, accounts []models.Account) error
}
