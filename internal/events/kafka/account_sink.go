package kafka

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	interfaces "github.com/sheikh-saqib/ledger-replay/internal/interfaces"
	"github.com/sheikh-saqib/ledger-replay/internal/models"
	"github.com/sheikh-saqib/ledger-replay/internal/models/events"
)

// AccountSink publishes one AccountSettled event per account, keyed by
// client id so that a client's events land on the same partition.
type AccountSink struct {
	publisher interfaces.EventPublisher
	runID     uuid.UUID
	now       func() time.Time
}

func NewAccountSink(publisher interfaces.EventPublisher, runID uuid.UUID) *AccountSink {
	return &AccountSink{
		publisher: publisher,
		runID:     runID,
		now:       time.Now,
	}
}

func (s *AccountSink) WriteAccounts(ctx context.Context, accounts []models.Account) error {
	settledAt := s.now().UTC()

	for _, account := range accounts {
		event := events.AccountSettled{
			RunID:     s.runID.String(),
			Client:    account.Client,
			Available: account.Available,
			Held:      account.Held,
			Total:     account.Total(),
			Locked:    account.Locked,
			SettledAt: settledAt,
		}

		key := strconv.FormatUint(uint64(account.Client), 10)
		if err := s.publisher.Publish(ctx, key, event); err != nil {
			return fmt.Errorf("publish account %d: %w", account.Client, err)
		}
	}
	return nil
}

var _ interfaces.AccountSink = (*AccountSink)(nil)
