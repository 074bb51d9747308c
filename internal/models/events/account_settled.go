package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountSettled is published once per account when a replay run finishes.
type AccountSettled struct {
	RunID     string          `json:"run_id"`
	Client    uint16          `json:"client"`
	Available decimal.Decimal `json:"available"`
	Held      decimal.Decimal `json:"held"`
	Total     decimal.Decimal `json:"total"`
	Locked    bool            `json:"locked"`
	SettledAt time.Time       `json:"settled_at"`
}
