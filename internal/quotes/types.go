package quotes

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUnavailable is returned for every failed lookup: transport errors,
// timeouts, unknown symbols and malformed payloads all collapse into it.
// Lookups are idempotent and safe to retry.
var ErrUnavailable = errors.New("price unavailable")

// Quote is a point-in-time market quote for one symbol.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	Name          string          `json:"name"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	Timestamp     time.Time       `json:"timestamp"`
}

// Source is the price oracle consumed by the ledger and the valuator.
type Source interface {
	Quote(ctx context.Context, symbol string) (*Quote, error)
}
