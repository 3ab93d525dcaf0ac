package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TradeSideBuy  = "BUY"
	TradeSideSell = "SELL"
)

// Trade is an immutable record of one executed buy or sell. It is created
// exactly once by the ledger and never updated.
type Trade struct {
	ID     string `gorm:"type:varchar(64);primaryKey"`
	UserID string `gorm:"type:varchar(64);not null;index:idx_trades_user_time,priority:1"`
	Symbol string `gorm:"type:varchar(32);not null"`
	Side   string `gorm:"type:varchar(4);not null"`

	Quantity int64           `gorm:"not null"`
	Price    decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	Total    decimal.Decimal `gorm:"type:numeric(30,6);not null"`

	// Sell-only fields, captured from the position before the sale applied.
	CostBasis  *decimal.Decimal `gorm:"type:numeric(20,6)"`
	ProfitLoss *decimal.Decimal `gorm:"column:profit_loss;type:numeric(30,6)"`

	ExecutedAt time.Time `gorm:"type:timestamptz;not null;index:idx_trades_user_time,priority:2,sort:desc"`
	CreatedAt  time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (Trade) TableName() string {
	return "trades"
}
