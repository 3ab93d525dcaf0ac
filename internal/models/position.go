package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is the current holding of one symbol for one user. A row exists
// only while quantity > 0; the closing sell deletes it in the same
// transaction.
type Position struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	UserID string `gorm:"type:varchar(64);not null;uniqueIndex:uq_positions_user_symbol;index"`
	Symbol string `gorm:"type:varchar(32);not null;uniqueIndex:uq_positions_user_symbol"`

	Quantity int64 `gorm:"not null"`
	// AvgPrice is the quantity-weighted mean purchase price. It changes only
	// on buys, never on sells.
	AvgPrice decimal.Decimal `gorm:"type:numeric(20,6);not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Position) TableName() string {
	return "positions"
}

// Invested is the capital currently tied up in the position.
func (p Position) Invested() decimal.Decimal {
	return p.AvgPrice.Mul(decimal.NewFromInt(p.Quantity))
}
