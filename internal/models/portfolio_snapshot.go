package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PortfolioSnapshot struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	UserID     string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_snapshots_user_at"`
	SnapshotAt time.Time `gorm:"type:timestamptz;not null;uniqueIndex:uq_snapshots_user_at"`

	TotalHoldings int `gorm:"not null"`

	TotalInvested     decimal.Decimal `gorm:"type:numeric(30,6);not null"`
	TotalCurrentValue decimal.Decimal `gorm:"type:numeric(30,6);not null"`
	TotalProfitLoss   decimal.Decimal `gorm:"column:total_profit_loss;type:numeric(30,6);not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (PortfolioSnapshot) TableName() string {
	return "portfolio_snapshots"
}
