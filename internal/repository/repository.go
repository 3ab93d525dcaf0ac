package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"papertrade/internal/models"
)

// Repository is the durable-state surface consumed by the ledger, the
// valuator and the auth service. The Tx-suffixed methods run inside a
// transaction opened with InTx so the position update and its trade record
// commit as one atomic step.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Users
	CreateUser(ctx context.Context, item *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Positions, keyed by (user_id, symbol)
	GetPosition(ctx context.Context, userID, symbol string) (*models.Position, error)
	ListPositionsByUser(ctx context.Context, userID string) ([]models.Position, error)
	ListUserIDsWithPositions(ctx context.Context) ([]string, error)
	SavePositionTx(ctx context.Context, tx *gorm.DB, item *models.Position) error
	DeletePositionTx(ctx context.Context, tx *gorm.DB, userID, symbol string) error

	// Trades
	InsertTradeTx(ctx context.Context, tx *gorm.DB, item *models.Trade) error
	ListTradesByUser(ctx context.Context, userID string, limit int) ([]models.Trade, error)

	// Portfolio snapshots
	InsertPortfolioSnapshot(ctx context.Context, item *models.PortfolioSnapshot) error
	ListPortfolioSnapshots(ctx context.Context, userID string, params ListSnapshotsParams) ([]models.PortfolioSnapshot, error)
}

type ListSnapshotsParams struct {
	Since  *time.Time
	Until  *time.Time
	Limit  int
	Offset int
}
