package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"papertrade/internal/models"
	"papertrade/internal/repository"
)

// SnapshotService persists hourly valuation totals per user so portfolio
// history survives price churn. Runs from cron; a failure for one user does
// not stop the sweep.
type SnapshotService struct {
	Repo     repository.Repository
	Valuator *PortfolioValuator
	Logger   *zap.Logger
}

func (s *SnapshotService) RunOnce(ctx context.Context) error {
	if s == nil || s.Repo == nil || s.Valuator == nil {
		return nil
	}
	userIDs, err := s.Repo.ListUserIDsWithPositions(ctx)
	if err != nil || len(userIDs) == 0 {
		return err
	}

	snapshotAt := time.Now().UTC().Truncate(time.Hour)
	for _, userID := range userIDs {
		valuation, err := s.Valuator.Valuate(ctx, userID)
		if err != nil {
			if s.Logger != nil {
				s.Logger.Warn("snapshot valuation failed",
					zap.String("user_id", userID),
					zap.Error(err),
				)
			}
			continue
		}
		item := &models.PortfolioSnapshot{
			UserID:            userID,
			SnapshotAt:        snapshotAt,
			TotalHoldings:     len(valuation.Holdings),
			TotalInvested:     valuation.TotalInvested,
			TotalCurrentValue: valuation.TotalCurrentValue,
			TotalProfitLoss:   valuation.TotalProfitLoss,
			CreatedAt:         time.Now().UTC(),
		}
		if err := s.Repo.InsertPortfolioSnapshot(ctx, item); err != nil {
			if s.Logger != nil {
				s.Logger.Warn("snapshot insert failed",
					zap.String("user_id", userID),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}
