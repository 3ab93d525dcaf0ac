package service

import (
	"context"
	"sort"
	"sync"

	"gorm.io/gorm"

	"papertrade/internal/models"
	"papertrade/internal/repository"
)

// stubRepo is a test-only in-memory implementation of
// repository.Repository. Positions are keyed the same way the real store
// keys them, by (user_id, symbol).
type stubRepo struct {
	mu        sync.Mutex
	usersByID map[string]models.User
	positions map[string]models.Position
	trades    []models.Trade
	snapshots []models.PortfolioSnapshot

	failTx bool
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		usersByID: map[string]models.User{},
		positions: map[string]models.Position{},
	}
}

func posKey(userID, symbol string) string {
	return userID + "|" + symbol
}

func (s *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (s *stubRepo) CreateUser(ctx context.Context, item *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usersByID[item.ID] = *item
	return nil
}

func (s *stubRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.usersByID {
		if u.Username == username {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.usersByID[id]; ok {
		out := u
		return &out, nil
	}
	return nil, nil
}

func (s *stubRepo) GetPosition(ctx context.Context, userID, symbol string) (*models.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.positions[posKey(userID, symbol)]; ok {
		out := p
		return &out, nil
	}
	return nil, nil
}

func (s *stubRepo) ListPositionsByUser(ctx context.Context, userID string) ([]models.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Position
	for _, p := range s.positions {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}

func (s *stubRepo) ListUserIDsWithPositions(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]struct{}{}
	var out []string
	for _, p := range s.positions {
		if _, ok := seen[p.UserID]; ok {
			continue
		}
		seen[p.UserID] = struct{}{}
		out = append(out, p.UserID)
	}
	sort.Strings(out)
	return out, nil
}

func (s *stubRepo) SavePositionTx(ctx context.Context, tx *gorm.DB, item *models.Position) error {
	if s.failTx {
		return errStubTx
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[posKey(item.UserID, item.Symbol)] = *item
	return nil
}

func (s *stubRepo) DeletePositionTx(ctx context.Context, tx *gorm.DB, userID, symbol string) error {
	if s.failTx {
		return errStubTx
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.positions, posKey(userID, symbol))
	return nil
}

func (s *stubRepo) InsertTradeTx(ctx context.Context, tx *gorm.DB, item *models.Trade) error {
	if s.failTx {
		return errStubTx
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades = append(s.trades, *item)
	return nil
}

func (s *stubRepo) ListTradesByUser(ctx context.Context, userID string, limit int) ([]models.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Trade
	for _, t := range s.trades {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExecutedAt.After(out[j].ExecutedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubRepo) InsertPortfolioSnapshot(ctx context.Context, item *models.PortfolioSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, *item)
	return nil
}

func (s *stubRepo) ListPortfolioSnapshots(ctx context.Context, userID string, params repository.ListSnapshotsParams) ([]models.PortfolioSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.PortfolioSnapshot
	for _, sn := range s.snapshots {
		if sn.UserID == userID {
			out = append(out, sn)
		}
	}
	return out, nil
}

func listSnapshotsAll() repository.ListSnapshotsParams {
	return repository.ListSnapshotsParams{}
}

func (s *stubRepo) tradeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.trades)
}

func (s *stubRepo) seedPosition(p models.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[posKey(p.UserID, p.Symbol)] = p
}
