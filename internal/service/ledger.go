package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"papertrade/internal/market"
	"papertrade/internal/models"
	"papertrade/internal/quotes"
	"papertrade/internal/repository"
)

// Ledger is the only component that creates positions or mutates their
// quantity and average cost. Every accepted trade commits the position
// update and its trade record in one transaction, after the price has been
// fetched, so a failed lookup never leaves partial state.
type Ledger struct {
	Repo         repository.Repository
	Quotes       quotes.Source
	Rules        market.Rules
	Logger       *zap.Logger
	QuoteTimeout time.Duration

	locks *keyLock
}

func NewLedger(repo repository.Repository, src quotes.Source, rules market.Rules, logger *zap.Logger, quoteTimeout time.Duration) *Ledger {
	if quoteTimeout <= 0 {
		quoteTimeout = 10 * time.Second
	}
	return &Ledger{
		Repo:         repo,
		Quotes:       src,
		Rules:        rules,
		Logger:       logger,
		QuoteTimeout: quoteTimeout,
		locks:        newKeyLock(),
	}
}

// Buy purchases quantity units of symbol at the current market price. New
// purchases are restricted to eligible symbols. On repeat buys the average
// cost is updated incrementally with the quantity-weighted mean, never
// recomputed from trade history.
func (l *Ledger) Buy(ctx context.Context, userID, symbol string, quantity int64) (*models.Trade, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	symbol = market.Normalize(symbol)
	if !l.Rules.Eligible(symbol) {
		return nil, fmt.Errorf("%s: %w", symbol, ErrInvalidTicker)
	}

	quote, err := l.fetchPrice(ctx, symbol)
	if err != nil {
		return nil, err
	}
	price := quote.Price
	qty := decimal.NewFromInt(quantity)
	totalCost := price.Mul(qty)

	unlock := l.locks.Lock(userID + "|" + symbol)
	defer unlock()

	pos, err := l.Repo.GetPosition(ctx, userID, symbol)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if pos == nil {
		pos = &models.Position{
			UserID:    userID,
			Symbol:    symbol,
			Quantity:  quantity,
			AvgPrice:  price,
			CreatedAt: now,
		}
	} else {
		oldQty := decimal.NewFromInt(pos.Quantity)
		newQty := pos.Quantity + quantity
		// Weighted mean over invested capital: order of equal-priced buys
		// does not matter.
		pos.AvgPrice = oldQty.Mul(pos.AvgPrice).Add(totalCost).
			Div(decimal.NewFromInt(newQty))
		pos.Quantity = newQty
	}
	pos.UpdatedAt = now

	trade := &models.Trade{
		ID:         uuid.NewString(),
		UserID:     userID,
		Symbol:     symbol,
		Side:       models.TradeSideBuy,
		Quantity:   quantity,
		Price:      price,
		Total:      totalCost,
		ExecutedAt: now,
	}

	err = l.Repo.InTx(ctx, func(tx *gorm.DB) error {
		if err := l.Repo.SavePositionTx(ctx, tx, pos); err != nil {
			return err
		}
		return l.Repo.InsertTradeTx(ctx, tx, trade)
	})
	if err != nil {
		return nil, err
	}

	if l.Logger != nil {
		l.Logger.Info("trade executed",
			zap.String("user_id", userID),
			zap.String("side", trade.Side),
			zap.String("symbol", symbol),
			zap.Int64("quantity", quantity),
			zap.String("price", price.String()),
		)
	}
	return trade, nil
}

// Sell disposes quantity units of an existing position at the current
// market price. The eligibility rule is not consulted: a legacy holding
// that can no longer be bought can still be sold off. Average cost of the
// remaining shares is unchanged; a sale that empties the position deletes
// it.
func (l *Ledger) Sell(ctx context.Context, userID, symbol string, quantity int64) (*models.Trade, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	symbol = market.Normalize(symbol)

	unlock := l.locks.Lock(userID + "|" + symbol)
	defer unlock()

	pos, err := l.Repo.GetPosition(ctx, userID, symbol)
	if err != nil {
		return nil, err
	}
	available := int64(0)
	if pos != nil {
		available = pos.Quantity
	}
	if pos == nil || available < quantity {
		return nil, &InsufficientHoldingsError{
			Symbol:    symbol,
			Requested: quantity,
			Available: available,
		}
	}

	// Price is fetched after the holdings check and before any mutation, so
	// rejection and oracle failure both leave state untouched.
	quote, err := l.fetchPrice(ctx, symbol)
	if err != nil {
		return nil, err
	}
	price := quote.Price
	qty := decimal.NewFromInt(quantity)
	totalValue := price.Mul(qty)
	costBasis := pos.AvgPrice
	profitLoss := price.Sub(costBasis).Mul(qty)

	now := time.Now().UTC()
	trade := &models.Trade{
		ID:         uuid.NewString(),
		UserID:     userID,
		Symbol:     symbol,
		Side:       models.TradeSideSell,
		Quantity:   quantity,
		Price:      price,
		Total:      totalValue,
		CostBasis:  &costBasis,
		ProfitLoss: &profitLoss,
		ExecutedAt: now,
	}

	remaining := pos.Quantity - quantity
	err = l.Repo.InTx(ctx, func(tx *gorm.DB) error {
		if remaining == 0 {
			if err := l.Repo.DeletePositionTx(ctx, tx, userID, symbol); err != nil {
				return err
			}
		} else {
			pos.Quantity = remaining
			pos.UpdatedAt = now
			if err := l.Repo.SavePositionTx(ctx, tx, pos); err != nil {
				return err
			}
		}
		return l.Repo.InsertTradeTx(ctx, tx, trade)
	})
	if err != nil {
		return nil, err
	}

	if l.Logger != nil {
		l.Logger.Info("trade executed",
			zap.String("user_id", userID),
			zap.String("side", trade.Side),
			zap.String("symbol", symbol),
			zap.Int64("quantity", quantity),
			zap.String("price", price.String()),
			zap.String("profit_loss", profitLoss.String()),
		)
	}
	return trade, nil
}

// ListTrades returns the user's trade history, most recent first.
func (l *Ledger) ListTrades(ctx context.Context, userID string, limit int) ([]models.Trade, error) {
	return l.Repo.ListTradesByUser(ctx, userID, limit)
}

func (l *Ledger) fetchPrice(ctx context.Context, symbol string) (*quotes.Quote, error) {
	qctx, cancel := context.WithTimeout(ctx, l.QuoteTimeout)
	defer cancel()
	quote, err := l.Quotes.Quote(qctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", symbol, err, ErrPriceUnavailable)
	}
	if quote.Price.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidPrice
	}
	return quote, nil
}
