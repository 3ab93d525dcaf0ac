package service

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"papertrade/internal/market"
	"papertrade/internal/quotes"
	"papertrade/internal/repository"
)

// Holding is one priced line of a portfolio valuation.
type Holding struct {
	Symbol            string           `json:"symbol"`
	Quantity          int64            `json:"quantity"`
	AvgPrice          decimal.Decimal  `json:"avg_price"`
	Invested          decimal.Decimal  `json:"invested"`
	CurrentPrice      *decimal.Decimal `json:"current_price"`
	CurrentValue      decimal.Decimal  `json:"current_value"`
	ProfitLoss        decimal.Decimal  `json:"profit_loss"`
	ProfitLossPercent decimal.Decimal  `json:"profit_loss_percent"`
	Priced            bool             `json:"priced"`
	Note              string           `json:"note,omitempty"`
}

// Valuation is a point-in-time snapshot of a user's portfolio. It is a pure
// function of the position set and the prices observed at that moment.
type Valuation struct {
	Holdings               []Holding       `json:"holdings"`
	TotalInvested          decimal.Decimal `json:"total_invested"`
	TotalCurrentValue      decimal.Decimal `json:"total_current_value"`
	TotalProfitLoss        decimal.Decimal `json:"total_profit_loss"`
	TotalProfitLossPercent decimal.Decimal `json:"total_profit_loss_percent"`
	AsOf                   time.Time       `json:"as_of"`
}

const noteNotPriced = "not priced: symbol outside the tradable market, valued at cost"

// PortfolioValuator assembles read-only valuations. It never mutates
// positions.
type PortfolioValuator struct {
	Repo         repository.Repository
	Quotes       quotes.Source
	Rules        market.Rules
	Logger       *zap.Logger
	QuoteTimeout time.Duration
}

// Valuate prices every position of the user. Quote lookups run
// concurrently, one per held symbol, each with its own timeout; a failed
// lookup degrades that line to at-cost valuation without disturbing the
// others. Ineligible symbols are never sent to the oracle and are carried
// at cost with an explicit marker.
func (v *PortfolioValuator) Valuate(ctx context.Context, userID string) (*Valuation, error) {
	positions, err := v.Repo.ListPositionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &Valuation{
		Holdings:               make([]Holding, len(positions)),
		TotalInvested:          decimal.Zero,
		TotalCurrentValue:      decimal.Zero,
		TotalProfitLoss:        decimal.Zero,
		TotalProfitLossPercent: decimal.Zero,
		AsOf:                   time.Now().UTC(),
	}

	var wg sync.WaitGroup
	for i, pos := range positions {
		invested := pos.Invested()
		out.Holdings[i] = Holding{
			Symbol:            pos.Symbol,
			Quantity:          pos.Quantity,
			AvgPrice:          pos.AvgPrice,
			Invested:          invested,
			CurrentValue:      invested,
			ProfitLoss:        decimal.Zero,
			ProfitLossPercent: decimal.Zero,
		}

		if !v.Rules.Eligible(pos.Symbol) {
			out.Holdings[i].Note = noteNotPriced
			continue
		}

		wg.Add(1)
		go func(i int, symbol string, quantity int64, invested decimal.Decimal) {
			defer wg.Done()
			timeout := v.QuoteTimeout
			if timeout <= 0 {
				timeout = 5 * time.Second
			}
			qctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			quote, err := v.Quotes.Quote(qctx, symbol)
			if err != nil || quote.Price.LessThanOrEqual(decimal.Zero) {
				// Fall back to at-cost; the zero-valued defaults above
				// already express that.
				if v.Logger != nil {
					v.Logger.Warn("valuation quote failed, using cost",
						zap.String("symbol", symbol),
						zap.Error(err),
					)
				}
				return
			}

			price := quote.Price
			currentValue := price.Mul(decimal.NewFromInt(quantity))
			profitLoss := currentValue.Sub(invested)
			h := &out.Holdings[i]
			h.CurrentPrice = &price
			h.CurrentValue = currentValue
			h.ProfitLoss = profitLoss
			h.Priced = true
			if invested.GreaterThan(decimal.Zero) {
				h.ProfitLossPercent = profitLoss.Div(invested).Mul(decimal.NewFromInt(100))
			}
		}(i, pos.Symbol, pos.Quantity, invested)
	}
	wg.Wait()

	for i := range out.Holdings {
		out.TotalInvested = out.TotalInvested.Add(out.Holdings[i].Invested)
		out.TotalCurrentValue = out.TotalCurrentValue.Add(out.Holdings[i].CurrentValue)
	}
	out.TotalProfitLoss = out.TotalCurrentValue.Sub(out.TotalInvested)
	if out.TotalInvested.GreaterThan(decimal.Zero) {
		out.TotalProfitLossPercent = out.TotalProfitLoss.
			Div(out.TotalInvested).
			Mul(decimal.NewFromInt(100))
	}
	return out, nil
}
