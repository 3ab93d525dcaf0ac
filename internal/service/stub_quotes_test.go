package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"papertrade/internal/quotes"
)

var errStubTx = errors.New("stub tx failure")

func decimalFromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// stubQuotes serves fixed prices per symbol; symbols in errs fail the
// lookup. Safe for the valuator's concurrent fetches.
type stubQuotes struct {
	mu     sync.Mutex
	prices map[string]decimal.Decimal
	errs   map[string]error
	calls  map[string]int
}

func newStubQuotes() *stubQuotes {
	return &stubQuotes{
		prices: map[string]decimal.Decimal{},
		errs:   map[string]error{},
		calls:  map[string]int{},
	}
}

func (s *stubQuotes) setPrice(symbol string, price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[symbol] = decimal.NewFromFloat(price)
}

func (s *stubQuotes) setErr(symbol string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[symbol] = err
}

func (s *stubQuotes) callCount(symbol string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[symbol]
}

func (s *stubQuotes) Quote(ctx context.Context, symbol string) (*quotes.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[symbol]++
	if err, ok := s.errs[symbol]; ok {
		return nil, err
	}
	price, ok := s.prices[symbol]
	if !ok {
		return nil, quotes.ErrUnavailable
	}
	return &quotes.Quote{
		Symbol:    symbol,
		Price:     price,
		Currency:  "INR",
		Name:      symbol,
		Timestamp: time.Now().UTC(),
	}, nil
}
