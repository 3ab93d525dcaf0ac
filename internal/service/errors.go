package service

import (
	"errors"
	"fmt"
)

// Ledger and valuator failure modes. All are returned to the caller as
// values; none of them leaves partial state behind.
var (
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
	ErrInvalidPrice     = errors.New("price must be positive")
	ErrInvalidTicker    = errors.New("symbol is not eligible for new purchases")
	ErrPriceUnavailable = errors.New("price unavailable")
)

// InsufficientHoldingsError carries the quantity actually held so the
// caller can show it to the user.
type InsufficientHoldingsError struct {
	Symbol    string
	Requested int64
	Available int64
}

func (e *InsufficientHoldingsError) Error() string {
	return fmt.Sprintf("insufficient holdings: have %d of %s, requested %d",
		e.Available, e.Symbol, e.Requested)
}
