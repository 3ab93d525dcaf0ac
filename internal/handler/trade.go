package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"papertrade/internal/service"
)

type TradeHandler struct {
	Ledger *service.Ledger
	Logger *zap.Logger
}

type tradeRequest struct {
	Symbol   string `json:"symbol" binding:"required"`
	Quantity int64  `json:"quantity" binding:"required"`
}

func (h *TradeHandler) Register(authed *gin.RouterGroup) {
	authed.POST("/buy", h.buy)
	authed.POST("/sell", h.sell)
	authed.GET("/trades", h.listTrades)
}

func (h *TradeHandler) buy(c *gin.Context) {
	if h.Ledger == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "symbol and quantity are required", nil)
		return
	}
	trade, err := h.Ledger.Buy(c.Request.Context(), currentUserID(c), req.Symbol, req.Quantity)
	if err != nil {
		h.tradeError(c, "buy", req.Symbol, err)
		return
	}
	Ok(c, trade, nil)
}

func (h *TradeHandler) sell(c *gin.Context) {
	if h.Ledger == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "symbol and quantity are required", nil)
		return
	}
	trade, err := h.Ledger.Sell(c.Request.Context(), currentUserID(c), req.Symbol, req.Quantity)
	if err != nil {
		h.tradeError(c, "sell", req.Symbol, err)
		return
	}
	Ok(c, trade, nil)
}

func (h *TradeHandler) listTrades(c *gin.Context) {
	if h.Ledger == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	items, err := h.Ledger.ListTrades(c.Request.Context(), currentUserID(c), limit)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{"limit": limit, "count": len(items)})
}

func (h *TradeHandler) tradeError(c *gin.Context, op, symbol string, err error) {
	var insufficient *service.InsufficientHoldingsError
	switch {
	case errors.Is(err, service.ErrInvalidQuantity):
		Error(c, http.StatusBadRequest, "quantity must be a positive whole number", nil)
	case errors.Is(err, service.ErrInvalidTicker):
		Error(c, http.StatusBadRequest, err.Error(), nil)
	case errors.As(err, &insufficient):
		Error(c, http.StatusBadRequest, insufficient.Error(), map[string]any{
			"symbol":    insufficient.Symbol,
			"requested": insufficient.Requested,
			"available": insufficient.Available,
		})
	case errors.Is(err, service.ErrPriceUnavailable):
		Error(c, http.StatusBadGateway, "price unavailable for "+symbol, nil)
	case errors.Is(err, service.ErrInvalidPrice):
		Error(c, http.StatusBadGateway, "quote returned an unusable price for "+symbol, nil)
	default:
		if h.Logger != nil {
			h.Logger.Error("trade failed",
				zap.String("op", op),
				zap.String("symbol", symbol),
				zap.Error(err))
		}
		Error(c, http.StatusInternalServerError, op+" failed", nil)
	}
}
