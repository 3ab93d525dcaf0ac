package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"papertrade/internal/market"
	"papertrade/internal/quotes"
)

type QuoteHandler struct {
	Source quotes.Source
	Rules  market.Rules
	Logger *zap.Logger
}

func (h *QuoteHandler) Register(authed *gin.RouterGroup) {
	authed.GET("/price/:symbol", h.price)
}

func (h *QuoteHandler) price(c *gin.Context) {
	if h.Source == nil {
		Error(c, http.StatusInternalServerError, "quote source unavailable", nil)
		return
	}
	symbol := market.Normalize(c.Param("symbol"))
	if !h.Rules.Eligible(symbol) {
		Error(c, http.StatusBadRequest,
			fmt.Sprintf("only %s symbols are supported", h.Rules.Suffix()), nil)
		return
	}
	quote, err := h.Source.Quote(c.Request.Context(), symbol)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("quote lookup failed", zap.String("symbol", symbol), zap.Error(err))
		}
		if errors.Is(err, quotes.ErrUnavailable) {
			Error(c, http.StatusBadGateway, "price unavailable for "+symbol, nil)
			return
		}
		Error(c, http.StatusInternalServerError, "quote lookup failed", nil)
		return
	}
	Ok(c, quote, nil)
}
