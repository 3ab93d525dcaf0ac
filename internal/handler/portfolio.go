package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"papertrade/internal/repository"
	"papertrade/internal/service"
)

type PortfolioHandler struct {
	Valuator *service.PortfolioValuator
	Repo     repository.Repository
	Logger   *zap.Logger
}

func (h *PortfolioHandler) Register(authed *gin.RouterGroup) {
	authed.GET("/portfolio", h.portfolio)
	authed.GET("/portfolio/history", h.history)
}

func (h *PortfolioHandler) portfolio(c *gin.Context) {
	if h.Valuator == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	valuation, err := h.Valuator.Valuate(c.Request.Context(), currentUserID(c))
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("portfolio valuation failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, "portfolio valuation failed", nil)
		return
	}
	Ok(c, valuation, nil)
}

func (h *PortfolioHandler) history(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	params := repository.ListSnapshotsParams{
		Since:  timeQueryPtr(c, "since"),
		Until:  timeQueryPtr(c, "until"),
		Limit:  intQuery(c, "limit", 168),
		Offset: intQuery(c, "offset", 0),
	}
	items, err := h.Repo.ListPortfolioSnapshots(c.Request.Context(), currentUserID(c), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{"limit": params.Limit, "offset": params.Offset, "count": len(items)})
}
