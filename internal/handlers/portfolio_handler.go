package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finsmar/internal/services"
)

// PortfolioHandler handles portfolio valuation requests.
type PortfolioHandler struct {
	portfolioService services.PortfolioServicer
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService services.PortfolioServicer) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

// GetOverview handles computing the portfolio overview.
// @Summary     Get portfolio overview
// @Description Value every account in USD and aggregate by type
// @Tags        portfolio
// @Produce     json
// @Success     200 {object} services.PortfolioOverview "Portfolio overview"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/overview [get]
func (h *PortfolioHandler) GetOverview(c *gin.Context) {
	overview, err := h.portfolioService.ComputeOverview()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
