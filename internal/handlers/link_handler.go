package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "finsmar/internal/errors"
	"finsmar/internal/services"
)

// LinkHandler handles Plaid Link token and item requests.
type LinkHandler struct {
	plaidSync services.PlaidSyncServicer
}

// NewLinkHandler creates a new LinkHandler.
func NewLinkHandler(plaidSync services.PlaidSyncServicer) *LinkHandler {
	return &LinkHandler{plaidSync: plaidSync}
}

// ExchangeTokenRequest represents the request payload for exchanging a Link
// public token.
type ExchangeTokenRequest struct {
	PublicToken     string `json:"public_token" binding:"required"`
	InstitutionID   string `json:"institution_id"`
	InstitutionName string `json:"institution_name"`
}

// CreateLinkToken handles minting a Plaid Link token.
// @Summary     Create a Link token
// @Description Create a short-lived Plaid Link token for the frontend
// @Tags        link
// @Produce     json
// @Success     200 {object} plaid.LinkTokenResult "Link token"
// @Failure     503 {object} ErrorResponse "Provider unavailable"
// @Router      /link/token [post]
func (h *LinkHandler) CreateLinkToken(c *gin.Context) {
	result, err := h.plaidSync.CreateLinkToken(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExchangeToken handles exchanging a public token for a linked item.
// @Summary     Exchange a public token
// @Description Exchange a Plaid Link public token for a long-lived item
// @Tags        link
// @Accept      json
// @Produce     json
// @Param       request body ExchangeTokenRequest true "Public token"
// @Success     201 {object} models.PlaidItem "Linked item"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     503 {object} ErrorResponse "Provider unavailable"
// @Router      /link/exchange [post]
func (h *LinkHandler) ExchangeToken(c *gin.Context) {
	var req ExchangeTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	item, err := h.plaidSync.ExchangePublicToken(c.Request.Context(), req.PublicToken, req.InstitutionID, req.InstitutionName)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// GetItems handles listing linked Plaid items.
// @Summary     Get linked items
// @Description List all linked Plaid items
// @Tags        link
// @Produce     json
// @Success     200 {array} models.PlaidItem "Linked items"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /link/items [get]
func (h *LinkHandler) GetItems(c *gin.Context) {
	items, err := h.plaidSync.ListItems()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
