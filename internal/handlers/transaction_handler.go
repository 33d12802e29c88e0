package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "finsmar/internal/errors"
	"finsmar/internal/pagination"
	"finsmar/internal/services"
	"finsmar/internal/uuid"
)

// TransactionHandler handles transaction read requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// transactionQuery represents the query parameters for listing transactions.
type transactionQuery struct {
	AccountID      string `form:"account_id"`
	BudgetCategory string `form:"budget_category"`
	FromDate       string `form:"from_date"`
	ToDate         string `form:"to_date"`
	Pending        *bool  `form:"pending"`
	Sort           string `form:"sort" binding:"omitempty,sort_order"`
}

// GetTransactions handles listing transactions with filters.
// @Summary     Get transactions
// @Description Get a filtered, paginated list of transactions
// @Tags        transactions
// @Produce     json
// @Param       account_id      query string false "Filter by account ID"
// @Param       budget_category query string false "Filter by budget category"
// @Param       from_date       query string false "Start date (YYYY-MM-DD)"
// @Param       to_date         query string false "End date (YYYY-MM-DD)"
// @Param       pending         query bool   false "Filter by pending status"
// @Param       sort            query string false "Sort by date (asc/desc, default desc)"
// @Param       page            query int    false "Page number (default 1)"
// @Param       page_size       query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var query transactionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.TransactionFilter{
		Pending:   query.Pending,
		SortOrder: query.Sort,
	}
	if query.AccountID != "" {
		if !uuid.IsValid(query.AccountID) {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid account_id"))
			return
		}
		filter.AccountID = &query.AccountID
	}
	if query.BudgetCategory != "" {
		filter.BudgetCategory = &query.BudgetCategory
	}
	if query.FromDate != "" {
		from, err := time.Parse("2006-01-02", query.FromDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid from_date"))
			return
		}
		filter.FromDate = &from
	}
	if query.ToDate != "" {
		to, err := time.Parse("2006-01-02", query.ToDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid to_date"))
			return
		}
		filter.ToDate = &to
	}

	transactions, err := h.transactionService.GetTransactions(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// GetTransaction handles fetching a single transaction.
// @Summary     Get a transaction
// @Description Get a single transaction by ID
// @Tags        transactions
// @Produce     json
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	transactionID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}
