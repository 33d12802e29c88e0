package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finsmar/internal/errors"
	"finsmar/internal/models"
	"finsmar/internal/pagination"
	"finsmar/internal/services"
)

// ProfileHandler handles profile and recurring expense requests.
type ProfileHandler struct {
	profileService services.ProfileServicer
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService services.ProfileServicer) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// UpdateSalaryRequest represents the request payload for updating the salary.
type UpdateSalaryRequest struct {
	MonthlySalary decimal.Decimal `json:"monthly_salary" binding:"required"`
}

// CreateExpenseRequest represents the request payload for adding a recurring
// expense.
type CreateExpenseRequest struct {
	Name      string                  `json:"name" binding:"required,min=1,max=100"`
	Amount    decimal.Decimal         `json:"amount" binding:"required"`
	Frequency models.ExpenseFrequency `json:"frequency" binding:"omitempty,expense_frequency"`
}

// UpdateExpenseRequest represents the request payload for editing a
// recurring expense.
type UpdateExpenseRequest struct {
	Name      *string                  `json:"name" binding:"omitempty,min=1,max=100"`
	Amount    *decimal.Decimal         `json:"amount"`
	Frequency *models.ExpenseFrequency `json:"frequency" binding:"omitempty,expense_frequency"`
	IsActive  *bool                    `json:"is_active"`
}

// GetProfile handles fetching the local user's profile.
// @Summary     Get profile
// @Description Get the user profile, creating an empty one on first access
// @Tags        profile
// @Produce     json
// @Success     200 {object} models.UserProfile "Profile"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileService.GetProfile()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// UpdateSalary handles setting the monthly salary estimate.
// @Summary     Update salary
// @Description Set the monthly salary used for cash flow estimates
// @Tags        profile
// @Accept      json
// @Produce     json
// @Param       request body UpdateSalaryRequest true "Salary"
// @Success     200 {object} models.UserProfile "Updated profile"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /profile/salary [put]
func (h *ProfileHandler) UpdateSalary(c *gin.Context) {
	var req UpdateSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	profile, err := h.profileService.UpdateSalary(req.MonthlySalary)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// GetExpenses handles listing recurring expenses.
// @Summary     Get recurring expenses
// @Description Get a paginated list of recurring expenses
// @Tags        profile
// @Produce     json
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.RecurringExpense] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /profile/expenses [get]
func (h *ProfileHandler) GetExpenses(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expenses, err := h.profileService.GetExpenses(page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// CreateExpense handles adding a recurring expense.
// @Summary     Create a recurring expense
// @Description Add a standing obligation used by the cash flow estimate
// @Tags        profile
// @Accept      json
// @Produce     json
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.RecurringExpense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /profile/expenses [post]
func (h *ProfileHandler) CreateExpense(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.profileService.CreateExpense(req.Name, req.Amount, req.Frequency)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// UpdateExpense handles editing a recurring expense.
// @Summary     Update a recurring expense
// @Description Edit a recurring expense's fields
// @Tags        profile
// @Accept      json
// @Produce     json
// @Param       id      path string               true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Fields to update"
// @Success     200 {object} models.RecurringExpense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /profile/expenses/{id} [patch]
func (h *ProfileHandler) UpdateExpense(c *gin.Context) {
	expenseID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.profileService.UpdateExpense(expenseID, req.Name, req.Amount, req.Frequency, req.IsActive)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense handles removing a recurring expense.
// @Summary     Delete a recurring expense
// @Description Remove a recurring expense
// @Tags        profile
// @Produce     json
// @Param       id path string true "Expense ID"
// @Success     204 "Expense deleted"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /profile/expenses/{id} [delete]
func (h *ProfileHandler) DeleteExpense(c *gin.Context) {
	expenseID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.profileService.DeleteExpense(expenseID); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
