// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("account_type", validateAccountType)
		_ = v.RegisterValidation("account_source", validateAccountSource)
		_ = v.RegisterValidation("expense_frequency", validateExpenseFrequency)
		_ = v.RegisterValidation("sort_order", validateSortOrder)
	}
}

func validateAccountType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "depository", "investment", "crypto", "loan":
		return true
	}
	return false
}

func validateAccountSource(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "plaid", "plaid_investment", "robinhood", "coinbase", "manual":
		return true
	}
	return false
}

func validateExpenseFrequency(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "monthly", "yearly", "quarterly", "weekly":
		return true
	}
	return false
}

func validateSortOrder(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "asc", "desc":
		return true
	}
	return false
}
