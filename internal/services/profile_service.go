package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finsmar/internal/errors"
	"finsmar/internal/models"
	"finsmar/internal/pagination"
)

// profileService handles the user profile and recurring expenses.
type profileService struct {
	db *gorm.DB
}

// NewProfileService creates a new ProfileServicer.
func NewProfileService(db *gorm.DB) ProfileServicer {
	return &profileService{db: db}
}

// GetProfile returns the local user's profile, creating an empty one on
// first access.
func (s *profileService) GetProfile() (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.Where("user_id = ?", models.LocalUserID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.UserProfile{
			UserID:        models.LocalUserID,
			MonthlySalary: decimal.Zero,
		}
		if err := s.db.Create(&profile).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &profile, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &profile, nil
}

// UpdateSalary sets the monthly salary estimate.
func (s *profileService) UpdateSalary(monthlySalary decimal.Decimal) (*models.UserProfile, error) {
	if monthlySalary.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "monthly salary cannot be negative")
	}

	profile, err := s.GetProfile()
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(profile).Update("monthly_salary", monthlySalary).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	profile.MonthlySalary = monthlySalary
	return profile, nil
}

// GetExpenses retrieves a paginated list of recurring expenses.
func (s *profileService) GetExpenses(page pagination.PageRequest) (*pagination.PageResponse[models.RecurringExpense], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.RecurringExpense{}).Where("user_id = ?", models.LocalUserID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.RecurringExpense
	if err := base.Order("name").Scopes(pagination.Paginate(page)).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// CreateExpense adds a recurring expense.
func (s *profileService) CreateExpense(name string, amount decimal.Decimal, frequency models.ExpenseFrequency) (*models.RecurringExpense, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "expense name is required")
	}
	if amount.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "expense amount cannot be negative")
	}
	if frequency == "" {
		frequency = models.FrequencyMonthly
	}

	expense := &models.RecurringExpense{
		UserID:    models.LocalUserID,
		Name:      name,
		Amount:    amount,
		Frequency: frequency,
		IsActive:  true,
	}
	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// UpdateExpense applies partial edits to a recurring expense.
func (s *profileService) UpdateExpense(expenseID string, name *string, amount *decimal.Decimal, frequency *models.ExpenseFrequency, isActive *bool) (*models.RecurringExpense, error) {
	expense, err := s.getExpense(expenseID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != nil && *name != "" {
		updates["name"] = *name
	}
	if amount != nil {
		if amount.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "expense amount cannot be negative")
		}
		updates["amount"] = *amount
	}
	if frequency != nil {
		updates["frequency"] = *frequency
	}
	if isActive != nil {
		updates["is_active"] = *isActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(expense).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Where("id = ?", expense.ID).First(expense).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return expense, nil
}

// DeleteExpense removes a recurring expense.
func (s *profileService) DeleteExpense(expenseID string) error {
	expense, err := s.getExpense(expenseID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *profileService) getExpense(expenseID string) (*models.RecurringExpense, error) {
	var expense models.RecurringExpense
	err := s.db.Where("id = ? AND user_id = ?", expenseID, models.LocalUserID).First(&expense).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrExpenseNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}
