package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// validateCategory rejects an empty name and a missing, zero, or negative
// budget, and returns the budget rounded to cents. The checks apply to the
// rounded value, so a sub-cent budget counts as zero. A zero budget is
// treated as missing, which is what clients of the API have always seen.
func validateCategory(name string, budget *decimal.Decimal) (decimal.Decimal, error) {
	if strings.TrimSpace(name) == "" || budget == nil {
		return decimal.Zero, apperrors.ErrInvalidInput
	}
	rounded := budget.Round(2)
	if rounded.IsZero() {
		return decimal.Zero, apperrors.ErrInvalidInput
	}
	if rounded.IsNegative() {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget must not be negative")
	}
	return rounded, nil
}

// CreateCategory creates a new category
func (s *categoryService) CreateCategory(userID uint, name string, budget *decimal.Decimal) (*models.Category, error) {
	rounded, err := validateCategory(name, budget)
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		UserID: userID,
		Name:   strings.TrimSpace(name),
		Budget: rounded,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// GetUserCategories retrieves the user's categories ordered by name.
func (s *categoryService) GetUserCategories(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	base := s.db.Model(&models.Category{}).Where("user_id = ?", userID)

	result, err := pagination.Find[models.Category](base, page, "LOWER(name) ASC, id ASC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// GetCategoryByID retrieves a category by ID for a specific user
func (s *categoryService) GetCategoryByID(userID, categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory replaces the name and budget of an existing category
func (s *categoryService) UpdateCategory(userID, categoryID uint, name string, budget *decimal.Decimal) (*models.Category, error) {
	rounded, err := validateCategory(name, budget)
	if err != nil {
		return nil, err
	}

	result := s.db.Model(&models.Category{}).
		Where("id = ? AND user_id = ?", categoryID, userID).
		Updates(map[string]interface{}{
			"name":   strings.TrimSpace(name),
			"budget": rounded,
		})
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrCategoryNotFound
	}

	return s.GetCategoryByID(userID, categoryID)
}

// DeleteCategory deletes a category that no transaction references. The
// reference check spans all users: transactions may point at any existing
// category, and the store refuses to drop a referenced row.
func (s *categoryService) DeleteCategory(userID, categoryID uint) error {
	var inUse int64
	if err := s.db.Model(&models.Transaction{}).
		Where("category_id = ?", categoryID).
		Count(&inUse).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if inUse > 0 {
		return apperrors.ErrCategoryInUse
	}

	result := s.db.Where("id = ? AND user_id = ?", categoryID, userID).Delete(&models.Category{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}
