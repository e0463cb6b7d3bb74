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

// transactionService handles transaction-related business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// validateTransaction checks required fields and that the category exists,
// and returns the amount rounded to cents. An amount that rounds to zero
// counts as missing. The category lookup is not scoped to the user.
func (s *transactionService) validateTransaction(input TransactionInput) (decimal.Decimal, error) {
	if input.Amount == nil || input.Date == nil || input.Date.IsZero() || input.CategoryID == 0 {
		return decimal.Zero, apperrors.ErrInvalidInput
	}
	amount := input.Amount.Round(2)
	if amount.IsZero() {
		return decimal.Zero, apperrors.ErrInvalidInput
	}

	var count int64
	if err := s.db.Model(&models.Category{}).Where("id = ?", input.CategoryID).Count(&count).Error; err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return decimal.Zero, apperrors.ErrInvalidCategory
	}
	return amount, nil
}

// normalizeDescription trims the description and maps blank text to NULL.
func normalizeDescription(description *string) *string {
	if description == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// CreateTransaction records a new transaction for the user
func (s *transactionService) CreateTransaction(userID uint, input TransactionInput) (*models.Transaction, error) {
	amount, err := s.validateTransaction(input)
	if err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:      userID,
		CategoryID:  input.CategoryID,
		Amount:      amount,
		Date:        *input.Date,
		Description: normalizeDescription(input.Description),
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// GetUserTransactions retrieves the user's transactions, newest first.
func (s *transactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	result, err := pagination.Find[models.Transaction](base, page, "date DESC, id DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction replaces every writable field of an existing transaction
func (s *transactionService) UpdateTransaction(userID, transactionID uint, input TransactionInput) (*models.Transaction, error) {
	amount, err := s.validateTransaction(input)
	if err != nil {
		return nil, err
	}

	// Select forces the NULL description to be written too.
	result := s.db.Model(&models.Transaction{}).
		Where("id = ? AND user_id = ?", transactionID, userID).
		Select("amount", "date", "category_id", "description").
		Updates(&models.Transaction{
			Amount:      amount,
			Date:        *input.Date,
			CategoryID:  input.CategoryID,
			Description: normalizeDescription(input.Description),
		})
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrTransactionNotFound
	}

	return s.GetTransactionByID(userID, transactionID)
}

// DeleteTransaction deletes a transaction owned by the user
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", transactionID, userID).Delete(&models.Transaction{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}
