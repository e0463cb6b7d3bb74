package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/summary"
)

// summaryService builds the trailing-month summary from stored rows.
type summaryService struct {
	db *gorm.DB
}

// NewSummaryService creates a new SummaryServicer.
func NewSummaryService(db *gorm.DB) SummaryServicer {
	return &summaryService{db: db}
}

// GetSummary totals the user's income and expenses dated within the month
// ending on now's calendar date.
func (s *summaryService) GetSummary(userID uint, now time.Time) (*SummaryReport, error) {
	from, to := summary.Window(now)

	var transactions []models.Transaction
	if err := s.db.Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := s.db.Where("user_id = ?", userID).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := summary.Compute(transactions, now)
	return &SummaryReport{
		From:          totals.From,
		To:            totals.To,
		TotalIncome:   totals.TotalIncome,
		TotalExpenses: totals.TotalExpenses,
		Balance:       totals.Balance(),
		Categories:    summary.ByCategory(transactions, categories, now),
	}, nil
}
