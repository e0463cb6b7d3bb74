package services

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/summary"
)

// UserServicer defines the contract for user lookups.
type UserServicer interface {
	CreateUser(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID uint, name string, budget *decimal.Decimal) (*models.Category, error)
	GetUserCategories(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	UpdateCategory(userID, categoryID uint, name string, budget *decimal.Decimal) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) error
}

// TransactionInput carries the writable fields of a transaction. Nil pointers
// and zero values count as missing.
type TransactionInput struct {
	Amount      *decimal.Decimal
	Date        *models.Date
	CategoryID  uint
	Description *string
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *models.Date
	ToDate     *models.Date
	CategoryID *uint
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID uint, input TransactionInput) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, input TransactionInput) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
}

// SummaryReport is the trailing-month summary with a per-category breakdown.
type SummaryReport struct {
	From          models.Date             `json:"from"`
	To            models.Date             `json:"to"`
	TotalIncome   decimal.Decimal         `json:"total_income"`
	TotalExpenses decimal.Decimal         `json:"total_expenses"`
	Balance       decimal.Decimal         `json:"balance"`
	Categories    []summary.CategorySpend `json:"categories"`
}

// SummaryServicer defines the contract for the financial summary.
type SummaryServicer interface {
	GetSummary(userID uint, now time.Time) (*SummaryReport, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
