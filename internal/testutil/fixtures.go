package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fintrack/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithEmail(t, db, fmt.Sprintf("user%d@test.com", nextID()))
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{Email: email}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category with a unique name and the given budget.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint, budget string) *models.Category {
	t.Helper()
	return CreateTestCategoryNamed(t, db, userID, fmt.Sprintf("Test Category %d", nextID()), budget)
}

// CreateTestCategoryNamed creates a category with the given name and budget.
func CreateTestCategoryNamed(t *testing.T, db *gorm.DB, userID uint, name, budget string) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   name,
		Budget: decimal.RequireFromString(budget),
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction with the given signed amount
// and YYYY-MM-DD date.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, categoryID uint, amount, date string) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     decimal.RequireFromString(amount),
		Date:       models.MustParseDate(date),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}
