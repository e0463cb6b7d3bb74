// Package summary computes the trailing-month income/expense summary from a
// user's transactions. The same computation backs the /summary endpoint and
// the client-side views.
package summary

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

// Summary holds income and expense totals over a window of calendar dates.
type Summary struct {
	From          models.Date     `json:"from"`
	To            models.Date     `json:"to"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
}

// Balance is income minus expenses.
func (s Summary) Balance() decimal.Decimal {
	return s.TotalIncome.Sub(s.TotalExpenses)
}

// Window returns the inclusive date range ending on now's calendar date and
// starting one calendar month earlier. Day overflow normalises forward, so
// 31 March yields 3 March (February has no 31st).
func Window(now time.Time) (from, to models.Date) {
	return models.NewDate(now.AddDate(0, -1, 0)), models.NewDate(now)
}

// InWindow reports whether d lies within [from, to].
func InWindow(d, from, to models.Date) bool {
	return !d.Before(from) && !d.After(to)
}

// Compute sums the transactions dated inside Window(now). Non-negative amounts
// count as income; negative amounts count as expenses by absolute value.
func Compute(transactions []models.Transaction, now time.Time) Summary {
	from, to := Window(now)
	s := Summary{
		From:          from,
		To:            to,
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
	}

	for _, tx := range transactions {
		if !InWindow(tx.Date, from, to) {
			continue
		}
		if tx.IsIncome() {
			s.TotalIncome = s.TotalIncome.Add(tx.Amount)
		} else {
			s.TotalExpenses = s.TotalExpenses.Add(tx.Amount.Abs())
		}
	}
	return s
}

// CategorySpend is the expense total of one category inside the window,
// next to the category's budget.
type CategorySpend struct {
	CategoryID uint            `json:"category_id"`
	Name       string          `json:"name"`
	Budget     decimal.Decimal `json:"budget"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	OverBudget bool            `json:"over_budget"`
}

// ByCategory breaks the window's expenses down per category. Every category is
// listed, including those with nothing spent, sorted by name.
func ByCategory(transactions []models.Transaction, categories []models.Category, now time.Time) []CategorySpend {
	from, to := Window(now)

	spent := make(map[uint]decimal.Decimal, len(categories))
	for _, tx := range transactions {
		if tx.IsIncome() || !InWindow(tx.Date, from, to) {
			continue
		}
		spent[tx.CategoryID] = spent[tx.CategoryID].Add(tx.Amount.Abs())
	}

	result := make([]CategorySpend, 0, len(categories))
	for _, cat := range categories {
		s := spent[cat.ID]
		remaining := cat.Budget.Sub(s)
		result = append(result, CategorySpend{
			CategoryID: cat.ID,
			Name:       cat.Name,
			Budget:     cat.Budget,
			Spent:      s,
			Remaining:  remaining,
			OverBudget: remaining.IsNegative(),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})
	return result
}

// Format renders an amount with two decimals for display.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}
