package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/models"
	"fintrack/internal/summary"
)

// TransactionInput is the writable part of a transaction.
type TransactionInput struct {
	Amount      decimal.Decimal `json:"amount"`
	Date        models.Date     `json:"date"`
	CategoryID  uint            `json:"category_id"`
	Description *string         `json:"description"`
}

// TransactionQuery narrows ListTransactions. Zero fields are not sent.
type TransactionQuery struct {
	FromDate   *models.Date
	ToDate     *models.Date
	CategoryID uint
}

func (q TransactionQuery) values() url.Values {
	v := url.Values{}
	if q.FromDate != nil {
		v.Set("from_date", q.FromDate.String())
	}
	if q.ToDate != nil {
		v.Set("to_date", q.ToDate.String())
	}
	if q.CategoryID != 0 {
		v.Set("category_id", strconv.FormatUint(uint64(q.CategoryID), 10))
	}
	return v
}

// ListTransactions returns the caller's transactions, newest first.
func (c *Client) ListTransactions(ctx context.Context, query TransactionQuery) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions", query.values(), nil, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// CreateTransaction records a transaction.
func (c *Client) CreateTransaction(ctx context.Context, input TransactionInput) (*models.Transaction, error) {
	var tx models.Transaction
	if err := c.do(ctx, http.MethodPost, "/transactions", nil, input, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// UpdateTransaction replaces every field of a transaction.
func (c *Client) UpdateTransaction(ctx context.Context, id uint, input TransactionInput) (*models.Transaction, error) {
	var tx models.Transaction
	if err := c.do(ctx, http.MethodPut, idPath("transactions", id), nil, input, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// DeleteTransaction deletes a transaction.
func (c *Client) DeleteTransaction(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, idPath("transactions", id), nil, nil, nil)
}

// TransactionsPage is what the transactions view shows: every transaction
// next to the categories needed to label them.
type TransactionsPage struct {
	Categories   []models.Category
	Transactions []models.Transaction
}

// CategoryName returns the name of the category with the given id, or an
// empty string.
func (p *TransactionsPage) CategoryName(id uint) string {
	for _, cat := range p.Categories {
		if cat.ID == id {
			return cat.Name
		}
	}
	return ""
}

// LoadTransactionsPage fetches categories and the transactions matching query
// concurrently. Either failure cancels the other request.
func (c *Client) LoadTransactionsPage(ctx context.Context, query TransactionQuery) (*TransactionsPage, error) {
	page := &TransactionsPage{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		categories, err := c.ListCategories(ctx)
		if err != nil {
			return err
		}
		SortCategories(categories)
		page.Categories = categories
		return nil
	})
	g.Go(func() error {
		transactions, err := c.ListTransactions(ctx, query)
		if err != nil {
			return err
		}
		page.Transactions = transactions
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return page, nil
}

// Summary fetches the caller's transactions and totals the month ending on
// now's calendar date.
func (c *Client) Summary(ctx context.Context, now time.Time) (summary.Summary, error) {
	transactions, err := c.ListTransactions(ctx, TransactionQuery{})
	if err != nil {
		return summary.Summary{}, err
	}
	return summary.Compute(transactions, now), nil
}

// CategorySummary is Summary broken down per category.
func (c *Client) CategorySummary(ctx context.Context, now time.Time) (summary.Summary, []summary.CategorySpend, error) {
	page, err := c.LoadTransactionsPage(ctx, TransactionQuery{})
	if err != nil {
		return summary.Summary{}, nil, err
	}
	return summary.Compute(page.Transactions, now), summary.ByCategory(page.Transactions, page.Categories, now), nil
}
