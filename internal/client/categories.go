package client

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

type categoryPayload struct {
	Name   string          `json:"name"`
	Budget decimal.Decimal `json:"budget"`
}

// ListCategories returns the caller's categories.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory creates a category and returns it with its id.
func (c *Client) CreateCategory(ctx context.Context, name string, budget decimal.Decimal) (*models.Category, error) {
	var category models.Category
	if err := c.do(ctx, http.MethodPost, "/categories", nil, categoryPayload{Name: name, Budget: budget}, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory replaces a category's name and budget.
func (c *Client) UpdateCategory(ctx context.Context, id uint, name string, budget decimal.Decimal) (*models.Category, error) {
	var category models.Category
	if err := c.do(ctx, http.MethodPut, idPath("categories", id), nil, categoryPayload{Name: name, Budget: budget}, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory deletes a category. The API refuses with 405 while any
// transaction refers to it.
func (c *Client) DeleteCategory(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, idPath("categories", id), nil, nil, nil)
}

// SortCategories orders categories alphabetically by name, ignoring case.
func SortCategories(categories []models.Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		return strings.ToLower(categories[i].Name) < strings.ToLower(categories[j].Name)
	})
}
