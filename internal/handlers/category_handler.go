package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categoryService services.CategoryServicer
	auditService    services.AuditServicer
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService services.CategoryServicer, auditService services.AuditServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, auditService: auditService}
}

// CategoryRequest is the payload for creating or replacing a category.
type CategoryRequest struct {
	Name   string           `json:"name" binding:"max=255" example:"Groceries"`
	Budget *decimal.Decimal `json:"budget" binding:"omitempty,money" swaggertype:"number" example:"250"`
}

// GetUserCategories lists the caller's categories
// @Summary     List categories
// @Description All categories of the caller ordered by name. page and page_size switch on pagination headers.
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       user-id   header string false "User id (header identity)"
// @Param       page      query  int    false "Page number"
// @Param       page_size query  int    false "Items per page (max 100)"
// @Success     200 {array}  models.Category
// @Failure     401 {object} ErrorResponse "Missing identity"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [get]
func (h *CategoryHandler) GetUserCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindQueryError(err))
		return
	}

	result, err := h.categoryService.GetUserCategories(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	pagination.SetHeaders(c, result)
	c.JSON(http.StatusOK, result.Data)
}

// GetCategoryByID returns one category
// @Summary     Get a category
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Category ID"
// @Success     200 {object} models.Category
// @Failure     400 {object} ErrorResponse "Invalid id"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id} [get]
func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id", apperrors.ErrCategoryNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.GetCategoryByID(userID, categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// CreateCategory handles the creation of a new category
// @Summary     Create a category
// @Description Name and a non-zero budget are required.
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CategoryRequest true "Category details"
// @Success     201 {object} models.Category "Category created"
// @Failure     400 {object} ErrorResponse "Missing fields or invalid JSON"
// @Failure     401 {object} ErrorResponse "Missing identity"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategoryRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.CreateCategory(userID, req.Name, req.Budget)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditCreateCategory, services.ResourceCategory, category.ID, c.ClientIP(),
		categoryChanges(category))

	c.JSON(http.StatusCreated, category)
}

// UpdateCategory replaces a category's name and budget
// @Summary     Update a category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int             true "Category ID"
// @Param       request body CategoryRequest true "Category details"
// @Success     200 {object} models.Category
// @Failure     400 {object} ErrorResponse "Missing fields or invalid JSON"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id", apperrors.ErrCategoryNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategoryRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.UpdateCategory(userID, categoryID, req.Name, req.Budget)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditUpdateCategory, services.ResourceCategory, category.ID, c.ClientIP(),
		categoryChanges(category))

	c.JSON(http.StatusOK, category)
}

// DeleteCategory deletes a category no transaction refers to
// @Summary     Delete a category
// @Description Refused with 405 while any transaction references the category.
// @Tags        categories
// @Security    BearerAuth
// @Param       id path int true "Category ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     405 {object} ErrorResponse "Category has transactions"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id", apperrors.ErrCategoryNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categoryService.DeleteCategory(userID, categoryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDeleteCategory, services.ResourceCategory, categoryID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

func categoryChanges(category *models.Category) map[string]interface{} {
	return map[string]interface{}{
		"name":   category.Name,
		"budget": category.Budget.StringFixed(2),
	}
}
