package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// TransactionRequest is the payload for creating or replacing a transaction.
// Positive amounts are income, negative amounts are expenses.
type TransactionRequest struct {
	Amount      *decimal.Decimal `json:"amount" binding:"omitempty,money" swaggertype:"number" example:"-42.5"`
	Date        *models.Date     `json:"date" swaggertype:"string" example:"2025-05-28"`
	CategoryID  uint             `json:"category_id" example:"1"`
	Description *string          `json:"description" binding:"omitempty,max=255" example:"Lunch"`
}

func (r TransactionRequest) input() services.TransactionInput {
	return services.TransactionInput{
		Amount:      r.Amount,
		Date:        r.Date,
		CategoryID:  r.CategoryID,
		Description: r.Description,
	}
}

// TransactionListQuery holds the optional list filters.
type TransactionListQuery struct {
	FromDate   string `form:"from_date" binding:"omitempty,flexdate"`
	ToDate     string `form:"to_date" binding:"omitempty,flexdate"`
	CategoryID *uint  `form:"category_id" binding:"omitempty,min=1"`
}

func (q TransactionListQuery) filter() (services.TransactionFilter, error) {
	filter := services.TransactionFilter{CategoryID: q.CategoryID}

	if strings.TrimSpace(q.FromDate) != "" {
		d, err := models.ParseDate(q.FromDate)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid from_date: expected YYYY-MM-DD")
		}
		filter.FromDate = &d
	}
	if strings.TrimSpace(q.ToDate) != "" {
		d, err := models.ParseDate(q.ToDate)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid to_date: expected YYYY-MM-DD")
		}
		filter.ToDate = &d
	}
	if filter.FromDate != nil && filter.ToDate != nil && filter.FromDate.After(*filter.ToDate) {
		return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "from_date must not be after to_date")
	}
	return filter, nil
}

// GetUserTransactions lists the caller's transactions
// @Summary     List transactions
// @Description Newest first. Optional date range and category filters; page and page_size switch on pagination headers.
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       from_date   query string false "Earliest date, inclusive (YYYY-MM-DD or RFC3339)"
// @Param       to_date     query string false "Latest date, inclusive (YYYY-MM-DD or RFC3339)"
// @Param       category_id query int    false "Filter by category ID"
// @Param       page        query int    false "Page number"
// @Param       page_size   query int    false "Items per page (max 100)"
// @Success     200 {array}  models.Transaction
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Missing identity"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetUserTransactions(c *gin.Context) {
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

	var query TransactionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, bindQueryError(err))
		return
	}
	filter, err := query.filter()
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetUserTransactions(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	pagination.SetHeaders(c, result)
	c.JSON(http.StatusOK, result.Data)
}

// GetTransactionByID returns one transaction
// @Summary     Get a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} models.Transaction
// @Failure     400 {object} ErrorResponse "Invalid id"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id", apperrors.ErrTransactionNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transaction)
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description A non-zero amount, a date and an existing category_id are required.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Missing fields, invalid JSON or invalid category_id"
// @Failure     401 {object} ErrorResponse "Missing identity"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(userID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditCreateTransaction, services.ResourceTransaction, transaction.ID, c.ClientIP(),
		transactionChanges(transaction))

	c.JSON(http.StatusCreated, transaction)
}

// UpdateTransaction replaces every field of a transaction
// @Summary     Update a transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                true "Transaction ID"
// @Param       request body TransactionRequest true "Transaction details"
// @Success     200 {object} models.Transaction
// @Failure     400 {object} ErrorResponse "Missing fields, invalid JSON or invalid category_id"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id", apperrors.ErrTransactionNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, transactionID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditUpdateTransaction, services.ResourceTransaction, transaction.ID, c.ClientIP(),
		transactionChanges(transaction))

	c.JSON(http.StatusOK, transaction)
}

// DeleteTransaction deletes a transaction
// @Summary     Delete a transaction
// @Tags        transactions
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id", apperrors.ErrTransactionNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDeleteTransaction, services.ResourceTransaction, transactionID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

func transactionChanges(tx *models.Transaction) map[string]interface{} {
	changes := map[string]interface{}{
		"amount":      tx.Amount.StringFixed(2),
		"date":        tx.Date.String(),
		"category_id": tx.CategoryID,
	}
	if tx.Description != nil {
		changes["description"] = *tx.Description
	}
	return changes
}
