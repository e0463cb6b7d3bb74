package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/services"
)

// SummaryHandler serves the trailing-month summary.
type SummaryHandler struct {
	summaryService services.SummaryServicer
	now            func() time.Time
}

// NewSummaryHandler creates a new SummaryHandler reading the wall clock.
func NewSummaryHandler(summaryService services.SummaryServicer) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService, now: time.Now}
}

// GetSummary returns income, expenses and balance for the last month
// @Summary     Monthly summary
// @Description Totals over the month ending today, both ends inclusive, with spend per category.
// @Tags        summary
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.SummaryReport
// @Failure     401 {object} ErrorResponse "Missing identity"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /summary [get]
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.summaryService.GetSummary(userID, h.now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
