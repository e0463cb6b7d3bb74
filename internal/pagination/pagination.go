package pagination

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PageRequest holds pagination parameters parsed from query strings. The zero
// value means "no pagination": list endpoints return every row.
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Enabled reports whether the caller asked for a page.
func (p *PageRequest) Enabled() bool {
	return p.Page > 0 || p.PageSize > 0
}

// Defaults fills in default values when page or page_size are not provided.
func (p *PageRequest) Defaults() {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.PageSize == 0 {
		p.PageSize = 20
	}
}

// Offset returns the SQL OFFSET for the current page.
func (p *PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageResponse wraps a list of items with metadata.
type PageResponse[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	Paginated  bool  `json:"-"`
}

// NewPageResponse creates a PageResponse from the given data and total count.
func NewPageResponse[T any](data []T, page, pageSize int, totalItems int64) PageResponse[T] {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(math.Ceil(float64(totalItems) / float64(pageSize)))
	}
	if data == nil {
		data = []T{}
	}
	return PageResponse[T]{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
		Paginated:  true,
	}
}

// NewFullResponse wraps an unpaginated result set as a single page.
func NewFullResponse[T any](data []T) PageResponse[T] {
	if data == nil {
		data = []T{}
	}
	return PageResponse[T]{
		Data:       data,
		Page:       1,
		PageSize:   len(data),
		TotalItems: int64(len(data)),
		TotalPages: 1,
	}
}

// Paginate returns a GORM scope that applies OFFSET and LIMIT for the given page request.
func Paginate(req PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(req.Offset()).Limit(req.PageSize)
	}
}

// Find loads rows from base into a PageResponse. When page is enabled the
// total is counted and only the requested page is loaded; otherwise every row
// is returned. order is applied to the row query only.
func Find[T any](base *gorm.DB, page PageRequest, order string) (*PageResponse[T], error) {
	var rows []T
	if !page.Enabled() {
		if err := base.Order(order).Find(&rows).Error; err != nil {
			return nil, err
		}
		result := NewFullResponse(rows)
		return &result, nil
	}

	page.Defaults()

	var totalItems int64
	if err := base.Session(&gorm.Session{}).Count(&totalItems).Error; err != nil {
		return nil, err
	}
	if err := base.Scopes(Paginate(page)).Order(order).Find(&rows).Error; err != nil {
		return nil, err
	}

	result := NewPageResponse(rows, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// SetHeaders exposes page metadata on list responses whose body is a bare array.
func SetHeaders[T any](c *gin.Context, resp *PageResponse[T]) {
	if !resp.Paginated {
		return
	}
	c.Header("X-Total-Count", strconv.FormatInt(resp.TotalItems, 10))
	c.Header("X-Total-Pages", strconv.Itoa(resp.TotalPages))
	c.Header("X-Page", strconv.Itoa(resp.Page))
	c.Header("X-Page-Size", strconv.Itoa(resp.PageSize))
}
