// roof-mri-backend/internal/handlers/pagination.go
package handlers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/adam1capps/roof-mri-backend/internal/lifecycle"
)

// PaginatedResponse defines the structure for any paginated API response.
type PaginatedResponse struct {
	Data        interface{} `json:"data"`
	TotalRows   int64       `json:"totalRows"`
	TotalPages  int         `json:"totalPages"`
	CurrentPage int         `json:"currentPage"`
	PageSize    int         `json:"pageSize"`
}

// pageParams reads "page" and "pageSize" query parameters and clamps them
// to the limits the lifecycle controller enforces anyway.
func pageParams(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.Query("page"))
	if page <= 0 {
		page = 1
	}

	pageSize, _ = strconv.Atoi(c.Query("pageSize"))
	switch {
	case pageSize > lifecycle.MaxPageSize:
		pageSize = lifecycle.MaxPageSize
	case pageSize <= 0:
		pageSize = lifecycle.DefaultPageSize
	}
	return page, pageSize
}

// paginatedResponse constructs the standard paginated response object.
func paginatedResponse(data interface{}, totalRows int64, page, pageSize int) PaginatedResponse {
	totalPages := 0
	if totalRows > 0 {
		totalPages = int(math.Ceil(float64(totalRows) / float64(pageSize)))
	}
	return PaginatedResponse{
		Data:        data,
		TotalRows:   totalRows,
		TotalPages:  totalPages,
		CurrentPage: page,
		PageSize:    pageSize,
	}
}
