package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/officialid/officialid-api/internal/constants"
)

// PaginationParams holds the sanitized page/limit pair from the query string.
type PaginationParams struct {
	Page  int
	Limit int
}

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// GetPaginationParams reads "page" and "limit" from the query string. Missing,
// malformed, or out-of-range values fall back to the defaults in constants.
func GetPaginationParams(c *gin.Context) PaginationParams {
	return PaginationParams{
		Page:  queryInt(c, "page", constants.MinPageSize, constants.MinPageSize, 0),
		Limit: queryInt(c, "limit", constants.DefaultPageSize, constants.MinPageSize, constants.MaxPageSize),
	}
}

// queryInt parses an integer query parameter, returning fallback when the
// value is absent, unparseable, or outside [min, max]. A max of 0 means
// unbounded.
func queryInt(c *gin.Context, key string, fallback, min, max int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < min || (max > 0 && v > max) {
		return fallback
	}
	return v
}
