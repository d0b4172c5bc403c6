package rest

import (
	"errors"

	"github.com/gin-gonic/gin"
)

const MAX_PAGE_SIZE = 100

// ListTokensQueryParams holds query parameters for GET /v1/tokens
type ListTokensQueryParams struct {
	// Pagination
	Offset int `form:"offset,default=0"`
	Size   int `form:"size,default=20"`
}

// ParseListTokensQuery parses query parameters for GET /v1/tokens
func ParseListTokensQuery(c *gin.Context) (*ListTokensQueryParams, error) {
	var params ListTokensQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	// Cap size
	if params.Size > MAX_PAGE_SIZE {
		params.Size = MAX_PAGE_SIZE
	}

	return &params, nil
}

// Validate validates the query parameters
func (p *ListTokensQueryParams) Validate() error {
	if p.Offset < 0 {
		return errors.New("offset must be non-negative")
	}
	if p.Size < 1 {
		return errors.New("size must be positive")
	}
	return nil
}
