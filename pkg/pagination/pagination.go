package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// Unlimited disables the LIMIT clause: older call sites that send no
// pagination params expect the full result set.
const Unlimited = -1

// DefaultLimit is the page size when a request paginates without an
// explicit limit, such as offset-only requests.
const DefaultLimit = 20

// Params holds pagination parameters extracted from a request.
type Params struct {
	Limit  int
	Offset int
}

// FromContext extracts pagination parameters from the echo context.
// When neither limit nor offset is present the result is the full
// unpaginated set. A paginated request with a missing or invalid limit
// falls back to DefaultLimit.
func FromContext(c echo.Context) Params {
	rawLimit := c.QueryParam("limit")
	rawOffset := c.QueryParam("offset")

	if rawLimit == "" && rawOffset == "" {
		return Params{Limit: Unlimited, Offset: 0}
	}

	limit, err := strconv.Atoi(rawLimit)
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	offset, err := strconv.Atoi(rawOffset)
	if err != nil || offset < 0 {
		offset = 0
	}

	return Params{Limit: limit, Offset: offset}
}

// Paginated reports whether the params describe a real page rather than the
// full-set compatibility mode.
func (p Params) Paginated() bool {
	return p.Limit != Unlimited
}

// HasNext returns true if there are more results after the current page.
func (p Params) HasNext(total int) bool {
	return p.Paginated() && p.Offset+p.Limit < total
}

// NextOffset returns the offset for the next page.
func (p Params) NextOffset() int {
	return p.Offset + p.Limit
}

// PreviousOffset returns the offset for the previous page.
// Returns 0 if the result would be negative.
func (p Params) PreviousOffset() int {
	prev := p.Offset - p.Limit
	if prev < 0 {
		return 0
	}
	return prev
}

// Response wraps a paginated API response.
type Response struct {
	Data    interface{} `json:"data"`
	Total   int         `json:"total"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
	HasMore bool        `json:"has_more"`
}

func NewResponse(data interface{}, total int, p Params) *Response {
	return &Response{
		Data:    data,
		Total:   total,
		Limit:   p.Limit,
		Offset:  p.Offset,
		HasMore: p.HasNext(total),
	}
}
