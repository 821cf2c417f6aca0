package utils

import (
	"net/url"
	"strconv"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest - запрошенная страница списка, Page считается с единицы.
type PageRequest struct {
	Page  uint64
	Limit uint64
}

func (p PageRequest) Offset() uint64 {
	return (p.Page - 1) * p.Limit
}

// ParsePageRequest читает page и limit. Нечисловые и нулевые значения
// заменяются на первую страницу и размер по умолчанию, limit режется до MaxPageSize.
func ParsePageRequest(values url.Values) PageRequest {
	return PageRequest{
		Page:  positiveOr(values.Get("page"), 1),
		Limit: min(positiveOr(values.Get("limit"), DefaultPageSize), MaxPageSize),
	}
}

func positiveOr(raw string, fallback uint64) uint64 {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return fallback
	}
	return n
}
