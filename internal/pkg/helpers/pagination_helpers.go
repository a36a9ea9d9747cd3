package helpers

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/yigit/buspass/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	DefaultPage     = 1
)

// ParsePage reads a 1-based page number from a query value.
// Anything that is not an integer means the first page; an integer too
// large to represent is kept as the largest page so it clamps to the last one.
func ParsePage(raw string) int {
	raw = strings.TrimSpace(raw)
	page, err := strconv.Atoi(raw)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
			return math.MaxInt
		}
		return DefaultPage
	}
	return page
}

// NewPaginationInfo builds the page metadata for totalItems, moving an
// out-of-range page to the nearest valid one. An empty listing still has
// one (empty) page.
func NewPaginationInfo(totalItems int64, page, size int) dto.PaginationInfo {
	if size <= 0 {
		size = DefaultPageSize
	}

	totalPages := int((totalItems + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}

	current := page
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}

	info := dto.PaginationInfo{
		CurrentPage: current,
		TotalPages:  totalPages,
		PageSize:    size,
		TotalItems:  totalItems,
		HasNext:     current < totalPages,
		HasPrevious: current > 1,
	}
	if info.HasNext {
		info.NextPage = current + 1
	}
	if info.HasPrevious {
		info.PreviousPage = current - 1
	}
	return info
}

// CalculateOffsetLimit converts page metadata to SQL offset and limit
func CalculateOffsetLimit(info dto.PaginationInfo) (offset uint64, limit int) {
	return uint64((info.CurrentPage - 1) * info.PageSize), info.PageSize
}
