package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/greenfield/internal/app/models/dto"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is a 1-based window into a list result
type Page struct {
	Number int
	Size   int
}

// ParsePage reads page and size from the query string. Missing or out of
// range values fall back to the first page of DefaultPageSize items.
func ParsePage(c *gin.Context) Page {
	p := Page{Number: 1, Size: DefaultPageSize}
	if n, err := strconv.Atoi(c.Query("page")); err == nil && n > 0 {
		p.Number = n
	}
	if n, err := strconv.Atoi(c.Query("size")); err == nil && n > 0 && n <= MaxPageSize {
		p.Size = n
	}
	return p
}

// Offset is the number of rows before the page.
func (p Page) Offset() uint64 {
	if p.Number < 1 || p.Size < 1 {
		return 0
	}
	return uint64(p.Number-1) * uint64(p.Size)
}

// Info describes p within a result of total rows. An empty result still has one page.
func (p Page) Info(total int64) dto.PaginationInfo {
	size := p.Size
	if size < 1 {
		size = DefaultPageSize
	}
	pages := int((total + int64(size) - 1) / int64(size))
	if pages == 0 {
		pages = 1
	}
	return dto.PaginationInfo{
		CurrentPage: p.Number,
		TotalPages:  pages,
		PageSize:    size,
		TotalItems:  total,
	}
}
