package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestParsePage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		query string
		want  Page
	}{
		{"", Page{1, DefaultPageSize}},
		{"?page=3&size=5", Page{3, 5}},
		{"?page=0&size=500", Page{1, DefaultPageSize}},
		{"?page=abc&size=-1", Page{1, DefaultPageSize}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/api/users"+tt.query, nil)
			assert.Equal(t, tt.want, ParsePage(c))
		})
	}
}

func TestPageInfo(t *testing.T) {
	p := Page{Number: 2, Size: 5}
	assert.Equal(t, uint64(5), p.Offset())

	info := p.Info(11)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 2, info.CurrentPage)
	assert.Equal(t, int64(11), info.TotalItems)

	assert.Equal(t, 1, Page{Number: 1, Size: 20}.Info(0).TotalPages)
	assert.Equal(t, uint64(0), Page{}.Offset())
}
