package api

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewPageResponse(t *testing.T) {
	resp := NewPageResponse([]int{1, 2, 3}, 2, 3, 10)
	assert.Equal(t, int64(4), resp.TotalPages)
	assert.True(t, resp.HasNext)
	assert.True(t, resp.HasPrev)

	empty := NewPageResponse([]int{}, 1, 20, 0)
	assert.Equal(t, int64(1), empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}

func TestSlice(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	assert.Equal(t, []string{"a", "b"}, Slice(items, PageRequest{Page: 1, PageSize: 2}))
	assert.Equal(t, []string{"c", "d"}, Slice(items, PageRequest{Page: 2, PageSize: 2}))
	assert.Equal(t, []string{"e"}, Slice(items, PageRequest{Page: 3, PageSize: 2}))
	assert.Empty(t, Slice(items, PageRequest{Page: 4, PageSize: 2}))
	assert.Equal(t, items, Slice(items, PageRequest{Page: 1, PageSize: 50}))
}

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		query        string
		wantPage     int64
		wantPageSize int64
	}{
		{"defaults", "", 1, 20},
		{"explicit", "page=3&pageSize=50", 3, 50},
		{"zero page", "page=0", 1, 20},
		{"oversized page size", "pageSize=500", 1, 100},
		{"garbage", "page=abc&pageSize=xyz", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/inventory?"+tt.query, nil)

			p := ParsePagination(c)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPageSize, p.PageSize)
		})
	}
}

func TestGetOffset(t *testing.T) {
	assert.Equal(t, int64(0), PageRequest{Page: 1, PageSize: 20}.GetOffset())
	assert.Equal(t, int64(40), PageRequest{Page: 3, PageSize: 20}.GetOffset())
}
