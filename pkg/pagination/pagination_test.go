package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 24, p.PerPage)
	assert.Equal(t, 0, p.Offset)
}

func TestFromRequest_Defaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	p := FromRequest(req)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 24, p.PerPage)
	assert.Equal(t, 0, p.Offset)
}

func TestFromRequest_CustomValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products?page=3&per_page=50", nil)
	p := FromRequest(req)

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 50, p.PerPage)
	assert.Equal(t, 100, p.Offset) // (3-1) * 50
}

func TestFromRequest_InvalidPage(t *testing.T) {
	for _, page := range []string{"-1", "0", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/products?page="+page, nil)
		p := FromRequest(req)
		assert.Equal(t, 1, p.Page, "page=%s", page)
	}
}

func TestFromRequest_PerPage_MaxCap(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products?per_page=200", nil)
	p := FromRequest(req)
	assert.Equal(t, 24, p.PerPage) // falls back to default (200 > 100)
}

func TestFromRequest_PerPage_Exactly100(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products?per_page=100", nil)
	p := FromRequest(req)
	assert.Equal(t, 100, p.PerPage)
}

func TestFromRequest_PerPage_Zero(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products?per_page=0", nil)
	p := FromRequest(req)
	assert.Equal(t, 24, p.PerPage)
}

func TestFromRequest_OffsetCalculation(t *testing.T) {
	tests := []struct {
		page    string
		perPage string
		offset  int
	}{
		{"1", "10", 0},
		{"2", "10", 10},
		{"3", "25", 50},
		{"5", "20", 80},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/products?page="+tt.page+"&per_page="+tt.perPage, nil)
		p := FromRequest(req)
		assert.Equal(t, tt.offset, p.Offset)
	}
}

func TestParams_Bounds(t *testing.T) {
	tests := []struct {
		name  string
		p     Params
		total int
		start int
		end   int
	}{
		{"first page", Params{Page: 1, PerPage: 4, Offset: 0}, 6, 0, 4},
		{"partial last page", Params{Page: 2, PerPage: 4, Offset: 4}, 6, 4, 6},
		{"page beyond end", Params{Page: 5, PerPage: 4, Offset: 16}, 6, 6, 6},
		{"empty collection", Params{Page: 1, PerPage: 24, Offset: 0}, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.p.Bounds(tt.total)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}
