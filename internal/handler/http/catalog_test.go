package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jschof1/val-des-roses/internal/domain"
)

// The catalog routes in these tests are backed by the built-in demo data,
// which ships six rose products across four collections.

func TestListProducts_ReturnsPaginatedCatalog(t *testing.T) {
	repo := newLooseRepo()
	router := setupRouter(repo, &fakeCommerce{})

	rec := doJSON(router, http.MethodGet, "/api/v1/products", nil, "sess-1")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data       []domain.Product `json:"data"`
		TotalCount int              `json:"total_count"`
		Page       int              `json:"page"`
		PerPage    int              `json:"per_page"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 6, resp.TotalCount)
	assert.Len(t, resp.Data, 6)
	assert.Equal(t, 1, resp.Page)
}

func TestListProducts_Pagination(t *testing.T) {
	repo := newLooseRepo()
	router := setupRouter(repo, &fakeCommerce{})

	rec := doJSON(router, http.MethodGet, "/api/v1/products?page=2&per_page=4", nil, "sess-1")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data       []domain.Product `json:"data"`
		TotalCount int              `json:"total_count"`
		TotalPages int              `json:"total_pages"`
		HasNext    bool             `json:"has_next"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 6, resp.TotalCount)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, 2, resp.TotalPages)
	assert.False(t, resp.HasNext)
}

func TestListProducts_MalformedPagination_FallsBackToDefaults(t *testing.T) {
	repo := newLooseRepo()
	router := setupRouter(repo, &fakeCommerce{})

	rec := doJSON(router, http.MethodGet, "/api/v1/products?page=abc&per_page=200", nil, "sess-1")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data    []domain.Product `json:"data"`
		Page    int              `json:"page"`
		PerPage int              `json:"per_page"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 24, resp.PerPage)
	assert.Len(t, resp.Data, 6)
}

func TestListProducts_PageBeyondEnd_ReturnsEmpty(t *testing.T) {
	repo := newLooseRepo()
	router := setupRouter(repo, &fakeCommerce{})

	rec := doJSON(router, http.MethodGet, "/api/v1/products?page=99", nil, "sess-1")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []domain.Product `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Data)
}

func TestListProducts_FilterByType(t *testing.T) {
	repo := newLooseRepo()
	router := setupRouter(repo, &fakeCommerce{})

	rec := doJSON(router, http.MethodGet, "/api/v1/products?type=Single+Rose", nil, "sess-1")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []domain.Product `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Data)
	for _, p := range resp.Data {
		assert.Equal(t, "Single Rose", p.ProductType)
	}
}

func TestListProducts_SortByPrice(t *testing.T) {
	repo := newLooseRepo()
	router := setupRouter(repo, &fakeCommerce{})

	rec := doJSON(router, http.MethodGet, "/api/v1/products?sort=price-asc", nil, "sess-1")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []domain.Product `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Data)
	for i := 1; i < len(resp.Data); i++ {
		assert.LessOrEqual(t, resp.Data[i-1].Price.Cents, resp.Data[i].Price.Cents)
	}
}

func TestGetProduct_ByHandle(t *testing.T) {
	repo := newLooseRepo()
	router := setupRouter(repo, &fakeCommerce{})

	rec := doJSON(router, http.MethodGet, "/api/v1/products/heritage-rosa-damascena", nil, "sess-1")

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)

	b, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var p domain.Product
	require.NoError(t, json.Unmarshal(b, &p))
	assert.Equal(t, "heritage-rosa-damascena", p.Handle)
}

func TestGetProduct_UnknownHandle_Returns404(t *testing.T) {
	repo := newLooseRepo()
	router := setupRouter(repo, &fakeCommerce{})

	rec := doJSON(router, http.MethodGet, "/api/v1/products/no-such-rose", nil, "sess-1")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestListCollections(t *testing.T) {
	repo := newLooseRepo()
	router := setupRouter(repo, &fakeCommerce{})

	rec := doJSON(router, http.MethodGet, "/api/v1/collections", nil, "sess-1")

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)

	b, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var collections []domain.Collection
	require.NoError(t, json.Unmarshal(b, &collections))
	assert.Len(t, collections, 4)
}

func TestCatalogRoutes_SetCacheControl(t *testing.T) {
	repo := newLooseRepo()
	router := setupRouter(repo, &fakeCommerce{})

	rec := doJSON(router, http.MethodGet, "/api/v1/products", nil, "sess-1")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "max-age=60")
}
