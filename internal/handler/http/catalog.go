package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jschof1/val-des-roses/internal/catalog"
	"github.com/jschof1/val-des-roses/internal/domain"
	"github.com/jschof1/val-des-roses/pkg/httputil"
	"github.com/jschof1/val-des-roses/pkg/pagination"
)

// CatalogHandler serves the product and collection read endpoints.
type CatalogHandler struct {
	service *catalog.Service
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(service *catalog.Service, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

// ListProducts handles GET /api/v1/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filters := catalog.Filters{
		ProductType: r.URL.Query().Get("type"),
		Tag:         r.URL.Query().Get("tag"),
		SortBy:      r.URL.Query().Get("sort"),
	}

	params := pagination.FromRequest(r)

	products, err := h.service.ListProducts(r.Context(), filters)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	// The catalog is small enough to filter in memory; the page window is
	// applied after filtering.
	total := len(products)
	start, end := params.Bounds(total)

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(products[start:end], total, params.Page, params.PerPage))
}

// GetProduct handles GET /api/v1/products/{handle}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")

	product, err := h.service.GetProduct(r.Context(), handle)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// ListCollections handles GET /api/v1/collections
func (h *CatalogHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.service.ListCollections(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if collections == nil {
		collections = []domain.Collection{}
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: collections})
}
