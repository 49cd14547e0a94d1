package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jschof1/val-des-roses/internal/commerce"
	"github.com/jschof1/val-des-roses/internal/domain"
)

// Cache keys for the catalog read path.
const (
	productsCacheKey    = "catalog:products"
	collectionsCacheKey = "catalog:collections"
	productKeyPrefix    = "catalog:product:"
)

// Sort options accepted by ListProducts.
const (
	SortTitle     = "title"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
)

// Filters narrows and orders the product listing.
type Filters struct {
	ProductType string
	Tag         string
	SortBy      string
}

// Service is the catalog read path for the shop pages. Products come
// from the commerce platform with a cache-aside layer in Redis; a cache
// outage degrades to direct fetches, and a platform outage degrades to
// the built-in demo catalog so the pages never render empty by accident.
type Service struct {
	client   commerce.Client
	fallback *commerce.Demo
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewService creates a catalog service. cache may be nil to disable caching.
func NewService(client commerce.Client, cache *redis.Client, cacheTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		client:   client,
		fallback: commerce.NewDemo(logger),
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// ListProducts returns the catalog narrowed by the given filters.
func (s *Service) ListProducts(ctx context.Context, filters Filters) ([]domain.Product, error) {
	var products []domain.Product
	if !s.cacheGet(ctx, productsCacheKey, &products) {
		var err error
		products, err = s.client.FetchAllProducts(ctx)
		if err != nil {
			s.logger.ErrorContext(ctx, "catalog fetch failed, serving demo products",
				slog.String("error", err.Error()),
			)
			products, _ = s.fallback.FetchAllProducts(ctx)
		} else {
			s.cacheSet(ctx, productsCacheKey, products)
		}
	}

	return applyFilters(products, filters), nil
}

// GetProduct returns a single product by its URL handle.
func (s *Service) GetProduct(ctx context.Context, handle string) (*domain.Product, error) {
	key := productKeyPrefix + handle

	var cached domain.Product
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	product, err := s.client.FetchProductByHandle(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("get product %q: %w", handle, err)
	}
	s.cacheSet(ctx, key, product)
	return product, nil
}

// ListCollections returns the curated collections with their products.
func (s *Service) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	var collections []domain.Collection
	if s.cacheGet(ctx, collectionsCacheKey, &collections) {
		return collections, nil
	}

	collections, err := s.client.FetchAllCollections(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "collections fetch failed, serving demo collections",
			slog.String("error", err.Error()),
		)
		collections, _ = s.fallback.FetchAllCollections(ctx)
		return collections, nil
	}

	s.cacheSet(ctx, collectionsCacheKey, collections)
	return collections, nil
}

// cacheGet loads a cached value. Cache errors only disable the cache for
// the call; the caller falls through to a direct fetch.
func (s *Service) cacheGet(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}

	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.WarnContext(ctx, "catalog cache read failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.WarnContext(ctx, "catalog cache entry corrupt",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

func (s *Service) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		s.logger.WarnContext(ctx, "catalog cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

func applyFilters(products []domain.Product, filters Filters) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if filters.ProductType != "" && !strings.EqualFold(p.ProductType, filters.ProductType) {
			continue
		}
		if filters.Tag != "" && !p.HasTag(filters.Tag) {
			continue
		}
		out = append(out, p)
	}

	switch filters.SortBy {
	case SortTitle:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.Cents < out[j].Price.Cents })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.Cents > out[j].Price.Cents })
	}

	return out
}
