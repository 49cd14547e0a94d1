package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jschof1/val-des-roses/internal/commerce"
	"github.com/jschof1/val-des-roses/internal/domain"
	apperrors "github.com/jschof1/val-des-roses/pkg/errors"
)

type stubClient struct {
	products    []domain.Product
	collections []domain.Collection
	err         error

	productCalls int
}

func (s *stubClient) FetchAllProducts(context.Context) ([]domain.Product, error) {
	s.productCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

func (s *stubClient) FetchProductByHandle(_ context.Context, handle string) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.products {
		if p.Handle == handle {
			return &p, nil
		}
	}
	return nil, apperrors.NotFound("product", handle)
}

func (s *stubClient) FetchAllCollections(context.Context) ([]domain.Collection, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.collections, nil
}

func (s *stubClient) CreateCheckout(context.Context) (*domain.CheckoutSession, error) {
	return nil, apperrors.NotConfigured("checkout")
}

func (s *stubClient) AddLineItems(context.Context, string, []commerce.LineItemInput) (*domain.CheckoutSession, error) {
	return nil, apperrors.NotConfigured("checkout")
}

func (s *stubClient) FetchCheckout(context.Context, string) (*domain.CheckoutSession, error) {
	return nil, apperrors.NotConfigured("checkout")
}

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: "1", Handle: "heritage-rosa-damascena", Title: "Heritage Rosa Damascena",
			ProductType: "Single Rose", Tags: []string{"heritage", "pink"}, Price: domain.NewMoney(4500, "EUR")},
		{ID: "2", Handle: "gallica-officinalis", Title: "Gallica Officinalis",
			ProductType: "Single Rose", Tags: []string{"historic", "red"}, Price: domain.NewMoney(5200, "EUR")},
		{ID: "4", Handle: "luxury-rose-bouquet", Title: "Luxury Rose Bouquet",
			ProductType: "Bouquet", Tags: []string{"luxury"}, Price: domain.NewMoney(12500, "EUR")},
	}
}

func newTestService(t *testing.T, client commerce.Client, withCache bool) *Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var cache *redis.Client
	if withCache {
		mr := miniredis.RunT(t)
		cache = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	}
	return NewService(client, cache, time.Minute, logger)
}

func TestService_ListProducts(t *testing.T) {
	stub := &stubClient{products: testProducts()}
	svc := newTestService(t, stub, false)

	products, err := svc.ListProducts(context.Background(), Filters{})
	require.NoError(t, err)
	assert.Len(t, products, 3)
}

func TestService_ListProducts_FilterByType(t *testing.T) {
	svc := newTestService(t, &stubClient{products: testProducts()}, false)

	products, err := svc.ListProducts(context.Background(), Filters{ProductType: "single rose"})
	require.NoError(t, err)
	require.Len(t, products, 2)
	for _, p := range products {
		assert.Equal(t, "Single Rose", p.ProductType)
	}
}

func TestService_ListProducts_FilterByTag(t *testing.T) {
	svc := newTestService(t, &stubClient{products: testProducts()}, false)

	products, err := svc.ListProducts(context.Background(), Filters{Tag: "luxury"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "luxury-rose-bouquet", products[0].Handle)
}

func TestService_ListProducts_Sort(t *testing.T) {
	svc := newTestService(t, &stubClient{products: testProducts()}, false)
	ctx := context.Background()

	byTitle, err := svc.ListProducts(ctx, Filters{SortBy: SortTitle})
	require.NoError(t, err)
	assert.Equal(t, "Gallica Officinalis", byTitle[0].Title)

	cheapFirst, err := svc.ListProducts(ctx, Filters{SortBy: SortPriceAsc})
	require.NoError(t, err)
	assert.Equal(t, int64(4500), cheapFirst[0].Price.Cents)

	dearFirst, err := svc.ListProducts(ctx, Filters{SortBy: SortPriceDesc})
	require.NoError(t, err)
	assert.Equal(t, int64(12500), dearFirst[0].Price.Cents)
}

func TestService_ListProducts_CachesResult(t *testing.T) {
	stub := &stubClient{products: testProducts()}
	svc := newTestService(t, stub, true)
	ctx := context.Background()

	_, err := svc.ListProducts(ctx, Filters{})
	require.NoError(t, err)
	_, err = svc.ListProducts(ctx, Filters{})
	require.NoError(t, err)

	assert.Equal(t, 1, stub.productCalls)
}

func TestService_ListProducts_CacheDownDegradesToDirectFetch(t *testing.T) {
	stub := &stubClient{products: testProducts()}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewService(stub, cache, time.Minute, logger)
	mr.Close()

	products, err := svc.ListProducts(context.Background(), Filters{})
	require.NoError(t, err)
	assert.Len(t, products, 3)
}

func TestService_ListProducts_PlatformDownServesDemoCatalog(t *testing.T) {
	stub := &stubClient{err: errors.New("upstream down")}
	svc := newTestService(t, stub, false)

	products, err := svc.ListProducts(context.Background(), Filters{})
	require.NoError(t, err)
	require.NotEmpty(t, products)
	assert.Equal(t, "Heritage Rosa Damascena", products[0].Title)
}

func TestService_GetProduct(t *testing.T) {
	svc := newTestService(t, &stubClient{products: testProducts()}, true)
	ctx := context.Background()

	p, err := svc.GetProduct(ctx, "gallica-officinalis")
	require.NoError(t, err)
	assert.Equal(t, "Gallica Officinalis", p.Title)

	// Second read is served from the cache.
	cached, err := svc.GetProduct(ctx, "gallica-officinalis")
	require.NoError(t, err)
	assert.Equal(t, p.Title, cached.Title)
	assert.Equal(t, p.Price.Cents, cached.Price.Cents)
}

func TestService_GetProduct_NotFound(t *testing.T) {
	svc := newTestService(t, &stubClient{products: testProducts()}, false)

	_, err := svc.GetProduct(context.Background(), "no-such-rose")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestService_ListCollections_PlatformDownServesDemo(t *testing.T) {
	svc := newTestService(t, &stubClient{err: errors.New("upstream down")}, false)

	collections, err := svc.ListCollections(context.Background())
	require.NoError(t, err)
	assert.Len(t, collections, 4)
}
