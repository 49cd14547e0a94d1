package commerce

import (
	"context"
	"log/slog"

	"github.com/jschof1/val-des-roses/internal/domain"
	apperrors "github.com/jschof1/val-des-roses/pkg/errors"
)

// Demo serves a built-in rose catalog when no commerce platform is
// configured, so the storefront pages render in development. Checkout
// operations are unavailable in this mode.
type Demo struct {
	logger *slog.Logger
}

// NewDemo creates the demo catalog client.
func NewDemo(logger *slog.Logger) *Demo {
	return &Demo{logger: logger}
}

func demoProducts() []domain.Product {
	eur := func(cents int64) domain.Money { return domain.NewMoney(cents, "EUR") }

	return []domain.Product{
		{
			ID:          "1",
			Handle:      "heritage-rosa-damascena",
			Title:       "Heritage Rosa Damascena",
			Description: "A classic Damask rose with an intoxicating fragrance, cultivated since ancient times.",
			ProductType: "Single Rose",
			Tags:        []string{"heritage", "classic", "pink"},
			Price:       eur(4500),
			ImageURL:    "https://images.unsplash.com/photo-1518895949257-7621c3c786d7?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
			Available:   true,
			Variants:    []domain.Variant{{ID: "1", Title: "Default", Price: eur(4500), Available: true}},
		},
		{
			ID:          "2",
			Handle:      "gallica-officinalis",
			Title:       "Gallica Officinalis",
			Description: "The apothecary rose, steeped in history and known for its medicinal properties.",
			ProductType: "Single Rose",
			Tags:        []string{"historic", "medicinal", "red"},
			Price:       eur(5200),
			ImageURL:    "https://images.unsplash.com/photo-1561181286-d3fee7d55364?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
			Available:   true,
			Variants:    []domain.Variant{{ID: "2", Title: "Default", Price: eur(5200), Available: true}},
		},
		{
			ID:          "3",
			Handle:      "alba-maxima",
			Title:       "Alba Maxima",
			Description: "The great white rose, symbol of purity and elegance.",
			ProductType: "Single Rose",
			Tags:        []string{"white", "elegant", "pure"},
			Price:       eur(4800),
			ImageURL:    "https://images.unsplash.com/photo-1496062031456-07b8f162a322?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
			Available:   true,
			Variants:    []domain.Variant{{ID: "3", Title: "Default", Price: eur(4800), Available: true}},
		},
		{
			ID:          "4",
			Handle:      "luxury-rose-bouquet",
			Title:       "Luxury Rose Bouquet",
			Description: "An exquisite arrangement of our finest preserved roses.",
			ProductType: "Bouquet",
			Tags:        []string{"luxury", "arrangement", "mixed"},
			Price:       eur(12500),
			ImageURL:    "https://images.unsplash.com/photo-1563241527-3004b7be0ffd?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
			Available:   true,
			Variants:    []domain.Variant{{ID: "4", Title: "Default", Price: eur(12500), Available: true}},
		},
		{
			ID:          "5",
			Handle:      "classic-rose-box",
			Title:       "Classic Rose Box",
			Description: "Preserved roses presented in our signature luxury box.",
			ProductType: "Box Arrangement",
			Tags:        []string{"luxury", "box", "gift"},
			Price:       eur(8500),
			ImageURL:    "https://images.unsplash.com/photo-1464349095431-e9a21285b5f3?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
			Available:   true,
			Variants:    []domain.Variant{{ID: "5", Title: "Default", Price: eur(8500), Available: true}},
		},
		{
			ID:          "6",
			Handle:      "vintage-garden-collection",
			Title:       "Vintage Garden Collection",
			Description: "A collection inspired by old English gardens and vintage charm.",
			ProductType: "Collection",
			Tags:        []string{"vintage", "garden", "collection"},
			Price:       eur(9500),
			ImageURL:    "https://images.unsplash.com/photo-1490750967868-88aa4486c946?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
			Available:   true,
			Variants:    []domain.Variant{{ID: "6", Title: "Default", Price: eur(9500), Available: true}},
		},
	}
}

func demoCollections() []domain.Collection {
	byType := func(productType string) []domain.Product {
		var out []domain.Product
		for _, p := range demoProducts() {
			if p.ProductType == productType {
				out = append(out, p)
			}
		}
		return out
	}

	return []domain.Collection{
		{
			ID:          "1",
			Handle:      "single-roses",
			Title:       "Single Roses",
			Description: "Exquisite individual roses, each one a masterpiece of nature.",
			ImageURL:    "https://images.unsplash.com/photo-1518895949257-7621c3c786d7?ixlib=rb-4.0.3&auto=format&fit=crop&w=1200&q=80",
			Products:    byType("Single Rose"),
		},
		{
			ID:          "2",
			Handle:      "bouquets",
			Title:       "Bouquets",
			Description: "Carefully crafted bouquets for special moments and celebrations.",
			ImageURL:    "https://images.unsplash.com/photo-1563241527-3004b7be0ffd?ixlib=rb-4.0.3&auto=format&fit=crop&w=1200&q=80",
			Products:    byType("Bouquet"),
		},
		{
			ID:          "3",
			Handle:      "box-arrangements",
			Title:       "Box Arrangements",
			Description: "Elegant roses presented in our signature luxury boxes.",
			ImageURL:    "https://images.unsplash.com/photo-1464349095431-e9a21285b5f3?ixlib=rb-4.0.3&auto=format&fit=crop&w=1200&q=80",
			Products:    byType("Box Arrangement"),
		},
		{
			ID:          "4",
			Handle:      "collections",
			Title:       "Collections",
			Description: "Curated collections that tell a story of elegance and heritage.",
			ImageURL:    "https://images.unsplash.com/photo-1490750967868-88aa4486c946?ixlib=rb-4.0.3&auto=format&fit=crop&w=1200&q=80",
			Products:    byType("Collection"),
		},
	}
}

// FetchAllProducts returns the demo catalog.
func (d *Demo) FetchAllProducts(ctx context.Context) ([]domain.Product, error) {
	d.logger.DebugContext(ctx, "serving demo products")
	return demoProducts(), nil
}

// FetchProductByHandle finds a demo product by handle.
func (d *Demo) FetchProductByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	for _, p := range demoProducts() {
		if p.Handle == handle {
			return &p, nil
		}
	}
	return nil, apperrors.NotFound("product", handle)
}

// FetchAllCollections returns the demo collections.
func (d *Demo) FetchAllCollections(ctx context.Context) ([]domain.Collection, error) {
	d.logger.DebugContext(ctx, "serving demo collections")
	return demoCollections(), nil
}

// CreateCheckout is unavailable without a configured platform.
func (d *Demo) CreateCheckout(ctx context.Context) (*domain.CheckoutSession, error) {
	return nil, apperrors.NotConfigured("checkout")
}

// AddLineItems is unavailable without a configured platform.
func (d *Demo) AddLineItems(ctx context.Context, checkoutID string, items []LineItemInput) (*domain.CheckoutSession, error) {
	return nil, apperrors.NotConfigured("checkout")
}

// FetchCheckout is unavailable without a configured platform.
func (d *Demo) FetchCheckout(ctx context.Context, checkoutID string) (*domain.CheckoutSession, error) {
	return nil, apperrors.NotConfigured("checkout")
}
