package commerce

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jschof1/val-des-roses/internal/domain"
)

// LineItemInput is a single line the cart propagates to a checkout on the
// commerce platform.
type LineItemInput struct {
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

// Client is the storefront's view of the hosted commerce platform: the
// product catalog read path plus checkout session management.
type Client interface {
	FetchAllProducts(ctx context.Context) ([]domain.Product, error)
	FetchProductByHandle(ctx context.Context, handle string) (*domain.Product, error)
	FetchAllCollections(ctx context.Context) ([]domain.Collection, error)
	CreateCheckout(ctx context.Context) (*domain.CheckoutSession, error)
	AddLineItems(ctx context.Context, checkoutID string, items []LineItemInput) (*domain.CheckoutSession, error)
	FetchCheckout(ctx context.Context, checkoutID string) (*domain.CheckoutSession, error)
}

// HTTPDoer is the interface for executing HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Config holds the commerce platform connection settings.
type Config struct {
	Domain      string
	AccessToken string
	APIVersion  string
}

// IsConfigured reports whether the platform credentials look real.
// Placeholder values from a copied env template count as unconfigured.
func (c Config) IsConfigured() bool {
	if c.Domain == "" || c.AccessToken == "" {
		return false
	}
	if strings.Contains(c.Domain, "placeholder") || strings.Contains(c.AccessToken, "placeholder") {
		return false
	}
	return true
}

// New returns the HTTP client when the platform is configured, and the
// built-in demo catalog otherwise.
func New(cfg Config, doer HTTPDoer, logger *slog.Logger) Client {
	if !cfg.IsConfigured() {
		logger.Info("commerce platform not configured, serving demo catalog")
		return NewDemo(logger)
	}
	return NewHTTPClient(cfg, doer, logger)
}
