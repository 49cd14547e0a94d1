package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/jschof1/val-des-roses/internal/domain"
	"github.com/jschof1/val-des-roses/pkg/httpclient"
)

const defaultAPIVersion = "2023-10"

// accessTokenHeader authenticates storefront API calls. The token is a
// public storefront token, not an admin credential.
const accessTokenHeader = "X-Storefront-Access-Token"

// HTTPClient talks to the hosted commerce platform's storefront REST API.
type HTTPClient struct {
	doer        HTTPDoer
	baseURL     string
	accessToken string
	logger      *slog.Logger
}

// NewHTTPClient creates a storefront API client for the given platform
// domain and access token.
func NewHTTPClient(cfg Config, doer HTTPDoer, logger *slog.Logger) *HTTPClient {
	version := cfg.APIVersion
	if version == "" {
		version = defaultAPIVersion
	}
	return &HTTPClient{
		doer:        doer,
		baseURL:     fmt.Sprintf("https://%s/api/%s", cfg.Domain, version),
		accessToken: cfg.AccessToken,
		logger:      logger,
	}
}

type imagePayload struct {
	Src     string `json:"src"`
	AltText string `json:"altText"`
}

type variantPayload struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Price     domain.Money `json:"price"`
	Available bool         `json:"available"`
}

type productPayload struct {
	ID          string           `json:"id"`
	Handle      string           `json:"handle"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	ProductType string           `json:"productType"`
	Tags        []string         `json:"tags"`
	Available   bool             `json:"available"`
	Images      []imagePayload   `json:"images"`
	Variants    []variantPayload `json:"variants"`
}

type collectionPayload struct {
	ID          string           `json:"id"`
	Handle      string           `json:"handle"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Image       *imagePayload    `json:"image"`
	Products    []productPayload `json:"products"`
}

type checkoutPayload struct {
	ID     string `json:"id"`
	WebURL string `json:"webUrl"`
}

func (p productPayload) toDomain() domain.Product {
	out := domain.Product{
		ID:          p.ID,
		Handle:      p.Handle,
		Title:       p.Title,
		Description: p.Description,
		ProductType: p.ProductType,
		Tags:        p.Tags,
		Available:   p.Available,
	}
	if len(p.Images) > 0 {
		out.ImageURL = p.Images[0].Src
	}
	out.Variants = make([]domain.Variant, len(p.Variants))
	for i, v := range p.Variants {
		out.Variants[i] = domain.Variant{
			ID:        v.ID,
			Title:     v.Title,
			Price:     v.Price,
			Available: v.Available,
		}
	}
	if len(out.Variants) > 0 {
		out.Price = out.Variants[0].Price
	}
	return out
}

func (c collectionPayload) toDomain() domain.Collection {
	out := domain.Collection{
		ID:          c.ID,
		Handle:      c.Handle,
		Title:       c.Title,
		Description: c.Description,
	}
	if c.Image != nil {
		out.ImageURL = c.Image.Src
	}
	out.Products = make([]domain.Product, len(c.Products))
	for i, p := range c.Products {
		out.Products[i] = p.toDomain()
	}
	return out
}

func (c checkoutPayload) toDomain() *domain.CheckoutSession {
	return &domain.CheckoutSession{CheckoutID: c.ID, WebURL: c.WebURL}
}

// FetchAllProducts retrieves the full product catalog.
func (c *HTTPClient) FetchAllProducts(ctx context.Context) ([]domain.Product, error) {
	var out struct {
		Products []productPayload `json:"products"`
	}
	if err := c.get(ctx, "/products", &out); err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}

	products := make([]domain.Product, len(out.Products))
	for i, p := range out.Products {
		products[i] = p.toDomain()
	}
	return products, nil
}

// FetchProductByHandle retrieves a single product by its URL handle.
func (c *HTTPClient) FetchProductByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	var out struct {
		Product productPayload `json:"product"`
	}
	if err := c.get(ctx, "/products/"+url.PathEscape(handle), &out); err != nil {
		return nil, fmt.Errorf("fetch product %q: %w", handle, err)
	}

	product := out.Product.toDomain()
	return &product, nil
}

// FetchAllCollections retrieves the curated collections with their products.
func (c *HTTPClient) FetchAllCollections(ctx context.Context) ([]domain.Collection, error) {
	var out struct {
		Collections []collectionPayload `json:"collections"`
	}
	if err := c.get(ctx, "/collections", &out); err != nil {
		return nil, fmt.Errorf("fetch collections: %w", err)
	}

	collections := make([]domain.Collection, len(out.Collections))
	for i, col := range out.Collections {
		collections[i] = col.toDomain()
	}
	return collections, nil
}

// CreateCheckout creates an empty checkout session on the platform.
func (c *HTTPClient) CreateCheckout(ctx context.Context) (*domain.CheckoutSession, error) {
	var out struct {
		Checkout checkoutPayload `json:"checkout"`
	}
	if err := c.post(ctx, "/checkouts", nil, &out); err != nil {
		return nil, fmt.Errorf("create checkout: %w", err)
	}

	c.logger.InfoContext(ctx, "checkout created",
		slog.String("checkout_id", out.Checkout.ID),
	)
	return out.Checkout.toDomain(), nil
}

// AddLineItems appends lines to an existing checkout and returns the
// updated session. The platform returns a fresh webUrl on each call.
func (c *HTTPClient) AddLineItems(ctx context.Context, checkoutID string, items []LineItemInput) (*domain.CheckoutSession, error) {
	in := struct {
		LineItems []LineItemInput `json:"lineItems"`
	}{LineItems: items}

	var out struct {
		Checkout checkoutPayload `json:"checkout"`
	}
	if err := c.post(ctx, "/checkouts/"+url.PathEscape(checkoutID)+"/line_items", in, &out); err != nil {
		return nil, fmt.Errorf("add line items to checkout %q: %w", checkoutID, err)
	}
	return out.Checkout.toDomain(), nil
}

// FetchCheckout retrieves an existing checkout session.
func (c *HTTPClient) FetchCheckout(ctx context.Context, checkoutID string) (*domain.CheckoutSession, error) {
	var out struct {
		Checkout checkoutPayload `json:"checkout"`
	}
	if err := c.get(ctx, "/checkouts/"+url.PathEscape(checkoutID), &out); err != nil {
		return nil, fmt.Errorf("fetch checkout %q: %w", checkoutID, err)
	}
	return out.Checkout.toDomain(), nil
}

func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(ctx, req, out)
}

func (c *HTTPClient) post(ctx context.Context, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(ctx, req, out)
}

func (c *HTTPClient) do(ctx context.Context, req *http.Request, out any) error {
	req.Header.Set(accessTokenHeader, c.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("call storefront api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return httpclient.ParseResponseError(resp, "storefront")
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode storefront response: %w", err)
		}
	}
	return nil
}
