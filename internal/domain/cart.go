package domain

import (
	"encoding/json"
	"time"
)

// Cart represents a shopping cart bound to a storefront session.
//
// Subtotal and total quantity are derived from the lines on demand. The
// persisted snapshot carries them for observability, but they are ignored
// when a snapshot is loaded.
type Cart struct {
	SessionID   string     `json:"session_id"`
	Items       []LineItem `json:"items"`
	Currency    string     `json:"currency"`
	CheckoutID  string     `json:"checkout_id,omitempty"`
	CheckoutURL string     `json:"checkout_url,omitempty"`
	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
}

type cartJSON struct {
	SessionID     string     `json:"session_id"`
	Items         []LineItem `json:"items"`
	Currency      string     `json:"currency"`
	Subtotal      Money      `json:"subtotal"`
	TotalQuantity int        `json:"total_quantity"`
	CheckoutID    string     `json:"checkout_id,omitempty"`
	CheckoutURL   string     `json:"checkout_url,omitempty"`
	Version       int        `json:"version"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	ExpiresAt     time.Time  `json:"expires_at"`
}

// MarshalJSON includes the derived subtotal and total_quantity in the
// serialized form.
func (c Cart) MarshalJSON() ([]byte, error) {
	return json.Marshal(cartJSON{
		SessionID:     c.SessionID,
		Items:         c.Items,
		Currency:      c.Currency,
		Subtotal:      c.Subtotal(),
		TotalQuantity: c.TotalQuantity(),
		CheckoutID:    c.CheckoutID,
		CheckoutURL:   c.CheckoutURL,
		Version:       c.Version,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
		ExpiresAt:     c.ExpiresAt,
	})
}

// UnmarshalJSON discards the persisted subtotal and total_quantity; the
// aggregates are recomputed from the lines.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var raw cartJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Cart{
		SessionID:   raw.SessionID,
		Items:       raw.Items,
		Currency:    raw.Currency,
		CheckoutID:  raw.CheckoutID,
		CheckoutURL: raw.CheckoutURL,
		Version:     raw.Version,
		CreatedAt:   raw.CreatedAt,
		UpdatedAt:   raw.UpdatedAt,
		ExpiresAt:   raw.ExpiresAt,
	}
	return nil
}

// LineItem represents a single merged line in the cart. Lines are keyed by
// variant: adding the same variant again increases the quantity of the
// existing line instead of appending a new one.
type LineItem struct {
	ID        string `json:"id"`
	VariantID string `json:"variant_id"`
	Title     string `json:"title"`
	UnitPrice Money  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	ImageURL  string `json:"image_url,omitempty"`
	Handle    string `json:"handle,omitempty"`
}

// CheckoutSession holds the identifiers of a checkout created on the commerce
// platform. WebURL is where the customer completes payment.
type CheckoutSession struct {
	CheckoutID string `json:"checkout_id"`
	WebURL     string `json:"web_url"`
}

// Subtotal returns the sum of unit price times quantity over all lines.
// The aggregate is always derived from the lines, never stored.
func (c *Cart) Subtotal() Money {
	total := Money{CurrencyCode: c.Currency}
	for _, item := range c.Items {
		total.Cents += item.UnitPrice.Cents * int64(item.Quantity)
	}
	return total
}

// TotalQuantity returns the total number of units across all lines.
func (c *Cart) TotalQuantity() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// FindItemIndex returns the index of the line matching the given variant ID.
// Returns -1 if not found.
func (c *Cart) FindItemIndex(variantID string) int {
	for i := range c.Items {
		if c.Items[i].VariantID == variantID {
			return i
		}
	}
	return -1
}

// FindLineIndex returns the index of the line with the given line ID.
// Returns -1 if not found.
func (c *Cart) FindLineIndex(lineID string) int {
	for i := range c.Items {
		if c.Items[i].ID == lineID {
			return i
		}
	}
	return -1
}

// LineTotal returns the extended price of a single line.
func (li LineItem) LineTotal() Money {
	return li.UnitPrice.Mul(li.Quantity)
}
