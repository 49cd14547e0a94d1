package domain

// Product represents a sellable product from the commerce platform catalog.
type Product struct {
	ID          string    `json:"id"`
	Handle      string    `json:"handle"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ProductType string    `json:"product_type,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Price       Money     `json:"price"`
	ImageURL    string    `json:"image_url,omitempty"`
	Available   bool      `json:"available"`
	Variants    []Variant `json:"variants"`
}

// Variant is a purchasable variation of a product. Cart lines reference
// variants, not products.
type Variant struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Price     Money  `json:"price"`
	Available bool   `json:"available"`
}

// Collection groups products for the storefront's curated pages.
type Collection struct {
	ID          string    `json:"id"`
	Handle      string    `json:"handle"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Products    []Product `json:"products,omitempty"`
}

// HasTag reports whether the product carries the given tag.
func (p *Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// DefaultVariant returns the first variant, which the storefront treats as
// the default purchase option. Returns false when the product has none.
func (p *Product) DefaultVariant() (Variant, bool) {
	if len(p.Variants) == 0 {
		return Variant{}, false
	}
	return p.Variants[0], true
}
