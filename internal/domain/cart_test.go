package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCart() *Cart {
	return &Cart{
		SessionID: "sess-1",
		Currency:  "EUR",
		Items: []LineItem{
			{ID: "line-1", VariantID: "var-damascena", Title: "Heritage Rosa Damascena", UnitPrice: NewMoney(4500, "EUR"), Quantity: 2},
			{ID: "line-2", VariantID: "var-gallica", Title: "Gallica Officinalis", UnitPrice: NewMoney(5200, "EUR"), Quantity: 1},
		},
	}
}

func TestCart_Subtotal(t *testing.T) {
	cart := testCart()
	subtotal := cart.Subtotal()

	assert.Equal(t, int64(14200), subtotal.Cents)
	assert.Equal(t, "EUR", subtotal.CurrencyCode)
	assert.Equal(t, "142.00", subtotal.Amount())
}

func TestCart_Subtotal_Empty(t *testing.T) {
	cart := &Cart{SessionID: "sess-1", Currency: "EUR", Items: []LineItem{}}
	assert.True(t, cart.Subtotal().IsZero())
}

func TestCart_TotalQuantity(t *testing.T) {
	assert.Equal(t, 3, testCart().TotalQuantity())
}

func TestCart_IsEmpty(t *testing.T) {
	assert.False(t, testCart().IsEmpty())
	assert.True(t, (&Cart{}).IsEmpty())
}

func TestCart_FindItemIndex(t *testing.T) {
	cart := testCart()
	assert.Equal(t, 0, cart.FindItemIndex("var-damascena"))
	assert.Equal(t, 1, cart.FindItemIndex("var-gallica"))
	assert.Equal(t, -1, cart.FindItemIndex("var-unknown"))
}

func TestLineItem_LineTotal(t *testing.T) {
	li := LineItem{UnitPrice: NewMoney(4500, "EUR"), Quantity: 3}
	total := li.LineTotal()
	assert.Equal(t, int64(13500), total.Cents)
}

func TestCart_MarshalJSON_IncludesDerivedAggregates(t *testing.T) {
	data, err := json.Marshal(testCart())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	subtotal, ok := raw["subtotal"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "142.00", subtotal["amount"])
	assert.Equal(t, float64(3), raw["total_quantity"])
}

func TestCart_UnmarshalJSON_DiscardsPersistedAggregates(t *testing.T) {
	// A tampered snapshot claims a subtotal and quantity that do not
	// match the lines; both are recomputed from the lines on load.
	snapshot := `{
		"session_id": "sess-1",
		"currency": "EUR",
		"items": [
			{"id": "line-1", "variant_id": "var-damascena", "title": "Heritage Rosa Damascena",
			 "unit_price": {"amount": "45.00", "currencyCode": "EUR"}, "quantity": 2}
		],
		"subtotal": {"amount": "9999.00", "currencyCode": "EUR"},
		"total_quantity": 99,
		"version": 4
	}`

	var cart Cart
	require.NoError(t, json.Unmarshal([]byte(snapshot), &cart))

	assert.Equal(t, int64(9000), cart.Subtotal().Cents)
	assert.Equal(t, 2, cart.TotalQuantity())
	assert.Equal(t, 4, cart.Version)
}
