package repository

import (
	"context"

	"github.com/jschof1/val-des-roses/internal/domain"
)

// CartRepository defines the interface for cart persistence operations.
// Implementations treat a corrupt stored snapshot as absent rather than
// failing: the cart is client-recoverable state, not a ledger.
type CartRepository interface {
	// Get retrieves a cart by its session ID.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)

	// Save persists a cart, overwriting any existing cart for the session.
	// The stored Version is incremented on every successful save.
	Save(ctx context.Context, cart *domain.Cart) error

	// SaveIfVersion persists the cart only if the stored version still equals
	// expectedVersion. Returns false without error on a version mismatch.
	SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) (bool, error)

	// Delete removes a cart from the store by session ID.
	Delete(ctx context.Context, sessionID string) error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}
