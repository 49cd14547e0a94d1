package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jschof1/val-des-roses/internal/commerce"
	"github.com/jschof1/val-des-roses/internal/domain"
	"github.com/jschof1/val-des-roses/internal/event"
	"github.com/jschof1/val-des-roses/internal/repository"
	apperrors "github.com/jschof1/val-des-roses/pkg/errors"
)

// Cart operation upper-bound limits to prevent abuse.
const (
	// MaxQuantityPerItem is the maximum quantity allowed for a single cart line.
	MaxQuantityPerItem = 100
	// MaxItemsPerCart is the maximum number of distinct lines allowed in a cart.
	MaxItemsPerCart = 50
	// MaxPriceCents is the maximum unit price in cents (100,000.00) allowed per line.
	MaxPriceCents = 100_000_00
)

// Notifier is the narrow capability the store uses to surface user-facing
// messages. Supplied at construction so the store never reaches into the
// notification channel directly.
type Notifier interface {
	Success(title, message string) *domain.Notification
	SuccessWithAction(title, message string, action *domain.NotificationAction) *domain.Notification
	Error(title, message string) *domain.Notification
}

// AddItemInput holds the parameters for adding a line to the cart.
// Amounts arrive as decimal strings, the format the storefront API speaks.
type AddItemInput struct {
	VariantID    string `json:"variant_id" validate:"required"`
	Title        string `json:"title" validate:"required"`
	Amount       string `json:"amount" validate:"required"`
	CurrencyCode string `json:"currency_code" validate:"required,len=3"`
	Quantity     int    `json:"quantity" validate:"required,gte=1"`
	ImageURL     string `json:"image_url" validate:"omitempty,url"`
	Handle       string `json:"handle"`
}

// Store owns the cart state for a single storefront session: the line
// items, the checkout identifiers, and the cart panel visibility flag.
// All mutations go through it.
//
// The policy is local-first, remote-best-effort: a mutation commits to the
// in-memory cart after validation; persistence, event publishing, and
// remote checkout propagation are best-effort and never roll back the
// local state.
type Store struct {
	sessionID string
	repo      repository.CartRepository
	notifier  Notifier
	commerce  commerce.Client
	producer  *event.Producer
	logger    *slog.Logger
	cartTTL   time.Duration

	rehydrateOnce sync.Once

	mu               sync.Mutex
	cart             *domain.Cart
	isOpen           bool
	checkoutInFlight bool
}

// Deps bundles the collaborators shared by every session store.
type Deps struct {
	Repo     repository.CartRepository
	Commerce commerce.Client
	Producer *event.Producer
	Logger   *slog.Logger
	CartTTL  time.Duration
}

// NewStore creates a store for the given session with an empty cart.
// Call Rehydrate to restore a persisted snapshot.
func NewStore(sessionID string, notifier Notifier, deps Deps) *Store {
	s := &Store{
		sessionID: sessionID,
		repo:      deps.Repo,
		notifier:  notifier,
		commerce:  deps.Commerce,
		producer:  deps.Producer,
		logger:    deps.Logger,
		cartTTL:   deps.CartTTL,
	}
	s.cart = s.newEmptyCart()
	return s
}

// Rehydrate restores the persisted cart snapshot for this session.
// A missing or corrupt snapshot and a failing repository all fail open to
// the empty cart: persistence problems never break the session.
//
// It runs at most once per store. Concurrent callers block until the
// first load completes, so a mutation can never commit against the empty
// cart and then be clobbered by a snapshot that was still in flight.
func (s *Store) Rehydrate(ctx context.Context) {
	s.rehydrateOnce.Do(func() { s.rehydrate(ctx) })
}

func (s *Store) rehydrate(ctx context.Context) {
	cart, err := s.repo.Get(ctx, s.sessionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.ErrorContext(ctx, "failed to rehydrate cart, starting empty",
				slog.String("session_id", s.sessionID),
				slog.String("error", err.Error()),
			)
		}
		return
	}

	s.mu.Lock()
	s.cart = cart
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "cart rehydrated",
		slog.String("session_id", s.sessionID),
		slog.Int("items", len(cart.Items)),
	)
}

// Cart returns a snapshot copy of the current cart.
func (s *Store) Cart() *domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// IsOpen reports whether the cart panel is presented.
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isOpen
}

// Open presents the cart panel.
func (s *Store) Open() {
	s.mu.Lock()
	s.isOpen = true
	s.mu.Unlock()
}

// Close hides the cart panel.
func (s *Store) Close() {
	s.mu.Lock()
	s.isOpen = false
	s.mu.Unlock()
}

// Toggle flips the cart panel visibility.
func (s *Store) Toggle() {
	s.mu.Lock()
	s.isOpen = !s.isOpen
	s.mu.Unlock()
}

// AddItem adds a line to the cart. A line with the same variant ID is
// merged by increasing its quantity; otherwise a new line is inserted
// with a fresh ID. On success the customer gets a notification with a
// view-cart action, and an active checkout session is updated remotely
// on a best-effort basis.
func (s *Store) AddItem(ctx context.Context, input AddItemInput) (*domain.Cart, error) {
	if input.VariantID == "" {
		return nil, apperrors.InvalidInput("variant id is required")
	}
	if input.Title == "" {
		return nil, apperrors.InvalidInput("title is required")
	}
	if input.Quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be greater than 0")
	}
	if input.Quantity > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	price, err := domain.ParseMoney(input.Amount, input.CurrencyCode)
	if err != nil {
		return nil, err
	}
	if price.Cents < 0 {
		return nil, apperrors.InvalidInput("price must not be negative")
	}
	if price.Cents > MaxPriceCents {
		return nil, apperrors.InvalidInput(fmt.Sprintf("price must not exceed %d cents", MaxPriceCents))
	}

	s.mu.Lock()

	if s.cart.Currency != "" && !s.cart.IsEmpty() && s.cart.Currency != price.CurrencyCode {
		s.mu.Unlock()
		return nil, apperrors.InvalidInput(
			fmt.Sprintf("cart is priced in %s, cannot add %s item", s.cart.Currency, price.CurrencyCode))
	}

	if idx := s.cart.FindItemIndex(input.VariantID); idx >= 0 {
		newQty := s.cart.Items[idx].Quantity + input.Quantity
		if newQty > MaxQuantityPerItem {
			s.mu.Unlock()
			return nil, apperrors.InvalidInput(fmt.Sprintf("combined quantity must not exceed %d", MaxQuantityPerItem))
		}
		// Only the quantity changes on a merge. The title and unit price
		// were captured when the line was first added and stay fixed even
		// if the storefront now shows a different price.
		s.cart.Items[idx].Quantity = newQty
	} else {
		if len(s.cart.Items) >= MaxItemsPerCart {
			s.mu.Unlock()
			return nil, apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d items", MaxItemsPerCart))
		}
		s.cart.Items = append(s.cart.Items, domain.LineItem{
			ID:        uuid.New().String(),
			VariantID: input.VariantID,
			Title:     input.Title,
			UnitPrice: price,
			Quantity:  input.Quantity,
			ImageURL:  input.ImageURL,
			Handle:    input.Handle,
		})
	}
	s.cart.Currency = price.CurrencyCode

	s.touchLocked()
	s.persistLocked(ctx)
	snapshot := s.snapshotLocked()
	checkoutID := s.cart.CheckoutID
	s.mu.Unlock()

	s.notifier.SuccessWithAction("Added to cart",
		fmt.Sprintf("%s has been added to your cart", input.Title),
		&domain.NotificationAction{Label: "View Cart", URL: "/cart"},
	)

	if checkoutID != "" {
		// The local cart is the source of truth until checkout; the
		// remote session is kept in sync opportunistically.
		if _, err := s.commerce.AddLineItems(ctx, checkoutID, []commerce.LineItemInput{
			{VariantID: input.VariantID, Quantity: input.Quantity},
		}); err != nil {
			s.logger.ErrorContext(ctx, "failed to propagate line to checkout session",
				slog.String("session_id", s.sessionID),
				slog.String("checkout_id", checkoutID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.publishUpdated(ctx, snapshot)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("session_id", s.sessionID),
		slog.String("variant_id", input.VariantID),
		slog.Int("quantity", input.Quantity),
	)

	return snapshot, nil
}

// RemoveItem removes the line with the given line ID. Removing an
// unknown line is a no-op.
func (s *Store) RemoveItem(ctx context.Context, lineID string) *domain.Cart {
	s.mu.Lock()

	idx := s.cart.FindLineIndex(lineID)
	if idx < 0 {
		snapshot := s.snapshotLocked()
		s.mu.Unlock()
		return snapshot
	}

	variantID := s.cart.Items[idx].VariantID
	s.cart.Items = append(s.cart.Items[:idx], s.cart.Items[idx+1:]...)
	s.touchLocked()
	s.persistLocked(ctx)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.publishUpdated(ctx, snapshot)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("session_id", s.sessionID),
		slog.String("variant_id", variantID),
	)

	return snapshot
}

// UpdateQuantity sets the quantity of the line with the given line ID.
// A quantity of zero or less removes the line. Updating an unknown line
// is a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, lineID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, lineID), nil
	}
	if quantity > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	s.mu.Lock()

	idx := s.cart.FindLineIndex(lineID)
	if idx < 0 {
		snapshot := s.snapshotLocked()
		s.mu.Unlock()
		return snapshot, nil
	}

	s.cart.Items[idx].Quantity = quantity
	s.touchLocked()
	s.persistLocked(ctx)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.publishUpdated(ctx, snapshot)

	s.logger.InfoContext(ctx, "cart line quantity updated",
		slog.String("session_id", s.sessionID),
		slog.String("line_id", lineID),
		slog.Int("quantity", quantity),
	)

	return snapshot, nil
}

// Clear empties the cart, drops the checkout identifiers, and deletes the
// persisted snapshot so no stale checkout reference can be rehydrated.
func (s *Store) Clear(ctx context.Context) *domain.Cart {
	s.mu.Lock()
	s.cart = s.newEmptyCart()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.repo.Delete(ctx, s.sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete cart snapshot",
			slog.String("session_id", s.sessionID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishCartCleared(ctx, s.sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", s.sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("session_id", s.sessionID),
	)

	return snapshot
}

// Checkout creates a checkout session on the commerce platform for the
// current lines and returns the URL the customer is redirected to.
//
// An empty cart is a no-op returning an empty URL. A second call while
// one is in flight returns a conflict; first completion wins. On
// failure the cart is left untouched so the customer can retry.
func (s *Store) Checkout(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.checkoutInFlight {
		s.mu.Unlock()
		return "", apperrors.Conflict("checkout already in progress")
	}
	if s.cart.IsEmpty() {
		s.mu.Unlock()
		s.logger.InfoContext(ctx, "checkout skipped for empty cart",
			slog.String("session_id", s.sessionID),
		)
		return "", nil
	}

	// Lines are a consistent snapshot taken at call start; mutations
	// during the in-flight network calls are not retroactively included.
	lines := make([]commerce.LineItemInput, len(s.cart.Items))
	for i, item := range s.cart.Items {
		lines[i] = commerce.LineItemInput{VariantID: item.VariantID, Quantity: item.Quantity}
	}
	s.checkoutInFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.checkoutInFlight = false
		s.mu.Unlock()
	}()

	checkout, err := s.commerce.CreateCheckout(ctx)
	if err != nil {
		s.notifyCheckoutError(err)
		return "", fmt.Errorf("create checkout: %w", err)
	}
	if checkout == nil {
		err := apperrors.Unavailable("checkout session missing from platform response")
		s.notifyCheckoutError(err)
		return "", err
	}

	updated, err := s.commerce.AddLineItems(ctx, checkout.CheckoutID, lines)
	if err != nil {
		s.notifyCheckoutError(err)
		return "", fmt.Errorf("add line items: %w", err)
	}
	// The platform returns a fresh webUrl with the lines applied;
	// prefer it over the one from the initial create.
	if updated != nil && updated.WebURL != "" {
		checkout = updated
	}
	// A session without a navigation target is useless to the customer.
	// Treat it as a failed checkout and leave the cart untouched.
	if checkout.WebURL == "" {
		err := apperrors.Unavailable("checkout session has no web URL")
		s.notifyCheckoutError(err)
		return "", err
	}

	s.mu.Lock()
	s.cart.CheckoutID = checkout.CheckoutID
	s.cart.CheckoutURL = checkout.WebURL
	s.touchLocked()
	s.persistLocked(ctx)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.producer.PublishCheckoutCreated(ctx, snapshot, checkout); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish checkout.created event",
			slog.String("session_id", s.sessionID),
			slog.String("checkout_id", checkout.CheckoutID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "checkout session created",
		slog.String("session_id", s.sessionID),
		slog.String("checkout_id", checkout.CheckoutID),
		slog.Int("items", len(lines)),
	)

	return checkout.WebURL, nil
}

func (s *Store) notifyCheckoutError(err error) {
	if errors.Is(err, apperrors.ErrNotConfigured) {
		s.notifier.Error("Checkout unavailable",
			"Online checkout is not available yet. Please contact us to complete your order.")
		return
	}
	s.notifier.Error("Checkout Error",
		"There was an error creating your checkout session. Please try again.")
}

// touchLocked stamps the modification and expiry times. Callers hold mu.
func (s *Store) touchLocked() {
	now := time.Now().UTC()
	s.cart.UpdatedAt = now
	s.cart.ExpiresAt = now.Add(s.cartTTL)
}

// persistLocked writes the cart snapshot, preferring a version-checked
// write and falling back to an overwrite when another writer won the
// race. Failures are logged, never surfaced: the in-memory cart keeps
// working for the session even when it cannot persist. Callers hold mu.
func (s *Store) persistLocked(ctx context.Context) {
	expected := s.cart.Version
	ok, err := s.repo.SaveIfVersion(ctx, s.cart, expected)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to persist cart",
			slog.String("session_id", s.sessionID),
			slog.String("error", err.Error()),
		)
		return
	}
	if !ok {
		s.logger.WarnContext(ctx, "cart version conflict, overwriting snapshot",
			slog.String("session_id", s.sessionID),
			slog.Int("expected_version", expected),
		)
		if err := s.repo.Save(ctx, s.cart); err != nil {
			s.logger.ErrorContext(ctx, "failed to persist cart",
				slog.String("session_id", s.sessionID),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (s *Store) publishUpdated(ctx context.Context, cart *domain.Cart) {
	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("session_id", s.sessionID),
			slog.String("error", err.Error()),
		)
	}
}

// snapshotLocked returns a copy of the cart safe to hand out. Callers hold mu.
func (s *Store) snapshotLocked() *domain.Cart {
	copied := *s.cart
	copied.Items = make([]domain.LineItem, len(s.cart.Items))
	copy(copied.Items, s.cart.Items)
	return &copied
}

func (s *Store) newEmptyCart() *domain.Cart {
	now := time.Now().UTC()
	return &domain.Cart{
		SessionID: s.sessionID,
		Items:     []domain.LineItem{},
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.cartTTL),
	}
}
