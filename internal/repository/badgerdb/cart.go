package badgerdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/jschof1/val-des-roses/internal/domain"
	apperrors "github.com/jschof1/val-des-roses/pkg/errors"
)

const keyPrefix = "cart:"

// Open opens a persistent Badger database at the given path, creating the
// directory when needed. Badger's internal logging is disabled; the
// repository callers do their own logging.
func Open(path string) (*badger.DB, error) {
	if path == "" {
		return nil, errors.New("path is required for persistent database")
	}
	if err := os.MkdirAll(path, 0750); err != nil {
		return nil, fmt.Errorf("create database directory %s: %w", path, err)
	}

	opts := badger.DefaultOptions(path).
		WithSyncWrites(true).
		WithNumVersionsToKeep(1).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return db, nil
}

// OpenInMemory opens an in-memory Badger database. Data is lost on close.
func OpenInMemory() (*badger.DB, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return db, nil
}

// CartRepository implements repository.CartRepository on an embedded Badger
// store. It is the single-node alternative to the Redis backend for
// deployments without external infrastructure.
type CartRepository struct {
	db  *badger.DB
	ttl time.Duration
}

// NewCartRepository creates a new Badger-backed cart repository.
func NewCartRepository(db *badger.DB, ttl time.Duration) *CartRepository {
	return &CartRepository{
		db:  db,
		ttl: ttl,
	}
}

// Get retrieves a cart by session ID. A corrupt snapshot is deleted and
// reported as not found so a fresh cart replaces it.
func (r *CartRepository) Get(_ context.Context, sessionID string) (*domain.Cart, error) {
	key := []byte(keyPrefix + sessionID)

	var data []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, apperrors.NotFound("cart", sessionID)
		}
		return nil, fmt.Errorf("badger get cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		_ = r.db.Update(func(txn *badger.Txn) error { return txn.Delete(key) })
		return nil, apperrors.NotFound("cart", sessionID)
	}

	return &cart, nil
}

// Save persists a cart with the configured TTL, bumping its version.
func (r *CartRepository) Save(_ context.Context, cart *domain.Cart) error {
	key := []byte(keyPrefix + cart.SessionID)
	cart.Version++

	data, err := json.Marshal(cart)
	if err != nil {
		cart.Version--
		return fmt.Errorf("marshal cart: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(key, data).WithTTL(r.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		cart.Version--
		return fmt.Errorf("badger set cart: %w", err)
	}

	return nil
}

// SaveIfVersion persists the cart only when the stored version still equals
// expectedVersion. The compare and set run inside a single Badger
// transaction, so concurrent writers serialize cleanly.
func (r *CartRepository) SaveIfVersion(_ context.Context, cart *domain.Cart, expectedVersion int) (bool, error) {
	key := []byte(keyPrefix + cart.SessionID)
	cart.Version = expectedVersion + 1

	data, err := json.Marshal(cart)
	if err != nil {
		cart.Version = expectedVersion
		return false, fmt.Errorf("marshal cart: %w", err)
	}

	mismatch := false
	err = r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			if expectedVersion != 0 {
				mismatch = true
				return nil
			}
		case err != nil:
			return err
		default:
			var stored domain.Cart
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &stored)
			}); err == nil && stored.Version != expectedVersion {
				mismatch = true
				return nil
			}
		}

		entry := badger.NewEntry(key, data).WithTTL(r.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		cart.Version = expectedVersion
		return false, fmt.Errorf("badger save cart if version: %w", err)
	}
	if mismatch {
		cart.Version = expectedVersion
		return false, nil
	}

	return true, nil
}

// Delete removes a cart by session ID. Deleting a missing key is a no-op.
func (r *CartRepository) Delete(_ context.Context, sessionID string) error {
	key := []byte(keyPrefix + sessionID)

	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("badger del cart: %w", err)
	}

	return nil
}

// Ping verifies the database is open.
func (r *CartRepository) Ping(_ context.Context) error {
	if r.db.IsClosed() {
		return errors.New("badger database is closed")
	}
	return nil
}
