package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jschof1/val-des-roses/internal/domain"
	apperrors "github.com/jschof1/val-des-roses/pkg/errors"
)

const keyPrefix = "cart:"

// saveIfVersionScript atomically compares the stored cart version against the
// expected one and overwrites the key only on a match. A missing key matches
// expected version 0.
var saveIfVersionScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
local expected = tonumber(ARGV[2])
if current then
  local ok, decoded = pcall(cjson.decode, current)
  if ok and tonumber(decoded['version']) ~= expected then
    return 0
  end
elseif expected ~= 0 then
  return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`)

// CartRepository implements repository.CartRepository using Redis.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartRepository creates a new Redis-backed cart repository.
func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepository {
	return &CartRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves a cart by session ID from Redis. A corrupt snapshot is
// deleted and reported as not found so a fresh cart replaces it.
func (r *CartRepository) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	key := keyPrefix + sessionID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("cart", sessionID)
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		_ = r.client.Del(ctx, key).Err()
		return nil, apperrors.NotFound("cart", sessionID)
	}

	return &cart, nil
}

// Save persists a cart to Redis with the configured TTL, bumping its version.
func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	key := keyPrefix + cart.SessionID
	cart.Version++

	data, err := json.Marshal(cart)
	if err != nil {
		cart.Version--
		return fmt.Errorf("marshal cart: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		cart.Version--
		return fmt.Errorf("redis set cart: %w", err)
	}

	return nil
}

// SaveIfVersion persists the cart only when the stored version still equals
// expectedVersion. Returns false without error when another writer won.
func (r *CartRepository) SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) (bool, error) {
	key := keyPrefix + cart.SessionID
	cart.Version = expectedVersion + 1

	data, err := json.Marshal(cart)
	if err != nil {
		cart.Version = expectedVersion
		return false, fmt.Errorf("marshal cart: %w", err)
	}

	res, err := saveIfVersionScript.Run(ctx, r.client,
		[]string{key}, data, expectedVersion, r.ttl.Milliseconds()).Int()
	if err != nil {
		cart.Version = expectedVersion
		return false, fmt.Errorf("redis save cart if version: %w", err)
	}
	if res != 1 {
		cart.Version = expectedVersion
		return false, nil
	}

	return true, nil
}

// Delete removes a cart from Redis by session ID.
func (r *CartRepository) Delete(ctx context.Context, sessionID string) error {
	key := keyPrefix + sessionID

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}

	return nil
}

// Ping verifies Redis connectivity.
func (r *CartRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
