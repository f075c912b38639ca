package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/cardboardcraft/storefront/internal/domain/cart"
)

// cartSlotPrefix namespaces the per-session cart slots in Redis. The slot
// holds the serialized line sequence and is overwritten wholesale on every
// mutation.
const cartSlotPrefix = "cardboard-cart:"

// CartSlots hands out session-bound cart persisters backed by Redis.
type CartSlots struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartSlots returns a CartSlots store. ttl bounds how long an untouched
// session cart survives; every write refreshes it.
func NewCartSlots(client *redis.Client, ttl time.Duration) *CartSlots {
	return &CartSlots{client: client, ttl: ttl}
}

// Slot returns the cart.Persister for one session.
func (s *CartSlots) Slot(sessionID string) cart.Persister {
	return &cartSlot{
		client: s.client,
		key:    cartSlotPrefix + sessionID,
		ttl:    s.ttl,
	}
}

var _ cart.Persister = (*cartSlot)(nil)

type cartSlot struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// Load reads the slot. A missing key means no snapshot and yields (nil, nil);
// an undecodable payload surfaces as cart.ErrCorruptSnapshot so the store
// can discard it.
func (s *cartSlot) Load(ctx context.Context) ([]cart.Line, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cart slot %q: %w", s.key, err)
	}

	lines, err := cart.UnmarshalLines(data)
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// Save overwrites the slot with the new line sequence and refreshes its TTL.
func (s *cartSlot) Save(ctx context.Context, lines []cart.Line) error {
	data, err := cart.MarshalLines(lines)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("writing cart slot %q: %w", s.key, err)
	}
	return nil
}
