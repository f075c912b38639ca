package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/cardboardcraft/storefront/internal/domain/order"
)

const draftSlotPrefix = "order-info:"

var _ order.DraftRepository = (*OrderDraftRepository)(nil)

// OrderDraftRepository implements order.DraftRepository as a transient Redis
// slot: one draft per session, written at submit time, read once by the
// confirmation screen, expiring with the session TTL.
type OrderDraftRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewOrderDraftRepository returns an OrderDraftRepository using the given
// client.
func NewOrderDraftRepository(client *redis.Client, ttl time.Duration) *OrderDraftRepository {
	return &OrderDraftRepository{client: client, ttl: ttl}
}

// Put overwrites the session's draft slot.
func (r *OrderDraftRepository) Put(ctx context.Context, sessionID string, info *order.Info) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshaling order draft: %w", err)
	}

	key := draftSlotPrefix + sessionID
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("writing order draft %q: %w", key, err)
	}
	return nil
}

// Get reads the session's draft slot. A missing or undecodable draft is
// order.ErrNoDraft: the confirmation screen treats both as "no order in
// progress".
func (r *OrderDraftRepository) Get(ctx context.Context, sessionID string) (*order.Info, error) {
	key := draftSlotPrefix + sessionID

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, order.ErrNoDraft
	}
	if err != nil {
		return nil, fmt.Errorf("reading order draft %q: %w", key, err)
	}

	var info order.Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, order.ErrNoDraft
	}
	return &info, nil
}
