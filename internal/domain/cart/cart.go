// Package cart implements the in-progress order state: an ordered sequence of
// product lines with quantity and subtotal bookkeeping, persisted to a
// session-scoped slot after every mutation.
package cart

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
)

var (
	// ErrInvalidQuantity is returned when AddItem is called with a
	// non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")

	// ErrCorruptSnapshot indicates a persisted cart payload that cannot be
	// decoded or violates line invariants. Callers discard it and start from
	// an empty cart.
	ErrCorruptSnapshot = errors.New("corrupt cart snapshot")
)

// Line is one product-quantity pairing in the cart. UnitPrice is the price
// snapshot taken when the product was first added; a later catalog price
// change never alters a line already in the cart. Subtotal is derived,
// always Quantity * UnitPrice.
//
// The JSON tags define the persisted slot shape and must stay stable across
// releases so existing session snapshots keep loading.
type Line struct {
	ProductID int64  `json:"id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"price_in_cents"`
	ImageURL  string `json:"image_url"`
	Quantity  int    `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

// Snapshot is an immutable copy of the cart state with derived aggregates,
// safe to hand to observers and response encoders.
type Snapshot struct {
	Lines      []Line
	TotalItems int
	TotalPrice int64
}

// Persister is the durable slot the store writes after every mutation and
// reads once on open. Load returns (nil, nil) when no snapshot exists and an
// error wrapping ErrCorruptSnapshot when the stored payload is unusable.
type Persister interface {
	Load(ctx context.Context) ([]Line, error)
	Save(ctx context.Context, lines []Line) error
}

// MarshalLines serializes lines into the slot payload: a JSON array of
// line objects.
func MarshalLines(lines []Line) ([]byte, error) {
	if lines == nil {
		lines = []Line{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return nil, errors.Wrap(err, "marshal cart lines")
	}
	return data, nil
}

// UnmarshalLines decodes a slot payload and validates line invariants.
// Malformed or invariant-violating payloads yield ErrCorruptSnapshot.
func UnmarshalLines(data []byte) ([]Line, error) {
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, errors.Wrapf(ErrCorruptSnapshot, "decode: %v", err)
	}
	if err := validateLines(lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// validateLines enforces the structural invariants of a line sequence:
// positive quantities, non-negative prices, derived subtotals, and at most
// one line per product.
func validateLines(lines []Line) error {
	seen := make(map[int64]struct{}, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			return errors.Wrapf(ErrCorruptSnapshot, "product %d: quantity %d", l.ProductID, l.Quantity)
		}
		if l.UnitPrice < 0 {
			return errors.Wrapf(ErrCorruptSnapshot, "product %d: negative unit price", l.ProductID)
		}
		if l.Subtotal != int64(l.Quantity)*l.UnitPrice {
			return errors.Wrapf(ErrCorruptSnapshot, "product %d: subtotal %d does not match quantity*price", l.ProductID, l.Subtotal)
		}
		if _, dup := seen[l.ProductID]; dup {
			return errors.Wrapf(ErrCorruptSnapshot, "duplicate line for product %d", l.ProductID)
		}
		seen[l.ProductID] = struct{}{}
	}
	return nil
}
