package cart

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/cardboardcraft/storefront/internal/domain/product"
)

// Store is the single source of truth for one session's in-progress order.
//
// Mutations follow replace-not-mutate: each operation builds a fresh line
// sequence, persists it, and only then swaps it in and notifies observers.
// A mutex serializes operations, so every mutation is atomic with respect to
// observers and subsequent calls — the persisted slot and the in-memory
// state never diverge.
type Store struct {
	mu        sync.Mutex
	lines     []Line
	persister Persister
	subs      map[int]func(Snapshot)
	nextSub   int
}

// Open creates a Store hydrated from the persister. A missing snapshot
// yields an empty cart; a corrupt one is logged and discarded, never
// surfaced to the caller. Transport failures are returned as-is.
func Open(ctx context.Context, p Persister, lg *zap.Logger) (*Store, error) {
	s := &Store{
		persister: p,
		subs:      make(map[int]func(Snapshot)),
	}

	lines, err := p.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrCorruptSnapshot) {
			return nil, errors.Wrap(err, "load cart snapshot")
		}
		lg.Warn("Discarding corrupt cart snapshot", zap.Error(err))
		return s, nil
	}

	if err := validateLines(lines); err != nil {
		lg.Warn("Discarding corrupt cart snapshot", zap.Error(err))
		return s, nil
	}

	s.lines = lines
	return s, nil
}

// AddItem adds quantity units of p to the cart. When a line for the product
// already exists its quantity is incremented and the subtotal recomputed
// from the line's stored unit price, keeping the original position.
// Otherwise a new line is appended. Non-positive quantities are rejected.
func (s *Store) AddItem(ctx context.Context, p product.Product, quantity int) (Snapshot, error) {
	if quantity <= 0 {
		return Snapshot{}, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Line, len(s.lines), len(s.lines)+1)
	copy(next, s.lines)

	merged := false
	for i := range next {
		if next[i].ProductID == p.ID {
			next[i].Quantity += quantity
			next[i].Subtotal = int64(next[i].Quantity) * next[i].UnitPrice
			merged = true
			break
		}
	}
	if !merged {
		next = append(next, Line{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			ImageURL:  p.ImageURL,
			Quantity:  quantity,
			Subtotal:  int64(quantity) * p.Price,
		})
	}

	return s.commit(ctx, next)
}

// RemoveItem deletes the line for productID. Removing an absent product is a
// no-op, not an error.
func (s *Store) RemoveItem(ctx context.Context, productID int64) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.removeLocked(ctx, productID)
}

// SetQuantity sets the absolute quantity of the line for productID and
// recomputes its subtotal. A quantity of zero or less behaves exactly like
// RemoveItem, so decrementing a quantity-1 line removes it rather than
// leaving a zero-quantity line. Unknown products are a no-op.
func (s *Store) SetQuantity(ctx context.Context, productID int64, quantity int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		return s.removeLocked(ctx, productID)
	}

	idx := -1
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return snapshotOf(s.lines), nil
	}

	next := make([]Line, len(s.lines))
	copy(next, s.lines)
	next[idx].Quantity = quantity
	next[idx].Subtotal = int64(quantity) * next[idx].UnitPrice

	return s.commit(ctx, next)
}

// Clear empties the cart. Clearing an already-empty cart changes nothing.
func (s *Store) Clear(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.lines) == 0 {
		return snapshotOf(s.lines), nil
	}
	return s.commit(ctx, nil)
}

// Snapshot returns the current line sequence plus derived aggregates. It
// never mutates state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return snapshotOf(s.lines)
}

// Subscribe registers fn to receive the new snapshot after each mutation.
// The returned function deregisters the observer.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// removeLocked deletes the line for productID. Caller must hold s.mu.
func (s *Store) removeLocked(ctx context.Context, productID int64) (Snapshot, error) {
	idx := -1
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return snapshotOf(s.lines), nil
	}

	next := make([]Line, 0, len(s.lines)-1)
	next = append(next, s.lines[:idx]...)
	next = append(next, s.lines[idx+1:]...)

	return s.commit(ctx, next)
}

// commit persists next before swapping it in: if the slot write fails the
// in-memory state is left untouched. Observers run synchronously under the
// lock with the fresh snapshot. Caller must hold s.mu.
func (s *Store) commit(ctx context.Context, next []Line) (Snapshot, error) {
	if err := s.persister.Save(ctx, next); err != nil {
		return Snapshot{}, errors.Wrap(err, "persist cart")
	}

	s.lines = next
	snap := snapshotOf(next)
	for _, fn := range s.subs {
		fn(snap)
	}
	return snap, nil
}

// snapshotOf copies lines and computes the derived aggregates.
func snapshotOf(lines []Line) Snapshot {
	snap := Snapshot{Lines: make([]Line, len(lines))}
	copy(snap.Lines, lines)
	for _, l := range lines {
		snap.TotalItems += l.Quantity
		snap.TotalPrice += l.Subtotal
	}
	return snap
}
