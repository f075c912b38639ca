package order

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/go-faster/errors"

	"github.com/cardboardcraft/storefront/internal/domain/cart"
)

// Service assembles order drafts from checkout submissions.
type Service struct {
	drafts DraftRepository
	now    func() time.Time
	randN  func(n int) int
}

// NewService creates an order Service backed by the given draft slot.
func NewService(drafts DraftRepository) *Service {
	return &Service{
		drafts: drafts,
		now:    time.Now,
		randN:  rand.IntN,
	}
}

// Submit validates the checkout form against the current cart snapshot,
// assembles the order draft, and writes it to the session's draft slot.
// The caller clears the cart after a successful submit.
//
// Validation failures come back as FieldErrors; an empty cart as
// ErrEmptyCart. Neither touches the draft slot.
func (s *Service) Submit(ctx context.Context, sessionID string, form CheckoutForm, snap cart.Snapshot) (*Info, error) {
	if len(snap.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	if errs := form.Validate(); len(errs) > 0 {
		return nil, errs
	}

	// Normalize once so the order number's date and CreatedAt can never
	// disagree across a midnight boundary.
	createdAt := s.now().UTC()
	info := &Info{
		CustomerName:   form.CustomerName,
		Phone:          form.Phone,
		Email:          form.Email,
		Address:        form.Address,
		DeliveryMethod: form.DeliveryMethod,
		Notes:          form.Notes,
		OrderNumber:    s.orderNumber(createdAt),
		Items:          snap.Lines,
		TotalAmount:    snap.TotalPrice + ShippingFeeFor(snap.TotalPrice),
		CreatedAt:      createdAt,
	}

	if err := s.drafts.Put(ctx, sessionID, info); err != nil {
		return nil, errors.Wrap(err, "store order draft")
	}

	return info, nil
}

// Confirmation returns the session's order draft, or ErrNoDraft when the
// session has none.
func (s *Service) Confirmation(ctx context.Context, sessionID string) (*Info, error) {
	info, err := s.drafts.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrNoDraft) {
			return nil, ErrNoDraft
		}
		return nil, errors.Wrap(err, "read order draft")
	}
	return info, nil
}

// orderNumber builds a display order number: CCF + date + 3 random digits.
func (s *Service) orderNumber(now time.Time) string {
	return fmt.Sprintf("CCF%s%03d", now.Format("20060102"), s.randN(1000))
}
