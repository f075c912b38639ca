// Package order assembles a checkout submission and the current cart into an
// order draft for the confirmation screen. There is no server-side order
// processing behind it; the draft lives in a transient session slot and
// expires with the session.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/cardboardcraft/storefront/internal/domain/cart"
)

var (
	// ErrNoDraft is returned when the session has no order in progress.
	ErrNoDraft = errors.New("no order in progress")

	// ErrEmptyCart is returned when checkout is submitted with an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
)

// DeliveryMethod enumerates how the customer receives the order.
type DeliveryMethod string

const (
	DeliveryHome   DeliveryMethod = "delivery"
	DeliveryPickup DeliveryMethod = "pickup"
)

// Info is the assembled order draft handed to the confirmation screen.
// TotalAmount includes the shipping fee. The JSON tags define the draft slot
// shape.
type Info struct {
	CustomerName   string         `json:"customerName"`
	Phone          string         `json:"phone"`
	Email          string         `json:"email"`
	Address        string         `json:"address"`
	DeliveryMethod DeliveryMethod `json:"deliveryMethod"`
	Notes          string         `json:"notes,omitempty"`
	OrderNumber    string         `json:"orderNumber"`
	Items          []cart.Line    `json:"items"`
	TotalAmount    int64          `json:"totalAmount"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// DraftRepository is the transient per-session slot holding at most one
// order draft. Get returns ErrNoDraft when the slot is empty.
type DraftRepository interface {
	Put(ctx context.Context, sessionID string, info *Info) error
	Get(ctx context.Context, sessionID string) (*Info, error)
}
