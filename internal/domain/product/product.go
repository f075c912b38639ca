package product

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase. Price is kept in
// minor currency units (cents) so monetary arithmetic stays exact.
type Product struct {
	ID          int64
	Name        string
	Price       int64
	ImageURL    string
	Description string
	Category    string
	InStock     bool
}

// Repository defines read operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
}
