// Package handler exposes the storefront JSON API over net/http.
package handler

import (
	"net/http"

	"github.com/cardboardcraft/storefront/internal/cartsession"
	"github.com/cardboardcraft/storefront/internal/domain/order"
	"github.com/cardboardcraft/storefront/internal/domain/product"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// ImageBaseURL is prepended to relative image paths in product and cart
	// responses. When empty, image paths are returned as stored.
	ImageBaseURL string
}

// Handler serves the storefront API, delegating to the product repository,
// the per-session cart registry, and the order service.
type Handler struct {
	products     product.Repository
	carts        *cartsession.Manager
	orders       *order.Service
	imageBaseURL string
}

// New constructs a Handler with the required dependencies.
func New(
	cfg Config,
	products product.Repository,
	carts *cartsession.Manager,
	orders *order.Service,
) *Handler {
	return &Handler{
		products:     products,
		carts:        carts,
		orders:       orders,
		imageBaseURL: cfg.ImageBaseURL,
	}
}

// Routes returns the API route table.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)

	mux.HandleFunc("GET /api/cart", h.GetCart)
	mux.HandleFunc("POST /api/cart/items", h.AddCartItem)
	mux.HandleFunc("PUT /api/cart/items/{id}", h.UpdateCartItem)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.RemoveCartItem)
	mux.HandleFunc("DELETE /api/cart", h.ClearCart)

	mux.HandleFunc("POST /api/checkout", h.Checkout)
	mux.HandleFunc("GET /api/order-confirmation", h.OrderConfirmation)

	return mux
}
