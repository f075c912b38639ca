package handler

import (
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/cardboardcraft/storefront/internal/domain/cart"
	"github.com/cardboardcraft/storefront/internal/domain/product"
)

// GetCart returns the current cart snapshot for the session.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	store, _, err := h.cartStore(r.Context(), w, r)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	snap := store.Snapshot()
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		h.encodeCart(e, snap)
	})
}

// AddCartItem adds a product to the cart, merging quantities when the
// product is already present.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAddItemRequest(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.products.GetByID(r.Context(), req.ProductID)
	switch {
	case errors.Is(err, product.ErrNotFound):
		writeError(w, http.StatusUnprocessableEntity, "unknown product")
		return
	case err != nil:
		writeInternalError(w, r, err)
		return
	}

	store, _, err := h.cartStore(r.Context(), w, r)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	snap, err := store.AddItem(r.Context(), *p, req.Quantity)
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		writeError(w, http.StatusUnprocessableEntity, "quantity must be positive")
		return
	case err != nil:
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		h.encodeCart(e, snap)
	})
}

// UpdateCartItem sets the quantity of a cart line. A quantity of zero or
// less removes the line.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	req, err := decodeSetQuantityRequest(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	store, _, err := h.cartStore(r.Context(), w, r)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	snap, err := store.SetQuantity(r.Context(), id, req.Quantity)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		h.encodeCart(e, snap)
	})
}

// RemoveCartItem drops a cart line. Removing an absent line is a no-op.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	store, _, err := h.cartStore(r.Context(), w, r)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	snap, err := store.RemoveItem(r.Context(), id)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		h.encodeCart(e, snap)
	})
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	store, _, err := h.cartStore(r.Context(), w, r)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	snap, err := store.Clear(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		h.encodeCart(e, snap)
	})
}
