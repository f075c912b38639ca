package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/cardboardcraft/storefront/internal/domain/order"
)

// Checkout validates the submitted form against the session's cart, stores
// the resulting order draft, and clears the cart.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	form, err := decodeCheckoutRequest(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	store, sid, err := h.cartStore(r.Context(), w, r)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	info, err := h.orders.Submit(r.Context(), sid, form, store.Snapshot())
	var fields order.FieldErrors
	switch {
	case errors.Is(err, order.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, "cart is empty")
		return
	case errors.As(err, &fields):
		writeFieldErrors(w, http.StatusUnprocessableEntity, fields)
		return
	case err != nil:
		writeInternalError(w, r, err)
		return
	}

	if _, err := store.Clear(r.Context()); err != nil {
		// The draft is already stored; the stale cart is not worth failing
		// the checkout over.
		zctx.From(r.Context()).Warn("Clear cart after checkout",
			zap.Error(err))
	}

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		h.encodeOrderInfo(e, info)
	})
}

// OrderConfirmation returns the session's stored order draft.
func (h *Handler) OrderConfirmation(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)

	info, err := h.orders.Confirmation(r.Context(), sid)
	switch {
	case errors.Is(err, order.ErrNoDraft):
		writeError(w, http.StatusNotFound, "no order in progress")
		return
	case err != nil:
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		h.encodeOrderInfo(e, info)
	})
}
