package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/cardboardcraft/storefront/internal/domain/cart"
)

// sessionCookie identifies the browser session carrying the cart. It is a
// session cookie on purpose: the cart slot and order draft expire with the
// session.
const sessionCookie = "cardboard_session"

// sessionID returns the request's session identifier, minting and setting a
// new one when the cookie is absent or not a UUID.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}

	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// cartStore resolves the cart store for the request's session.
func (h *Handler) cartStore(ctx context.Context, w http.ResponseWriter, r *http.Request) (*cart.Store, string, error) {
	sid := sessionID(w, r)
	store, err := h.carts.Get(ctx, sid)
	if err != nil {
		return nil, "", err
	}
	return store, sid, nil
}
