//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestCart_StartsEmpty(t *testing.T) {
	client := newSession(t)

	resp := doGet(t, client, "/api/cart")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	cart := decodeJSON[cartResponse](t, resp)
	if len(cart.Items) != 0 {
		t.Errorf("items: got %d, want 0", len(cart.Items))
	}
	if cart.TotalPriceInCents != 0 {
		t.Errorf("total: got %d, want 0", cart.TotalPriceInCents)
	}
}

func TestCart_AddAndMerge(t *testing.T) {
	client := newSession(t)

	cart := addItem(t, client, 3, 2)
	if len(cart.Items) != 1 {
		t.Fatalf("items: got %d, want 1", len(cart.Items))
	}
	if cart.Items[0].Quantity != 2 {
		t.Errorf("quantity: got %d, want 2", cart.Items[0].Quantity)
	}

	// Adding the same product again merges into one line.
	cart = addItem(t, client, 3, 1)
	if len(cart.Items) != 1 {
		t.Fatalf("items after merge: got %d, want 1", len(cart.Items))
	}
	if cart.Items[0].Quantity != 3 {
		t.Errorf("merged quantity: got %d, want 3", cart.Items[0].Quantity)
	}
	if cart.Items[0].Subtotal != 3*cart.Items[0].PriceInCents {
		t.Errorf("subtotal: got %d, want %d", cart.Items[0].Subtotal, 3*cart.Items[0].PriceInCents)
	}
}

func TestCart_SurvivesAcrossRequests(t *testing.T) {
	client := newSession(t)

	addItem(t, client, 4, 5)

	resp := doGet(t, client, "/api/cart")
	defer resp.Body.Close()

	cart := decodeJSON[cartResponse](t, resp)
	if len(cart.Items) != 1 || cart.Items[0].ID != 4 {
		t.Fatalf("cart not preserved across requests: %+v", cart.Items)
	}
}

func TestCart_SessionsAreIsolated(t *testing.T) {
	first := newSession(t)
	second := newSession(t)

	addItem(t, first, 5, 1)

	resp := doGet(t, second, "/api/cart")
	defer resp.Body.Close()

	cart := decodeJSON[cartResponse](t, resp)
	if len(cart.Items) != 0 {
		t.Errorf("second session sees %d items, want 0", len(cart.Items))
	}
}

func TestCart_SetQuantity(t *testing.T) {
	client := newSession(t)

	addItem(t, client, 6, 4)

	resp := doJSON(t, client, http.MethodPut, "/api/cart/items/6", map[string]any{"quantity": 1})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	cart := decodeJSON[cartResponse](t, resp)
	if cart.Items[0].Quantity != 1 {
		t.Errorf("quantity: got %d, want 1", cart.Items[0].Quantity)
	}
}

func TestCart_SetQuantityZeroRemoves(t *testing.T) {
	client := newSession(t)

	addItem(t, client, 6, 2)

	resp := doJSON(t, client, http.MethodPut, "/api/cart/items/6", map[string]any{"quantity": 0})
	defer resp.Body.Close()

	cart := decodeJSON[cartResponse](t, resp)
	if len(cart.Items) != 0 {
		t.Errorf("items: got %d, want 0", len(cart.Items))
	}
}

func TestCart_RemoveItem(t *testing.T) {
	client := newSession(t)

	addItem(t, client, 1, 1)
	addItem(t, client, 3, 1)

	resp := doJSON(t, client, http.MethodDelete, "/api/cart/items/1", nil)
	defer resp.Body.Close()

	cart := decodeJSON[cartResponse](t, resp)
	if len(cart.Items) != 1 || cart.Items[0].ID != 3 {
		t.Fatalf("unexpected items after remove: %+v", cart.Items)
	}
}

func TestCart_Clear(t *testing.T) {
	client := newSession(t)

	addItem(t, client, 1, 1)
	addItem(t, client, 2, 1)

	resp := doJSON(t, client, http.MethodDelete, "/api/cart", nil)
	defer resp.Body.Close()

	cart := decodeJSON[cartResponse](t, resp)
	if len(cart.Items) != 0 {
		t.Errorf("items: got %d, want 0", len(cart.Items))
	}
}

func TestCart_UnknownProduct(t *testing.T) {
	client := newSession(t)

	resp := doJSON(t, client, http.MethodPost, "/api/cart/items", map[string]any{"id": 9999})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestCart_ShippingFee(t *testing.T) {
	client := newSession(t)

	// One castle kit: 149,000 cents, below the 150,000 free shipping line.
	cart := addItem(t, client, 1, 1)
	if cart.ShippingFeeInCents != 8000 {
		t.Errorf("shipping: got %d, want 8000", cart.ShippingFeeInCents)
	}
	if cart.GrandTotalInCents != 157000 {
		t.Errorf("grand total: got %d, want 157000", cart.GrandTotalInCents)
	}

	// A second one crosses the threshold and shipping is waived.
	cart = addItem(t, client, 1, 1)
	if cart.ShippingFeeInCents != 0 {
		t.Errorf("shipping above threshold: got %d, want 0", cart.ShippingFeeInCents)
	}
	if cart.GrandTotalInCents != cart.TotalPriceInCents {
		t.Errorf("grand total: got %d, want %d", cart.GrandTotalInCents, cart.TotalPriceInCents)
	}
}
