//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListProducts(t *testing.T) {
	client := newSession(t)

	resp := doGet(t, client, "/api/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != 8 {
		t.Fatalf("expected 8 products, got %d", len(products))
	}
}

func TestListProducts_Fields(t *testing.T) {
	client := newSession(t)

	resp := doGet(t, client, "/api/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)

	var castle *productResponse
	for i := range products {
		if products[i].ID == 1 {
			castle = &products[i]
			break
		}
	}

	if castle == nil {
		t.Fatal("product with ID 1 not found")
	}
	if castle.Name != "Cardboard Castle Kit" {
		t.Errorf("name: got %q, want %q", castle.Name, "Cardboard Castle Kit")
	}
	if castle.PriceInCents != 149000 {
		t.Errorf("price_in_cents: got %d, want 149000", castle.PriceInCents)
	}
	if castle.PriceDisplay != "NT$ 1,490" {
		t.Errorf("price_display: got %q, want %q", castle.PriceDisplay, "NT$ 1,490")
	}
	if castle.Category != "kits" {
		t.Errorf("category: got %q, want %q", castle.Category, "kits")
	}
	if castle.ImageURL == "" {
		t.Error("image_url is empty")
	}
	if !castle.InStock {
		t.Error("in_stock: got false, want true")
	}
}

func TestGetProduct(t *testing.T) {
	client := newSession(t)

	resp := doGet(t, client, "/api/products/3")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	p := decodeJSON[productResponse](t, resp)
	if p.ID != 3 {
		t.Errorf("id: got %d, want 3", p.ID)
	}
	if p.Name != "Craft Knife Set" {
		t.Errorf("name: got %q, want %q", p.Name, "Craft Knife Set")
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	client := newSession(t)

	resp := doGet(t, client, "/api/products/9999")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if body.Code != http.StatusNotFound {
		t.Errorf("code: got %d, want 404", body.Code)
	}
}
