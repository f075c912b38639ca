package handler

import (
	"net/http"
	"sort"
	"time"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/cardboardcraft/storefront/internal/domain/cart"
	"github.com/cardboardcraft/storefront/internal/domain/order"
	"github.com/cardboardcraft/storefront/internal/domain/product"
	"github.com/cardboardcraft/storefront/pkg/money"
)

// writeJSON encodes a response body with jx and writes it with the given
// status code.
func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	e := &jx.Encoder{}
	encode(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError writes a {code, message} error body.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("code")
		e.Int(status)
		e.FieldStart("message")
		e.Str(message)
		e.ObjEnd()
	})
}

// writeFieldErrors writes a validation error body with per-field messages.
func writeFieldErrors(w http.ResponseWriter, status int, fields order.FieldErrors) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("code")
		e.Int(status)
		e.FieldStart("message")
		e.Str("validation failed")
		e.FieldStart("fields")
		e.ObjStart()
		for _, field := range sortedKeys(fields) {
			e.FieldStart(field)
			e.Str(fields[field])
		}
		e.ObjEnd()
		e.ObjEnd()
	})
}

// writeInternalError logs err and responds with a generic 500 body.
func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("Request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func sortedKeys(fields order.FieldErrors) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (h *Handler) encodeProduct(e *jx.Encoder, p product.Product) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(p.ID)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("price_in_cents")
	e.Int64(p.Price)
	e.FieldStart("price_display")
	e.Str(money.FormatNTD(p.Price))
	e.FieldStart("image_url")
	e.Str(h.imageBaseURL + p.ImageURL)
	e.FieldStart("description")
	e.Str(p.Description)
	e.FieldStart("category")
	e.Str(p.Category)
	e.FieldStart("in_stock")
	e.Bool(p.InStock)
	e.ObjEnd()
}

func (h *Handler) encodeLine(e *jx.Encoder, l cart.Line) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(l.ProductID)
	e.FieldStart("name")
	e.Str(l.Name)
	e.FieldStart("price_in_cents")
	e.Int64(l.UnitPrice)
	e.FieldStart("image_url")
	e.Str(h.imageBaseURL + l.ImageURL)
	e.FieldStart("quantity")
	e.Int(l.Quantity)
	e.FieldStart("subtotal")
	e.Int64(l.Subtotal)
	e.ObjEnd()
}

func (h *Handler) encodeCart(e *jx.Encoder, snap cart.Snapshot) {
	shipping := order.ShippingFeeFor(snap.TotalPrice)
	grandTotal := snap.TotalPrice + shipping

	e.ObjStart()
	e.FieldStart("items")
	e.ArrStart()
	for _, l := range snap.Lines {
		h.encodeLine(e, l)
	}
	e.ArrEnd()
	e.FieldStart("total_items")
	e.Int(snap.TotalItems)
	e.FieldStart("total_price_in_cents")
	e.Int64(snap.TotalPrice)
	e.FieldStart("total_price_display")
	e.Str(money.FormatNTD(snap.TotalPrice))
	e.FieldStart("shipping_fee_in_cents")
	e.Int64(shipping)
	e.FieldStart("grand_total_in_cents")
	e.Int64(grandTotal)
	e.FieldStart("grand_total_display")
	e.Str(money.FormatNTD(grandTotal))
	e.ObjEnd()
}

func (h *Handler) encodeOrderInfo(e *jx.Encoder, info *order.Info) {
	e.ObjStart()
	e.FieldStart("customerName")
	e.Str(info.CustomerName)
	e.FieldStart("phone")
	e.Str(info.Phone)
	e.FieldStart("email")
	e.Str(info.Email)
	e.FieldStart("address")
	e.Str(info.Address)
	e.FieldStart("deliveryMethod")
	e.Str(string(info.DeliveryMethod))
	if info.Notes != "" {
		e.FieldStart("notes")
		e.Str(info.Notes)
	}
	e.FieldStart("orderNumber")
	e.Str(info.OrderNumber)
	e.FieldStart("items")
	e.ArrStart()
	for _, l := range info.Items {
		h.encodeLine(e, l)
	}
	e.ArrEnd()
	e.FieldStart("totalAmount")
	e.Int64(info.TotalAmount)
	e.FieldStart("totalAmountDisplay")
	e.Str(money.FormatNTD(info.TotalAmount))
	e.FieldStart("createdAt")
	e.Str(info.CreatedAt.Format(time.RFC3339))
	e.ObjEnd()
}
