package handler

import (
	"io"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/cardboardcraft/storefront/internal/domain/order"
)

const maxBodySize = 64 << 10

type addItemRequest struct {
	ProductID int64
	Quantity  int
}

func decodeAddItemRequest(body io.Reader) (addItemRequest, error) {
	req := addItemRequest{Quantity: 1}

	d := jx.Decode(io.LimitReader(body, maxBodySize), 4096)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Int64()
			req.ProductID = v
			return err
		case "quantity":
			v, err := d.Int()
			req.Quantity = v
			return err
		default:
			return d.Skip()
		}
	}); err != nil {
		return req, errors.Wrap(err, "decode add item request")
	}

	if req.ProductID == 0 {
		return req, errors.New("id is required")
	}
	return req, nil
}

type setQuantityRequest struct {
	Quantity int
}

func decodeSetQuantityRequest(body io.Reader) (setQuantityRequest, error) {
	var (
		req setQuantityRequest
		set bool
	)

	d := jx.Decode(io.LimitReader(body, maxBodySize), 4096)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "quantity":
			v, err := d.Int()
			req.Quantity = v
			set = true
			return err
		default:
			return d.Skip()
		}
	}); err != nil {
		return req, errors.Wrap(err, "decode quantity request")
	}

	if !set {
		return req, errors.New("quantity is required")
	}
	return req, nil
}

func decodeCheckoutRequest(body io.Reader) (order.CheckoutForm, error) {
	var form order.CheckoutForm

	d := jx.Decode(io.LimitReader(body, maxBodySize), 4096)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "customerName":
			form.CustomerName, err = d.Str()
		case "phone":
			form.Phone, err = d.Str()
		case "email":
			form.Email, err = d.Str()
		case "address":
			form.Address, err = d.Str()
		case "deliveryMethod":
			var v string
			v, err = d.Str()
			form.DeliveryMethod = order.DeliveryMethod(v)
		case "notes":
			form.Notes, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	}); err != nil {
		return form, errors.Wrap(err, "decode checkout request")
	}

	return form, nil
}
