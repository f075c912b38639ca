package order

// Shipping pricing in minor units. Orders at or above the threshold ship
// free; the threshold is inclusive.
const (
	ShippingFee           int64 = 8000
	FreeShippingThreshold int64 = 150000
)

// ShippingFeeFor returns the shipping fee for a cart subtotal.
func ShippingFeeFor(subtotal int64) int64 {
	if subtotal >= FreeShippingThreshold {
		return 0
	}
	return ShippingFee
}
