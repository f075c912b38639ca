package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalLines_RoundTrip(t *testing.T) {
	lines := []Line{
		{ProductID: 3, Name: "storage box", UnitPrice: 45000, ImageURL: "/images/storage-box.jpg", Quantity: 2, Subtotal: 90000},
		{ProductID: 1, Name: "cat scratcher", UnitPrice: 39000, ImageURL: "/images/cat-scratcher.jpg", Quantity: 1, Subtotal: 39000},
	}

	data, err := MarshalLines(lines)
	require.NoError(t, err)

	got, err := UnmarshalLines(data)
	require.NoError(t, err)
	assert.Equal(t, lines, got, "round-trip must preserve order and quantities")
}

func TestMarshalLines_EmptyIsArray(t *testing.T) {
	data, err := MarshalLines(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestUnmarshalLines_SlotShape(t *testing.T) {
	// The persisted shape is part of the slot contract; field names must not
	// drift.
	payload := `[{"id":7,"name":"desk organizer","price_in_cents":28000,"image_url":"/images/desk-organizer.jpg","quantity":3,"subtotal":84000}]`

	lines, err := UnmarshalLines([]byte(payload))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(7), lines[0].ProductID)
	assert.Equal(t, int64(28000), lines[0].UnitPrice)
	assert.Equal(t, int64(84000), lines[0].Subtotal)
}

func TestUnmarshalLines_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `{{{`},
		{"wrong shape", `{"id":1}`},
		{"zero quantity", `[{"id":1,"price_in_cents":100,"quantity":0,"subtotal":0}]`},
		{"negative price", `[{"id":1,"price_in_cents":-5,"quantity":1,"subtotal":-5}]`},
		{"stale subtotal", `[{"id":1,"price_in_cents":100,"quantity":2,"subtotal":100}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalLines([]byte(tt.payload))
			require.ErrorIs(t, err, ErrCorruptSnapshot)
		})
	}
}
