package cart

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cardboardcraft/storefront/internal/domain/product"
)

// --- Mock implementations ---

type mockPersister struct {
	loaded  []Line
	loadErr error
	saveErr error
	saved   [][]Line
}

func (m *mockPersister) Load(_ context.Context) ([]Line, error) {
	return m.loaded, m.loadErr
}

func (m *mockPersister) Save(_ context.Context, lines []Line) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := make([]Line, len(lines))
	copy(cp, lines)
	m.saved = append(m.saved, cp)
	return nil
}

// --- Helpers ---

func newTestProduct(id int64, name string, price int64) product.Product {
	return product.Product{
		ID:       id,
		Name:     name,
		Price:    price,
		ImageURL: "/images/" + name + ".jpg",
		Category: "test",
		InStock:  true,
	}
}

func openEmptyStore(t *testing.T) (*Store, *mockPersister) {
	t.Helper()
	p := &mockPersister{}
	s, err := Open(context.Background(), p, zap.NewNop())
	require.NoError(t, err)
	return s, p
}

// --- Tests ---

func TestAddItem_NewLine(t *testing.T) {
	s, _ := openEmptyStore(t)

	snap, err := s.AddItem(context.Background(), newTestProduct(1, "box", 10000), 2)
	require.NoError(t, err)

	require.Len(t, snap.Lines, 1)
	assert.Equal(t, int64(1), snap.Lines[0].ProductID)
	assert.Equal(t, 2, snap.Lines[0].Quantity)
	assert.Equal(t, int64(20000), snap.Lines[0].Subtotal)
	assert.Equal(t, 2, snap.TotalItems)
	assert.Equal(t, int64(20000), snap.TotalPrice)
}

func TestAddItem_MergesExistingLine(t *testing.T) {
	s, _ := openEmptyStore(t)
	ctx := context.Background()

	_, err := s.AddItem(ctx, newTestProduct(1, "box", 10000), 2)
	require.NoError(t, err)

	snap, err := s.AddItem(ctx, newTestProduct(1, "box", 10000), 3)
	require.NoError(t, err)

	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 5, snap.Lines[0].Quantity)
	assert.Equal(t, int64(50000), snap.Lines[0].Subtotal)
}

func TestAddItem_MergeUsesStoredPriceSnapshot(t *testing.T) {
	s, _ := openEmptyStore(t)
	ctx := context.Background()

	_, err := s.AddItem(ctx, newTestProduct(1, "box", 10000), 1)
	require.NoError(t, err)

	// Catalog price changed after the first add; the line keeps its
	// original unit price.
	snap, err := s.AddItem(ctx, newTestProduct(1, "box", 99999), 1)
	require.NoError(t, err)

	require.Len(t, snap.Lines, 1)
	assert.Equal(t, int64(10000), snap.Lines[0].UnitPrice)
	assert.Equal(t, int64(20000), snap.Lines[0].Subtotal)
}

func TestAddItem_MergeKeepsPosition(t *testing.T) {
	s, _ := openEmptyStore(t)
	ctx := context.Background()

	_, err := s.AddItem(ctx, newTestProduct(1, "box", 100), 1)
	require.NoError(t, err)
	_, err = s.AddItem(ctx, newTestProduct(2, "tape", 200), 1)
	require.NoError(t, err)

	snap, err := s.AddItem(ctx, newTestProduct(1, "box", 100), 1)
	require.NoError(t, err)

	require.Len(t, snap.Lines, 2)
	assert.Equal(t, int64(1), snap.Lines[0].ProductID)
	assert.Equal(t, int64(2), snap.Lines[1].ProductID)
}

func TestAddItem_RejectsNonPositiveQuantity(t *testing.T) {
	s, p := openEmptyStore(t)
	ctx := context.Background()

	for _, qty := range []int{0, -1} {
		_, err := s.AddItem(ctx, newTestProduct(1, "box", 100), qty)
		require.ErrorIs(t, err, ErrInvalidQuantity)
	}
	assert.Empty(t, p.saved, "rejected adds must not persist")
}

func TestRemoveItem(t *testing.T) {
	s, _ := openEmptyStore(t)
	ctx := context.Background()

	_, err := s.AddItem(ctx, newTestProduct(1, "box", 100), 1)
	require.NoError(t, err)
	_, err = s.AddItem(ctx, newTestProduct(2, "tape", 200), 1)
	require.NoError(t, err)

	snap, err := s.RemoveItem(ctx, 1)
	require.NoError(t, err)

	require.Len(t, snap.Lines, 1)
	assert.Equal(t, int64(2), snap.Lines[0].ProductID)
}

func TestRemoveItem_AbsentIsNoop(t *testing.T) {
	s, p := openEmptyStore(t)
	ctx := context.Background()

	_, err := s.AddItem(ctx, newTestProduct(1, "box", 100), 1)
	require.NoError(t, err)
	writes := len(p.saved)

	snap, err := s.RemoveItem(ctx, 42)
	require.NoError(t, err)

	assert.Len(t, snap.Lines, 1)
	assert.Len(t, p.saved, writes, "a no-op must not persist")
}

func TestSetQuantity(t *testing.T) {
	s, _ := openEmptyStore(t)
	ctx := context.Background()

	_, err := s.AddItem(ctx, newTestProduct(1, "box", 5000), 3)
	require.NoError(t, err)

	snap, err := s.SetQuantity(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 1, snap.Lines[0].Quantity)
	assert.Equal(t, int64(5000), snap.Lines[0].Subtotal)

	snap, err = s.SetQuantity(ctx, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, snap.Lines)
}

func TestSetQuantity_ZeroEquivalentToRemove(t *testing.T) {
	ctx := context.Background()

	viaSet, _ := openEmptyStore(t)
	_, err := viaSet.AddItem(ctx, newTestProduct(1, "box", 100), 2)
	require.NoError(t, err)
	setSnap, err := viaSet.SetQuantity(ctx, 1, 0)
	require.NoError(t, err)

	viaRemove, _ := openEmptyStore(t)
	_, err = viaRemove.AddItem(ctx, newTestProduct(1, "box", 100), 2)
	require.NoError(t, err)
	removeSnap, err := viaRemove.RemoveItem(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, removeSnap, setSnap)
}

func TestSetQuantity_UnknownProductIsNoop(t *testing.T) {
	s, p := openEmptyStore(t)
	ctx := context.Background()

	_, err := s.AddItem(ctx, newTestProduct(1, "box", 100), 1)
	require.NoError(t, err)
	writes := len(p.saved)

	snap, err := s.SetQuantity(ctx, 42, 5)
	require.NoError(t, err)

	assert.Len(t, snap.Lines, 1)
	assert.Len(t, p.saved, writes)
}

func TestClear_Idempotent(t *testing.T) {
	s, _ := openEmptyStore(t)
	ctx := context.Background()

	_, err := s.AddItem(ctx, newTestProduct(1, "box", 100), 2)
	require.NoError(t, err)

	first, err := s.Clear(ctx)
	require.NoError(t, err)
	second, err := s.Clear(ctx)
	require.NoError(t, err)

	assert.Empty(t, first.Lines)
	assert.Equal(t, first, second)
	assert.NotNil(t, second.Lines, "empty snapshots have one canonical shape")
}

func TestTotals_AlwaysRecomputed(t *testing.T) {
	s, _ := openEmptyStore(t)
	ctx := context.Background()

	_, err := s.AddItem(ctx, newTestProduct(1, "box", 10000), 2)
	require.NoError(t, err)
	_, err = s.AddItem(ctx, newTestProduct(2, "tape", 2500), 4)
	require.NoError(t, err)
	_, err = s.SetQuantity(ctx, 2, 1)
	require.NoError(t, err)

	snap := s.Snapshot()
	var wantItems int
	var wantPrice int64
	for _, l := range snap.Lines {
		wantItems += l.Quantity
		wantPrice += int64(l.Quantity) * l.UnitPrice
	}
	assert.Equal(t, wantItems, snap.TotalItems)
	assert.Equal(t, wantPrice, snap.TotalPrice)
	assert.Equal(t, int64(22500), snap.TotalPrice)
}

func TestMutations_PersistBeforeReturning(t *testing.T) {
	s, p := openEmptyStore(t)
	ctx := context.Background()

	_, err := s.AddItem(ctx, newTestProduct(1, "box", 100), 1)
	require.NoError(t, err)
	_, err = s.SetQuantity(ctx, 1, 3)
	require.NoError(t, err)
	_, err = s.RemoveItem(ctx, 1)
	require.NoError(t, err)

	require.Len(t, p.saved, 3)
	assert.Empty(t, p.saved[2])
}

func TestPersistFailure_LeavesStateUntouched(t *testing.T) {
	s, p := openEmptyStore(t)
	ctx := context.Background()

	_, err := s.AddItem(ctx, newTestProduct(1, "box", 100), 1)
	require.NoError(t, err)

	p.saveErr = errors.New("slot unavailable")
	_, err = s.AddItem(ctx, newTestProduct(2, "tape", 200), 1)
	require.Error(t, err)

	snap := s.Snapshot()
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, int64(1), snap.Lines[0].ProductID)
}

func TestOpen_HydratesFromPersister(t *testing.T) {
	p := &mockPersister{loaded: []Line{
		{ProductID: 1, Name: "box", UnitPrice: 100, Quantity: 2, Subtotal: 200},
	}}

	s, err := Open(context.Background(), p, zap.NewNop())
	require.NoError(t, err)

	snap := s.Snapshot()
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 2, snap.TotalItems)
	assert.Equal(t, int64(200), snap.TotalPrice)
}

func TestOpen_DiscardsCorruptSnapshot(t *testing.T) {
	tests := []struct {
		name string
		p    *mockPersister
	}{
		{
			name: "persister reports corruption",
			p:    &mockPersister{loadErr: errors.Wrap(ErrCorruptSnapshot, "decode")},
		},
		{
			name: "zero quantity line",
			p: &mockPersister{loaded: []Line{
				{ProductID: 1, UnitPrice: 100, Quantity: 0, Subtotal: 0},
			}},
		},
		{
			name: "subtotal does not match",
			p: &mockPersister{loaded: []Line{
				{ProductID: 1, UnitPrice: 100, Quantity: 2, Subtotal: 999},
			}},
		},
		{
			name: "duplicate product line",
			p: &mockPersister{loaded: []Line{
				{ProductID: 1, UnitPrice: 100, Quantity: 1, Subtotal: 100},
				{ProductID: 1, UnitPrice: 100, Quantity: 1, Subtotal: 100},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(context.Background(), tt.p, zap.NewNop())
			require.NoError(t, err)
			assert.Empty(t, s.Snapshot().Lines)
		})
	}
}

func TestOpen_PropagatesTransportError(t *testing.T) {
	p := &mockPersister{loadErr: errors.New("connection refused")}

	_, err := Open(context.Background(), p, zap.NewNop())
	require.Error(t, err)
}

func TestSubscribe_NotifiesAfterEachMutation(t *testing.T) {
	s, _ := openEmptyStore(t)
	ctx := context.Background()

	var got []Snapshot
	cancel := s.Subscribe(func(snap Snapshot) {
		got = append(got, snap)
	})

	_, err := s.AddItem(ctx, newTestProduct(1, "box", 100), 1)
	require.NoError(t, err)
	_, err = s.SetQuantity(ctx, 1, 2)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].TotalItems)
	assert.Equal(t, 2, got[1].TotalItems)

	cancel()
	_, err = s.RemoveItem(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, got, 2, "cancelled observers must not be notified")
}
