package storage_test

import (
	"testing"

	"github.com/niksmo/retail-pos/internal/adapter/storage"
	"github.com/niksmo/retail-pos/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInventory(t *testing.T, ps ...domain.Product) *storage.MemoryInventory {
	t.Helper()
	inv := storage.NewMemoryInventory()
	for _, p := range ps {
		require.NoError(t, inv.Insert(t.Context(), p))
	}
	return inv
}

func riceProduct() domain.Product {
	return domain.Product{
		ItemName:        "Rice 1kg",
		Quantity:        10,
		OriginalPrice:   50,
		DiscountedPrice: 45,
		Barcode:         1111111111111,
	}
}

func TestMemoryInventoryInsert(t *testing.T) {

	t.Run("DuplicateBarcode", func(t *testing.T) {
		inv := newInventory(t, riceProduct())

		err := inv.Insert(t.Context(), domain.Product{
			ItemName: "Other", Quantity: 1,
			OriginalPrice: 1, DiscountedPrice: 1,
			Barcode: 1111111111111,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrDuplicateBarcode)
	})
}

func TestMemoryInventorySetFields(t *testing.T) {

	t.Run("Overwrite", func(t *testing.T) {
		inv := newInventory(t, riceProduct())

		p, err := inv.SetFields(t.Context(), 1111111111111, domain.ProductFields{
			ItemName: "Rice 1kg", Quantity: 20,
			OriginalPrice: 55, DiscountedPrice: 50,
		})
		require.NoError(t, err)
		assert.InDelta(t, 20, p.Quantity, 1e-9)
		assert.InDelta(t, 55, p.OriginalPrice, 1e-9)
	})

	t.Run("NotFound", func(t *testing.T) {
		inv := newInventory(t)

		_, err := inv.SetFields(t.Context(), 9999999999999, domain.ProductFields{
			ItemName: "Ghost", Quantity: 1,
			OriginalPrice: 1, DiscountedPrice: 1,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}

func TestMemoryInventoryApplyDeltas(t *testing.T) {

	t.Run("Decrement", func(t *testing.T) {
		inv := newInventory(t, riceProduct())

		err := inv.ApplyDeltas(t.Context(), []domain.StockDelta{
			{Barcode: 1111111111111, ItemName: "Rice 1kg", Delta: -4},
		})
		require.NoError(t, err)

		p, err := inv.FindByBarcode(t.Context(), 1111111111111)
		require.NoError(t, err)
		assert.InDelta(t, 6, p.Quantity, 1e-9)
	})

	t.Run("RejectedBatchLeavesStockUntouched", func(t *testing.T) {
		salt := domain.Product{
			ItemName: "Salt", Quantity: 2,
			OriginalPrice: 20, DiscountedPrice: 18,
			Barcode: 2222222222222,
		}
		inv := newInventory(t, riceProduct(), salt)

		err := inv.ApplyDeltas(t.Context(), []domain.StockDelta{
			{Barcode: 1111111111111, ItemName: "Rice 1kg", Delta: -3},
			{Barcode: 2222222222222, ItemName: "Salt", Delta: -5},
		})
		require.Error(t, err)

		var stockErr domain.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "Salt", stockErr.ItemName)
		assert.InDelta(t, 2, stockErr.Available, 1e-9)
		assert.InDelta(t, 5, stockErr.Requested, 1e-9)

		rice, err := inv.FindByBarcode(t.Context(), 1111111111111)
		require.NoError(t, err)
		assert.InDelta(t, 10, rice.Quantity, 1e-9)

		got, err := inv.FindByBarcode(t.Context(), 2222222222222)
		require.NoError(t, err)
		assert.InDelta(t, 2, got.Quantity, 1e-9)
	})

	t.Run("UnknownBarcode", func(t *testing.T) {
		inv := newInventory(t, riceProduct())

		err := inv.ApplyDeltas(t.Context(), []domain.StockDelta{
			{Barcode: 9999999999999, ItemName: "Ghost", Delta: -1},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("RepeatedDeltasOnSameProduct", func(t *testing.T) {
		inv := newInventory(t, riceProduct())

		// both lines target the same barcode and must be folded together
		err := inv.ApplyDeltas(t.Context(), []domain.StockDelta{
			{Barcode: 1111111111111, ItemName: "Rice 1kg", Delta: -6},
			{Barcode: 1111111111111, ItemName: "Rice 1kg", Delta: -6},
		})
		require.Error(t, err)

		var stockErr domain.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)

		p, err := inv.FindByBarcode(t.Context(), 1111111111111)
		require.NoError(t, err)
		assert.InDelta(t, 10, p.Quantity, 1e-9)
	})

	t.Run("ExactStockAllowed", func(t *testing.T) {
		inv := newInventory(t, riceProduct())

		err := inv.ApplyDeltas(t.Context(), []domain.StockDelta{
			{Barcode: 1111111111111, ItemName: "Rice 1kg", Delta: -10},
		})
		require.NoError(t, err)

		p, err := inv.FindByBarcode(t.Context(), 1111111111111)
		require.NoError(t, err)
		assert.InDelta(t, 0, p.Quantity, 1e-9)
	})
}

func TestMemoryInventorySearchByName(t *testing.T) {
	inv := newInventory(t,
		riceProduct(),
		domain.Product{
			ItemName: "Brown Rice 5kg", Quantity: 4,
			OriginalPrice: 300, DiscountedPrice: 280,
			Barcode: 5555555555555,
		},
		domain.Product{
			ItemName: "Salt", Quantity: 5,
			OriginalPrice: 20, DiscountedPrice: 18,
			Barcode: 2222222222222,
		},
	)

	t.Run("CaseInsensitiveContains", func(t *testing.T) {
		ps, err := inv.SearchByName(t.Context(), "RICE", 10)
		require.NoError(t, err)
		require.Len(t, ps, 2)
	})

	t.Run("LimitApplied", func(t *testing.T) {
		ps, err := inv.SearchByName(t.Context(), "rice", 1)
		require.NoError(t, err)
		require.Len(t, ps, 1)
	})

	t.Run("NoMatch", func(t *testing.T) {
		ps, err := inv.SearchByName(t.Context(), "bread", 10)
		require.NoError(t, err)
		assert.Empty(t, ps)
	})
}

func TestMemoryOrdersAppend(t *testing.T) {
	orders := storage.NewMemoryOrders()

	lines := []domain.OrderLine{
		{ItemName: "Rice 1kg", Quantity: 3, Price: 45},
	}
	id, err := orders.Append(t.Context(), domain.Order{
		CustomerPhone: "9876543210",
		Products:      lines,
		TotalAmount:   135,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	// mutating the caller's slice must not affect the stored order
	lines[0].Quantity = 99

	all, err := orders.All(t.Context())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.InDelta(t, 3, all[0].Products[0].Quantity, 1e-9)

	id, err = orders.Append(t.Context(), domain.Order{
		CustomerPhone: "9123456780",
		Products: []domain.OrderLine{
			{ItemName: "Salt", Quantity: 1, Price: 18},
		},
		TotalAmount: 18,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
}
