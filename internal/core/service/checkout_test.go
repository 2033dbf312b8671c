package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/niksmo/retail-pos/internal/adapter/storage"
	"github.com/niksmo/retail-pos/internal/core/domain"
	"github.com/niksmo/retail-pos/internal/core/port"
	"github.com/niksmo/retail-pos/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderEventsProducer struct {
	mock.Mock
}

func (m *MockOrderEventsProducer) ProduceOrder(
	ctx context.Context, o domain.Order,
) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func seedInventory(t *testing.T, ps ...domain.Product) *storage.MemoryInventory {
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

func TestCheckout(t *testing.T) {

	t.Run("Successful", func(t *testing.T) {
		inv := seedInventory(t, riceProduct())
		orders := storage.NewMemoryOrders()

		producer := new(MockOrderEventsProducer)
		producer.On("ProduceOrder", mock.Anything, mock.Anything).Return(nil)

		s := service.NewCheckoutService(inv, orders, producer)

		orderID, err := s.Checkout(t.Context(), port.CheckoutData{
			CustomerPhone: "9876543210",
			Cart: []domain.CartLine{
				{ProductName: "Rice 1kg", Quantity: 3, UnitPrice: 45},
			},
			TotalAmount: 135,
		})
		require.NoError(t, err)
		assert.Positive(t, orderID)

		p, err := inv.FindByBarcode(t.Context(), 1111111111111)
		require.NoError(t, err)
		assert.InDelta(t, 7, p.Quantity, 1e-9)

		history, err := orders.All(t.Context())
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, orderID, history[0].ID)
		assert.Equal(t, "9876543210", history[0].CustomerPhone)
		assert.InDelta(t, 135, history[0].TotalAmount, 1e-9)
		require.Len(t, history[0].Products, 1)
		assert.Equal(t, domain.OrderLine{
			ItemName: "Rice 1kg", Quantity: 3, Price: 45,
		}, history[0].Products[0])

		producer.AssertNumberOfCalls(t, "ProduceOrder", 1)
	})

	t.Run("InsufficientStock", func(t *testing.T) {
		inv := seedInventory(t, riceProduct())
		orders := storage.NewMemoryOrders()

		s := service.NewCheckoutService(inv, orders, nil)

		_, err := s.Checkout(t.Context(), port.CheckoutData{
			CustomerPhone: "9876543210",
			Cart: []domain.CartLine{
				{ProductName: "Rice 1kg", Quantity: 15, UnitPrice: 45},
			},
			TotalAmount: 675,
		})
		require.Error(t, err)

		var stockErr domain.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "Rice 1kg", stockErr.ItemName)
		assert.InDelta(t, 10, stockErr.Available, 1e-9)
		assert.InDelta(t, 15, stockErr.Requested, 1e-9)

		p, err := inv.FindByBarcode(t.Context(), 1111111111111)
		require.NoError(t, err)
		assert.InDelta(t, 10, p.Quantity, 1e-9)
		assert.Zero(t, orders.Len())
	})

	t.Run("UnknownItem", func(t *testing.T) {
		inv := seedInventory(t, riceProduct())
		orders := storage.NewMemoryOrders()

		s := service.NewCheckoutService(inv, orders, nil)

		_, err := s.Checkout(t.Context(), port.CheckoutData{
			CustomerPhone: "9876543210",
			Cart: []domain.CartLine{
				{ProductName: "Unknown Item", Quantity: 1, UnitPrice: 10},
			},
			TotalAmount: 10,
		})
		require.Error(t, err)

		var notFoundErr domain.ProductNotFoundError
		require.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, "Unknown Item", notFoundErr.ItemName)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)

		p, err := inv.FindByBarcode(t.Context(), 1111111111111)
		require.NoError(t, err)
		assert.InDelta(t, 10, p.Quantity, 1e-9)
		assert.Zero(t, orders.Len())
	})

	t.Run("AllOrNothing", func(t *testing.T) {
		salt := domain.Product{
			ItemName: "Salt", Quantity: 2,
			OriginalPrice: 20, DiscountedPrice: 18,
			Barcode: 2222222222222,
		}
		inv := seedInventory(t, riceProduct(), salt)
		orders := storage.NewMemoryOrders()

		s := service.NewCheckoutService(inv, orders, nil)

		// second line exceeds stock, first line must stay untouched
		_, err := s.Checkout(t.Context(), port.CheckoutData{
			CustomerPhone: "9876543210",
			Cart: []domain.CartLine{
				{ProductName: "Rice 1kg", Quantity: 3, UnitPrice: 45},
				{ProductName: "Salt", Quantity: 5, UnitPrice: 18},
			},
			TotalAmount: 225,
		})
		require.Error(t, err)

		var stockErr domain.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "Salt", stockErr.ItemName)

		rice, err := inv.FindByBarcode(t.Context(), 1111111111111)
		require.NoError(t, err)
		assert.InDelta(t, 10, rice.Quantity, 1e-9)

		got, err := inv.FindByBarcode(t.Context(), 2222222222222)
		require.NoError(t, err)
		assert.InDelta(t, 2, got.Quantity, 1e-9)

		assert.Zero(t, orders.Len())
	})

	t.Run("Validation", func(t *testing.T) {
		inv := seedInventory(t, riceProduct())
		orders := storage.NewMemoryOrders()

		s := service.NewCheckoutService(inv, orders, nil)

		tests := map[string]port.CheckoutData{
			"EmptyPhone": {
				Cart: []domain.CartLine{
					{ProductName: "Rice 1kg", Quantity: 1, UnitPrice: 45},
				},
				TotalAmount: 45,
			},
			"EmptyCart": {
				CustomerPhone: "9876543210",
				TotalAmount:   0,
			},
			"ZeroQuantity": {
				CustomerPhone: "9876543210",
				Cart: []domain.CartLine{
					{ProductName: "Rice 1kg", Quantity: 0, UnitPrice: 45},
				},
			},
			"NegativeQuantity": {
				CustomerPhone: "9876543210",
				Cart: []domain.CartLine{
					{ProductName: "Rice 1kg", Quantity: -1, UnitPrice: 45},
				},
			},
			"NegativePrice": {
				CustomerPhone: "9876543210",
				Cart: []domain.CartLine{
					{ProductName: "Rice 1kg", Quantity: 1, UnitPrice: -45},
				},
			},
			"NegativeTotal": {
				CustomerPhone: "9876543210",
				Cart: []domain.CartLine{
					{ProductName: "Rice 1kg", Quantity: 1, UnitPrice: 45},
				},
				TotalAmount: -1,
			},
		}

		for name, data := range tests {
			t.Run(name, func(t *testing.T) {
				_, err := s.Checkout(t.Context(), data)
				require.Error(t, err)

				var validationErr domain.ValidationError
				assert.ErrorAs(t, err, &validationErr)
			})
		}

		p, err := inv.FindByBarcode(t.Context(), 1111111111111)
		require.NoError(t, err)
		assert.InDelta(t, 10, p.Quantity, 1e-9)
		assert.Zero(t, orders.Len())
	})

	t.Run("ProducerFaultKeepsSale", func(t *testing.T) {
		inv := seedInventory(t, riceProduct())
		orders := storage.NewMemoryOrders()

		producer := new(MockOrderEventsProducer)
		producer.On("ProduceOrder", mock.Anything, mock.Anything).
			Return(assert.AnError)

		s := service.NewCheckoutService(inv, orders, producer)

		orderID, err := s.Checkout(t.Context(), port.CheckoutData{
			CustomerPhone: "9876543210",
			Cart: []domain.CartLine{
				{ProductName: "Rice 1kg", Quantity: 1, UnitPrice: 45},
			},
			TotalAmount: 45,
		})
		require.NoError(t, err)
		assert.Positive(t, orderID)
		assert.Equal(t, 1, orders.Len())
	})

	t.Run("ConcurrentNeverNegative", func(t *testing.T) {
		inv := seedInventory(t, riceProduct())
		orders := storage.NewMemoryOrders()

		s := service.NewCheckoutService(inv, orders, nil)

		const buyers = 25

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
		)

		wg.Add(buyers)
		for range buyers {
			go func() {
				defer wg.Done()
				_, err := s.Checkout(context.Background(), port.CheckoutData{
					CustomerPhone: "9876543210",
					Cart: []domain.CartLine{
						{ProductName: "Rice 1kg", Quantity: 1, UnitPrice: 45},
					},
					TotalAmount: 45,
				})
				if err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		// only 10 units existed, so exactly 10 checkouts may win
		assert.Equal(t, 10, succeeded)
		assert.Equal(t, 10, orders.Len())

		p, err := inv.FindByBarcode(context.Background(), 1111111111111)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p.Quantity, 0.0)
		assert.InDelta(t, 0, p.Quantity, 1e-9)
	})

	t.Run("CustomOrderTime", func(t *testing.T) {
		inv := seedInventory(t, riceProduct())
		orders := storage.NewMemoryOrders()

		s := service.NewCheckoutService(inv, orders, nil)

		const orderDate = int64(1735686000)

		_, err := s.Checkout(t.Context(), port.CheckoutData{
			CustomerPhone: "9876543210",
			Cart: []domain.CartLine{
				{ProductName: "Rice 1kg", Quantity: 1, UnitPrice: 45},
			},
			TotalAmount: 45,
			OrderTime:   orderDate,
		})
		require.NoError(t, err)

		history, err := orders.All(t.Context())
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, orderDate, history[0].OrderTime.Unix())
	})
}
