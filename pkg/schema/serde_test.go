package schema_test

import (
	"context"
	"testing"

	"github.com/niksmo/retail-pos/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSchemaIdentifier struct {
	mock.Mock
}

func (c *MockSchemaIdentifier) DetermineID(
	ctx context.Context, subject string, avroSchemaText string,
) (id int, err error) {
	args := c.Called(ctx, subject, avroSchemaText)
	return args.Int(0), args.Error(1)
}

func TestSerdeOrderV1(t *testing.T) {

	t.Run("NoOpts", func(t *testing.T) {
		_, err := schema.NewSerdeOrderV1(t.Context())
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("OneOpt", func(t *testing.T) {
		_, err := schema.NewSerdeOrderV1(
			t.Context(),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("EncodeDecode", func(t *testing.T) {
		schemaIdentifier := new(MockSchemaIdentifier)
		schemaID := 1
		subject := "orders-stream-value"

		schemaIdentifier.On(
			"DetermineID", t.Context(), subject, schema.OrderSchemaTextV1,
		).Return(schemaID, nil)

		serde, err := schema.NewSerdeOrderV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(schemaIdentifier),
		)
		require.NoError(t, err)

		orderValue1 := schema.OrderV1{
			OrderID:       42,
			CustomerPhone: "9876543210",
			CustomerName:  "testCustomer",
			OrderTime:     1735686000,
			TotalAmount:   135,
			Products: []schema.OrderLineV1{
				{ItemName: "Rice 1kg", Quantity: 3, Price: 45},
			},
		}

		encodedData, err := serde.Encode(orderValue1)
		require.NoError(t, err)

		var orderValue2 schema.OrderV1
		err = serde.Decode(encodedData, &orderValue2)
		require.NoError(t, err)

		assert.Equal(t, orderValue1.OrderID, orderValue2.OrderID)
		assert.Equal(t, orderValue1.CustomerPhone, orderValue2.CustomerPhone)
		assert.Equal(t, orderValue1.CustomerName, orderValue2.CustomerName)
		assert.Equal(t, orderValue1.OrderTime, orderValue2.OrderTime)
		assert.Equal(t, orderValue1.TotalAmount, orderValue2.TotalAmount)

		require.Len(t, orderValue2.Products, len(orderValue1.Products))
		for i := range orderValue1.Products {
			assert.Equal(t, orderValue1.Products[i], orderValue2.Products[i])
		}
	})
}
