package schema

const OrderSchemaTextV1 = `{
	"type": "record",
	"namespace": "pos",
	"name": "order",
	"fields": [
		{"name": "order_id", "type": "long"},
		{"name": "customer_phone", "type": "string"},
		{"name": "customer_name", "type": "string"},
		{"name": "order_time", "type": "long"},
		{"name": "total_amount", "type": "double"},
		{"name": "products", "type": {
			"type": "array",
			"items": {
				"type": "record",
				"name": "order_line",
				"fields": [
					{"name": "item_name", "type": "string"},
					{"name": "quantity", "type": "double"},
					{"name": "price", "type": "double"}
				]
			}
		}}
	]
}`

type (
	OrderV1 struct {
		OrderID       int64         `avro:"order_id"`
		CustomerPhone string        `avro:"customer_phone"`
		CustomerName  string        `avro:"customer_name"`
		OrderTime     int64         `avro:"order_time"`
		TotalAmount   float64       `avro:"total_amount"`
		Products      []OrderLineV1 `avro:"products"`
	}

	OrderLineV1 struct {
		ItemName string  `avro:"item_name"`
		Quantity float64 `avro:"quantity"`
		Price    float64 `avro:"price"`
	}
)
