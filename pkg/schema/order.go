package schema

import "time"

// Money fields carry decimal strings so no precision is lost on the wire.
const OrderCreatedSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront.orders",
	"name": "order_created",
	"fields": [
		{"name": "order_id", "type": "string"},
		{"name": "user_id", "type": "string"},
		{"name": "status", "type": "string"},
		{"name": "items", "type": {
			"type": "array",
			"items": {
				"type": "record",
				"name": "order_item",
				"fields": [
					{"name": "product_id", "type": "string"},
					{"name": "name", "type": "string"},
					{"name": "category", "type": "string"},
					{"name": "price", "type": "string"},
					{"name": "quantity", "type": "int"}
				]
			}
		}},
		{"name": "subtotal", "type": "string"},
		{"name": "shipping", "type": "string"},
		{"name": "tax", "type": "string"},
		{"name": "total", "type": "string"},
		{"name": "shipping_address", "type": {
			"type": "record",
			"name": "shipping_address",
			"fields": [
				{"name": "full_name", "type": "string"},
				{"name": "email", "type": "string"},
				{"name": "phone", "type": "string"},
				{"name": "address", "type": "string"},
				{"name": "city", "type": "string"},
				{"name": "state", "type": "string"},
				{"name": "zip_code", "type": "string"},
				{"name": "country", "type": "string"}
			]
		}},
		{"name": "created_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

type (
	OrderCreatedV1 struct {
		OrderID         string            `avro:"order_id"`
		UserID          string            `avro:"user_id"`
		Status          string            `avro:"status"`
		Items           []OrderItemV1     `avro:"items"`
		Subtotal        string            `avro:"subtotal"`
		Shipping        string            `avro:"shipping"`
		Tax             string            `avro:"tax"`
		Total           string            `avro:"total"`
		ShippingAddress ShippingAddressV1 `avro:"shipping_address"`
		CreatedAt       time.Time         `avro:"created_at"`
	}

	OrderItemV1 struct {
		ProductID string `avro:"product_id"`
		Name      string `avro:"name"`
		Category  string `avro:"category"`
		Price     string `avro:"price"`
		Quantity  int    `avro:"quantity"`
	}

	ShippingAddressV1 struct {
		FullName string `avro:"full_name"`
		Email    string `avro:"email"`
		Phone    string `avro:"phone"`
		Address  string `avro:"address"`
		City     string `avro:"city"`
		State    string `avro:"state"`
		ZipCode  string `avro:"zip_code"`
		Country  string `avro:"country"`
	}
)
