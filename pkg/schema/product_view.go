package schema

import "time"

const ProductViewedSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront.views",
	"name": "product_viewed",
	"fields": [
		{"name": "session_id", "type": "string"},
		{"name": "product_id", "type": "string"},
		{"name": "name", "type": "string"},
		{"name": "category", "type": "string"},
		{"name": "price", "type": "string"},
		{"name": "viewed_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

type ProductViewedV1 struct {
	SessionID string    `avro:"session_id"`
	ProductID string    `avro:"product_id"`
	Name      string    `avro:"name"`
	Category  string    `avro:"category"`
	Price     string    `avro:"price"`
	ViewedAt  time.Time `avro:"viewed_at"`
}
