package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

const DefaultCountry = "United States"

type ShippingInfo struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Address  string `json:"address" validate:"required"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state" validate:"required"`
	ZipCode  string `json:"zipCode" validate:"required"`
	Country  string `json:"country" validate:"required"`
}

type OrderItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

type Order struct {
	ID              string
	UserID          string
	Items           []OrderItem
	Summary         PriceSummary
	Status          OrderStatus
	Date            time.Time
	ShippingAddress ShippingInfo
}

// Total is the amount charged for the order.
func (o Order) Total() decimal.Decimal {
	return o.Summary.Total
}

type PriceSummary struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

type PricingPolicy struct {
	// Shipping is free when the subtotal is strictly above the threshold.
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
	TaxRate               decimal.Decimal
}

func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		FreeShippingThreshold: decimal.NewFromInt(100),
		FlatShippingFee:       decimal.NewFromInt(10),
		TaxRate:               decimal.RequireFromString("0.08"),
	}
}

func (p PricingPolicy) Summarize(subtotal decimal.Decimal) PriceSummary {
	shipping := p.FlatShippingFee
	if subtotal.GreaterThan(p.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(p.TaxRate)
	return PriceSummary{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}
