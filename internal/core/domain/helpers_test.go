package domain_test

import (
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

func product(id string, price string) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     "Product " + id,
		Price:    decimal.RequireFromString(price),
		Category: "Lighting",
		InStock:  true,
		Rating:   4,
	}
}

func ids(ps []domain.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}
