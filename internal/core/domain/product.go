package domain

import "github.com/shopspring/decimal"

// AllCategories is the category sentinel that disables category scoping.
const AllCategories = "All"

type Product struct {
	ID          string          `json:"id" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category" validate:"required"`
	Images      []string        `json:"images" validate:"omitempty,dive,url"`
	Featured    bool            `json:"featured"`
	InStock     bool            `json:"inStock"`
	Rating      float64         `json:"rating" validate:"gte=0,lte=5"`
}

func indexOfProduct(ps []Product, productID string) int {
	for i := range ps {
		if ps[i].ID == productID {
			return i
		}
	}
	return -1
}

// uniqueProducts drops records without id and repeated ids, keeping the
// first occurrence.
func uniqueProducts(ps []Product) []Product {
	out := make([]Product, 0, len(ps))
	seen := make(map[string]struct{}, len(ps))
	for _, p := range ps {
		if p.ID == "" {
			continue
		}
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}
