package domain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

type SortOption string

const (
	SortNewest    SortOption = "newest"
	SortPriceLow  SortOption = "price-low"
	SortPriceHigh SortOption = "price-high"
	SortRating    SortOption = "rating"
	// SortPopularity orders like SortRating; there is no separate
	// popularity signal.
	SortPopularity SortOption = "popularity"
	SortCategory   SortOption = "category"
)

// ParseSortOption maps an empty string to SortNewest.
func ParseSortOption(s string) (SortOption, error) {
	switch o := SortOption(s); o {
	case "":
		return SortNewest, nil
	case SortNewest, SortPriceLow, SortPriceHigh,
		SortRating, SortPopularity, SortCategory:
		return o, nil
	}
	return "", fmt.Errorf("unknown sort option %q", s)
}

// PriceRange bounds are inclusive.
type PriceRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

func (r PriceRange) contains(v decimal.Decimal) bool {
	return v.GreaterThanOrEqual(r.Min) && v.LessThanOrEqual(r.Max)
}

// FilterCriteria are conjunctive; nil and empty fields do not filter.
type FilterCriteria struct {
	Category   string
	PriceRange *PriceRange
	InStock    *bool
	Featured   *bool
	SearchTerm string
	SortBy     SortOption
}

// CategoryScoped reports whether the criteria restrict the category.
func (c FilterCriteria) CategoryScoped() bool {
	return c.Category != "" && c.Category != AllCategories
}

// FilterProducts returns the products matching c, sorted by c.SortBy.
// The input slice is not modified.
func FilterProducts(ps []Product, c FilterCriteria) []Product {
	term := strings.ToLower(strings.TrimSpace(c.SearchTerm))

	out := make([]Product, 0, len(ps))
	for _, p := range ps {
		if c.CategoryScoped() && p.Category != c.Category {
			continue
		}
		if c.PriceRange != nil && !c.PriceRange.contains(p.Price) {
			continue
		}
		if c.InStock != nil && p.InStock != *c.InStock {
			continue
		}
		if c.Featured != nil && p.Featured != *c.Featured {
			continue
		}
		if term != "" && !matchesTerm(p, term) {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, c.SortBy)
	return out
}

func matchesTerm(p Product, term string) bool {
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term) ||
		strings.Contains(strings.ToLower(p.Category), term)
}

func sortProducts(ps []Product, by SortOption) {
	switch by {
	case SortPriceLow:
		slices.SortStableFunc(ps, func(a, b Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortPriceHigh:
		slices.SortStableFunc(ps, func(a, b Product) int {
			return b.Price.Cmp(a.Price)
		})
	case SortRating, SortPopularity:
		slices.SortStableFunc(ps, func(a, b Product) int {
			return cmp.Compare(b.Rating, a.Rating)
		})
	case SortCategory:
		slices.SortStableFunc(ps, func(a, b Product) int {
			return strings.Compare(a.Category, b.Category)
		})
	}
}

// Categories lists distinct categories in first-seen order, led by
// AllCategories.
func Categories(ps []Product) []string {
	out := []string{AllCategories}
	seen := make(map[string]struct{})
	for _, p := range ps {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}
