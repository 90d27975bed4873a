package domain

import "slices"

const MaxRecentlyViewed = 8

// RecentlyViewed holds viewed products most recent first.
type RecentlyViewed struct {
	items []Product
}

func NewRecentlyViewed(ps []Product) RecentlyViewed {
	ps = uniqueProducts(ps)
	if len(ps) > MaxRecentlyViewed {
		ps = ps[:MaxRecentlyViewed]
	}
	return RecentlyViewed{items: ps}
}

// Record moves p to the front, evicting the oldest entry past the cap.
func (r *RecentlyViewed) Record(p Product) {
	if i := indexOfProduct(r.items, p.ID); i >= 0 {
		r.items = slices.Delete(r.items, i, i+1)
	}
	r.items = slices.Insert(r.items, 0, p)
	if len(r.items) > MaxRecentlyViewed {
		r.items = r.items[:MaxRecentlyViewed]
	}
}

func (r *RecentlyViewed) Items() []Product {
	return slices.Clone(r.items)
}

func (r *RecentlyViewed) Len() int {
	return len(r.items)
}

// Project filters and sorts a copy of the history. The stored order is
// not changed.
func (r *RecentlyViewed) Project(c FilterCriteria) []Product {
	return FilterProducts(r.items, c)
}
