package domain

import "slices"

// A Wishlist is a set of saved products that keeps insertion order for
// display.
type Wishlist struct {
	items []Product
}

func NewWishlist(ps []Product) Wishlist {
	return Wishlist{items: uniqueProducts(ps)}
}

// Add reports whether p was added; a product already saved is left as is.
func (w *Wishlist) Add(p Product) bool {
	if w.Contains(p.ID) {
		return false
	}
	w.items = append(w.items, p)
	return true
}

// Remove reports whether the product was saved.
func (w *Wishlist) Remove(productID string) bool {
	i := indexOfProduct(w.items, productID)
	if i < 0 {
		return false
	}
	w.items = slices.Delete(w.items, i, i+1)
	return true
}

// Toggle saves p when absent and drops it otherwise. It reports whether p
// is saved afterwards.
func (w *Wishlist) Toggle(p Product) bool {
	if w.Remove(p.ID) {
		return false
	}
	w.items = append(w.items, p)
	return true
}

func (w *Wishlist) Contains(productID string) bool {
	return indexOfProduct(w.items, productID) >= 0
}

func (w *Wishlist) Clear() {
	w.items = nil
}

func (w *Wishlist) Len() int {
	return len(w.items)
}

func (w *Wishlist) Items() []Product {
	return slices.Clone(w.items)
}
