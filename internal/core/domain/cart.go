package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

const MaxQuantityPerItem = 10

type CartEntry struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// A Cart keeps entries in insertion order, one per product id, with
// quantity in [1, MaxQuantityPerItem].
type Cart struct {
	entries []CartEntry
}

// NewCart restores a cart from previously stored entries. Entries that
// break the cart invariants are dropped or clamped.
func NewCart(entries []CartEntry) Cart {
	var c Cart
	for _, e := range entries {
		if e.Product.ID == "" || e.Quantity < 1 {
			continue
		}
		if c.index(e.Product.ID) >= 0 {
			continue
		}
		e.Quantity = min(e.Quantity, MaxQuantityPerItem)
		c.entries = append(c.entries, e)
	}
	return c
}

func (c *Cart) index(productID string) int {
	for i := range c.entries {
		if c.entries[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// Add puts quantity units of p into the cart. A non-positive quantity is
// ignored. The resulting quantity never exceeds MaxQuantityPerItem.
func (c *Cart) Add(p Product, quantity int) Notice {
	if quantity <= 0 {
		return Notice{}
	}

	i := c.index(p.ID)
	if i < 0 {
		quantity = min(quantity, MaxQuantityPerItem)
		c.entries = append(c.entries, CartEntry{Product: p, Quantity: quantity})
		return notice(NoticeAdded, "%s added to cart", p.Name)
	}

	existing := c.entries[i].Quantity
	if existing >= MaxQuantityPerItem {
		return notice(NoticeMaxReached,
			"Maximum quantity of %d items reached", MaxQuantityPerItem)
	}

	newQuantity := min(existing+quantity, MaxQuantityPerItem)
	c.entries[i].Quantity = newQuantity
	if newQuantity == MaxQuantityPerItem {
		return notice(NoticeReachedMax,
			"Added to maximum quantity of %d", MaxQuantityPerItem)
	}
	return notice(NoticeUpdated, "%s quantity updated in cart", p.Name)
}

// Remove deletes the entry if present.
func (c *Cart) Remove(productID string) Notice {
	if i := c.index(productID); i >= 0 {
		c.entries = slices.Delete(c.entries, i, i+1)
	}
	return notice(NoticeRemoved, "Item removed from cart")
}

// UpdateQuantity sets the quantity directly. It reports false when the
// quantity is out of bounds or the product is not in the cart.
func (c *Cart) UpdateQuantity(productID string, quantity int) bool {
	if quantity < 1 || quantity > MaxQuantityPerItem {
		return false
	}
	i := c.index(productID)
	if i < 0 {
		return false
	}
	c.entries[i].Quantity = quantity
	return true
}

func (c *Cart) Increment(productID string) Notice {
	i := c.index(productID)
	if i < 0 {
		return Notice{}
	}
	if c.entries[i].Quantity >= MaxQuantityPerItem {
		return notice(NoticeMaxReached,
			"Maximum quantity of %d items reached", MaxQuantityPerItem)
	}
	c.entries[i].Quantity++
	return Notice{}
}

// Decrement lowers the quantity by one; the last unit removes the entry.
func (c *Cart) Decrement(productID string) Notice {
	i := c.index(productID)
	if i < 0 {
		return Notice{}
	}
	if c.entries[i].Quantity <= 1 {
		c.entries = slices.Delete(c.entries, i, i+1)
		return notice(NoticeRemoved, "Item removed from cart")
	}
	c.entries[i].Quantity--
	return Notice{}
}

func (c *Cart) Clear() Notice {
	c.entries = nil
	return notice(NoticeCleared, "Cart cleared")
}

func (c *Cart) Contains(productID string) bool {
	return c.index(productID) >= 0
}

// Quantity returns 0 for products absent from the cart.
func (c *Cart) Quantity(productID string) int {
	if i := c.index(productID); i >= 0 {
		return c.entries[i].Quantity
	}
	return 0
}

func (c *Cart) TotalItems() (n int) {
	for _, e := range c.entries {
		n += e.Quantity
	}
	return n
}

func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range c.entries {
		total = total.Add(e.Product.Price.Mul(decimal.NewFromInt(int64(e.Quantity))))
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.entries) == 0
}

func (c *Cart) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the entries in insertion order.
func (c *Cart) Entries() []CartEntry {
	return slices.Clone(c.entries)
}
