package domain

import (
	"slices"
	"strconv"
)

const (
	MaxComparisonItems = 4

	// MinComparisonItems is the smallest list the comparison view can show.
	MinComparisonItems = 2
)

type ComparisonAttribute string

const (
	AttributePrice       ComparisonAttribute = "price"
	AttributeCategory    ComparisonAttribute = "category"
	AttributeRating      ComparisonAttribute = "rating"
	AttributeInStock     ComparisonAttribute = "inStock"
	AttributeDescription ComparisonAttribute = "description"
)

var comparisonAttributes = []struct {
	attr  ComparisonAttribute
	label string
}{
	{AttributePrice, "Price"},
	{AttributeCategory, "Category"},
	{AttributeRating, "Rating"},
	{AttributeInStock, "In Stock"},
	{AttributeDescription, "Description"},
}

// A ComparisonRow holds one attribute rendered for every product column,
// in list order.
type ComparisonRow struct {
	Attribute ComparisonAttribute
	Label     string
	Values    []string
}

// A Comparison is an ordered list of at most MaxComparisonItems products.
type Comparison struct {
	items []Product
}

func NewComparison(ps []Product) Comparison {
	ps = uniqueProducts(ps)
	if len(ps) > MaxComparisonItems {
		ps = ps[:MaxComparisonItems]
	}
	return Comparison{items: ps}
}

// Add appends p unless it is already listed or the list is full. The
// returned bool reports whether p was appended.
func (c *Comparison) Add(p Product) (Notice, bool) {
	if indexOfProduct(c.items, p.ID) >= 0 {
		return notice(NoticeAlreadyPresent,
			"This product is already in your comparison list."), false
	}
	if len(c.items) >= MaxComparisonItems {
		return notice(NoticeLimitReached,
			"You can compare up to %d products at once.", MaxComparisonItems), false
	}
	c.items = append(c.items, p)
	return notice(NoticeAdded,
		"You can now compare this product with others."), true
}

func (c *Comparison) Remove(productID string) Notice {
	if i := indexOfProduct(c.items, productID); i >= 0 {
		c.items = slices.Delete(c.items, i, i+1)
	}
	return notice(NoticeRemoved, "Product removed from comparison")
}

func (c *Comparison) Clear() Notice {
	c.items = nil
	return notice(NoticeCleared, "Comparison cleared")
}

// Valid reports whether there are enough products to compare.
func (c *Comparison) Valid() bool {
	return len(c.items) >= MinComparisonItems
}

func (c *Comparison) Contains(productID string) bool {
	return indexOfProduct(c.items, productID) >= 0
}

func (c *Comparison) Len() int {
	return len(c.items)
}

func (c *Comparison) Items() []Product {
	return slices.Clone(c.items)
}

// Rows renders the fixed attribute set for the current list.
func (c *Comparison) Rows() []ComparisonRow {
	rows := make([]ComparisonRow, 0, len(comparisonAttributes))
	for _, a := range comparisonAttributes {
		row := ComparisonRow{
			Attribute: a.attr,
			Label:     a.label,
			Values:    make([]string, len(c.items)),
		}
		for i, p := range c.items {
			row.Values[i] = attributeValue(p, a.attr)
		}
		rows = append(rows, row)
	}
	return rows
}

func attributeValue(p Product, a ComparisonAttribute) string {
	switch a {
	case AttributePrice:
		return "$" + p.Price.StringFixed(2)
	case AttributeCategory:
		return p.Category
	case AttributeRating:
		return strconv.FormatFloat(p.Rating, 'f', -1, 64)
	case AttributeInStock:
		if p.InStock {
			return "Yes"
		}
		return "No"
	case AttributeDescription:
		return p.Description
	}
	return ""
}
