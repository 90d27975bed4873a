package httphandler

import (
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
)

type (
	Product struct {
		ProductID   string   `json:"product_id"`
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Price       string   `json:"price"`
		Category    string   `json:"category"`
		Images      []string `json:"images"`
		Featured    bool     `json:"featured"`
		InStock     bool     `json:"in_stock"`
		Rating      float64  `json:"rating"`
	}

	Notice struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	}

	PriceSummary struct {
		Subtotal string `json:"subtotal"`
		Shipping string `json:"shipping"`
		Tax      string `json:"tax"`
		Total    string `json:"total"`
	}
)

type (
	CartEntry struct {
		Product  Product `json:"product"`
		Quantity int     `json:"quantity"`
	}

	Cart struct {
		Items      []CartEntry  `json:"items"`
		TotalItems int          `json:"total_items"`
		Summary    PriceSummary `json:"summary"`
		Notices    []Notice     `json:"notices,omitempty"`
	}

	AddCartItem struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}

	CartQuantity struct {
		Quantity int `json:"quantity"`
	}
)

type ProductRef struct {
	ProductID string `json:"product_id"`
}

type Products struct {
	Items   []Product `json:"items"`
	Notices []Notice  `json:"notices,omitempty"`
}

type (
	ComparisonRow struct {
		Attribute string   `json:"attribute"`
		Label     string   `json:"label"`
		Values    []string `json:"values"`
	}

	Comparison struct {
		Items   []Product       `json:"items"`
		Rows    []ComparisonRow `json:"rows"`
		Valid   bool            `json:"valid"`
		Notices []Notice        `json:"notices,omitempty"`
	}
)

type (
	ShippingInfo struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Address  string `json:"address"`
		City     string `json:"city"`
		State    string `json:"state"`
		ZipCode  string `json:"zip_code"`
		Country  string `json:"country"`
	}

	OrderItem struct {
		Product  Product `json:"product"`
		Quantity int     `json:"quantity"`
	}

	Order struct {
		OrderID         string       `json:"order_id"`
		UserID          string       `json:"user_id"`
		Items           []OrderItem  `json:"items"`
		Summary         PriceSummary `json:"summary"`
		Total           string       `json:"total"`
		Status          string       `json:"status"`
		Date            time.Time    `json:"date"`
		ShippingAddress ShippingInfo `json:"shipping_address"`
	}

	PlacedOrder struct {
		Order   Order    `json:"order"`
		Notices []Notice `json:"notices,omitempty"`
	}
)

func toProduct(p domain.Product) Product {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return Product{
		ProductID:   p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Category:    p.Category,
		Images:      images,
		Featured:    p.Featured,
		InStock:     p.InStock,
		Rating:      p.Rating,
	}
}

func toProducts(ps []domain.Product) []Product {
	out := make([]Product, len(ps))
	for i, p := range ps {
		out[i] = toProduct(p)
	}
	return out
}

// toNotices drops zero notices.
func toNotices(ns ...domain.Notice) []Notice {
	var out []Notice
	for _, n := range ns {
		if n.IsZero() {
			continue
		}
		out = append(out, Notice{Kind: string(n.Kind), Message: n.Message})
	}
	return out
}

func toPriceSummary(s domain.PriceSummary) PriceSummary {
	return PriceSummary{
		Subtotal: s.Subtotal.StringFixed(2),
		Shipping: s.Shipping.StringFixed(2),
		Tax:      s.Tax.StringFixed(2),
		Total:    s.Total.StringFixed(2),
	}
}

func toComparisonRows(rows []domain.ComparisonRow) []ComparisonRow {
	out := make([]ComparisonRow, len(rows))
	for i, r := range rows {
		out[i] = ComparisonRow{
			Attribute: string(r.Attribute),
			Label:     r.Label,
			Values:    r.Values,
		}
	}
	return out
}

func (s ShippingInfo) toDomain() domain.ShippingInfo {
	return domain.ShippingInfo{
		FullName: s.FullName,
		Email:    s.Email,
		Phone:    s.Phone,
		Address:  s.Address,
		City:     s.City,
		State:    s.State,
		ZipCode:  s.ZipCode,
		Country:  s.Country,
	}
}

func toShippingInfo(s domain.ShippingInfo) ShippingInfo {
	return ShippingInfo{
		FullName: s.FullName,
		Email:    s.Email,
		Phone:    s.Phone,
		Address:  s.Address,
		City:     s.City,
		State:    s.State,
		ZipCode:  s.ZipCode,
		Country:  s.Country,
	}
}

func toOrder(o domain.Order) Order {
	items := make([]OrderItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItem{Product: toProduct(item.Product), Quantity: item.Quantity}
	}
	return Order{
		OrderID:         o.ID,
		UserID:          o.UserID,
		Items:           items,
		Summary:         toPriceSummary(o.Summary),
		Total:           o.Total().StringFixed(2),
		Status:          string(o.Status),
		Date:            o.Date,
		ShippingAddress: toShippingInfo(o.ShippingAddress),
	}
}
