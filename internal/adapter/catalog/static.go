package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.ProductRepository = StaticRepository{}

// StaticRepository serves a fixed product list. It backs the mock backend.
type StaticRepository struct {
	products []domain.Product
}

// NewStaticRepository keeps the valid products of ps in order. Invalid
// products are logged and skipped.
func NewStaticRepository(ps []domain.Product) StaticRepository {
	const op = "StaticRepository"
	log := slog.With("op", op)

	valid := make([]domain.Product, 0, len(ps))
	for _, p := range ps {
		if err := domain.ValidateProduct(p); err != nil {
			log.Warn("skip invalid product", "productID", p.ID, "err", err)
			continue
		}
		valid = append(valid, p)
	}
	return StaticRepository{products: valid}
}

func (r StaticRepository) GetAll(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(r.products), nil
}

func (r StaticRepository) GetByID(
	ctx context.Context, productID string,
) (domain.Product, error) {
	const op = "StaticRepository.GetByID"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, err
	}
	for _, p := range r.products {
		if p.ID == productID {
			return p, nil
		}
	}
	return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
}

// GetByCategory treats domain.AllCategories as no scope.
func (r StaticRepository) GetByCategory(
	ctx context.Context, category string,
) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if category == domain.AllCategories {
		return slices.Clone(r.products), nil
	}
	var ps []domain.Product
	for _, p := range r.products {
		if p.Category == category {
			ps = append(ps, p)
		}
	}
	return ps, nil
}

func (r StaticRepository) GetFeatured(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var ps []domain.Product
	for _, p := range r.products {
		if p.Featured {
			ps = append(ps, p)
		}
	}
	return ps, nil
}

func unsplash(photo string) string {
	return "https://images.unsplash.com/photo-" + photo + "?auto=format&fit=crop&w=1000&q=80"
}

// SeedProducts returns the demo catalogue.
func SeedProducts() []domain.Product {
	return []domain.Product{
		{
			ID:          "1",
			Name:        "Minimalist Desk Lamp",
			Description: "A sleek, adjustable desk lamp with touch controls and multiple brightness settings. Perfect for your minimalist workspace.",
			Price:       decimal.RequireFromString("129.99"),
			Images: []string{
				unsplash("1507473885765-e6ed057f782c"),
				unsplash("1513506003901-1e6a229e2d15"),
			},
			Category: "Lighting",
			Featured: true,
			InStock:  true,
			Rating:   4.8,
		},
		{
			ID:          "2",
			Name:        "Ergonomic Office Chair",
			Description: "Premium ergonomic chair with lumbar support, adjustable armrests, and breathable mesh back for all-day comfort.",
			Price:       decimal.RequireFromString("349.99"),
			Images:      []string{unsplash("1505843490701-5c4b83b47dc3")},
			Category:    "Furniture",
			Featured:    true,
			InStock:     true,
			Rating:      4.9,
		},
		{
			ID:          "3",
			Name:        "Bluetooth Noise-Cancelling Headphones",
			Description: "Premium wireless headphones with active noise cancellation, 30-hour battery life, and exceptional sound quality.",
			Price:       decimal.RequireFromString("249.99"),
			Images:      []string{unsplash("1505740420928-5e560c06d30e")},
			Category:    "Audio",
			Featured:    true,
			InStock:     true,
			Rating:      4.7,
		},
		{
			ID:          "4",
			Name:        "Smart Home Hub",
			Description: "Central control unit for your smart home devices. Connects with lights, thermostats, security systems, and more.",
			Price:       decimal.RequireFromString("199.99"),
			Images:      []string{unsplash("1558089687-f282ffcbc0d4")},
			Category:    "Smart Home",
			InStock:     true,
			Rating:      4.5,
		},
		{
			ID:          "5",
			Name:        "Ultra-Thin Laptop",
			Description: "Powerful yet lightweight laptop with 14-inch 4K display, 16GB RAM, 512GB SSD, and all-day battery life.",
			Price:       decimal.RequireFromString("1299.99"),
			Images:      []string{unsplash("1496181133206-80ce9b88a853")},
			Category:    "Computers",
			Featured:    true,
			InStock:     true,
			Rating:      4.9,
		},
		{
			ID:          "6",
			Name:        "Ceramic Pour-Over Coffee Set",
			Description: "Handcrafted ceramic pour-over coffee maker with matching cups. The perfect ritual for coffee enthusiasts.",
			Price:       decimal.RequireFromString("89.99"),
			Images:      []string{unsplash("1495474472287-4d71bcdd2085")},
			Category:    "Kitchen",
			InStock:     true,
			Rating:      4.6,
		},
		{
			ID:          "7",
			Name:        "Minimalist Wall Clock",
			Description: "Simple, elegant wall clock with a brushed aluminum frame and silent movement. A statement piece for any room.",
			Price:       decimal.RequireFromString("59.99"),
			Images:      []string{unsplash("1507646227500-4d389b0012be")},
			Category:    "Home Decor",
			InStock:     true,
			Rating:      4.5,
		},
		{
			ID:          "8",
			Name:        "Wireless Charging Pad",
			Description: "Fast wireless charging pad compatible with all Qi-enabled devices. Sleek design with LED charging indicator.",
			Price:       decimal.RequireFromString("39.99"),
			Images:      []string{unsplash("1583863788434-e58a36330cf0")},
			Category:    "Electronics",
			InStock:     true,
			Rating:      4.4,
		},
	}
}
