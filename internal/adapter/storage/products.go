package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

const DefaultFeaturedLimit = 4

var _ port.ProductRepository = ProductsRepository{}

type ProductsRepository struct {
	sqldb         sqldb
	featuredLimit int
}

func NewProductsRepository(sqldb sqldb) ProductsRepository {
	return ProductsRepository{sqldb: sqldb, featuredLimit: DefaultFeaturedLimit}
}

const productColumns = `
	product_id, name, description, price, category,
	images, featured, in_stock, rating`

// Rows come back newest first.
func (r ProductsRepository) GetAll(ctx context.Context) ([]domain.Product, error) {
	const op = "ProductsRepository.GetAll"

	query := `SELECT ` + productColumns + `
		FROM products
		ORDER BY created_at DESC, product_id ASC;`

	ps, err := r.queryProducts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (r ProductsRepository) GetByID(
	ctx context.Context, productID string,
) (domain.Product, error) {
	const op = "ProductsRepository.GetByID"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + productColumns + `
		FROM products
		WHERE product_id = $1;`

	p, err := scanProduct(r.sqldb.QueryRowContext(ctx, query, productID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := domain.ValidateProduct(p); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (r ProductsRepository) GetByCategory(
	ctx context.Context, category string,
) ([]domain.Product, error) {
	const op = "ProductsRepository.GetByCategory"

	query := `SELECT ` + productColumns + `
		FROM products
		WHERE category = $1
		ORDER BY created_at DESC, product_id ASC;`

	ps, err := r.queryProducts(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (r ProductsRepository) GetFeatured(ctx context.Context) ([]domain.Product, error) {
	const op = "ProductsRepository.GetFeatured"

	query := `SELECT ` + productColumns + `
		FROM products
		WHERE featured
		ORDER BY created_at DESC, product_id ASC
		LIMIT $1;`

	ps, err := r.queryProducts(ctx, query, r.featuredLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

// queryProducts skips rows that do not make a valid product.
func (r ProductsRepository) queryProducts(
	ctx context.Context, query string, args ...any,
) ([]domain.Product, error) {
	log := slog.With("op", "ProductsRepository.queryProducts")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := r.sqldb.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", "err", err)
		}
	}()

	var ps []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Warn("skip unreadable product row", "err", err)
			continue
		}
		if err := domain.ValidateProduct(p); err != nil {
			log.Warn("skip invalid product", "productID", p.ID, "err", err)
			continue
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return ps, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	var imagesB []byte
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
		&imagesB, &p.Featured, &p.InStock, &p.Rating,
	)
	if err != nil {
		return domain.Product{}, err
	}
	if len(imagesB) != 0 {
		if err := json.Unmarshal(imagesB, &p.Images); err != nil {
			return domain.Product{}, fmt.Errorf("invalid images: %w", err)
		}
	}
	return p, nil
}
