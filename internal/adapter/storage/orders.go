package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.OrderRepository = OrdersRepository{}

type OrdersRepository struct {
	sqldb sqldb
}

func NewOrdersRepository(sqldb sqldb) OrdersRepository {
	return OrdersRepository{sqldb}
}

// Create stores the order with its item snapshots in one transaction.
func (r OrdersRepository) Create(
	ctx context.Context, o domain.Order,
) (_ domain.Order, storeErr error) {
	const op = "OrdersRepository.Create"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	if o.UserID == "" {
		return domain.Order{}, fmt.Errorf("%s: %w", op, domain.ErrUnauthenticated)
	}

	addressB, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if storeErr == nil {
			if err := tx.Commit(); err != nil {
				storeErr = fmt.Errorf("%s: failed to commit %w", op, err)
			}
			return
		}

		if err := tx.Rollback(); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			order_id, user_id, status, subtotal, shipping,
			tax, total, shipping_address, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`,
		o.ID, o.UserID, string(o.Status),
		o.Summary.Subtotal.String(), o.Summary.Shipping.String(),
		o.Summary.Tax.String(), o.Summary.Total.String(),
		string(addressB), o.Date,
	)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: failed to insert order: %w", op, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO order_items (order_id, position, product_id, product, quantity)
		VALUES ($1, $2, $3, $4, $5);`)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: failed to prepare stmt: %w", op, err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Error("failed to close prepared stmt", "err", err)
		}
	}()

	for i, item := range o.Items {
		productB, err := json.Marshal(item.Product)
		if err != nil {
			return domain.Order{}, fmt.Errorf("%s: %w", op, err)
		}
		_, err = stmt.ExecContext(ctx,
			o.ID, i, item.Product.ID, string(productB), item.Quantity,
		)
		if err != nil {
			return domain.Order{}, fmt.Errorf("%s: failed to insert item: %w", op, err)
		}
	}

	return o, nil
}

const orderSelect = `
	SELECT
		o.order_id, o.user_id, o.status, o.subtotal, o.shipping,
		o.tax, o.total, o.shipping_address, o.created_at,
		i.product, i.quantity
	FROM orders o
	JOIN order_items i ON i.order_id = o.order_id`

// GetAll returns the user's orders, newest first.
func (r OrdersRepository) GetAll(
	ctx context.Context, userID string,
) ([]domain.Order, error) {
	const op = "OrdersRepository.GetAll"

	if userID == "" {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrUnauthenticated)
	}

	query := orderSelect + `
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC, o.order_id, i.position;`

	orders, err := r.queryOrders(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (r OrdersRepository) GetByID(
	ctx context.Context, userID, orderID string,
) (domain.Order, error) {
	const op = "OrdersRepository.GetByID"

	if userID == "" {
		return domain.Order{}, fmt.Errorf("%s: %w", op, domain.ErrUnauthenticated)
	}

	query := orderSelect + `
		WHERE o.order_id = $1 AND o.user_id = $2
		ORDER BY i.position;`

	orders, err := r.queryOrders(ctx, query, orderID, userID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(orders) == 0 {
		return domain.Order{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return orders[0], nil
}

// queryOrders folds joined item rows into orders. Rows of one order must be
// adjacent.
func (r OrdersRepository) queryOrders(
	ctx context.Context, query string, args ...any,
) ([]domain.Order, error) {
	log := slog.With("op", "OrdersRepository.queryOrders")

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

	var orders []domain.Order
	for rows.Next() {
		var (
			o                            domain.Order
			status                       string
			subtotal, shipping, tax, tot decimal.Decimal
			addressB, productB           []byte
			date                         time.Time
			item                         domain.OrderItem
		)
		err := rows.Scan(
			&o.ID, &o.UserID, &status, &subtotal, &shipping,
			&tax, &tot, &addressB, &date,
			&productB, &item.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan: %w", err)
		}
		if err := json.Unmarshal(productB, &item.Product); err != nil {
			return nil, fmt.Errorf("invalid item product: %w", err)
		}

		if n := len(orders); n != 0 && orders[n-1].ID == o.ID {
			orders[n-1].Items = append(orders[n-1].Items, item)
			continue
		}

		if err := json.Unmarshal(addressB, &o.ShippingAddress); err != nil {
			return nil, fmt.Errorf("invalid shipping address: %w", err)
		}
		o.Status = domain.OrderStatus(status)
		o.Date = date.UTC()
		o.Summary = domain.PriceSummary{
			Subtotal: subtotal, Shipping: shipping, Tax: tax, Total: tot,
		}
		o.Items = []domain.OrderItem{item}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return orders, nil
}
