package storage

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/storefront/internal/core/domain"
)

var orderRowColumns = []string{
	"order_id", "user_id", "status", "subtotal", "shipping",
	"tax", "total", "shipping_address", "created_at",
	"product", "quantity",
}

func testOrder() domain.Order {
	lamp := domain.Product{
		ID: "1", Name: "Desk Lamp", Category: "Lighting",
		Price: decimal.RequireFromString("65"), InStock: true,
	}
	return domain.Order{
		ID:     "order-1",
		UserID: "alice",
		Items:  []domain.OrderItem{{Product: lamp, Quantity: 2}},
		Summary: domain.DefaultPricingPolicy().Summarize(
			decimal.RequireFromString("130")),
		Status: domain.OrderPending,
		Date:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		ShippingAddress: domain.ShippingInfo{
			FullName: "Alice Doe", Email: "alice@example.com", Phone: "555",
			Address: "1 Main St", City: "Springfield", State: "IL",
			ZipCode: "62701", Country: domain.DefaultCountry,
		},
	}
}

func orderRow(t *testing.T, o domain.Order, item domain.OrderItem) []driver.Value {
	t.Helper()
	addressB, err := json.Marshal(o.ShippingAddress)
	require.NoError(t, err)
	productB, err := json.Marshal(item.Product)
	require.NoError(t, err)
	return []driver.Value{
		o.ID, o.UserID, string(o.Status),
		o.Summary.Subtotal.String(), o.Summary.Shipping.String(),
		o.Summary.Tax.String(), o.Summary.Total.String(),
		addressB, o.Date, productB, item.Quantity,
	}
}

func TestOrdersRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		mock, _, repo := newMockDB(t)
		o := testOrder()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO orders`).
			WithArgs("order-1", "alice", "pending", "130", "0", "10.4", "140.4",
				sqlmock.AnyArg(), o.Date).
			WillReturnResult(sqlmock.NewResult(0, 1))
		prep := mock.ExpectPrepare(`INSERT INTO order_items`)
		prep.ExpectExec().
			WithArgs("order-1", 0, "1", sqlmock.AnyArg(), 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		got, err := repo.Create(ctx, o)
		require.NoError(t, err)
		assert.Equal(t, o.ID, got.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CreateRollsBack", func(t *testing.T) {
		mock, _, repo := newMockDB(t)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO orders`).WillReturnError(assert.AnError)
		mock.ExpectRollback()

		_, err := repo.Create(ctx, testOrder())
		assert.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CreateRequiresUser", func(t *testing.T) {
		_, _, repo := newMockDB(t)
		o := testOrder()
		o.UserID = ""

		_, err := repo.Create(ctx, o)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("GetAllGroupsItems", func(t *testing.T) {
		mock, _, repo := newMockDB(t)
		newer := testOrder()
		newer.ID = "order-2"
		newer.Date = newer.Date.Add(time.Hour)
		second := domain.OrderItem{Product: domain.Product{ID: "2", Name: "Rug"}, Quantity: 1}
		older := testOrder()

		mock.ExpectQuery(`SELECT .+ FROM orders o\s+JOIN order_items i .+ WHERE o.user_id = \$1`).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows(orderRowColumns).
				AddRow(orderRow(t, newer, newer.Items[0])...).
				AddRow(orderRow(t, newer, second)...).
				AddRow(orderRow(t, older, older.Items[0])...))

		orders, err := repo.GetAll(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, "order-2", orders[0].ID)
		assert.Len(t, orders[0].Items, 2)
		assert.Equal(t, "Rug", orders[0].Items[1].Product.Name)
		assert.Equal(t, "order-1", orders[1].ID)
		assert.Equal(t, "Alice Doe", orders[1].ShippingAddress.FullName)
		assert.True(t, orders[1].Total().Equal(decimal.RequireFromString("140.4")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetAllRequiresUser", func(t *testing.T) {
		_, _, repo := newMockDB(t)
		_, err := repo.GetAll(ctx, "")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("GetByIDNotFound", func(t *testing.T) {
		mock, _, repo := newMockDB(t)
		mock.ExpectQuery(`SELECT .+ FROM orders o`).
			WithArgs("order-9", "alice").
			WillReturnRows(sqlmock.NewRows(orderRowColumns))

		_, err := repo.GetByID(ctx, "alice", "order-9")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
