package httphandler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/service"
)

// Header X-Session-ID is required for every cart route.
//
// GET v1/cart (200 OK)
// POST v1/cart/items JSON {"product_id" string, "quantity" int} (200 OK, 400 Bad request, 404 Not found)
// PUT v1/cart/items/{id} JSON {"quantity" int} (200 OK, 400 Bad request, 404 Not found)
// POST v1/cart/items/{id}/increment, v1/cart/items/{id}/decrement (200 OK, 404 Not found)
// POST v1/cart/items/{id}/move-to-wishlist (200 OK, 404 Not found)
// DELETE v1/cart/items/{id}, v1/cart (200 OK)

type CartHandler struct {
	shopperHandler
	checkout *service.Checkout
}

func RegisterCart(
	mux *http.ServeMux,
	sessions *service.Sessions,
	catalog *service.Catalog,
	checkout *service.Checkout,
) {
	h := CartHandler{
		shopperHandler: shopperHandler{sessions: sessions, catalog: catalog},
		checkout:       checkout,
	}
	mux.HandleFunc("GET /v1/cart", h.GetCart)
	mux.HandleFunc("DELETE /v1/cart", h.ClearCart)
	mux.HandleFunc("POST /v1/cart/items", h.AddItem)
	mux.HandleFunc("PUT /v1/cart/items/{id}", h.UpdateQuantity)
	mux.HandleFunc("DELETE /v1/cart/items/{id}", h.RemoveItem)
	mux.HandleFunc("POST /v1/cart/items/{id}/increment", h.Increment)
	mux.HandleFunc("POST /v1/cart/items/{id}/decrement", h.Decrement)
	mux.HandleFunc("POST /v1/cart/items/{id}/move-to-wishlist", h.MoveToWishlist)
}

type cartMutation func(context.Context, service.Engines) ([]domain.Notice, error)

// respond applies fn under the session lock and writes the resulting cart.
func (h CartHandler) respond(
	w http.ResponseWriter, r *http.Request, op string, fn cartMutation,
) {
	log := slog.With("op", op)

	s, err := h.session(r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	var resp Cart
	var fnErr error
	err = s.Do(r.Context(), func(e service.Engines) {
		var ns []domain.Notice
		ns, fnErr = fn(r.Context(), e)
		if fnErr == nil {
			resp = h.view(e.Cart, ns...)
		}
	})
	if err == nil {
		err = fnErr
	}
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, resp)
}

func (h CartHandler) view(cart *service.CartEngine, ns ...domain.Notice) Cart {
	entries := cart.Entries()
	items := make([]CartEntry, len(entries))
	for i, e := range entries {
		items[i] = CartEntry{Product: toProduct(e.Product), Quantity: e.Quantity}
	}
	return Cart{
		Items:      items,
		TotalItems: cart.TotalItems(),
		Summary:    toPriceSummary(h.checkout.Quote(cart)),
		Notices:    toNotices(ns...),
	}
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "CartHandler.GetCart",
		func(context.Context, service.Engines) ([]domain.Notice, error) {
			return nil, nil
		})
}

func (h CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.AddItem"
	log := slog.With("op", op)

	var req AddCartItem
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, log, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		writeError(w, log, badRequest("quantity must be positive"))
		return
	}

	p, err := h.product(r, req.ProductID)
	if err != nil {
		writeError(w, log, err)
		return
	}

	h.respond(w, r, op,
		func(ctx context.Context, e service.Engines) ([]domain.Notice, error) {
			return []domain.Notice{e.Cart.AddToCart(ctx, p, req.Quantity)}, nil
		})
}

func (h CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.UpdateQuantity"
	log := slog.With("op", op)

	var req CartQuantity
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, log, err)
		return
	}

	productID := r.PathValue("id")
	h.respond(w, r, op,
		func(ctx context.Context, e service.Engines) ([]domain.Notice, error) {
			if !e.Cart.IsInCart(productID) {
				return nil, domain.ErrNotFound
			}
			if !e.Cart.UpdateQuantity(ctx, productID, req.Quantity) {
				return nil, badRequest("quantity must be between 1 and %d",
					domain.MaxQuantityPerItem)
			}
			return nil, nil
		})
}

func (h CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")
	h.respond(w, r, "CartHandler.RemoveItem",
		func(ctx context.Context, e service.Engines) ([]domain.Notice, error) {
			return []domain.Notice{e.Cart.RemoveFromCart(ctx, productID)}, nil
		})
}

func (h CartHandler) Increment(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")
	h.respond(w, r, "CartHandler.Increment",
		func(ctx context.Context, e service.Engines) ([]domain.Notice, error) {
			if !e.Cart.IsInCart(productID) {
				return nil, domain.ErrNotFound
			}
			return []domain.Notice{e.Cart.IncrementQuantity(ctx, productID)}, nil
		})
}

func (h CartHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")
	h.respond(w, r, "CartHandler.Decrement",
		func(ctx context.Context, e service.Engines) ([]domain.Notice, error) {
			if !e.Cart.IsInCart(productID) {
				return nil, domain.ErrNotFound
			}
			return []domain.Notice{e.Cart.DecrementQuantity(ctx, productID)}, nil
		})
}

func (h CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "CartHandler.ClearCart",
		func(ctx context.Context, e service.Engines) ([]domain.Notice, error) {
			return []domain.Notice{e.Cart.ClearCart(ctx)}, nil
		})
}

func (h CartHandler) MoveToWishlist(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")
	h.respond(w, r, "CartHandler.MoveToWishlist",
		func(ctx context.Context, e service.Engines) ([]domain.Notice, error) {
			n, err := e.MoveToWishlist(ctx, productID)
			if err != nil {
				return nil, err
			}
			return []domain.Notice{n}, nil
		})
}
