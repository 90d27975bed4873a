package httphandler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/service"
)

// Header X-Session-ID is required for every wishlist route.
//
// GET v1/wishlist (200 OK)
// POST v1/wishlist/items JSON {"product_id" string} (200 OK, 404 Not found)
// POST v1/wishlist/items/{id}/toggle (200 OK, 404 Not found)
// POST v1/wishlist/items/{id}/move-to-cart (200 OK, 404 Not found)
// POST v1/wishlist/add-all-to-cart (200 OK)
// DELETE v1/wishlist/items/{id}, v1/wishlist (200 OK)

type WishlistHandler struct {
	shopperHandler
}

func RegisterWishlist(
	mux *http.ServeMux, sessions *service.Sessions, catalog *service.Catalog,
) {
	h := WishlistHandler{shopperHandler{sessions: sessions, catalog: catalog}}
	mux.HandleFunc("GET /v1/wishlist", h.GetWishlist)
	mux.HandleFunc("DELETE /v1/wishlist", h.ClearWishlist)
	mux.HandleFunc("POST /v1/wishlist/items", h.AddItem)
	mux.HandleFunc("DELETE /v1/wishlist/items/{id}", h.RemoveItem)
	mux.HandleFunc("POST /v1/wishlist/items/{id}/toggle", h.Toggle)
	mux.HandleFunc("POST /v1/wishlist/items/{id}/move-to-cart", h.MoveToCart)
	mux.HandleFunc("POST /v1/wishlist/add-all-to-cart", h.AddAllToCart)
}

type wishlistMutation func(context.Context, service.Engines) ([]domain.Notice, error)

func (h WishlistHandler) respond(
	w http.ResponseWriter, r *http.Request, op string, fn wishlistMutation,
) {
	log := slog.With("op", op)

	s, err := h.session(r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	var resp Products
	var fnErr error
	err = s.Do(r.Context(), func(e service.Engines) {
		var ns []domain.Notice
		ns, fnErr = fn(r.Context(), e)
		if fnErr == nil {
			resp = Products{
				Items:   toProducts(e.Wishlist.Items()),
				Notices: toNotices(ns...),
			}
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

func (h WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "WishlistHandler.GetWishlist",
		func(context.Context, service.Engines) ([]domain.Notice, error) {
			return nil, nil
		})
}

func (h WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	const op = "WishlistHandler.AddItem"
	log := slog.With("op", op)

	var req ProductRef
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, log, err)
		return
	}
	p, err := h.product(r, req.ProductID)
	if err != nil {
		writeError(w, log, err)
		return
	}

	h.respond(w, r, op,
		func(ctx context.Context, e service.Engines) ([]domain.Notice, error) {
			return []domain.Notice{e.Wishlist.AddToWishlist(ctx, p)}, nil
		})
}

func (h WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")
	h.respond(w, r, "WishlistHandler.RemoveItem",
		func(ctx context.Context, e service.Engines) ([]domain.Notice, error) {
			return []domain.Notice{e.Wishlist.RemoveFromWishlist(ctx, productID)}, nil
		})
}

func (h WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	const op = "WishlistHandler.Toggle"
	log := slog.With("op", op)

	p, err := h.product(r, r.PathValue("id"))
	if err != nil {
		writeError(w, log, err)
		return
	}

	h.respond(w, r, op,
		func(ctx context.Context, e service.Engines) ([]domain.Notice, error) {
			n, _ := e.Wishlist.ToggleWishlist(ctx, p)
			return []domain.Notice{n}, nil
		})
}

func (h WishlistHandler) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "WishlistHandler.ClearWishlist",
		func(ctx context.Context, e service.Engines) ([]domain.Notice, error) {
			return []domain.Notice{e.Wishlist.ClearWishlist(ctx)}, nil
		})
}

func (h WishlistHandler) MoveToCart(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")
	h.respond(w, r, "WishlistHandler.MoveToCart",
		func(ctx context.Context, e service.Engines) ([]domain.Notice, error) {
			n, err := e.MoveToCart(ctx, productID)
			if err != nil {
				return nil, err
			}
			return []domain.Notice{n}, nil
		})
}

func (h WishlistHandler) AddAllToCart(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "WishlistHandler.AddAllToCart",
		func(ctx context.Context, e service.Engines) ([]domain.Notice, error) {
			return e.AddAllToCart(ctx), nil
		})
}
