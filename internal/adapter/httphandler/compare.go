package httphandler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/service"
)

// Header X-Session-ID is required for every comparison route.
//
// GET v1/compare (200 OK)
// POST v1/compare/items JSON {"product_id" string} (200 OK, 404 Not found)
// DELETE v1/compare/items/{id}, v1/compare (200 OK)

type ComparisonHandler struct {
	shopperHandler
}

func RegisterComparison(
	mux *http.ServeMux, sessions *service.Sessions, catalog *service.Catalog,
) {
	h := ComparisonHandler{shopperHandler{sessions: sessions, catalog: catalog}}
	mux.HandleFunc("GET /v1/compare", h.GetComparison)
	mux.HandleFunc("DELETE /v1/compare", h.ClearComparison)
	mux.HandleFunc("POST /v1/compare/items", h.AddItem)
	mux.HandleFunc("DELETE /v1/compare/items/{id}", h.RemoveItem)
}

func (h ComparisonHandler) respond(
	w http.ResponseWriter,
	r *http.Request,
	op string,
	fn func(context.Context, *service.ComparisonEngine) domain.Notice,
) {
	log := slog.With("op", op)

	s, err := h.session(r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	var resp Comparison
	err = s.Do(r.Context(), func(e service.Engines) {
		n := fn(r.Context(), e.Comparison)
		resp = Comparison{
			Items:   toProducts(e.Comparison.Items()),
			Rows:    toComparisonRows(e.Comparison.Rows()),
			Valid:   e.Comparison.Valid(),
			Notices: toNotices(n),
		}
	})
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, resp)
}

func (h ComparisonHandler) GetComparison(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "ComparisonHandler.GetComparison",
		func(context.Context, *service.ComparisonEngine) domain.Notice {
			return domain.Notice{}
		})
}

func (h ComparisonHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	const op = "ComparisonHandler.AddItem"
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
		func(ctx context.Context, c *service.ComparisonEngine) domain.Notice {
			n, _ := c.AddToComparison(ctx, p)
			return n
		})
}

func (h ComparisonHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")
	h.respond(w, r, "ComparisonHandler.RemoveItem",
		func(ctx context.Context, c *service.ComparisonEngine) domain.Notice {
			n, _ := c.RemoveFromComparison(ctx, productID)
			return n
		})
}

func (h ComparisonHandler) ClearComparison(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "ComparisonHandler.ClearComparison",
		func(ctx context.Context, c *service.ComparisonEngine) domain.Notice {
			return c.ClearComparison(ctx)
		})
}
