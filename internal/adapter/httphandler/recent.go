package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/service"
)

// Header X-Session-ID is required.
//
// GET v1/recently-viewed?category=&min_price=&max_price=&in_stock=&featured=&search=&sort= (200 OK, 400 Bad request)
// POST v1/recently-viewed JSON {"product_id" string} (200 OK, 404 Not found)

type RecentlyViewedHandler struct {
	shopperHandler
}

func RegisterRecentlyViewed(
	mux *http.ServeMux, sessions *service.Sessions, catalog *service.Catalog,
) {
	h := RecentlyViewedHandler{shopperHandler{sessions: sessions, catalog: catalog}}
	mux.HandleFunc("GET /v1/recently-viewed", h.GetRecentlyViewed)
	mux.HandleFunc("POST /v1/recently-viewed", h.RecordView)
}

// GetRecentlyViewed keeps the most recent first order when no query is
// given.
func (h RecentlyViewedHandler) GetRecentlyViewed(w http.ResponseWriter, r *http.Request) {
	const op = "RecentlyViewedHandler.GetRecentlyViewed"
	log := slog.With("op", op)

	criteria, err := parseCriteria(r.URL.Query())
	if err != nil {
		writeError(w, log, err)
		return
	}

	s, err := h.session(r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	var resp Products
	err = s.Do(r.Context(), func(e service.Engines) {
		if r.URL.RawQuery == "" {
			resp.Items = toProducts(e.Recent.RecentlyViewed())
			return
		}
		resp.Items = toProducts(e.Recent.Project(criteria))
	})
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, resp)
}

func (h RecentlyViewedHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	const op = "RecentlyViewedHandler.RecordView"
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

	s, err := h.session(r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	var resp Products
	err = s.Do(r.Context(), func(e service.Engines) {
		e.Recent.RecordView(r.Context(), p)
		resp.Items = toProducts(e.Recent.RecentlyViewed())
	})
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, resp)
}
