package httphandler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/service"
)

// GET v1/products?category=&min_price=&max_price=&in_stock=&featured=&search=&sort= (200 OK, 400 Bad request, 409 Conflict)
// GET v1/products/featured (200 OK)
// GET v1/products/{id}?view=1 (200 OK, 404 Not found)
// GET v1/categories (200 OK)

type CatalogHandler struct {
	shopperHandler
}

func RegisterCatalog(
	mux *http.ServeMux, sessions *service.Sessions, catalog *service.Catalog,
) {
	h := CatalogHandler{shopperHandler{sessions: sessions, catalog: catalog}}
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("GET /v1/products/featured", h.GetFeatured)
	mux.HandleFunc("GET /v1/products/{id}", h.GetProduct)
	mux.HandleFunc("GET /v1/categories", h.GetCategories)
}

// GetProducts runs the query through the shopper session when one is
// given, so a superseded query of the same shopper answers 409.
func (h CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProducts"
	log := slog.With("op", op)

	criteria, err := parseCriteria(r.URL.Query())
	if err != nil {
		writeError(w, log, err)
		return
	}

	var ps []domain.Product
	if _, ok := sessionIDFrom(r.Context()); ok {
		s, err := h.session(r)
		if err != nil {
			writeError(w, log, err)
			return
		}
		ps, err = s.Browse(r.Context(), criteria)
		if err != nil {
			writeError(w, log, err)
			return
		}
	} else {
		ps, err = h.catalog.Products(r.Context(), criteria)
		if err != nil {
			writeError(w, log, err)
			return
		}
	}

	writeJSON(w, log, http.StatusOK, Products{Items: toProducts(ps)})
}

func (h CatalogHandler) GetFeatured(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetFeatured"
	log := slog.With("op", op)

	ps, err := h.catalog.Featured(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, Products{Items: toProducts(ps)})
}

func (h CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProduct"
	log := slog.With("op", op)

	p, err := h.catalog.Product(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, log, err)
		return
	}

	if r.URL.Query().Get("view") == "1" {
		s, err := h.session(r)
		if err != nil {
			writeError(w, log, err)
			return
		}
		err = s.Do(r.Context(), func(e service.Engines) {
			e.Recent.RecordView(r.Context(), p)
		})
		if err != nil {
			writeError(w, log, err)
			return
		}
	}

	writeJSON(w, log, http.StatusOK, toProduct(p))
}

func (h CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetCategories"
	log := slog.With("op", op)

	cs, err := h.catalog.Categories(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, map[string][]string{"categories": cs})
}

func parseCriteria(q url.Values) (domain.FilterCriteria, error) {
	c := domain.FilterCriteria{
		Category:   q.Get("category"),
		SearchTerm: q.Get("search"),
	}

	sortBy, err := domain.ParseSortOption(q.Get("sort"))
	if err != nil {
		return c, badRequest("%v", err)
	}
	c.SortBy = sortBy

	lo, hi := q.Get("min_price"), q.Get("max_price")
	if lo != "" || hi != "" {
		if lo == "" || hi == "" {
			return c, badRequest("min_price and max_price must be given together")
		}
		minPrice, err := decimal.NewFromString(lo)
		if err != nil {
			return c, badRequest("invalid min_price")
		}
		maxPrice, err := decimal.NewFromString(hi)
		if err != nil {
			return c, badRequest("invalid max_price")
		}
		c.PriceRange = &domain.PriceRange{Min: minPrice, Max: maxPrice}
	}

	if c.InStock, err = parseOptionalBool(q, "in_stock"); err != nil {
		return c, err
	}
	if c.Featured, err = parseOptionalBool(q, "featured"); err != nil {
		return c, err
	}
	return c, nil
}

func parseOptionalBool(q url.Values, key string) (*bool, error) {
	s := q.Get(key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, badRequest("invalid %s", key)
	}
	return &v, nil
}
