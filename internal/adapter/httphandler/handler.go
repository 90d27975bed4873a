package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/service"
)

// GET /health (200 OK)

func RegisterHealth(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		log := slog.With("op", "Health")
		writeJSON(w, log, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// NewRouter registers every storefront route on a new mux.
func NewRouter(s service.Service) http.Handler {
	mux := http.NewServeMux()
	RegisterHealth(mux)
	RegisterCatalog(mux, s.Sessions, s.Catalog)
	RegisterCart(mux, s.Sessions, s.Catalog, s.Checkout)
	RegisterWishlist(mux, s.Sessions, s.Catalog)
	RegisterComparison(mux, s.Sessions, s.Catalog)
	RegisterRecentlyViewed(mux, s.Sessions, s.Catalog)
	RegisterCheckout(mux, s.Sessions, s.Catalog, s.Checkout)
	return Shopper(AllowJSON(mux))
}
