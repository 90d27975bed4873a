package httphandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/service"
)

var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, errBadRequest),
		errors.Is(err, domain.ErrInvalidSession),
		errors.Is(err, domain.ErrInvalidShippingInfo),
		errors.Is(err, domain.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrStaleQuery):
		return http.StatusConflict
	}
	return http.StatusServiceUnavailable
}

func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "err", err)
		http.Error(w, "service unavailable", status)
		return
	}

	log.Warn("request rejected", "status", status, "err", err)
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Basic realm="storefront"`)
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("invalid JSON data")
	}
	return nil
}

// A shopperHandler resolves the session named by the request.
type shopperHandler struct {
	sessions *service.Sessions
	catalog  *service.Catalog
}

func (h shopperHandler) session(r *http.Request) (*service.Session, error) {
	id, ok := sessionIDFrom(r.Context())
	if !ok {
		return nil, badRequest("%s header is required", SessionHeader)
	}
	return h.sessions.Session(r.Context(), id)
}

// product loads a product by the id from the request body.
func (h shopperHandler) product(r *http.Request, productID string) (domain.Product, error) {
	if productID == "" {
		return domain.Product{}, badRequest("product_id is required")
	}
	return h.catalog.Product(r.Context(), productID)
}
