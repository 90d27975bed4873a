package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/service"
)

// Basic auth identifies the user; the cart comes from the X-Session-ID session.
//
// POST v1/checkout JSON {"full_name" string, "email" string, "phone" string, "address" string, "city" string, "state" string, "zip_code" string, "country" string}
// (201 Created, 400 Bad request, 401 Unauthorized, 503 Service unavailable)
// GET v1/orders (200 OK, 401 Unauthorized)
// GET v1/orders/{id} (200 OK, 401 Unauthorized, 404 Not found)

type CheckoutHandler struct {
	shopperHandler
	checkout *service.Checkout
}

func RegisterCheckout(
	mux *http.ServeMux,
	sessions *service.Sessions,
	catalog *service.Catalog,
	checkout *service.Checkout,
) {
	h := CheckoutHandler{
		shopperHandler: shopperHandler{sessions: sessions, catalog: catalog},
		checkout:       checkout,
	}
	mux.HandleFunc("POST /v1/checkout", h.SubmitOrder)
	mux.HandleFunc("GET /v1/orders", h.GetOrders)
	mux.HandleFunc("GET /v1/orders/{id}", h.GetOrder)
}

func (h CheckoutHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.SubmitOrder"
	log := slog.With("op", op)

	var req ShippingInfo
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, log, err)
		return
	}

	s, err := h.session(r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	var (
		order     domain.Order
		n         domain.Notice
		submitErr error
	)
	err = s.Do(r.Context(), func(e service.Engines) {
		order, n, submitErr = h.checkout.SubmitOrder(r.Context(), e.Cart, req.toDomain())
	})
	if err == nil {
		err = submitErr
	}
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusCreated, PlacedOrder{
		Order:   toOrder(order),
		Notices: toNotices(n),
	})
}

func (h CheckoutHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.GetOrders"
	log := slog.With("op", op)

	orders, err := h.checkout.Orders(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}

	resp := make([]Order, len(orders))
	for i, o := range orders {
		resp[i] = toOrder(o)
	}
	writeJSON(w, log, http.StatusOK, map[string][]Order{"orders": resp})
}

func (h CheckoutHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.GetOrder"
	log := slog.With("op", op)

	order, err := h.checkout.Order(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, toOrder(order))
}
