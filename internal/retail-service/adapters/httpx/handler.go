package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/retail-ledger/internal/auditlog"
	"github.com/jcmexdev/retail-ledger/internal/pkg/interceptors/constants"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/adapters/mappers"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/domain"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/ports"
)

// Handler serves the retail API over HTTP. It fronts either the in-process
// engine or the gRPC client, whichever implements ports.Retail.
type Handler struct {
	retail  ports.Retail
	audit   auditlog.Reader // nil-safe: the audit endpoint answers 404 when unset
	revenue RevenueCache
}

// RevenueCache returns the last revenue summary the retail service
// published. ok is false when nothing has been published.
type RevenueCache interface {
	Latest(ctx context.Context) (s mappers.Revenue, ok bool, err error)
}

type Option func(*Handler)

// WithRevenueCache serves GET /revenue from the cache when the retail service
// cannot be reached.
func WithRevenueCache(rc RevenueCache) Option {
	return func(h *Handler) { h.revenue = rc }
}

func NewHandler(retail ports.Retail, audit auditlog.Reader, opts ...Option) *Handler {
	h := &Handler{retail: retail, audit: audit}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Products ---

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.retail.ListProducts(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.ProductsToMessage(products))
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req mappers.CreateProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.retail.CreateProduct(r.Context(), mappers.ProductDraftFromRequest(&req))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mappers.ProductToMessage(p))
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.retail.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.ProductToMessage(p))
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.retail.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var req AdjustStockRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.retail.AdjustStock(r.Context(), chi.URLParam(r, "id"), req.Quantity, domain.StockDirection(req.Direction))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.ProductToMessage(p))
}

// --- Customers ---

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.retail.ListCustomers(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.CustomersToMessage(customers))
}

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req mappers.CreateCustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.retail.CreateCustomer(r.Context(), mappers.CustomerDraftFromRequest(&req))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mappers.CustomerToMessage(c))
}

func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.retail.GetCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.CustomerToMessage(c))
}

func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.retail.DeleteCustomer(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Orders ---

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.retail.ListOrders(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.OrdersToMessage(orders))
}

// PlaceOrder forwards the X-Idempotency-Key header through the request
// context. Replays happen when the backing ports.Retail is wrapped by the
// idempotency package, directly or behind the gRPC server.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req mappers.PlaceOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	cmd, err := mappers.PlaceOrderFromRequest(&req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	// Use comma-ok idiom to safely extract typed context values.
	requestID, _ := r.Context().Value(constants.ContextKeyRequestID).(string)
	slog.InfoContext(r.Context(), "placing order",
		"request_id", requestID, "customer_id", cmd.CustomerID, "product_id", cmd.ProductID)

	o, err := h.retail.PlaceOrder(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mappers.OrderToMessage(o))
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.retail.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.OrderToMessage(o))
}

func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req ChangeStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	o, err := h.retail.ChangeStatus(r.Context(), chi.URLParam(r, "id"), domain.OrderStatus(req.Status))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.OrderToMessage(o))
}

// DeleteOrder answers with the order as it was before removal.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.retail.DeleteOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.OrderToMessage(o))
}

// --- Reports ---

func (h *Handler) Revenue(w http.ResponseWriter, r *http.Request) {
	summary, err := h.retail.Revenue(r.Context())
	if err != nil {
		if cached, ok := h.cachedRevenue(r, err); ok {
			w.Header().Set(HeaderRevenueSource, "cache")
			writeJSON(w, http.StatusOK, cached)
			return
		}
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.RevenueToMessage(summary))
}

// HeaderRevenueSource marks a revenue response served from the cache.
const HeaderRevenueSource = "X-Revenue-Source"

func (h *Handler) cachedRevenue(r *http.Request, cause error) (mappers.Revenue, bool) {
	if h.revenue == nil {
		return mappers.Revenue{}, false
	}
	cached, ok, err := h.revenue.Latest(r.Context())
	if err != nil {
		slog.WarnContext(r.Context(), "revenue cache read failed", "error", err)
		return mappers.Revenue{}, false
	}
	if ok {
		slog.WarnContext(r.Context(), "serving cached revenue", "cause", cause)
	}
	return cached, ok
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.retail.Dashboard(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.DashboardToMessage(d))
}

func (h *Handler) AuditTrail(w http.ResponseWriter, r *http.Request) {
	if h.audit == nil {
		writeError(w, http.StatusNotFound, "audit_disabled", "audit log is not configured")
		return
	}

	entries, err := h.audit.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to read audit trail", "error", err)
		writeError(w, http.StatusInternalServerError, "audit_unavailable", err.Error())
		return
	}

	out := make([]AuditEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = AuditEntryResponse{
			EventID:    e.EventID,
			Operation:  e.Operation,
			EntityKind: e.EntityKind,
			EntityID:   e.EntityID,
			Detail:     json.RawMessage(e.Detail),
			TraceID:    e.TraceID,
			RecordedAt: e.RecordedAt.UTC().Format(time.RFC3339Nano),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}

// writeDomainError maps the domain error taxonomy onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *domain.ValidationError
		serr *domain.InsufficientStockError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
			Fields:  verr.Fields,
		})
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.As(err, &serr):
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:     "insufficient_stock",
			Message:   err.Error(),
			Requested: &serr.Requested,
			Available: &serr.Available,
		})
	case errors.Is(err, domain.ErrReferenced):
		writeError(w, http.StatusConflict, "referenced", err.Error())
	default:
		slog.ErrorContext(r.Context(), "retail call failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadGateway, "retail_service_error", err.Error())
	}
}
