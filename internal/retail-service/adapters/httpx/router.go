package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/retail-ledger/internal/retail-service/adapters/httpx/middlewares"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handler.Health)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", handler.ListProducts)
		r.Post("/", handler.CreateProduct)
		r.Get("/{id}", handler.GetProduct)
		r.Delete("/{id}", handler.DeleteProduct)
		r.Post("/{id}/stock", handler.AdjustStock)
	})

	r.Route("/customers", func(r chi.Router) {
		r.Get("/", handler.ListCustomers)
		r.Post("/", handler.CreateCustomer)
		r.Get("/{id}", handler.GetCustomer)
		r.Delete("/{id}", handler.DeleteCustomer)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", handler.ListOrders)
		r.Post("/", handler.PlaceOrder)
		r.Get("/{id}", handler.GetOrder)
		r.Patch("/{id}/status", handler.ChangeStatus)
		r.Delete("/{id}", handler.DeleteOrder)
	})

	r.Get("/revenue", handler.Revenue)
	r.Get("/dashboard", handler.Dashboard)
	r.Get("/audit/{id}", handler.AuditTrail)
	return r
}
