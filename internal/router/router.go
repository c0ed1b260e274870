package router

import (
	"net/http"

	"vps-checkout/internal/handler"
	"vps-checkout/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates the HTTP router with all routes and middleware configured.
func New(
	checkoutHandler *handler.CheckoutHandler,
	paymentHandler *handler.PaymentHandler,
	vpsHandler *handler.VPSHandler,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.SessionToken)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Gateway return callbacks: invoked by browser redirect, no session token.
	r.Get("/checkout/{method}-return", paymentHandler.Return)

	r.Route("/api", func(r chi.Router) {
		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", checkoutHandler.Start)
			r.Get("/{id}", checkoutHandler.Get)
			r.Post("/{id}/info", checkoutHandler.SubmitInfo)
			r.Delete("/{id}/items/{itemID}", checkoutHandler.RemoveItem)
			r.Post("/{id}/promotion", checkoutHandler.ApplyPromotion)
			r.Post("/{id}/pay", checkoutHandler.Pay)
		})

		r.Get("/promotions", checkoutHandler.Promotions)

		r.Route("/payments", func(r chi.Router) {
			r.Get("/{id}/status", paymentHandler.Status)
			r.Post("/{id}/await", paymentHandler.Await)
			r.Get("/order/{orderId}", paymentHandler.ListByOrder)
		})

		r.Post("/vps/setup", vpsHandler.Setup)
	})

	return r
}
