package handlers

import (
	"net/http"
	"time"

	"github.com/ecommerce-cloud/backend/internal/metrics"
	mW "github.com/ecommerce-cloud/backend/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig collects everything the HTTP surface is built from.
type RouterConfig struct {
	Users    UserAPI
	Cards    CardAPI
	Orders   OrderAPI
	Products ProductAPI
	Reports  ReportAPI

	Metrics *metrics.Metrics
	// Sinks lists the configured analytics sinks for /health.
	Sinks          func() []string
	JWTSecret      string
	ImageDir       string
	RequestTimeout time.Duration
}

func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}

	r := chi.NewRouter()

	r.Use(mW.SecurityHeaders)
	r.Use(cfg.Metrics.Middleware)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		sinks := []string{}
		if cfg.Sinks != nil {
			sinks = append(sinks, cfg.Sinks()...)
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "healthy", "analyticsSinks": sinks})
	})
	r.Handle("/metrics", cfg.Metrics.Handler())

	if cfg.ImageDir != "" {
		r.Handle("/static/products/*", http.StripPrefix("/static/products/",
			mW.ProductImageServer(cfg.ImageDir)))
	}

	users := NewUserHandler(cfg.Users)
	cards := NewCardHandler(cfg.Cards, cfg.Users)
	orders := NewOrderHandler(cfg.Orders)
	products := NewProductHandler(cfg.Products)
	reports := NewReportHandler(cfg.Reports)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", users.ListUsers)
		r.Post("/", users.CreateUser)

		r.Route("/{userId}", func(r chi.Router) {
			r.Get("/", users.GetUser)
			r.Put("/", users.UpdateUser)
			r.Delete("/", users.DeleteUser)
			r.Post("/address", users.AddAddress)

			r.Group(func(r chi.Router) {
				r.Use(mW.RequireOwner(cfg.JWTSecret, "userId"))

				r.Post("/credit-card", cards.IssueCard)
				r.Post("/credit-card/authorize", cards.Authorize)
				r.Get("/credit-card/{cardId}/statement", cards.Statement)
				r.Get("/credit-card/{cardId}/reconciliation", cards.Reconcile)
			})
		})
	})

	r.Route("/orders", func(r chi.Router) {
		r.With(mW.RequireToken(cfg.JWTSecret)).Post("/", orders.CreateOrder)
		r.With(mW.RequireOwner(cfg.JWTSecret, "userId")).Get("/user/{userId}", orders.ListByUser)
		r.With(mW.RequireToken(cfg.JWTSecret)).Get("/{orderId}", orders.GetOrder)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", products.ListProducts)
		r.Post("/", products.CreateProduct)
		r.Get("/{id}", products.GetProduct)
		r.Put("/{id}", products.UpdateProduct)
		r.Delete("/{id}", products.DeleteProduct)
	})

	r.Get("/relatorio-vendas", reports.SalesReport)

	return r
}
