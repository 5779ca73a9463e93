package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront/api/controllers"
	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/internal/analytics"
	"github.com/angelmondragon/storefront/internal/storefront"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
)

type Deps struct {
	Config     *config.Config
	Logger     *logger.Logger
	Storefront storefront.Service
	DataLayer  *analytics.DataLayer
	Metrics    *metrics.Storefront
	Gatherer   prometheus.Gatherer
	Ready      []controllers.ReadyCheck
}

func NewRouter(d Deps) http.Handler {
	cfg, logg, svc := d.Config, d.Logger, d.Storefront

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.Logging(logg, d.Metrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg.App.Env))
		r.Get("/ready", controllers.HealthReady(cfg.App.Env, logg, d.Ready...))
	})

	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(svc, logg))
			r.Get("/featured", controllers.ProductFeatured(svc))
			r.Get("/{id}", controllers.ProductDetail(svc, logg))
			r.Post("/{id}/select", controllers.ProductSelect(svc, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(svc))
			r.Post("/items", controllers.CartAddItem(svc, logg))
			r.Patch("/items/{id}", controllers.CartUpdateItem(svc, logg))
			r.Delete("/items/{id}", controllers.CartRemoveItem(svc, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/begin", controllers.CheckoutBegin(svc, logg))
			r.Post("/shipping", controllers.CheckoutShipping(svc, logg))
			r.Post("/payment", controllers.CheckoutPayment(svc, logg))
		})

		r.Get("/orders/last", controllers.OrderLast(svc, logg))

		r.Route("/promotions/{id}", func(r chi.Router) {
			r.Post("/view", controllers.PromotionView(svc))
			r.Post("/select", controllers.PromotionSelect(svc, logg))
		})

		r.Post("/page-views", controllers.PageView(svc, logg))
		r.Get("/debug/data-layer", controllers.DataLayer(d.DataLayer, cfg.Analytics.Debug, logg))
	})

	return r
}
