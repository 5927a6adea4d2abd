package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/glassworks-backend/api/controllers"
	"github.com/angelmondragon/glassworks-backend/api/middleware"
	"github.com/angelmondragon/glassworks-backend/internal/auth"
	"github.com/angelmondragon/glassworks-backend/internal/events"
	"github.com/angelmondragon/glassworks-backend/internal/galleries"
	"github.com/angelmondragon/glassworks-backend/internal/orders"
	"github.com/angelmondragon/glassworks-backend/internal/pieces"
	"github.com/angelmondragon/glassworks-backend/internal/piecetypes"
	"github.com/angelmondragon/glassworks-backend/internal/stock"
	"github.com/angelmondragon/glassworks-backend/pkg/auth/session"
	"github.com/angelmondragon/glassworks-backend/pkg/config"
	"github.com/angelmondragon/glassworks-backend/pkg/logger"
	"github.com/angelmondragon/glassworks-backend/pkg/metrics"
)

type rateLimitStore interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Deps carries everything the router mounts. Nil services answer 500 on
// their routes; a nil RateLimitStore disables auth throttling.
type Deps struct {
	DB             controllers.Pinger
	Redis          controllers.Pinger
	Sessions       session.AccessSessionChecker
	RateLimitStore rateLimitStore
	Gatherer       prometheus.Gatherer
	HTTPMetrics    *metrics.HTTPMetrics

	Auth       auth.Service
	Galleries  galleries.Service
	PieceTypes piecetypes.Service
	Pieces     pieces.Service
	Stock      stock.Service
	Orders     orders.Service
	Events     events.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readinessDeps(deps)))
	})
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	limit := func(p middleware.AuthRateLimitPolicy) func(http.Handler) http.Handler {
		if deps.RateLimitStore == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return middleware.AuthRateLimit(p, deps.RateLimitStore, logg)
	}
	requireSession := middleware.Auth(cfg.Session, deps.Sessions, logg)

	r.Route("/api", func(r chi.Router) {
		r.With(limit(middleware.RegisterPolicy(cfg.AuthRateLimit))).Post("/register", controllers.AuthRegister(deps.Auth, cfg.Session, logg))
		r.With(limit(middleware.LoginPolicy(cfg.AuthRateLimit))).Post("/login", controllers.AuthLogin(deps.Auth, cfg.Session, logg))
		r.With(limit(middleware.ResetPolicy(cfg.AuthRateLimit))).Post("/forgot-password", controllers.AuthForgotPassword(deps.Auth, logg))
		r.With(limit(middleware.ResetPolicy(cfg.AuthRateLimit))).Post("/reset-password", controllers.AuthResetPassword(deps.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireSession)

			r.Post("/logout", controllers.AuthLogout(deps.Auth, cfg.Session, logg))
			r.Get("/user", controllers.AuthCurrentUser(deps.Auth, logg))

			r.Route("/pieces", func(r chi.Router) {
				r.Get("/", controllers.PieceList(deps.Pieces, logg))
				r.Post("/", controllers.PieceCreate(deps.Pieces, logg))
				r.Get("/{id}", controllers.PieceGet(deps.Pieces, logg))
				r.Patch("/{id}", controllers.PieceUpdate(deps.Pieces, logg))
				r.Delete("/{id}", controllers.PieceDelete(deps.Pieces, logg))
			})

			r.Route("/piece-types", func(r chi.Router) {
				r.Get("/", controllers.PieceTypeList(deps.PieceTypes, logg))
				r.Post("/", controllers.PieceTypeCreate(deps.PieceTypes, logg))
				r.Get("/{id}", controllers.PieceTypeGet(deps.PieceTypes, logg))
				r.Patch("/{id}", controllers.PieceTypeUpdate(deps.PieceTypes, logg))
				r.Delete("/{id}", controllers.PieceTypeDelete(deps.PieceTypes, logg))
			})

			r.Route("/piece-subtypes", func(r chi.Router) {
				r.Get("/", controllers.PieceSubtypeList(deps.PieceTypes, logg))
				r.Post("/", controllers.PieceSubtypeCreate(deps.PieceTypes, logg))
				r.Patch("/{id}", controllers.PieceSubtypeUpdate(deps.PieceTypes, logg))
				r.Delete("/{id}", controllers.PieceSubtypeDelete(deps.PieceTypes, logg))
			})

			r.Route("/stock", func(r chi.Router) {
				r.Get("/items", controllers.StockItemList(deps.Stock, logg))
				r.Post("/items", controllers.StockItemCreate(deps.Stock, logg))
				r.Get("/items/{id}", controllers.StockItemGet(deps.Stock, logg))
				r.Patch("/items/{id}", controllers.StockItemUpdate(deps.Stock, logg))
				r.Delete("/items/{id}", controllers.StockItemDelete(deps.Stock, logg))

				r.Get("/movements", controllers.StockMovementList(deps.Stock, logg))
				r.Post("/movements", controllers.StockMovementCreate(deps.Stock, logg))
				r.Get("/movements/{id}", controllers.StockMovementGet(deps.Stock, logg))
				r.Patch("/movements/{id}", controllers.StockMovementUpdate(deps.Stock, logg))
				r.Delete("/movements/{id}", controllers.StockMovementDelete(deps.Stock, logg))
			})

			r.Route("/galleries", func(r chi.Router) {
				r.Get("/", controllers.GalleryList(deps.Galleries, logg))
				r.Post("/", controllers.GalleryCreate(deps.Galleries, logg))
				r.Get("/{id}", controllers.GalleryGet(deps.Galleries, logg))
				r.Patch("/{id}", controllers.GalleryUpdate(deps.Galleries, logg))
				r.Delete("/{id}", controllers.GalleryDelete(deps.Galleries, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(deps.Orders, logg))
				r.Post("/", controllers.OrderCreate(deps.Orders, logg))
				r.Get("/{id}", controllers.OrderGet(deps.Orders, logg))
				r.Patch("/{id}", controllers.OrderUpdate(deps.Orders, logg))
				r.Delete("/{id}", controllers.OrderDelete(deps.Orders, logg))
			})

			r.Route("/order-items", func(r chi.Router) {
				r.Get("/", controllers.OrderItemList(deps.Orders, logg))
				r.Post("/", controllers.OrderItemCreate(deps.Orders, logg))
				r.Patch("/{id}", controllers.OrderItemUpdate(deps.Orders, logg))
				r.Delete("/{id}", controllers.OrderItemDelete(deps.Orders, logg))
			})

			r.Route("/events", func(r chi.Router) {
				r.Get("/", controllers.EventList(deps.Events, logg))
				r.Post("/", controllers.EventCreate(deps.Events, logg))
				r.Get("/{id}", controllers.EventGet(deps.Events, logg))
				r.Patch("/{id}", controllers.EventUpdate(deps.Events, logg))
				r.Delete("/{id}", controllers.EventDelete(deps.Events, logg))
			})

			r.Route("/event-pieces", func(r chi.Router) {
				r.Get("/", controllers.EventPieceList(deps.Events, logg))
				r.Post("/", controllers.EventPieceCreate(deps.Events, logg))
				r.Delete("/{id}", controllers.EventPieceDelete(deps.Events, logg))
			})
		})
	})

	return r
}

func readinessDeps(deps Deps) map[string]controllers.Pinger {
	out := map[string]controllers.Pinger{}
	if deps.DB != nil {
		out["db"] = deps.DB
	}
	if deps.Redis != nil {
		out["redis"] = deps.Redis
	}
	return out
}
