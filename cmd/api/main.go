package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/glassworks-backend/api/controllers"
	"github.com/angelmondragon/glassworks-backend/api/routes"
	"github.com/angelmondragon/glassworks-backend/internal/auth"
	"github.com/angelmondragon/glassworks-backend/internal/events"
	"github.com/angelmondragon/glassworks-backend/internal/galleries"
	"github.com/angelmondragon/glassworks-backend/internal/orders"
	"github.com/angelmondragon/glassworks-backend/internal/pieces"
	"github.com/angelmondragon/glassworks-backend/internal/piecetypes"
	"github.com/angelmondragon/glassworks-backend/internal/stock"
	"github.com/angelmondragon/glassworks-backend/internal/users"
	"github.com/angelmondragon/glassworks-backend/pkg/auth/session"
	"github.com/angelmondragon/glassworks-backend/pkg/config"
	"github.com/angelmondragon/glassworks-backend/pkg/db"
	"github.com/angelmondragon/glassworks-backend/pkg/instance"
	"github.com/angelmondragon/glassworks-backend/pkg/logger"
	"github.com/angelmondragon/glassworks-backend/pkg/metrics"
	"github.com/angelmondragon/glassworks-backend/pkg/migrate"
	"github.com/angelmondragon/glassworks-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.Open(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var store redis.Store
	var redisPinger controllers.Pinger
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		store, redisPinger = redisClient, redisClient
	} else {
		logg.Warn(ctx, "redis not configured, sessions are kept in process memory")
		store = redis.NewMemoryStore()
	}
	defer func() { err = multierr.Append(err, store.Close()) }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	sessionManager, err := session.NewManager(store, cfg.Session)
	if err != nil {
		return err
	}

	deps, err := buildServices(cfg, logg, dbClient, store, sessionManager, reg)
	if err != nil {
		return err
	}
	deps.Redis = redisPinger

	addr := ":" + cfg.App.Port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
		"driver":   dbClient.Dialect(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildServices(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	store redis.Store,
	sessionManager *session.Manager,
	reg *prometheus.Registry,
) (routes.Deps, error) {
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:         users.NewRepository(dbClient.DB()),
		SessionManager:   sessionManager,
		TokenStore:       store,
		SessionConfig:    cfg.Session,
		PasswordConfig:   cfg.Password,
		ResetConfig:      cfg.PasswordReset,
		ExposeResetToken: cfg.App.IsDev(),
		Logger:           logg,
	})
	if err != nil {
		return routes.Deps{}, err
	}
	galleryService, err := galleries.NewService(dbClient)
	if err != nil {
		return routes.Deps{}, err
	}
	pieceTypeService, err := piecetypes.NewService(dbClient)
	if err != nil {
		return routes.Deps{}, err
	}
	pieceService, err := pieces.NewService(dbClient)
	if err != nil {
		return routes.Deps{}, err
	}
	stockService, err := stock.NewService(dbClient, metrics.NewStockMetrics(reg))
	if err != nil {
		return routes.Deps{}, err
	}
	orderService, err := orders.NewService(dbClient)
	if err != nil {
		return routes.Deps{}, err
	}
	eventService, err := events.NewService(dbClient)
	if err != nil {
		return routes.Deps{}, err
	}

	return routes.Deps{
		DB:             dbClient,
		Sessions:       sessionManager,
		RateLimitStore: store,
		Gatherer:       reg,
		HTTPMetrics:    metrics.NewHTTPMetrics(reg),
		Auth:           authService,
		Galleries:      galleryService,
		PieceTypes:     pieceTypeService,
		Pieces:         pieceService,
		Stock:          stockService,
		Orders:         orderService,
		Events:         eventService,
	}, nil
}
