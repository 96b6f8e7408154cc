package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/iliyamo/nihongo-sekai/internal/call"
	"github.com/iliyamo/nihongo-sekai/internal/config"
	"github.com/iliyamo/nihongo-sekai/internal/database"
	"github.com/iliyamo/nihongo-sekai/internal/handler"
	"github.com/iliyamo/nihongo-sekai/internal/logger"
	"github.com/iliyamo/nihongo-sekai/internal/media"
	"github.com/iliyamo/nihongo-sekai/internal/metrics"
	"github.com/iliyamo/nihongo-sekai/internal/middleware"
	"github.com/iliyamo/nihongo-sekai/internal/queue"
	"github.com/iliyamo/nihongo-sekai/internal/repository"
	"github.com/iliyamo/nihongo-sekai/internal/router"
	"github.com/iliyamo/nihongo-sekai/internal/seed"
	"github.com/iliyamo/nihongo-sekai/internal/service"
	"github.com/iliyamo/nihongo-sekai/internal/tracing"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded, using process environment")
	}
	cfg := config.Load()
	lg := logger.SetupGlobalHandler(cfg.ServiceName, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dsn := database.DSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	db, err := database.Open(ctx, dsn)
	if err != nil {
		lg.Error("database unavailable", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "internal/database/migrations"
	}
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := database.Migrate(ctx, db.DB, migrationsDir); err != nil {
			lg.Error("migration failed", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	if cfg.Tracing {
		shutdown, err := tracing.InitTracerProvider(ctx, cfg.ServiceName)
		if err != nil {
			lg.Warn("tracing disabled", slog.Any("error", err))
		} else {
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = shutdown(sctx)
			}()
		}
	}

	// Redis backs the response cache and the rate limiters.  Without it
	// both are pass-through.
	rdb, err := config.NewRedisClient(ctx)
	if err != nil {
		lg.Warn("redis unavailable, cache and rate limiting disabled", slog.Any("error", err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	pub := service.NewPublisher(cfg.RabbitURL, lg)
	defer pub.Close()
	go func() {
		c := queue.Consumer{URL: cfg.RabbitURL, Dir: "logs", Log: lg}
		if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			lg.Error("event consumer stopped", slog.Any("error", err))
		}
	}()

	var (
		store service.CatalogStore
		users service.UserFinder
	)
	if cfg.CatalogSource == "mysql" {
		store, users = repository.NewCatalogRepo(db), repository.NewUserRepo(db)
	} else {
		store, users = repository.NewMemoryCatalog(seed.All()), repository.NewMemoryUsers(seed.Users())
	}
	lg.Info("catalog source", slog.String("source", cfg.CatalogSource))

	listingCfg := config.LoadListingConfig()
	cache := middleware.NewCache(config.LoadCacheConfig(), rdb, lg)
	catalog := service.NewCatalogService(store, listingCfg.LoadDelay, pub, cache, lg)

	mediaCfg := config.LoadMediaConfig()
	if !mediaCfg.Configured() {
		lg.Warn("LIVEKIT_URL/LIVEKIT_API_KEY/LIVEKIT_API_SECRET not set, calls will report sdk_unavailable")
	}
	prov := media.NewProvisioner(mediaCfg)
	rooms := repository.NewVideoRoomRepo(db)
	video := service.NewVideoService(rooms, prov, lg)
	calls := service.NewCallSessions(rooms, prov, func() call.SDK {
		return media.NewRoomSDK(prov, prov.Configured(), lg)
	}, pub, lg)
	identity := service.NewIdentityService(users, cfg.JWTSecret, time.Duration(cfg.IdentityTTLMin)*time.Minute)

	e := echo.New()
	e.HideBanner = true
	e.Use(otelecho.Middleware(cfg.ServiceName))
	e.Use(metrics.HTTP())
	e.Use(middleware.RequestLogger(lg))
	e.Use(middleware.Identity(cfg.JWTSecret))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(identity))
	router.RegisterCatalog(e,
		handler.NewCatalogHandler(catalog),
		handler.NewLiveSearchHandler(catalog, listingCfg.SearchDebounce, lg),
		cache,
		middleware.RateLimit(config.LoadRateLimitConfig(), rdb, lg),
	)
	router.RegisterVideo(e,
		handler.NewVideoHandler(video),
		handler.NewCallHandler(calls),
		middleware.RateLimit(config.LoadVideoRateLimitConfig(), rdb, lg),
	)

	go func() {
		addr := ":" + cfg.Port
		lg.Info("listening", slog.String("addr", addr), slog.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	lg.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	calls.Close(sctx)
	if err := e.Shutdown(sctx); err != nil {
		lg.Error("shutdown", slog.Any("error", err))
	}
}
