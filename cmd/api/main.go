package main

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/audit"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/auth"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/categories"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/config"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/db"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/events"
	apphttp "github.com/ishantswami13-crypto/fintrack-backend/internal/http"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/logging"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/reports"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/router"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/summary"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/tracing"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/transactions"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/users"
)

const serviceName = "fintrack-api"

func main() {
	cfg, err := config.Load(config.Flags("api"), os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
	logger.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	shutdownTracing, err := tracing.Init(ctx, serviceName, cfg.Env, cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn().Err(err).Msg("flush traces")
		}
	}()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		return err
	}
	pool, err := db.Open(ctx, cfg.DatabaseURL, tracing.NewQueryTracer(otel.GetTracerProvider()))
	if err != nil {
		return err
	}
	defer pool.Close()

	revoker := auth.Revoker(auth.NewMemoryRevoker())
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rdb.AddHook(redisotel.NewTracingHook())
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		revoker = auth.NewRedisRevoker(rdb)
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("token revocation backed by redis")
	} else {
		logger.Warn().Msg("REDIS_ADDR not set, revoked tokens are kept in memory")
	}

	publisher := events.Publisher(events.Noop{})
	if cfg.AMQP.URL != "" {
		p, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, logger)
		if err != nil {
			return err
		}
		publisher = p
	}
	defer publisher.Close()

	issuer, err := auth.NewIssuer(cfg.JWT.Secret, cfg.JWT.Algorithm, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	if err != nil {
		return err
	}

	recorder := audit.NewWriter(pool, logger)

	userRepo := users.NewRepository(pool)
	userSvc := users.NewService(userRepo, cfg.Bcrypt.Cost)
	authSvc := auth.NewService(userRepo, issuer, revoker)
	catSvc := categories.NewService(categories.NewRepository(pool))
	txSvc := transactions.NewService(transactions.NewRepo(pool), catSvc, publisher, logger)
	sumSvc := summary.NewService(summary.NewRepo(pool))

	app := apphttp.NewApp(logger)
	router.UseMiddleware(app, logger, cfg.CORSOrigin)

	r := &router.Router{
		AuthHandler:        auth.NewHandler(authSvc, recorder),
		UserHandler:        users.NewHandler(userSvc, recorder),
		CategoryHandler:    categories.NewHandler(catSvc),
		TransactionHandler: transactions.NewHandler(txSvc, recorder),
		SummaryHandler:     summary.NewHandler(sumSvc),
		ReportHandler:      reports.NewHandler(txSvc, catSvc),
		AuthMW:             auth.Middleware(authSvc),
		RateLimit:          cfg.RateLimit,
		DB:                 pool,
	}
	r.RegisterRoutes(app)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := net.JoinHostPort("", cfg.Port)
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		return app.Listen(addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(sctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
