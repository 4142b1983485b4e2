package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	accountmod "github.com/dmitrymomot/accountkit/modules/account"
	"github.com/dmitrymomot/accountkit/pkg/clientip"
	"github.com/dmitrymomot/accountkit/pkg/config"
	"github.com/dmitrymomot/accountkit/pkg/email"
	"github.com/dmitrymomot/accountkit/pkg/environment"
	"github.com/dmitrymomot/accountkit/pkg/httpserver"
	"github.com/dmitrymomot/accountkit/pkg/logger"
	"github.com/dmitrymomot/accountkit/pkg/mongo"
	"github.com/dmitrymomot/accountkit/pkg/pg"
	"github.com/dmitrymomot/accountkit/pkg/ratelimiter"
	"github.com/dmitrymomot/accountkit/pkg/redis"
	"github.com/dmitrymomot/accountkit/pkg/requestid"
	"github.com/dmitrymomot/accountkit/svc/account"
	"github.com/dmitrymomot/accountkit/svc/account/memstore"
	"github.com/dmitrymomot/accountkit/svc/account/mongostore"
	"github.com/dmitrymomot/accountkit/svc/account/pgstore"
)

const (
	driverMemory   = "memory"
	driverPostgres = "postgres"
	driverMongo    = "mongo"
	driverRedis    = "redis"
)

type appConfig struct {
	StoreDriver     string `env:"STORE_DRIVER" envDefault:"memory"`
	RateLimitDriver string `env:"RATE_LIMIT_DRIVER" envDefault:"memory"`
	TrustProxy      bool   `env:"TRUST_PROXY" envDefault:"false"`
	MaxBodyBytes    int64  `env:"MAX_BODY_BYTES" envDefault:"65536"`

	Env       environment.Config
	Log       logger.Config
	HTTP      httpserver.Config
	Account   account.Config
	Email     email.Config
	RateLimit ratelimiter.Config
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(append(
		logger.FromConfig(cfg.Env.Environment(), cfg.Log),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	)...)
	slog.SetDefault(log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	var (
		checks  []httpserver.Check
		closers []func()
	)
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	store, err := openStore(ctx, cfg.StoreDriver, log, &checks, &closers)
	if err != nil {
		return err
	}

	limiter, err := openLimiter(ctx, cfg, &checks, &closers)
	if err != nil {
		return err
	}

	sender, err := email.NewSender(cfg.Email)
	if err != nil {
		return fmt.Errorf("email sender: %w", err)
	}
	if !cfg.Email.UsesPostmark() {
		log.Warn("postmark is not configured, writing emails to disk", slog.String("dir", cfg.Email.DevDir))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := account.NewMetrics(reg)

	issuer, err := account.NewIssuer(cfg.Account)
	if err != nil {
		return fmt.Errorf("token issuer: %w", err)
	}
	svc := account.NewService(store, issuer,
		account.WithLogger(log),
		account.WithMetrics(metrics),
		account.WithBcryptCost(cfg.Account.BcryptCost),
		account.WithMailer(account.NewEmailMailer(sender, cfg.Account.ActivationTTL, cfg.Account.ResetTTL)),
	)
	guard := account.NewGuard(store, issuer,
		account.WithGuardLogger(log),
		account.WithGuardMetrics(metrics),
	)
	mod := accountmod.New(svc, guard, cfg.Account,
		accountmod.WithLogger(log),
		accountmod.WithRateLimiter(limiter, nil),
		accountmod.WithMaxBodyBytes(cfg.MaxBodyBytes),
	)

	r := chi.NewRouter()
	r.Use(requestid.Middleware, clientip.Middleware(cfg.TrustProxy), middleware.Recoverer)
	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(log, 3*time.Second, checks...))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Mount("/account", mod.Router())

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithStopHook(func(ctx context.Context, log *slog.Logger) {
			svc.Wait()
			log.InfoContext(ctx, "pending mail delivered")
		}),
	)
	return srv.Run(ctx, r)
}

func openStore(ctx context.Context, driver string, log *slog.Logger, checks *[]httpserver.Check, closers *[]func()) (account.Storage, error) {
	switch driver {
	case driverMemory:
		log.Warn("using in-memory store, data is lost on restart")
		return memstore.New(), nil

	case driverPostgres:
		var pgCfg pg.Config
		if err := config.Load(&pgCfg); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, pool.Close)
		if err := pg.Migrate(ctx, pool, pgstore.Migrations, pgCfg, log); err != nil {
			return nil, err
		}
		*checks = append(*checks, httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)})
		return pgstore.New(pool), nil

	case driverMongo:
		var mongoCfg mongo.Config
		if err := config.Load(&mongoCfg); err != nil {
			return nil, err
		}
		db, err := mongo.NewWithDatabase(ctx, mongoCfg)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, func() {
			ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			_ = db.Client().Disconnect(ctx)
		})
		store := mongostore.New(db)
		if err := store.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		*checks = append(*checks, httpserver.Check{Name: "mongo", Fn: mongo.Healthcheck(db.Client())})
		return store, nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", driver)
}

func openLimiter(ctx context.Context, cfg appConfig, checks *[]httpserver.Check, closers *[]func()) (ratelimiter.Limiter, error) {
	var store ratelimiter.Store
	switch cfg.RateLimitDriver {
	case driverMemory:
		ms := ratelimiter.NewMemoryStore()
		*closers = append(*closers, ms.Close)
		store = ms

	case driverRedis:
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, func() { _ = client.Close() })
		*checks = append(*checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
		store = ratelimiter.NewRedisStore(client)

	default:
		return nil, errors.New("unknown RATE_LIMIT_DRIVER " + cfg.RateLimitDriver)
	}
	return ratelimiter.NewBucket(store, cfg.RateLimit)
}
