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

	"github.com/homescout/homescout-backend/api/routes"
	"github.com/homescout/homescout-backend/internal/auth"
	"github.com/homescout/homescout-backend/internal/enquiries"
	"github.com/homescout/homescout-backend/internal/investments"
	"github.com/homescout/homescout-backend/internal/ledger"
	"github.com/homescout/homescout-backend/internal/listings"
	"github.com/homescout/homescout-backend/internal/reports"
	"github.com/homescout/homescout-backend/internal/sales"
	"github.com/homescout/homescout-backend/internal/users"
	"github.com/homescout/homescout-backend/pkg/auth/session"
	"github.com/homescout/homescout-backend/pkg/config"
	"github.com/homescout/homescout-backend/pkg/db"
	"github.com/homescout/homescout-backend/pkg/logger"
	"github.com/homescout/homescout-backend/pkg/metrics"
	"github.com/homescout/homescout-backend/pkg/migrate"
	"github.com/homescout/homescout-backend/pkg/redis"
	"github.com/homescout/homescout-backend/pkg/security"
)

const (
	shutdownTimeout   = 15 * time.Second
	readHeaderTimeout = 10 * time.Second
)

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
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}
	flashes := session.NewFlashes(redisClient, sessionManager.TTL())

	credentials, err := security.NewCredentialScheme(cfg.Credentials)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps, err := buildServices(cfg, logg, dbClient, sessionManager, credentials, registry)
	if err != nil {
		return err
	}
	deps.Config = cfg
	deps.Logger = logg
	deps.DB = dbClient
	deps.Redis = redisClient
	deps.Store = redisClient
	deps.Sessions = sessionManager
	deps.Flashes = flashes
	deps.Gatherer = registry
	deps.HTTPMetrics = metrics.NewHTTPMetrics(registry)

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	logCtx := logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "addr": addr})
	logg.Info(logCtx, "starting api server")

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

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildServices(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	sessionManager *session.Manager,
	credentials security.CredentialScheme,
	reg prometheus.Registerer,
) (routes.Deps, error) {
	var deps routes.Deps
	gdb := dbClient.DB()

	userRepo := users.NewRepository(gdb)
	listingRepo := listings.NewRepository(gdb)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		Credentials:    credentials,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return deps, err
	}
	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:          dbClient,
		Credentials: credentials,
	})
	if err != nil {
		return deps, err
	}
	userService, err := users.NewService(userRepo, dbClient)
	if err != nil {
		return deps, err
	}
	listingService, err := listings.NewService(listings.ServiceParams{
		Repo:  listingRepo,
		Names: userRepo,
		TX:    dbClient,
	})
	if err != nil {
		return deps, err
	}
	ledgerService, err := ledger.NewService(ledger.NewRepository(gdb))
	if err != nil {
		return deps, err
	}
	saleService, err := sales.NewService(sales.ServiceParams{
		Repo:     sales.NewRepository(gdb),
		Listings: listingRepo,
		Users:    userRepo,
		Ledger:   ledgerService,
		TX:       dbClient,
		Metrics:  metrics.NewSaleMetrics(reg),
		Logger:   logg,
	})
	if err != nil {
		return deps, err
	}
	enquiryService, err := enquiries.NewService(enquiries.NewRepository(gdb), listingRepo, dbClient)
	if err != nil {
		return deps, err
	}
	investmentService, err := investments.NewService(investments.NewRepository(gdb), listingRepo, dbClient)
	if err != nil {
		return deps, err
	}
	reportService, err := reports.NewService(reports.ServiceParams{
		Repo:           reports.NewRepository(gdb),
		Users:          userRepo,
		SampleFallback: cfg.Reports.SampleFallback,
	})
	if err != nil {
		return deps, err
	}

	deps.Auth = authService
	deps.Register = registerService
	deps.Users = userService
	deps.Listings = listingService
	deps.Sales = saleService
	deps.Enquiries = enquiryService
	deps.Investments = investmentService
	deps.Reports = reportService
	return deps, nil
}
