package di

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/sandeepkv93/storefront-crud-api/internal/app"
	"github.com/sandeepkv93/storefront-crud-api/internal/config"
	"github.com/sandeepkv93/storefront-crud-api/internal/database"
	"github.com/sandeepkv93/storefront-crud-api/internal/health"
	"github.com/sandeepkv93/storefront-crud-api/internal/http/handler"
	"github.com/sandeepkv93/storefront-crud-api/internal/http/router"
	"github.com/sandeepkv93/storefront-crud-api/internal/observability"
	"github.com/sandeepkv93/storefront-crud-api/internal/repository"
	"github.com/sandeepkv93/storefront-crud-api/internal/service"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(
	provideObservabilityRuntime,
	provideAppLogger,
)

var RuntimeInfraSet = wire.NewSet(
	provideRuntimeDB,
	provideReadinessProbeRunner,
)

var RepositorySet = wire.NewSet(
	repository.NewProductRepository,
	repository.NewUserRepository,
)

var ServiceSet = wire.NewSet(
	service.NewProductService,
	service.NewUserService,
	wire.Bind(new(service.ProductService), new(*service.ProductServiceImpl)),
	wire.Bind(new(service.UserService), new(*service.UserServiceImpl)),
)

var HTTPSet = wire.NewSet(
	handler.NewProductHandler,
	handler.NewUserHandler,
	provideRouterDependencies,
	router.NewRouter,
	provideHTTPServer,
)

var AppSet = wire.NewSet(provideApp)

func provideObservabilityRuntime(cfg *config.Config) (*observability.Runtime, error) {
	bootstrapLogger := observability.NewBootstrapLogger(cfg)
	return observability.InitRuntime(context.Background(), cfg, bootstrapLogger)
}

func provideAppLogger(cfg *config.Config, runtime *observability.Runtime) *slog.Logger {
	return observability.InitLogger(cfg, runtime.LoggerProvider)
}

// provideRuntimeDB opens the store and brings the schema up to date. Sample
// products are inserted only when SEED_SAMPLE_PRODUCTS is set.
func provideRuntimeDB(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	if cfg.SeedSampleProducts {
		report, err := database.SeedProducts(db)
		if err != nil {
			return nil, err
		}
		logger.Info("sample products seeded", "created", report.CreatedProducts, "noop", report.Noop)
	}
	return db, nil
}

func provideRouterDependencies(
	productHandler *handler.ProductHandler,
	userHandler *handler.UserHandler,
	readiness *health.ProbeRunner,
	cfg *config.Config,
) router.Dependencies {
	return router.Dependencies{
		ProductHandler: productHandler,
		UserHandler:    userHandler,
		CORSOrigins:    cfg.CORSAllowedOrigins,
		BodyLimitBytes: cfg.HTTPBodyLimitBytes,
		Readiness:      readiness,
		EnableOTelHTTP: cfg.OTELMetricsEnabled || cfg.OTELTracingEnabled,
	}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func provideReadinessProbeRunner(cfg *config.Config, db *gorm.DB) *health.ProbeRunner {
	return health.NewProbeRunner(
		cfg.ReadinessProbeTimeout,
		cfg.ServerStartGracePeriod,
		health.NewDBChecker(db),
		health.NewSchemaChecker(db),
	)
}

func provideApp(
	cfg *config.Config,
	logger *slog.Logger,
	server *http.Server,
	runtime *observability.Runtime,
	db *gorm.DB,
	readiness *health.ProbeRunner,
) *app.App {
	return app.New(cfg, logger, server, runtime, db, readiness)
}
