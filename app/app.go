package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"storefront-core/app/controller"
	"storefront-core/app/router"
	"storefront-core/config"
	"storefront-core/db"
	"storefront-core/kvstore"
	"storefront-core/repository"
	"storefront-core/service"
)

// App is the wired application
type App struct {
	Handler http.Handler

	closers []func() error
}

// Close releases the storage backend connections
func (a *App) Close() error {
	var firstErr error
	for _, c := range a.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	// Initialize storage backend
	backend, err := openBackend(ctx, cfg, a)
	if err != nil {
		a.Close()
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	storeMetrics := kvstore.NewMetrics(registry)
	store := kvstore.NewInstrumentedStore(backend, storeMetrics, cfg.StoreBackend)
	locks := kvstore.NewKeyedMutex()

	// Initialize repositories
	userStorage := repository.NewUserStorage(store, locks, cfg.KeyNamespace)
	userStorage.SetCorruptionObserver(storeMetrics)

	builtIns, err := repository.BuiltInCatalog()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load built-in catalog: %w", err)
	}
	catalogRepo := repository.NewCatalogRepository(store, locks, builtIns, cfg.CatalogDemo)
	userRepo := repository.NewUserRepository(store, locks)
	orderRepo := repository.NewOrderRepository(userStorage)
	walletRepo := repository.NewWalletRepository(userStorage)
	cartRepo := repository.NewCartRepository(store, locks)
	ratingRepo := repository.NewRatingRepository(store, locks)
	favoritesRepo := repository.NewFavoritesRepository(userStorage)

	// Initialize services
	catalogService := service.NewCatalogService(catalogRepo)
	profileService := service.NewProfileService(userRepo, orderRepo, userStorage)
	cartService := service.NewCartService(cartRepo, orderRepo, walletRepo, profileService)
	orderService := service.NewOrderService(orderRepo, profileService)

	if _, err := catalogService.Startup(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to prepare catalog: %w", err)
	}
	if _, err := profileService.Hydrate(ctx); err != nil {
		log.Warnf("⚠️  Initialize: Could not hydrate profile, starting signed out: %v", err)
	}

	// Create controllers
	controllers := &router.Controllers{
		Catalog:   controller.NewCatalogController(catalogService),
		Profile:   controller.NewProfileController(profileService),
		Cart:      controller.NewCartController(cartService, orderService),
		Wallet:    controller.NewWalletController(walletRepo),
		Rating:    controller.NewRatingController(ratingRepo),
		Favorites: controller.NewFavoritesController(favoritesRepo),
		UserData:  controller.NewUserDataController(userStorage),
	}

	a.Handler = router.NewRouter(controllers, registry)
	return a, nil
}

func openBackend(ctx context.Context, cfg *config.Config, a *App) (kvstore.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		conn, err := db.Open(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.closers = append(a.closers, func() error { return db.Close(conn) })
		if err := db.EnsureSchema(ctx, conn); err != nil {
			return nil, err
		}
		log.Printf("📦 Storage backend: postgres")
		return kvstore.NewPostgresStore(conn), nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		a.closers = append(a.closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		log.Printf("📦 Storage backend: redis (%s)", cfg.RedisAddr)
		return kvstore.NewRedisStore(client), nil

	default:
		log.Printf("📦 Storage backend: memory (data is lost on restart)")
		return kvstore.NewMemoryStore(), nil
	}
}
