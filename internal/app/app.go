package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/linemk/wegx-store/internal/catalog"
	"github.com/linemk/wegx-store/internal/config"
	"github.com/linemk/wegx-store/internal/events"
	"github.com/linemk/wegx-store/internal/postal"
	"github.com/linemk/wegx-store/internal/service"
	"github.com/linemk/wegx-store/internal/storage"
	"github.com/linemk/wegx-store/internal/storage/kv"
	"github.com/pkg/errors"
)

// App держит собранные зависимости сервера
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Store     kv.Store
	Publisher events.Publisher
	Lookup    postal.Lookup // nil, если поиск по CEP выключен

	Catalog  service.CatalogService
	Cart     service.CartService
	Checkout service.CheckoutService
	Orders   service.OrderService
	Session  service.SessionService
}

// NewApp создаёт новый экземпляр App: хранилище по storage.backend, каталог, сервисы
func NewApp(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	threshold, fee, err := cfg.Pricing.Amounts()
	if err != nil {
		return nil, errors.Wrap(err, "invalid pricing config")
	}
	pricing := service.PricingPolicy{
		FreeShippingThreshold: threshold,
		FlatShippingFee:       fee,
		ExpressWindow:         cfg.Pricing.ExpressWindow,
		StandardWindow:        cfg.Pricing.StandardWindow,
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s storage", cfg.Storage.Backend)
	}
	log.Info("storage ready", slog.String("backend", cfg.Storage.Backend))

	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		log.Info("order events enabled", slog.String("topic", cfg.Kafka.Topic))
	}

	var lookup postal.Lookup
	if cfg.PostalLookup.Enabled {
		lookup = postal.NewViaCEPClient(cfg.PostalLookup.BaseURL, cfg.PostalLookup.Timeout)
	}

	provider := catalog.NewLoader(log, cfg.Catalog.Source, &http.Client{Timeout: cfg.Catalog.Timeout})
	cartRepo := storage.NewCartRepository(log, store)
	orderRepo := storage.NewOrderRepository(log, store)

	return &App{
		Config:    cfg,
		Logger:    log,
		Store:     store,
		Publisher: publisher,
		Lookup:    lookup,
		Catalog:   service.NewCatalogService(log, provider),
		Cart:      service.NewCartService(log, cartRepo, provider, pricing),
		Checkout:  service.NewCheckoutService(log, cartRepo, orderRepo, provider, pricing, lookup, publisher),
		Orders:    service.NewOrderService(log, orderRepo, publisher),
		Session:   service.NewSessionService(log, store),
	}, nil
}

func newStore(ctx context.Context, cfg *config.Config) (kv.Store, error) {
	switch cfg.Storage.Backend {
	case config.StorageMemory:
		return kv.NewMemoryStore(), nil
	case config.StorageFile:
		return kv.NewFileStore(cfg.Storage.Dir)
	case config.StorageRedis:
		client, err := kv.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		return kv.NewRedisStore(client, cfg.Redis.Prefix), nil
	case config.StoragePostgres:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		return kv.NewPostgresStore(db), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// Close закрывает публикатор событий и хранилище
func (a *App) Close() error {
	pubErr := a.Publisher.Close()
	storeErr := a.Store.Close()
	if pubErr != nil {
		return errors.Wrap(pubErr, "failed to close publisher")
	}
	if storeErr != nil {
		return errors.Wrap(storeErr, "failed to close storage")
	}
	return nil
}
