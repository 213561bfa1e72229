package service_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/linemk/wegx-store/internal/catalog"
	"github.com/linemk/wegx-store/internal/domain/models"
	"github.com/linemk/wegx-store/internal/events"
	"github.com/linemk/wegx-store/internal/postal"
	"github.com/linemk/wegx-store/internal/storage"
	"github.com/shopspring/decimal"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fakeCatalog struct {
	cat *models.Catalog
	err error
}

var _ catalog.Provider = (*fakeCatalog)(nil)

func (f *fakeCatalog) Load(ctx context.Context) (*models.Catalog, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.cat, nil
}

// testCatalog: m1 экспресс в наличии, m2 экспресс без остатка, c1 обычный
func testCatalog() *models.Catalog {
	return &models.Catalog{
		Categories: []models.Category{
			{ID: "cables", Name: "Cabos", Order: 2},
			{ID: "motors", Name: "Motores", Order: 1},
			{ID: "empty", Name: "Vazia", Order: 3},
		},
		Products: []models.Product{
			{ID: "m1", SKU: "MOT-001", Name: "Motor W22", Price: dec("100.00"), Stock: 5, CategoryID: "motors", ExpressDelivery: true, Images: []string{"m1.jpg"}, CreatedDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
			{ID: "m2", SKU: "MOT-002", Name: "Motor W21", Price: dec("450.00"), Stock: 0, CategoryID: "motors", ExpressDelivery: true, CreatedDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
			{ID: "c1", SKU: "CAB-001", Name: "Cabo flexível", Price: dec("298.99"), Stock: 10, CategoryID: "cables", CreatedDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
			{ID: "m3", SKU: "MOT-003", Name: "Motor W50", Price: dec("10.00"), Stock: 1, CategoryID: "motors", ExpressDelivery: true, CreatedDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
}

// failingClearCart оборачивает корзину и ломает Clear
type failingClearCart struct {
	storage.CartStorage
}

func (f *failingClearCart) Clear(ctx context.Context) error {
	return errors.New("disk full")
}

// barrierCatalog отдаёт каталог только когда Load вызвали parties раз
type barrierCatalog struct {
	cat     *models.Catalog
	arrived sync.WaitGroup
}

func newBarrierCatalog(cat *models.Catalog, parties int) *barrierCatalog {
	b := &barrierCatalog{cat: cat}
	b.arrived.Add(parties)
	return b
}

func (b *barrierCatalog) Load(ctx context.Context) (*models.Catalog, error) {
	b.arrived.Done()
	b.arrived.Wait()
	return b.cat, nil
}

// failingCreateOrders отказывает в создании заказа
type failingCreateOrders struct {
	storage.OrderStorage
}

func (f *failingCreateOrders) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	return nil, errors.New("write rejected")
}

type fakeLookup struct {
	addr  *postal.Address
	err   error
	calls int
}

var _ postal.Lookup = (*fakeLookup)(nil)

func (f *fakeLookup) Lookup(ctx context.Context, cep string) (*postal.Address, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.addr, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Envelope
	err    error
}

var _ events.Publisher = (*recordingPublisher)(nil)

func (p *recordingPublisher) Publish(ctx context.Context, env events.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, env)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }
