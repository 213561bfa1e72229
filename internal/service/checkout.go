package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/linemk/wegx-store/internal/catalog"
	"github.com/linemk/wegx-store/internal/domain/models"
	"github.com/linemk/wegx-store/internal/events"
	"github.com/linemk/wegx-store/internal/postal"
	"github.com/linemk/wegx-store/internal/storage"
)

var validate = validator.New()

// PaymentInput — данные оплаты из формы оформления. Данные карты не сохраняются в заказе.
type PaymentInput struct {
	Method     models.PaymentMethod `json:"method" validate:"required,oneof=pix credit_card debit_card boleto"`
	Document   string               `json:"document" validate:"required"`
	CardNumber string               `json:"card_number,omitempty"`
	HolderName string               `json:"holder_name,omitempty"`
	Expiry     string               `json:"expiry,omitempty"`
	CVV        string               `json:"cvv,omitempty"`
}

// CheckoutRequest — входные данные оформления заказа
type CheckoutRequest struct {
	Address        models.Address
	Payment        PaymentInput
	IdempotencyKey string
}

// ValidateAddress проверяет адрес: всё обязательно кроме complement, CEP из 8 цифр, штат — UF
func ValidateAddress(a models.Address) error {
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("%w: address: %s", ErrValidation, err.Error())
	}
	return nil
}

// ValidatePayment проверяет документ и, для карт, поля карты
func ValidatePayment(p PaymentInput) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: payment: %s", ErrValidation, err.Error())
	}
	if !p.Method.IsCard() {
		return nil
	}
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"card_number", p.CardNumber},
		{"holder_name", p.HolderName},
		{"expiry", p.Expiry},
		{"cvv", p.CVV},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: payment: missing card fields %v", ErrValidation, missing)
	}
	return nil
}

type CheckoutService interface {
	Submit(ctx context.Context, req CheckoutRequest) (*models.Order, error)
}

type checkoutService struct {
	log       *slog.Logger
	cart      storage.CartStorage
	orders    storage.OrderStorage
	catalog   catalog.Provider
	pricing   PricingPolicy
	lookup    postal.Lookup
	publisher events.Publisher
	now       func() time.Time
}

// NewCheckoutService собирает сервис оформления. lookup может быть nil — тогда адрес не дополняется.
func NewCheckoutService(
	log *slog.Logger,
	cart storage.CartStorage,
	orders storage.OrderStorage,
	provider catalog.Provider,
	pricing PricingPolicy,
	lookup postal.Lookup,
	publisher events.Publisher,
) CheckoutService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &checkoutService{
		log:       log,
		cart:      cart,
		orders:    orders,
		catalog:   provider,
		pricing:   pricing,
		lookup:    lookup,
		publisher: publisher,
		now:       time.Now,
	}
}

// Submit превращает корзину в заказ.
// Создание заказа и очистка корзины не атомарны: повтор с тем же ключом
// идемпотентности возвращает уже созданный заказ и снова очищает корзину.
func (s *checkoutService) Submit(ctx context.Context, req CheckoutRequest) (*models.Order, error) {
	const op = "service.CheckoutService.Submit"
	logger := s.log.With(slog.String("op", op), slog.String("method", string(req.Payment.Method)))

	addr := s.fillAddress(ctx, logger, req.Address)

	if err := ValidateAddress(addr); err != nil {
		logger.Warn("invalid address", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ValidatePayment(req.Payment); err != nil {
		logger.Warn("invalid payment", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if req.IdempotencyKey != "" {
		existing, err := s.orders.GetOrderByIdempotencyKey(ctx, req.IdempotencyKey)
		switch {
		case err == nil:
			logger.Info("repeated checkout, returning existing order", slog.String("orderNumber", existing.OrderNumber))
			s.clearCart(ctx, logger)
			return existing, nil
		case !errors.Is(err, storage.ErrOrderNotFound):
			logger.Error("failed to look up idempotency key", slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to look up idempotency key: %w", op, err)
		}
	}

	items, err := s.cart.ListItems(ctx)
	if err != nil {
		logger.Error("failed to list cart items", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list cart items: %w", op, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyCart)
	}

	cat, err := s.catalog.Load(ctx)
	if err != nil {
		logger.Error("failed to load catalog", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	lines := ResolveLines(cat, items)
	for _, l := range lines {
		if l.Product == nil {
			logger.Warn("cart references missing product", slog.String("productID", l.Item.ProductID))
			return nil, fmt.Errorf("%s: %s: %w", op, l.Item.ProductID, ErrProductNotFound)
		}
	}

	now := s.now()
	subtotal := s.pricing.Subtotal(lines)
	express := ExpressEligible(lines)

	order := &models.Order{
		ID:                uuid.NewString(),
		OrderNumber:       OrderNumber(now),
		CreatedAt:         now,
		Items:             snapshotItems(lines),
		Subtotal:          subtotal,
		Shipping:          s.pricing.Shipping(subtotal),
		Total:             s.pricing.Total(subtotal),
		PaymentMethod:     req.Payment.Method,
		Address:           addr,
		CustomerDocument:  req.Payment.Document,
		ExpressDelivery:   express,
		EstimatedDelivery: s.pricing.EstimatedDelivery(now, express),
		IdempotencyKey:    req.IdempotencyKey,
	}
	order.Place(now)

	created, err := s.orders.CreateOrder(ctx, order)
	switch {
	case errors.Is(err, storage.ErrOrderExists) && created != nil:
		// параллельный запрос с тем же ключом успел раньше
		logger.Info("concurrent checkout with same key, returning existing order", slog.String("orderNumber", created.OrderNumber))
		s.clearCart(ctx, logger)
		return created, nil
	case err != nil:
		logger.Error("failed to create order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create order: %w", op, err)
	}
	order = created
	logger = logger.With(slog.String("orderNumber", order.OrderNumber))

	s.clearCart(ctx, logger)

	env, err := events.OrderCreated(order, now)
	if err == nil {
		err = s.publisher.Publish(ctx, env)
	}
	if err != nil {
		logger.Warn("failed to publish order event", slog.Any("error", err))
	}

	logger.Info("order placed",
		slog.String("status", string(order.Status)),
		slog.String("total", order.Total.StringFixed(2)),
		slog.Bool("express", order.ExpressDelivery),
	)
	return order, nil
}

// fillAddress дополняет пустые поля адреса по CEP. Ошибки поиска игнорируются.
func (s *checkoutService) fillAddress(ctx context.Context, logger *slog.Logger, addr models.Address) models.Address {
	addr.CEP = postal.NormalizeCEP(addr.CEP)
	if s.lookup == nil || len(addr.CEP) != 8 {
		return addr
	}
	if addr.Street != "" && addr.Neighborhood != "" && addr.City != "" && addr.State != "" {
		return addr
	}
	found, err := s.lookup.Lookup(ctx, addr.CEP)
	if err != nil {
		logger.Debug("cep lookup failed, keeping address as entered", slog.Any("error", err))
		return addr
	}
	if addr.Street == "" {
		addr.Street = found.Street
	}
	if addr.Neighborhood == "" {
		addr.Neighborhood = found.Neighborhood
	}
	if addr.City == "" {
		addr.City = found.City
	}
	if addr.State == "" {
		addr.State = found.State
	}
	return addr
}

func (s *checkoutService) clearCart(ctx context.Context, logger *slog.Logger) {
	if err := s.cart.Clear(ctx); err != nil {
		logger.Error("order created but cart was not cleared", slog.Any("error", err))
	}
}

func snapshotItems(lines []CartLine) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.OrderItem{
			ProductID:    l.Product.ID,
			ProductName:  l.Product.Name,
			ProductImage: l.Product.MainImage(),
			Quantity:     l.Item.Quantity,
			Price:        l.Product.Price,
		})
	}
	return items
}

// OrderNumber — "WEGX-" и последние пять цифр времени в миллисекундах
func OrderNumber(t time.Time) string {
	return fmt.Sprintf("WEGX-%05d", t.UnixMilli()%100000)
}
