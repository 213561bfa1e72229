package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linemk/wegx-store/internal/domain/models"
	"github.com/linemk/wegx-store/internal/events"
	"github.com/linemk/wegx-store/internal/storage"
)

const CancelMessage = "Pedido cancelado pelo cliente"

// OrderFilter — фильтр списка заказов
type OrderFilter string

const (
	FilterAll       OrderFilter = "all"
	FilterActive    OrderFilter = "active"
	FilterDelivered OrderFilter = "delivered"
)

var advanceMessages = map[models.Status]string{
	models.StatusPaymentConfirmed: "Pagamento confirmado",
	models.StatusPicking:          "Pedido em separação",
	models.StatusOutForDelivery:   "Pedido saiu para entrega",
	models.StatusDelivered:        "Pedido entregue",
}

// TimelineStep — шаг шкалы прогресса заказа
type TimelineStep struct {
	Status    models.Status `json:"status"`
	Label     string        `json:"label"`
	Reached   bool          `json:"reached"`
	Current   bool          `json:"current"`
	Timestamp *time.Time    `json:"timestamp,omitempty"`
}

// Timeline — шкала прогресса и сведения об отмене
type Timeline struct {
	OrderID       string         `json:"order_id"`
	OrderNumber   string         `json:"order_number"`
	Status        models.Status  `json:"status"`
	StatusLabel   string         `json:"status_label"`
	Steps         []TimelineStep `json:"steps"`
	Cancelled     bool           `json:"cancelled"`
	CancelMessage string         `json:"cancel_message,omitempty"`
	CancelledAt   *time.Time     `json:"cancelled_at,omitempty"`
}

type OrderService interface {
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	Get(ctx context.Context, id string) (*models.Order, error)
	GetByNumber(ctx context.Context, number string) (*models.Order, error)
	Cancel(ctx context.Context, id string) (*models.Order, error)
	// Advance переводит заказ на один шаг вперёд. Пустое сообщение заменяется стандартным.
	Advance(ctx context.Context, id, message string) (*models.Order, error)
	Timeline(ctx context.Context, id string) (*Timeline, error)
}

type orderService struct {
	log       *slog.Logger
	orders    storage.OrderStorage
	publisher events.Publisher
	now       func() time.Time
}

func NewOrderService(log *slog.Logger, orders storage.OrderStorage, publisher events.Publisher) OrderService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &orderService{
		log:       log,
		orders:    orders,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *orderService) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	const op = "service.OrderService.List"

	var keep func(o *models.Order) bool
	switch filter {
	case "", FilterAll:
		keep = func(*models.Order) bool { return true }
	case FilterActive:
		keep = func(o *models.Order) bool { return o.Active() }
	case FilterDelivered:
		keep = func(o *models.Order) bool { return o.Status == models.StatusDelivered }
	default:
		return nil, fmt.Errorf("%s: %w: unknown filter %q", op, ErrValidation, filter)
	}

	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		s.log.Error("failed to list orders", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list orders: %w", op, err)
	}
	out := make([]models.Order, 0, len(orders))
	for i := range orders {
		if keep(&orders[i]) {
			out = append(out, orders[i])
		}
	}
	return out, nil
}

func (s *orderService) Get(ctx context.Context, id string) (*models.Order, error) {
	const op = "service.OrderService.Get"
	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return order, nil
}

func (s *orderService) GetByNumber(ctx context.Context, number string) (*models.Order, error) {
	const op = "service.OrderService.GetByNumber"
	order, err := s.orders.GetOrderByNumber(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return order, nil
}

// Cancel отменяет заказ, если он ещё не ушёл в сборку. Иначе заказ не меняется.
func (s *orderService) Cancel(ctx context.Context, id string) (*models.Order, error) {
	const op = "service.OrderService.Cancel"
	logger := s.log.With(slog.String("op", op), slog.String("orderID", id))

	return s.transition(ctx, logger, op, id, func(o *models.Order) (models.Status, string, error) {
		if !o.Status.Cancellable() {
			return "", "", fmt.Errorf("status %s: %w", o.Status, ErrCannotCancel)
		}
		return models.StatusCancelled, CancelMessage, nil
	})
}

func (s *orderService) Advance(ctx context.Context, id, message string) (*models.Order, error) {
	const op = "service.OrderService.Advance"
	logger := s.log.With(slog.String("op", op), slog.String("orderID", id))

	return s.transition(ctx, logger, op, id, func(o *models.Order) (models.Status, string, error) {
		next, ok := o.Status.Next()
		if !ok {
			return "", "", fmt.Errorf("status %s: %w", o.Status, ErrInvalidTransition)
		}
		if message == "" {
			return next, advanceMessages[next], nil
		}
		return next, message, nil
	})
}

// transition выбирает целевой статус по сохранённому состоянию заказа и применяет его
// в одной операции хранилища.
func (s *orderService) transition(
	ctx context.Context,
	logger *slog.Logger,
	op string,
	id string,
	target func(o *models.Order) (models.Status, string, error),
) (*models.Order, error) {
	var (
		from, to models.Status
		message  string
	)
	now := s.now()
	order, err := s.orders.UpdateOrder(ctx, id, func(o *models.Order) error {
		var err error
		to, message, err = target(o)
		if err != nil {
			return err
		}
		from = o.Status
		return o.Transition(to, message, now)
	})
	switch {
	case errors.Is(err, ErrCannotCancel), errors.Is(err, ErrInvalidTransition):
		logger.Warn("order status not changed", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, ErrOrderNotFound):
		return nil, fmt.Errorf("%s: %w", op, err)
	case err != nil:
		logger.Error("failed to save order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to save order: %w", op, err)
	}

	env, err := events.OrderStatusChanged(order, from, message, now)
	if err == nil {
		err = s.publisher.Publish(ctx, env)
	}
	if err != nil {
		logger.Warn("failed to publish status event", slog.Any("error", err))
	}

	logger.Info("order status changed", slog.String("from", string(from)), slog.String("to", string(to)))
	return order, nil
}

func (s *orderService) Timeline(ctx context.Context, id string) (*Timeline, error) {
	const op = "service.OrderService.Timeline"
	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return BuildTimeline(order), nil
}

// BuildTimeline строит шкалу прогресса. Для отменённого заказа пройденными
// считаются шаги, которые есть в журнале.
func BuildTimeline(order *models.Order) *Timeline {
	tl := &Timeline{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		StatusLabel: order.Status.Label(),
		Steps:       make([]TimelineStep, 0, len(models.StatusSteps)),
		Cancelled:   order.Status == models.StatusCancelled,
	}
	current := order.Status.ProgressIndex()
	for i, step := range models.StatusSteps {
		entry, seen := order.HistoryFor(step)
		ts := TimelineStep{
			Status:  step,
			Label:   step.Label(),
			Current: i == current,
		}
		if tl.Cancelled {
			ts.Reached = seen
		} else {
			ts.Reached = i <= current
		}
		if seen {
			at := entry.Timestamp
			ts.Timestamp = &at
		}
		tl.Steps = append(tl.Steps, ts)
	}
	if entry, ok := order.HistoryFor(models.StatusCancelled); ok {
		tl.CancelMessage = entry.Message
		at := entry.Timestamp
		tl.CancelledAt = &at
	}
	return tl
}
