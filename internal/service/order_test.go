package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/linemk/wegx-store/internal/domain/models"
	"github.com/linemk/wegx-store/internal/events"
	"github.com/linemk/wegx-store/internal/service"
	"github.com/linemk/wegx-store/internal/storage"
	"github.com/linemk/wegx-store/internal/storage/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderFixture(t *testing.T) (service.OrderService, storage.OrderStorage, *recordingPublisher) {
	t.Helper()
	repo := storage.NewOrderRepository(testLogger(), kv.NewMemoryStore())
	pub := &recordingPublisher{}
	svc := service.NewOrderService(testLogger(), repo, pub)
	clock := fixedNow
	service.SetOrderClock(svc, func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	})
	return svc, repo, pub
}

func placeOrder(t *testing.T, repo storage.OrderStorage, id string, method models.PaymentMethod, created time.Time) *models.Order {
	t.Helper()
	o := &models.Order{ID: id, OrderNumber: "WEGX-" + id, CreatedAt: created, PaymentMethod: method}
	o.Place(created)
	_, err := repo.CreateOrder(context.Background(), o)
	require.NoError(t, err)
	return o
}

func TestOrderService_CancelPix(t *testing.T) {
	ctx := context.Background()
	svc, repo, pub := newOrderFixture(t)
	placeOrder(t, repo, "1", models.PaymentPix, fixedNow)

	order, err := svc.Cancel(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, order.Status)
	last := order.StatusHistory[len(order.StatusHistory)-1]
	assert.Equal(t, models.StatusCancelled, last.Status)
	assert.Equal(t, service.CancelMessage, last.Message)

	stored, err := repo.GetOrderByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, stored.Status)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.EventOrderStatusChanged, pub.events[0].EventType)

	_, err = svc.Cancel(ctx, "1")
	assert.ErrorIs(t, err, service.ErrCannotCancel)
}

func TestOrderService_CancelAfterPickingRejected(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newOrderFixture(t)
	placeOrder(t, repo, "1", models.PaymentBoleto, fixedNow)

	_, err := svc.Advance(ctx, "1", "")
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, "1")
	assert.ErrorIs(t, err, service.ErrCannotCancel)

	stored, err := repo.GetOrderByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPicking, stored.Status)
	assert.Len(t, stored.StatusHistory, 2, "rejected cancel must not touch history")
}

func TestOrderService_ConcurrentCancelAndAdvance(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewOrderRepository(testLogger(), kv.NewMemoryStore())
	svc := service.NewOrderService(testLogger(), repo, &recordingPublisher{})
	service.SetOrderClock(svc, func() time.Time { return fixedNow })

	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("o-%d", i)
		placeOrder(t, repo, id, models.PaymentBoleto, fixedNow)

		var (
			wg                    sync.WaitGroup
			cancelErr, advanceErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, cancelErr = svc.Cancel(ctx, id)
		}()
		go func() {
			defer wg.Done()
			_, advanceErr = svc.Advance(ctx, id, "")
		}()
		wg.Wait()

		stored, err := repo.GetOrderByID(ctx, id)
		require.NoError(t, err)
		require.Len(t, stored.StatusHistory, 2, "exactly one transition must be applied")

		if cancelErr == nil {
			assert.ErrorIs(t, advanceErr, service.ErrInvalidTransition)
			assert.Equal(t, models.StatusCancelled, stored.Status)
		} else {
			assert.ErrorIs(t, cancelErr, service.ErrCannotCancel)
			assert.NoError(t, advanceErr)
			assert.Equal(t, models.StatusPicking, stored.Status)
		}
	}
}

func TestOrderService_AdvanceToDelivered(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newOrderFixture(t)
	placeOrder(t, repo, "1", models.PaymentPix, fixedNow)

	want := []models.Status{
		models.StatusPaymentConfirmed,
		models.StatusPicking,
		models.StatusOutForDelivery,
		models.StatusDelivered,
	}
	var order *models.Order
	var err error
	for _, status := range want {
		order, err = svc.Advance(ctx, "1", "")
		require.NoError(t, err)
		assert.Equal(t, status, order.Status)
	}
	assert.Equal(t, "Pedido entregue", order.StatusHistory[len(order.StatusHistory)-1].Message)
	assert.Len(t, order.StatusHistory, 5)
	for i := 1; i < len(order.StatusHistory); i++ {
		assert.False(t, order.StatusHistory[i].Timestamp.Before(order.StatusHistory[i-1].Timestamp))
	}

	_, err = svc.Advance(ctx, "1", "")
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestOrderService_AdvanceCustomMessage(t *testing.T) {
	svc, repo, _ := newOrderFixture(t)
	placeOrder(t, repo, "1", models.PaymentCreditCard, fixedNow)

	order, err := svc.Advance(context.Background(), "1", "Separado no CD Jaraguá")
	require.NoError(t, err)
	assert.Equal(t, "Separado no CD Jaraguá", order.StatusHistory[1].Message)
}

func TestOrderService_NotFound(t *testing.T) {
	svc, _, _ := newOrderFixture(t)
	_, err := svc.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, service.ErrOrderNotFound)
	_, err = svc.Cancel(context.Background(), "ghost")
	assert.ErrorIs(t, err, service.ErrOrderNotFound)
}

func TestOrderService_ListFilters(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newOrderFixture(t)
	placeOrder(t, repo, "old", models.PaymentBoleto, fixedNow.Add(-2*time.Hour))
	placeOrder(t, repo, "new", models.PaymentPix, fixedNow)
	placeOrder(t, repo, "mid", models.PaymentPix, fixedNow.Add(-time.Hour))

	for i := 0; i < 3; i++ {
		_, err := svc.Advance(ctx, "old", "")
		require.NoError(t, err)
	}
	_, err := svc.Cancel(ctx, "mid")
	require.NoError(t, err)

	all, err := svc.List(ctx, service.FilterAll)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "new", all[0].ID)
	assert.Equal(t, "old", all[2].ID)

	active, err := svc.List(ctx, service.FilterActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "new", active[0].ID)

	delivered, err := svc.List(ctx, service.FilterDelivered)
	require.NoError(t, err)
	require.Len(t, delivered, 1)
	assert.Equal(t, "old", delivered[0].ID)

	_, err = svc.List(ctx, "archived")
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestOrderService_Timeline(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newOrderFixture(t)
	placeOrder(t, repo, "1", models.PaymentBoleto, fixedNow)

	tl, err := svc.Timeline(ctx, "1")
	require.NoError(t, err)
	require.Len(t, tl.Steps, 5)
	assert.True(t, tl.Steps[0].Reached)
	assert.Nil(t, tl.Steps[0].Timestamp, "pix step never happened for boleto")
	assert.True(t, tl.Steps[1].Reached)
	assert.True(t, tl.Steps[1].Current)
	assert.NotNil(t, tl.Steps[1].Timestamp)
	assert.False(t, tl.Steps[2].Reached)
	assert.False(t, tl.Cancelled)

	_, err = svc.Cancel(ctx, "1")
	require.NoError(t, err)
	tl, err = svc.Timeline(ctx, "1")
	require.NoError(t, err)
	assert.True(t, tl.Cancelled)
	assert.Equal(t, service.CancelMessage, tl.CancelMessage)
	assert.NotNil(t, tl.CancelledAt)
	assert.False(t, tl.Steps[0].Reached)
	assert.True(t, tl.Steps[1].Reached)
	for _, s := range tl.Steps {
		assert.False(t, s.Current)
	}
}
