package models_test

import (
	"testing"
	"time"

	"github.com/linemk/wegx-store/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentMethod_InitialStatus(t *testing.T) {
	assert.Equal(t, models.StatusAwaitingPayment, models.PaymentPix.InitialStatus())
	assert.Equal(t, models.StatusPaymentConfirmed, models.PaymentBoleto.InitialStatus())
	assert.Equal(t, models.StatusPaymentConfirmed, models.PaymentCreditCard.InitialStatus())
	assert.Equal(t, models.StatusPaymentConfirmed, models.PaymentDebitCard.InitialStatus())
}

func TestOrder_Place(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	order := &models.Order{PaymentMethod: models.PaymentBoleto}
	order.Place(now)

	assert.Equal(t, models.StatusPaymentConfirmed, order.Status)
	require.Len(t, order.StatusHistory, 1)
	// последняя запись журнала совпадает с текущим статусом
	assert.Equal(t, order.Status, order.StatusHistory[0].Status)
	assert.Equal(t, "Pedido realizado", order.StatusHistory[0].Message)
	assert.Equal(t, now, order.StatusHistory[0].Timestamp)
}

func TestOrder_CancelAllowed(t *testing.T) {
	for _, st := range []models.Status{models.StatusAwaitingPayment, models.StatusPaymentConfirmed} {
		order := &models.Order{Status: st}
		err := order.Transition(models.StatusCancelled, "Pedido cancelado pelo cliente", time.Now())
		assert.NoError(t, err, "cancel from %s", st)
		assert.Equal(t, models.StatusCancelled, order.Status)
		require.Len(t, order.StatusHistory, 1)
		assert.Equal(t, models.StatusCancelled, order.StatusHistory[0].Status)
	}
}

func TestOrder_CancelRejected(t *testing.T) {
	for _, st := range []models.Status{
		models.StatusPicking,
		models.StatusOutForDelivery,
		models.StatusDelivered,
		models.StatusCancelled,
	} {
		order := &models.Order{Status: st}
		err := order.Transition(models.StatusCancelled, "x", time.Now())
		assert.ErrorIs(t, err, models.ErrInvalidTransition, "cancel from %s", st)
		assert.Equal(t, st, order.Status)
		assert.Empty(t, order.StatusHistory)
	}
}

func TestOrder_NoSkipOrBackwards(t *testing.T) {
	order := &models.Order{Status: models.StatusPaymentConfirmed}
	assert.ErrorIs(t, order.Transition(models.StatusDelivered, "", time.Now()), models.ErrInvalidTransition)
	assert.ErrorIs(t, order.Transition(models.StatusAwaitingPayment, "", time.Now()), models.ErrInvalidTransition)
}

func TestOrder_HistoryMonotonic(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	order := &models.Order{PaymentMethod: models.PaymentPix}
	order.Place(t0)

	// часы "ушли назад" — запись всё равно не раньше предыдущей
	require.NoError(t, order.Transition(models.StatusPaymentConfirmed, "ok", t0.Add(-time.Minute)))
	require.NoError(t, order.Transition(models.StatusPicking, "ok", t0.Add(time.Minute)))

	for i := 1; i < len(order.StatusHistory); i++ {
		assert.False(t, order.StatusHistory[i].Timestamp.Before(order.StatusHistory[i-1].Timestamp))
	}
	last := order.StatusHistory[len(order.StatusHistory)-1]
	assert.Equal(t, order.Status, last.Status)
}

func TestStatus_ProgressIndex(t *testing.T) {
	assert.Equal(t, 0, models.StatusAwaitingPayment.ProgressIndex())
	assert.Equal(t, 4, models.StatusDelivered.ProgressIndex())
	assert.Equal(t, -1, models.StatusCancelled.ProgressIndex())

	next, ok := models.StatusPicking.Next()
	assert.True(t, ok)
	assert.Equal(t, models.StatusOutForDelivery, next)

	_, ok = models.StatusDelivered.Next()
	assert.False(t, ok)
	_, ok = models.StatusCancelled.Next()
	assert.False(t, ok)
}

func TestStatus_Labels(t *testing.T) {
	assert.Equal(t, "Em Separação", models.StatusPicking.Label())
	assert.Equal(t, "Boleto Bancário", models.PaymentBoleto.Label())
	assert.Equal(t, "UNKNOWN", models.Status("UNKNOWN").Label())
	assert.True(t, models.StatusCancelled.Terminal())
	assert.True(t, models.StatusDelivered.Terminal())
	assert.False(t, models.StatusPicking.Cancellable())
}
