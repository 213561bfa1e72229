package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod — способ оплаты
type PaymentMethod string

const (
	PaymentPix        PaymentMethod = "pix"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentDebitCard  PaymentMethod = "debit_card"
	PaymentBoleto     PaymentMethod = "boleto"
)

var paymentLabels = map[PaymentMethod]string{
	PaymentPix:        "PIX",
	PaymentCreditCard: "Cartão de Crédito",
	PaymentDebitCard:  "Cartão de Débito",
	PaymentBoleto:     "Boleto Bancário",
}

func (m PaymentMethod) Label() string {
	if l, ok := paymentLabels[m]; ok {
		return l
	}
	return string(m)
}

// IsCard — метод требует данных карты
func (m PaymentMethod) IsCard() bool {
	return m == PaymentCreditCard || m == PaymentDebitCard
}

// InitialStatus — PIX ждёт оплаты, остальные методы считаются сразу подтверждёнными
func (m PaymentMethod) InitialStatus() Status {
	if m == PaymentPix {
		return StatusAwaitingPayment
	}
	return StatusPaymentConfirmed
}

// Address — адрес доставки
type Address struct {
	CEP          string `json:"cep" validate:"required,len=8,numeric"`
	Street       string `json:"street" validate:"required"`
	Number       string `json:"number" validate:"required"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood" validate:"required"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required,oneof=AC AL AP AM BA CE DF ES GO MA MT MS MG PA PB PR PE PI RJ RN RS RO RR SC SP SE TO"`
}

// OrderItem — снимок строки корзины на момент оформления. Не ссылается на товар каталога.
type OrderItem struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image,omitempty"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

// StatusEntry — запись журнала статусов
type StatusEntry struct {
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// Order представляет оформленный заказ
type Order struct {
	ID                string          `json:"id"`
	OrderNumber       string          `json:"order_number"`
	CreatedAt         time.Time       `json:"created_at"`
	Status            Status          `json:"status"`
	Items             []OrderItem     `json:"items"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	Shipping          decimal.Decimal `json:"shipping"`
	Total             decimal.Decimal `json:"total"`
	PaymentMethod     PaymentMethod   `json:"payment_method"`
	Address           Address         `json:"address"`
	CustomerDocument  string          `json:"customer_document"`
	ExpressDelivery   bool            `json:"express_delivery"`
	EstimatedDelivery time.Time       `json:"estimated_delivery"`
	StatusHistory     []StatusEntry   `json:"status_history"`
	IdempotencyKey    string          `json:"idempotency_key,omitempty"`
}

// Transition переводит заказ в статус to и дописывает запись в журнал.
// Время записи не может быть раньше предыдущей записи.
func (o *Order) Transition(to Status, message string, at time.Time) error {
	if !CanTransition(o.Status, to) {
		return ErrInvalidTransition
	}
	o.Status = to
	o.appendHistory(to, message, at)
	return nil
}

func (o *Order) appendHistory(status Status, message string, at time.Time) {
	if n := len(o.StatusHistory); n > 0 && at.Before(o.StatusHistory[n-1].Timestamp) {
		at = o.StatusHistory[n-1].Timestamp
	}
	o.StatusHistory = append(o.StatusHistory, StatusEntry{
		Status:    status,
		Timestamp: at,
		Message:   message,
	})
}

// Place задаёт начальный статус и первую запись журнала
func (o *Order) Place(at time.Time) {
	o.Status = o.PaymentMethod.InitialStatus()
	o.StatusHistory = nil
	o.appendHistory(o.Status, "Pedido realizado", at)
}

// Active — заказ ещё не доставлен и не отменён
func (o *Order) Active() bool {
	return o.Status != StatusDelivered && o.Status != StatusCancelled
}

// HistoryFor возвращает последнюю запись журнала для статуса
func (o *Order) HistoryFor(status Status) (StatusEntry, bool) {
	for i := len(o.StatusHistory) - 1; i >= 0; i-- {
		if o.StatusHistory[i].Status == status {
			return o.StatusHistory[i], true
		}
	}
	return StatusEntry{}, false
}
