package models

import "errors"

// Status — статус заказа
type Status string

const (
	StatusAwaitingPayment  Status = "AGUARDANDO_PAGAMENTO"
	StatusPaymentConfirmed Status = "PAGAMENTO_CONFIRMADO"
	StatusPicking          Status = "EM_SEPARACAO"
	StatusOutForDelivery   Status = "SAIU_PARA_ENTREGA"
	StatusDelivered        Status = "ENTREGUE"
	StatusCancelled        Status = "CANCELADO"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// StatusSteps — линейный порядок статусов для шкалы прогресса. CANCELADO в неё не входит.
var StatusSteps = []Status{
	StatusAwaitingPayment,
	StatusPaymentConfirmed,
	StatusPicking,
	StatusOutForDelivery,
	StatusDelivered,
}

var validNext = map[Status]map[Status]bool{
	StatusAwaitingPayment:  {StatusPaymentConfirmed: true, StatusCancelled: true},
	StatusPaymentConfirmed: {StatusPicking: true, StatusCancelled: true},
	StatusPicking:          {StatusOutForDelivery: true},
	StatusOutForDelivery:   {StatusDelivered: true},
	StatusDelivered:        {},
	StatusCancelled:        {},
}

var statusLabels = map[Status]string{
	StatusAwaitingPayment:  "Aguardando Pagamento",
	StatusPaymentConfirmed: "Pagamento Confirmado",
	StatusPicking:          "Em Separação",
	StatusOutForDelivery:   "Saiu para Entrega",
	StatusDelivered:        "Entregue",
	StatusCancelled:        "Cancelado",
}

// CanTransition проверяет переход по таблице допустимых переходов
func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// Cancellable — из статуса можно отменить заказ
func (s Status) Cancellable() bool {
	return CanTransition(s, StatusCancelled)
}

// Terminal — из статуса нет переходов
func (s Status) Terminal() bool {
	return len(validNext[s]) == 0
}

// ProgressIndex — позиция статуса на шкале, -1 для CANCELADO и неизвестных
func (s Status) ProgressIndex() int {
	for i, step := range StatusSteps {
		if step == s {
			return i
		}
	}
	return -1
}

// Next возвращает следующий шаг на шкале, false если шаг последний или статус вне шкалы
func (s Status) Next() (Status, bool) {
	idx := s.ProgressIndex()
	if idx < 0 || idx == len(StatusSteps)-1 {
		return "", false
	}
	return StatusSteps[idx+1], true
}

func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}
