package service

import "time"

func SetCheckoutClock(s CheckoutService, now func() time.Time) {
	s.(*checkoutService).now = now
}

func SetOrderClock(s OrderService, now func() time.Time) {
	s.(*orderService).now = now
}
