package models

// CartItem представляет строку корзины. ProductID — ссылка на товар каталога,
// сам товар может к моменту оформления исчезнуть из каталога.
type CartItem struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
