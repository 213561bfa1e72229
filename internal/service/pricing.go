package service

import (
	"time"

	"github.com/linemk/wegx-store/internal/domain/models"
	"github.com/shopspring/decimal"
)

// PricingPolicy — правила доставки: порог бесплатной доставки, фиксированный тариф и сроки
type PricingPolicy struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
	ExpressWindow         time.Duration
	StandardWindow        time.Duration
}

func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		FreeShippingThreshold: decimal.RequireFromString("299.00"),
		FlatShippingFee:       decimal.RequireFromString("19.90"),
		ExpressWindow:         time.Hour,
		StandardWindow:        72 * time.Hour,
	}
}

// CartLine — строка корзины вместе с актуальным товаром каталога.
// Product == nil, если товар пропал из каталога.
type CartLine struct {
	Item    models.CartItem `json:"item"`
	Product *models.Product `json:"product,omitempty"`
}

// LineTotal — цена товара умноженная на количество, 0 для пропавшего товара
func (l CartLine) LineTotal() decimal.Decimal {
	if l.Product == nil {
		return decimal.Zero
	}
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Item.Quantity)))
}

// ResolveLines сопоставляет строки корзины с товарами каталога
func ResolveLines(cat *models.Catalog, items []models.CartItem) []CartLine {
	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		line := CartLine{Item: item}
		if p, ok := cat.ProductByID(item.ProductID); ok {
			line.Product = p
		}
		lines = append(lines, line)
	}
	return lines
}

func (p PricingPolicy) Subtotal(lines []CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

func (p PricingPolicy) Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.FlatShippingFee
}

func (p PricingPolicy) Total(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Add(p.Shipping(subtotal))
}

// ExpressEligible — все строки экспресс и в наличии. Пустая корзина не экспресс.
func ExpressEligible(lines []CartLine) bool {
	if len(lines) == 0 {
		return false
	}
	for _, l := range lines {
		if l.Product == nil || !l.Product.ExpressEligible() {
			return false
		}
	}
	return true
}

func (p PricingPolicy) EstimatedDelivery(now time.Time, express bool) time.Time {
	if express {
		return now.Add(p.ExpressWindow)
	}
	return now.Add(p.StandardWindow)
}

// CartSummary — итоги корзины для страницы корзины и оформления
type CartSummary struct {
	ItemCount              int             `json:"item_count"`
	Subtotal               decimal.Decimal `json:"subtotal"`
	Shipping               decimal.Decimal `json:"shipping"`
	Total                  decimal.Decimal `json:"total"`
	ExpressEligible        bool            `json:"express_eligible"`
	MissingForFreeShipping decimal.Decimal `json:"missing_for_free_shipping"`
}

func (p PricingPolicy) Summarize(lines []CartLine) CartSummary {
	subtotal := p.Subtotal(lines)
	count := 0
	for _, l := range lines {
		count += l.Item.Quantity
	}
	missing := p.FreeShippingThreshold.Sub(subtotal)
	if missing.IsNegative() {
		missing = decimal.Zero
	}
	return CartSummary{
		ItemCount:              count,
		Subtotal:               subtotal,
		Shipping:               p.Shipping(subtotal),
		Total:                  p.Total(subtotal),
		ExpressEligible:        ExpressEligible(lines),
		MissingForFreeShipping: missing,
	}
}
