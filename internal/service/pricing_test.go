package service_test

import (
	"testing"
	"time"

	"github.com/linemk/wegx-store/internal/domain/models"
	"github.com/linemk/wegx-store/internal/service"
	"github.com/stretchr/testify/assert"
)

func line(p *models.Product, qty int) service.CartLine {
	id := "missing"
	if p != nil {
		id = p.ID
	}
	return service.CartLine{Item: models.CartItem{ID: "l-" + id, ProductID: id, Quantity: qty}, Product: p}
}

func TestShipping_Boundary(t *testing.T) {
	policy := service.DefaultPricingPolicy()

	assert.True(t, policy.Shipping(dec("298.99")).Equal(dec("19.90")))
	assert.True(t, policy.Shipping(dec("299.00")).IsZero())
	assert.True(t, policy.Shipping(dec("1000")).IsZero())
	assert.True(t, policy.Total(dec("200")).Equal(dec("219.90")))
	assert.True(t, policy.Total(dec("299")).Equal(dec("299")))
}

func TestSubtotal_VanishedProductCountsZero(t *testing.T) {
	cat := testCatalog()
	m1, _ := cat.ProductByID("m1")
	c1, _ := cat.ProductByID("c1")

	policy := service.DefaultPricingPolicy()
	lines := []service.CartLine{line(m1, 2), line(c1, 1), line(nil, 3)}
	assert.True(t, policy.Subtotal(lines).Equal(dec("498.99")))
}

func TestExpressEligible(t *testing.T) {
	cat := testCatalog()
	m1, _ := cat.ProductByID("m1")
	m2, _ := cat.ProductByID("m2")
	m3, _ := cat.ProductByID("m3")
	c1, _ := cat.ProductByID("c1")

	assert.True(t, service.ExpressEligible([]service.CartLine{line(m1, 1), line(m3, 4)}))
	assert.False(t, service.ExpressEligible([]service.CartLine{line(m1, 1), line(c1, 1)}), "non-express line")
	assert.False(t, service.ExpressEligible([]service.CartLine{line(m1, 1), line(m2, 1)}), "out of stock line")
	assert.False(t, service.ExpressEligible([]service.CartLine{line(m1, 1), line(nil, 1)}), "vanished product")
	assert.False(t, service.ExpressEligible(nil), "empty cart")
}

func TestEstimatedDelivery(t *testing.T) {
	policy := service.DefaultPricingPolicy()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(time.Hour), policy.EstimatedDelivery(now, true))
	assert.Equal(t, now.Add(72*time.Hour), policy.EstimatedDelivery(now, false))
}

func TestSummarize(t *testing.T) {
	cat := testCatalog()
	m1, _ := cat.ProductByID("m1")
	m3, _ := cat.ProductByID("m3")

	sum := service.DefaultPricingPolicy().Summarize([]service.CartLine{line(m1, 2), line(m3, 3)})
	assert.Equal(t, 5, sum.ItemCount)
	assert.True(t, sum.Subtotal.Equal(dec("230")))
	assert.True(t, sum.Shipping.Equal(dec("19.90")))
	assert.True(t, sum.Total.Equal(dec("249.90")))
	assert.True(t, sum.MissingForFreeShipping.Equal(dec("69")))
	assert.True(t, sum.ExpressEligible)

	free := service.DefaultPricingPolicy().Summarize([]service.CartLine{line(m1, 3)})
	assert.True(t, free.MissingForFreeShipping.IsZero())
	assert.True(t, free.Shipping.IsZero())
}

func TestOrderNumber(t *testing.T) {
	at := time.UnixMilli(1714557600042)
	assert.Equal(t, "WEGX-00042", service.OrderNumber(at))
	assert.Regexp(t, `^WEGX-\d{5}$`, service.OrderNumber(time.Now()))
}
