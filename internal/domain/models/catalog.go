package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category представляет раздел каталога
type Category struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Icon  string `json:"icon,omitempty"`
	Image string `json:"image,omitempty"`
	Order int    `json:"order"` // позиция при выводе списка
}

// Spec — пара "характеристика / значение" в карточке товара
type Spec struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Product представляет товар статического каталога. В пределах сессии не изменяется.
type Product struct {
	ID              string           `json:"id" validate:"required"`
	SKU             string           `json:"sku"`
	Name            string           `json:"name" validate:"required"`
	Description     string           `json:"description,omitempty"`
	Price           decimal.Decimal  `json:"price"`
	OriginalPrice   *decimal.Decimal `json:"original_price,omitempty"`
	Stock           int              `json:"stock" validate:"min=0"`
	CategoryID      string           `json:"category_id"`
	ExpressDelivery bool             `json:"express_delivery"`
	Images          []string         `json:"images,omitempty"`
	Specs           []Spec           `json:"specs,omitempty"`
	DatasheetURL    string           `json:"datasheet_url,omitempty"`
	CreatedDate     time.Time        `json:"created_date,omitempty"`
}

// Available — товар есть на складе
func (p *Product) Available() bool {
	return p.Stock > 0
}

// ExpressEligible — товар можно доставить за час
func (p *Product) ExpressEligible() bool {
	return p.ExpressDelivery && p.Available()
}

// HasDiscount — старая цена указана и выше текущей
func (p *Product) HasDiscount() bool {
	return p.OriginalPrice != nil && p.OriginalPrice.GreaterThan(p.Price)
}

// MainImage возвращает первое изображение товара или пустую строку
func (p *Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Catalog — документ каталога целиком, как он лежит в products.json
type Catalog struct {
	Categories []Category `json:"categories" validate:"dive"`
	Products   []Product  `json:"products" validate:"dive"`
}

// ProductByID ищет товар по id
func (c *Catalog) ProductByID(id string) (*Product, bool) {
	for i := range c.Products {
		if c.Products[i].ID == id {
			return &c.Products[i], true
		}
	}
	return nil, false
}

// CategoryByID ищет категорию по id
func (c *Catalog) CategoryByID(id string) (*Category, bool) {
	for i := range c.Categories {
		if c.Categories[i].ID == id {
			return &c.Categories[i], true
		}
	}
	return nil, false
}
