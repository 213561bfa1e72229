package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/linemk/wegx-store/internal/catalog"
	"github.com/linemk/wegx-store/internal/domain/models"
)

const (
	DefaultProductLimit = 100
	FeaturedLimit       = 4
	RelatedLimit        = 6
)

// ProductQuery — фильтры и сортировка списка товаров
type ProductQuery struct {
	CategoryID  string
	ExpressOnly bool
	InStockOnly bool
	// Sort: relevance, price_asc, price_desc или поле created_date|name|price|sku, "-" в начале — по убыванию
	Sort  string
	Limit int
}

// PopularCategory — категория с количеством товаров в ней
type PopularCategory struct {
	models.Category
	ProductCount int `json:"product_count"`
}

type CatalogService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	PopularCategories(ctx context.Context) ([]PopularCategory, error)
	ListProducts(ctx context.Context, q ProductQuery) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	Featured(ctx context.Context) ([]models.Product, error)
	Related(ctx context.Context, id string) ([]models.Product, error)
}

type catalogService struct {
	log     *slog.Logger
	catalog catalog.Provider
}

func NewCatalogService(log *slog.Logger, provider catalog.Provider) CatalogService {
	return &catalogService{
		log:     log,
		catalog: provider,
	}
}

func (s *catalogService) load(ctx context.Context, op string) (*models.Catalog, error) {
	cat, err := s.catalog.Load(ctx)
	if err != nil {
		s.log.Error("failed to load catalog", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cat, nil
}

// ListCategories возвращает категории в порядке поля order
func (s *catalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	const op = "service.CatalogService.ListCategories"
	cat, err := s.load(ctx, op)
	if err != nil {
		return nil, err
	}
	out := append([]models.Category(nil), cat.Categories...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (s *catalogService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	const op = "service.CatalogService.GetCategory"
	cat, err := s.load(ctx, op)
	if err != nil {
		return nil, err
	}
	c, ok := cat.CategoryByID(id)
	if !ok {
		return nil, fmt.Errorf("%s: %s: %w", op, id, ErrCategoryNotFound)
	}
	cp := *c
	return &cp, nil
}

// PopularCategories сортирует категории по числу товаров, при равенстве — по order
func (s *catalogService) PopularCategories(ctx context.Context) ([]PopularCategory, error) {
	const op = "service.CatalogService.PopularCategories"
	cat, err := s.load(ctx, op)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(cat.Categories))
	for _, p := range cat.Products {
		counts[p.CategoryID]++
	}
	out := make([]PopularCategory, 0, len(cat.Categories))
	for _, c := range cat.Categories {
		out = append(out, PopularCategory{Category: c, ProductCount: counts[c.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ProductCount != out[j].ProductCount {
			return out[i].ProductCount > out[j].ProductCount
		}
		return out[i].Order < out[j].Order
	})
	return out, nil
}

func (s *catalogService) ListProducts(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	const op = "service.CatalogService.ListProducts"
	less, err := productOrdering(q.Sort)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cat, err := s.load(ctx, op)
	if err != nil {
		return nil, err
	}

	out := make([]models.Product, 0, len(cat.Products))
	for _, p := range cat.Products {
		if q.CategoryID != "" && p.CategoryID != q.CategoryID {
			continue
		}
		if q.ExpressOnly && !p.ExpressDelivery {
			continue
		}
		if q.InStockOnly && !p.Available() {
			continue
		}
		out = append(out, p)
	}
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(&out[i], &out[j]) })
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultProductLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// productOrdering переводит параметр sort в функцию сравнения. nil — порядок каталога.
func productOrdering(sortBy string) (func(a, b *models.Product) bool, error) {
	switch sortBy {
	case "", "relevance":
		return nil, nil
	case "price_asc":
		sortBy = "price"
	case "price_desc":
		sortBy = "-price"
	}

	desc := strings.HasPrefix(sortBy, "-")
	field := strings.TrimPrefix(sortBy, "-")

	var less func(a, b *models.Product) bool
	switch field {
	case "price":
		less = func(a, b *models.Product) bool { return a.Price.LessThan(b.Price) }
	case "name":
		less = func(a, b *models.Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case "created_date":
		less = func(a, b *models.Product) bool { return a.CreatedDate.Before(b.CreatedDate) }
	case "sku":
		less = func(a, b *models.Product) bool { return a.SKU < b.SKU }
	default:
		return nil, fmt.Errorf("%w: unknown sort %q", ErrValidation, sortBy)
	}
	if desc {
		return func(a, b *models.Product) bool { return less(b, a) }, nil
	}
	return less, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	const op = "service.CatalogService.GetProduct"
	cat, err := s.load(ctx, op)
	if err != nil {
		return nil, err
	}
	p, ok := cat.ProductByID(id)
	if !ok {
		return nil, fmt.Errorf("%s: %s: %w", op, id, ErrProductNotFound)
	}
	cp := *p
	return &cp, nil
}

// Featured — первые товары в наличии с экспресс-доставкой
func (s *catalogService) Featured(ctx context.Context) ([]models.Product, error) {
	const op = "service.CatalogService.Featured"
	cat, err := s.load(ctx, op)
	if err != nil {
		return nil, err
	}
	out := make([]models.Product, 0, FeaturedLimit)
	for _, p := range cat.Products {
		if len(out) == FeaturedLimit {
			break
		}
		if p.ExpressEligible() {
			out = append(out, p)
		}
	}
	return out, nil
}

// Related — товары той же категории без самого товара
func (s *catalogService) Related(ctx context.Context, id string) ([]models.Product, error) {
	const op = "service.CatalogService.Related"
	cat, err := s.load(ctx, op)
	if err != nil {
		return nil, err
	}
	p, ok := cat.ProductByID(id)
	if !ok {
		return nil, fmt.Errorf("%s: %s: %w", op, id, ErrProductNotFound)
	}
	out := make([]models.Product, 0, RelatedLimit)
	for _, other := range cat.Products {
		if len(out) == RelatedLimit {
			break
		}
		if other.ID != p.ID && other.CategoryID == p.CategoryID {
			out = append(out, other)
		}
	}
	return out, nil
}
