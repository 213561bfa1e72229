package service

import (
	"errors"

	"github.com/linemk/wegx-store/internal/catalog"
	"github.com/linemk/wegx-store/internal/domain/models"
	"github.com/linemk/wegx-store/internal/storage"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCannotCancel       = errors.New("order cannot be cancelled in its current status")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidQuantity    = storage.ErrInvalidQuantity
	ErrOrderNotFound      = storage.ErrOrderNotFound
	ErrInvalidTransition  = models.ErrInvalidTransition
	ErrCatalogUnavailable = catalog.ErrUnavailable
)
