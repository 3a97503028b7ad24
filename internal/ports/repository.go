package ports

import (
	"context"

	"github.com/mkravets/product-catalog/internal/domain"
)

type Repository interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, product domain.NewProduct) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) (*domain.Product, error)
	Ping(ctx context.Context) error
}
