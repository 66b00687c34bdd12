package repositories

import (
	"context"

	"kasir/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// List returns one page of products in creation order together with the total count.
	List(ctx context.Context, offset, limit int) ([]models.Product, int64, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	// Update replaces every writable column of an existing product.
	Update(ctx context.Context, product *models.Product) error
	// Delete removes a product no transaction refers to. Products that were
	// sold fail with apperrors.ErrConflict.
	Delete(ctx context.Context, id string) error
}

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
}

// TransactionRepository defines the interface for sales data access.
type TransactionRepository interface {
	List(ctx context.Context) ([]models.Transaction, error)
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	// Create snapshots name and price of every item, decrements stock and
	// stores the transaction atomically.
	Create(ctx context.Context, transaction *models.Transaction) error
}
