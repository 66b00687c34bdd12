package repositories

import (
	"context"
	"errors"
	"fmt"

	"kasir/internal/apperrors"
	"kasir/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMTransactionRepository is a GORM implementation of TransactionRepository.
type GORMTransactionRepository struct {
	db *gorm.DB
}

func NewGORMTransactionRepository(db *gorm.DB) *GORMTransactionRepository {
	return &GORMTransactionRepository{db: db}
}

// List returns every transaction with its items, newest first.
func (r *GORMTransactionRepository) List(ctx context.Context) ([]models.Transaction, error) {
	transactions := []models.Transaction{}
	err := r.db.WithContext(ctx).Preload("Items").Order("tanggal DESC").Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

func (r *GORMTransactionRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := r.db.WithContext(ctx).Preload("Items").First(&transaction, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("transaction with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get transaction by ID %s: %w", id, err)
	}
	return &transaction, nil
}

// Create fills in the item snapshots and the total, decrements stock and
// persists the transaction in one database transaction.
func (r *GORMTransactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var total int64
		for i := range transaction.Items {
			item := &transaction.Items[i]

			var product models.Product
			if err := tx.First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("product with ID %s: %w", item.ProductID, apperrors.ErrNotFound)
				}
				return fmt.Errorf("failed to load product %s: %w", item.ProductID, err)
			}
			if product.Stok < item.Qty {
				return fmt.Errorf("insufficient stock for product %s (requested: %d, available: %d): %w",
					product.Nama, item.Qty, product.Stok, apperrors.ErrConflict)
			}

			res := tx.Model(&models.Product{}).
				Where("id = ? AND stok >= ?", product.ID, item.Qty).
				UpdateColumn("stok", gorm.Expr("stok - ?", item.Qty))
			if res.Error != nil {
				return fmt.Errorf("failed to decrement stock of product %s: %w", product.ID, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("insufficient stock for product %s: %w", product.Nama, apperrors.ErrConflict)
			}

			item.TransactionID = transaction.ID
			item.Nama = product.Nama
			item.Harga = product.Harga
			total += product.Harga * int64(item.Qty)
		}
		transaction.Total = total

		if err := tx.Create(transaction).Error; err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}
		return nil
	})
}
