package services

import (
	"context"
	"errors"
	"io"
	"log"
	"strconv"

	"kasir/internal/apperrors"
	"kasir/internal/events"
	"kasir/internal/models"
	"kasir/internal/repositories"
	"kasir/internal/storage"

	"github.com/go-playground/validator/v10"
)

// MaxPageLimit caps the page size a client may request.
const MaxPageLimit = 100

// ConflictDeleteMessage explains why a product that was already sold cannot be deleted.
const ConflictDeleteMessage = "Produk tidak dapat dihapus karena sudah tercatat pada transaksi"

// Image is an uploaded product picture.
type Image struct {
	Filename string
	Content  io.Reader
}

// ProductPage is one page of the product list.
type ProductPage struct {
	Products  []models.Product
	Page      int
	Limit     int
	TotalPage int
	Total     int64
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo       repositories.ProductRepository
	categories repositories.CategoryRepository
	images     storage.ImageStore
	events     events.Publisher
	validate   *validator.Validate
}

// NewProductService creates a new ProductService.
func NewProductService(
	repo repositories.ProductRepository,
	categories repositories.CategoryRepository,
	images storage.ImageStore,
	publisher events.Publisher,
) *ProductService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &ProductService{
		repo:       repo,
		categories: categories,
		images:     images,
		events:     publisher,
		validate:   newValidator(),
	}
}

// ListProducts retrieves one page of products. Pages start at 1.
func (s *ProductService) ListProducts(ctx context.Context, page, limit int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		return nil, apperrors.NewValidationError("limit", "must be greater than 0")
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	products, total, err := s.repo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	totalPage := int((total + int64(limit) - 1) / int64(limit))
	if totalPage < 1 {
		totalPage = 1
	}
	return &ProductPage{
		Products:  products,
		Page:      page,
		Limit:     limit,
		TotalPage: totalPage,
		Total:     total,
	}, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct validates the input, stores the optional image and persists the product.
func (s *ProductService) CreateProduct(ctx context.Context, input models.ProductInput, image *Image) (*models.Product, error) {
	product, err := s.fromInput(ctx, input)
	if err != nil {
		return nil, err
	}

	if image != nil {
		ref, err := s.images.Save(image.Filename, image.Content)
		if err != nil {
			return nil, err
		}
		product.Gambar = ref
	}

	if err := s.repo.Create(ctx, product); err != nil {
		s.discardImage(product.Gambar)
		return nil, err
	}

	created, err := s.repo.GetByID(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.ProductCreated, created.ID, created)
	return created, nil
}

// UpdateProduct replaces every field of an existing product. Without a new
// image the stored one is kept; a new image replaces and removes the old one.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input models.ProductInput, image *Image) (*models.Product, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product, err := s.fromInput(ctx, input)
	if err != nil {
		return nil, err
	}
	product.ID = existing.ID
	product.CreatedAt = existing.CreatedAt
	product.Gambar = existing.Gambar

	if image != nil {
		ref, err := s.images.Save(image.Filename, image.Content)
		if err != nil {
			return nil, err
		}
		product.Gambar = ref
	}

	if err := s.repo.Update(ctx, product); err != nil {
		if product.Gambar != existing.Gambar {
			s.discardImage(product.Gambar)
		}
		return nil, err
	}
	if product.Gambar != existing.Gambar {
		s.discardImage(existing.Gambar)
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.ProductUpdated, updated.ID, updated)
	return updated, nil
}

// DeleteProduct deletes a product unless a recorded transaction references it.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.discardImage(existing.Gambar)
	s.publish(ctx, events.ProductDeleted, id, nil)
	return nil
}

func (s *ProductService) fromInput(ctx context.Context, input models.ProductInput) (*models.Product, error) {
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}

	product := &models.Product{
		Nama:      input.Nama,
		Kode:      input.Kode,
		Merk:      input.Merk,
		Stok:      input.Stok,
		Harga:     input.Harga,
		HargaBeli: input.HargaBeli,
	}

	if input.JenisProduk != "" {
		categoryID, err := strconv.ParseUint(input.JenisProduk, 10, 64)
		if err != nil {
			return nil, apperrors.NewValidationError("jenis_produk", "must be a category id")
		}
		category, err := s.categories.GetByID(ctx, uint(categoryID))
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewValidationError("jenis_produk", "unknown category")
			}
			return nil, err
		}
		product.JenisProdukID = &category.ID
	}
	return product, nil
}

func (s *ProductService) discardImage(ref string) {
	if ref == "" {
		return
	}
	if err := s.images.Delete(ref); err != nil {
		log.Printf("Warning: failed to delete image %s: %v", ref, err)
	}
}

func (s *ProductService) publish(ctx context.Context, eventType, id string, data interface{}) {
	err := s.events.Publish(ctx, events.Event{Type: eventType, ID: id, Data: data})
	if err != nil {
		log.Printf("Warning: failed to publish %s event for %s: %v", eventType, id, err)
	}
}
