package services

import (
	"context"
	"log"
	"strconv"
	"strings"

	"kasir/internal/events"
	"kasir/internal/models"
	"kasir/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// CategoryService handles product categories.
type CategoryService struct {
	repo     repositories.CategoryRepository
	events   events.Publisher
	validate *validator.Validate
}

func NewCategoryService(repo repositories.CategoryRepository, publisher events.Publisher) *CategoryService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &CategoryService{
		repo:     repo,
		events:   publisher,
		validate: newValidator(),
	}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.List(ctx)
}

// CreateCategory stores a new category; surrounding whitespace is trimmed from the name.
func (s *CategoryService) CreateCategory(ctx context.Context, input models.CategoryInput) (*models.Category, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}

	category := &models.Category{Name: input.Name}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}

	id := strconv.FormatUint(uint64(category.ID), 10)
	if err := s.events.Publish(ctx, events.Event{Type: events.CategoryCreated, ID: id, Data: category}); err != nil {
		log.Printf("Warning: failed to publish category created event for %s: %v", id, err)
	}
	return category, nil
}
