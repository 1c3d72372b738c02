package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"okane/internal/model"
)

type CategoryService struct {
	categories categoryStore
}

func NewCategoryService(categories categoryStore) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) List(ctx context.Context, userID string) ([]model.Category, error) {
	return s.categories.ListVisible(ctx, userID)
}

func (s *CategoryService) Create(ctx context.Context, userID string, name string) (model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Category{}, model.ErrInvalidInput
	}

	category := model.Category{
		ID:     uuid.NewString(),
		UserID: &userID,
		Name:   name,
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return model.Category{}, err
	}

	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string, userID string) error {
	return s.categories.Delete(ctx, id, userID)
}
