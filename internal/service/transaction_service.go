package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"okane/internal/model"
)

type transactionStore interface {
	Create(ctx context.Context, tx model.Transaction) error
	ListByUser(ctx context.Context, userID string, from time.Time, to time.Time) ([]model.Transaction, error)
	Delete(ctx context.Context, id string, userID string) error
}

type categoryStore interface {
	ListVisible(ctx context.Context, userID string) ([]model.Category, error)
	FindVisibleByID(ctx context.Context, id string, userID string) (model.Category, error)
	Create(ctx context.Context, c model.Category) error
	Delete(ctx context.Context, id string, userID string) error
}

type TransactionService struct {
	transactions transactionStore
	categories   categoryStore
}

func NewTransactionService(transactions transactionStore, categories categoryStore) *TransactionService {
	return &TransactionService{transactions: transactions, categories: categories}
}

func (s *TransactionService) Create(ctx context.Context, userID string, req model.CreateTransactionRequest) (model.Transaction, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Amount <= 0 {
		return model.Transaction{}, model.ErrInvalidInput
	}
	if req.Type != model.TransactionIncome && req.Type != model.TransactionExpense {
		return model.Transaction{}, model.ErrInvalidInput
	}

	date := time.Now().UTC()
	if strings.TrimSpace(req.Date) != "" {
		parsed, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			return model.Transaction{}, model.ErrInvalidInput
		}
		date = parsed.UTC()
	}

	var categoryID *string
	if strings.TrimSpace(req.CategoryID) != "" {
		category, err := s.categories.FindVisibleByID(ctx, req.CategoryID, userID)
		if err != nil {
			return model.Transaction{}, err
		}
		categoryID = &category.ID
	}

	tx := model.Transaction{
		ID:         uuid.NewString(),
		UserID:     userID,
		CategoryID: categoryID,
		Type:       req.Type,
		Name:       req.Name,
		Amount:     req.Amount,
		Date:       date,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.transactions.Create(ctx, tx); err != nil {
		return model.Transaction{}, err
	}

	return tx, nil
}

func (s *TransactionService) List(ctx context.Context, userID string, from time.Time, to time.Time) ([]model.Transaction, error) {
	return s.transactions.ListByUser(ctx, userID, from, to)
}

func (s *TransactionService) Delete(ctx context.Context, id string, userID string) error {
	return s.transactions.Delete(ctx, id, userID)
}
