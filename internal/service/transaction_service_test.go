package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"okane/internal/model"
)

type memoryTransactionStore struct {
	mu           sync.Mutex
	transactions map[string]model.Transaction
}

func newMemoryTransactionStore() *memoryTransactionStore {
	return &memoryTransactionStore{transactions: map[string]model.Transaction{}}
}

func (s *memoryTransactionStore) Create(_ context.Context, tx model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[tx.ID] = tx
	return nil
}

func (s *memoryTransactionStore) ListByUser(_ context.Context, userID string, from time.Time, to time.Time) ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Transaction, 0)
	for _, tx := range s.transactions {
		if tx.UserID == userID && !tx.Date.Before(from) && !tx.Date.After(to) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *memoryTransactionStore) Delete(_ context.Context, id string, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[id]
	if !ok || tx.UserID != userID {
		return model.ErrTransactionNotFound
	}
	delete(s.transactions, id)
	return nil
}

type memoryCategoryStore struct {
	mu         sync.Mutex
	categories map[string]model.Category
}

func newMemoryCategoryStore() *memoryCategoryStore {
	return &memoryCategoryStore{categories: map[string]model.Category{}}
}

func (s *memoryCategoryStore) ListVisible(_ context.Context, userID string) ([]model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Category, 0)
	for _, c := range s.categories {
		if c.UserID == nil || *c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memoryCategoryStore) FindVisibleByID(_ context.Context, id string, userID string) (model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok || (c.UserID != nil && *c.UserID != userID) {
		return model.Category{}, model.ErrCategoryNotFound
	}
	return c, nil
}

func (s *memoryCategoryStore) Create(_ context.Context, c model.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = c
	return nil
}

func (s *memoryCategoryStore) Delete(_ context.Context, id string, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok || c.UserID == nil || *c.UserID != userID {
		return model.ErrCategoryNotFound
	}
	delete(s.categories, id)
	return nil
}

func TestTransactionCreate(t *testing.T) {
	t.Parallel()

	categories := newMemoryCategoryStore()
	require.NoError(t, categories.Create(context.Background(), model.Category{ID: "default-01", Name: "Groceries"}))

	svc := NewTransactionService(newMemoryTransactionStore(), categories)
	ctx := context.Background()

	t.Run("valid expense with category", func(t *testing.T) {
		tx, err := svc.Create(ctx, "user-1", model.CreateTransactionRequest{
			Type:       model.TransactionExpense,
			Name:       "weekly shop",
			Amount:     42.50,
			Date:       "2026-08-20T12:00:00Z",
			CategoryID: "default-01",
		})
		require.NoError(t, err)
		require.Equal(t, "user-1", tx.UserID)
		require.NotNil(t, tx.CategoryID)
		require.Equal(t, "default-01", *tx.CategoryID)
		require.Equal(t, 2026, tx.Date.Year())
	})

	t.Run("defaults date to now when omitted", func(t *testing.T) {
		tx, err := svc.Create(ctx, "user-1", model.CreateTransactionRequest{
			Type:   model.TransactionIncome,
			Name:   "salary",
			Amount: 1000,
		})
		require.NoError(t, err)
		require.WithinDuration(t, time.Now().UTC(), tx.Date, time.Minute)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := svc.Create(ctx, "user-1", model.CreateTransactionRequest{Type: "transfer", Name: "x", Amount: 1})
		require.ErrorIs(t, err, model.ErrInvalidInput)

		_, err = svc.Create(ctx, "user-1", model.CreateTransactionRequest{Type: model.TransactionExpense, Name: "", Amount: 1})
		require.ErrorIs(t, err, model.ErrInvalidInput)

		_, err = svc.Create(ctx, "user-1", model.CreateTransactionRequest{Type: model.TransactionExpense, Name: "x", Amount: -5})
		require.ErrorIs(t, err, model.ErrInvalidInput)

		_, err = svc.Create(ctx, "user-1", model.CreateTransactionRequest{Type: model.TransactionExpense, Name: "x", Amount: 1, Date: "20/08/2026"})
		require.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("rejects another user's category", func(t *testing.T) {
		owner := "user-2"
		require.NoError(t, categories.Create(ctx, model.Category{ID: "cat-private", UserID: &owner, Name: "Private"}))

		_, err := svc.Create(ctx, "user-1", model.CreateTransactionRequest{
			Type:       model.TransactionExpense,
			Name:       "x",
			Amount:     1,
			CategoryID: "cat-private",
		})
		require.ErrorIs(t, err, model.ErrCategoryNotFound)
	})
}

func TestTransactionDeleteOwnership(t *testing.T) {
	t.Parallel()

	store := newMemoryTransactionStore()
	svc := NewTransactionService(store, newMemoryCategoryStore())
	ctx := context.Background()

	tx, err := svc.Create(ctx, "user-1", model.CreateTransactionRequest{
		Type: model.TransactionExpense, Name: "coffee", Amount: 3.20,
	})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, tx.ID, "user-2"), model.ErrTransactionNotFound)
	require.NoError(t, svc.Delete(ctx, tx.ID, "user-1"))
	require.ErrorIs(t, svc.Delete(ctx, tx.ID, "user-1"), model.ErrTransactionNotFound)
}

func TestCategoryService(t *testing.T) {
	t.Parallel()

	store := newMemoryCategoryStore()
	require.NoError(t, store.Create(context.Background(), model.Category{ID: "default-01", Name: "Groceries"}))

	svc := NewCategoryService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", "  Hobbies  ")
	require.NoError(t, err)
	require.Equal(t, "Hobbies", created.Name)

	_, err = svc.Create(ctx, "user-1", "   ")
	require.ErrorIs(t, err, model.ErrInvalidInput)

	t.Run("defaults and own categories are visible", func(t *testing.T) {
		visible, err := svc.List(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, visible, 2)

		other, err := svc.List(ctx, "user-2")
		require.NoError(t, err)
		require.Len(t, other, 1)
	})

	t.Run("defaults cannot be deleted", func(t *testing.T) {
		require.ErrorIs(t, svc.Delete(ctx, "default-01", "user-1"), model.ErrCategoryNotFound)
		require.NoError(t, svc.Delete(ctx, created.ID, "user-1"))
	})
}
