package handler_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"okane/internal/config"
	"okane/internal/handler"
	"okane/internal/middleware"
	"okane/internal/model"
	"okane/internal/repository"
	"okane/internal/router"
	"okane/internal/service"
	"okane/internal/token"
)

const (
	refreshCookieName = "user_refresh_token"
	clientTypeHeader  = "X-Client-Type"
)

type memoryUserStore struct {
	mu    sync.Mutex
	users map[string]model.User
}

func (s *memoryUserStore) FindByID(_ context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (s *memoryUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *memoryUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *memoryUserStore) Create(_ context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return model.ErrUserAlreadyExists
		}
	}
	s.users[u.ID] = u
	return nil
}

type memoryTransactionStore struct {
	mu           sync.Mutex
	transactions map[string]model.Transaction
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

type emptyStatisticsStore struct{}

func (emptyStatisticsStore) ExpenseTotalsByCategory(context.Context, string, time.Time, time.Time) ([]model.CategoryStat, error) {
	return nil, nil
}

func (emptyStatisticsStore) DailyTotals(context.Context, string, time.Time, time.Time) ([]repository.DailyTotal, error) {
	return nil, nil
}

// testEnv wires the full router over in-memory stores and a miniredis
// instance. The redis handle is exposed so tests can take the store down.
type testEnv struct {
	server *httptest.Server
	redis  *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	issuer, err := token.NewIssuer("test-secret", 15*time.Minute)
	require.NoError(t, err)

	users := &memoryUserStore{users: map[string]model.User{}}
	refreshStore := repository.NewRefreshStore(client)

	authService, err := service.NewAuthService(users, refreshStore, issuer, 7*24*time.Hour)
	require.NoError(t, err)

	transactions := &memoryTransactionStore{transactions: map[string]model.Transaction{}}
	categories := &memoryCategoryStore{categories: map[string]model.Category{}}

	cfg := &config.Config{
		ServerPort:       "8080",
		RequestTimeout:   30 * time.Second,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     10000,
		AuthRateLimitRPM: 10000,
	}

	handlers := router.Handlers{
		Auth:        handler.NewAuthHandler(authService, 7*24*time.Hour),
		Transaction: handler.NewTransactionHandler(service.NewTransactionService(transactions, categories)),
		Category:    handler.NewCategoryHandler(service.NewCategoryService(categories)),
		Statistics:  handler.NewStatisticsHandler(service.NewStatisticsService(emptyStatisticsStore{})),
	}

	server := httptest.NewServer(router.New(cfg, middleware.NewAuthMiddleware(authService), handlers, nil))
	t.Cleanup(server.Close)

	return &testEnv{server: server, redis: mr}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newTestEnv(t).server
}
