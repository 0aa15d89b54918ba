package view

import (
	"context"
	"sync"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type MockProductsAPI struct {
	mock.Mock
}

func (m *MockProductsAPI) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	ps, _ := args.Get(0).([]domain.Product)
	return ps, args.Error(1)
}

func (m *MockProductsAPI) CreateProduct(ctx context.Context, in domain.ProductInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *MockProductsAPI) UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) error {
	return m.Called(ctx, id, in).Error(0)
}

func (m *MockProductsAPI) DeleteProduct(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockLogouter struct {
	mock.Mock
}

func (m *MockLogouter) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type memSession struct {
	mu      sync.Mutex
	sess    domain.Session
	cleared int
}

func (s *memSession) Token(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.Token, nil
}

func (s *memSession) User(context.Context) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess.Token == "" {
		return domain.User{}, domain.ErrNoSession
	}
	return s.sess.User, nil
}

func (s *memSession) SetSession(_ context.Context, sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = sess
	return nil
}

func (s *memSession) ClearSession(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = domain.Session{}
	s.cleared++
	return nil
}

type recNotifier struct {
	mu     sync.Mutex
	alerts []string
}

func (n *recNotifier) Alert(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, msg)
}

func signedIn() *memSession {
	return &memSession{sess: domain.Session{
		Token: "tok",
		User:  domain.User{FirstName: "Jane", LastName: "Doe", UserName: "jane_doe"},
	}}
}
