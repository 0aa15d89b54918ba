package form

import (
	"context"
	"sync"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

var pngData = []byte("\x89PNG\r\n\x1a\n0000")

type MockProductsWriter struct {
	mock.Mock
}

func (m *MockProductsWriter) CreateProduct(ctx context.Context, in domain.ProductInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *MockProductsWriter) UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) error {
	return m.Called(ctx, id, in).Error(0)
}

type fakeParent struct {
	mu           sync.Mutex
	alerts       []string
	shown        int
	unauthorized int
}

func (p *fakeParent) Alert(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alerts = append(p.alerts, msg)
}

func (p *fakeParent) ShowList(context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shown++
}

func (p *fakeParent) Unauthorized(context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unauthorized++
}

type fakeNav struct {
	mu    sync.Mutex
	paths []string
}

func (n *fakeNav) Navigate(_ context.Context, path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *fakeNav) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.paths) == 0 {
		return ""
	}
	return n.paths[len(n.paths)-1]
}

type memSession struct {
	mu     sync.Mutex
	sess   domain.Session
	setErr error
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
	if s.setErr != nil {
		return s.setErr
	}
	s.sess = sess
	return nil
}

func (s *memSession) ClearSession(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = domain.Session{}
	return nil
}
