package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
)

// A Header shows where the user is and who is signed in.
type Header struct {
	Section string
	User    domain.User
}

func NewHeader(ctx context.Context, section string, session port.SessionProvider) Header {
	u, err := session.User(ctx)
	if err != nil && !errors.Is(err, domain.ErrNoSession) {
		slog.Warn("failed to read user", "op", "NewHeader", "err", err)
	}
	return Header{Section: section, User: u}
}

type logouter interface {
	Logout(context.Context) error
}

const (
	logoutPromptText = "Are you sure you want to logout?"
	msgLogoutFailed  = "Logout failed"
)

// A Sidebar is the navigation shell. Its only action is signing out.
type Sidebar struct {
	mu       sync.Mutex
	tab      string
	api      logouter
	session  port.SessionProvider
	nav      port.Navigator
	inFlight bool
	message  string
	prompt   *Prompt
}

func NewSidebar(
	tab string, api logouter, session port.SessionProvider, nav port.Navigator,
) *Sidebar {
	if api == nil || session == nil || nav == nil {
		panic("NewSidebar: nil dependency") // develop mistake
	}
	return &Sidebar{tab: tab, api: api, session: session, nav: nav}
}

func (s *Sidebar) Tab() string {
	return s.tab
}

func (s *Sidebar) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

func (s *Sidebar) LogoutLabel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return "Loging out..."
	}
	return "Logout"
}

func (s *Sidebar) RequestSignOut() *Prompt {
	p := NewPrompt(
		logoutPromptText,
		func(ctx context.Context) { _ = s.SignOut(ctx) },
		s.closePrompt,
	)
	s.mu.Lock()
	s.prompt = p
	s.mu.Unlock()
	return p
}

func (s *Sidebar) Prompt() *Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompt
}

// SignOut calls the logout endpoint. The session is dropped when the API
// accepts the call or answers 401; other failures keep it.
func (s *Sidebar) SignOut(ctx context.Context) error {
	const op = "Sidebar.SignOut"
	log := slog.With("op", op)

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return fmt.Errorf("%s: logout already in flight", op)
	}
	s.inFlight = true
	s.prompt = nil
	s.message = ""
	s.mu.Unlock()

	err := func() error {
		defer s.release()
		return s.api.Logout(ctx)
	}()

	if err == nil {
		s.clearSession(ctx)
		log.Info("signed out")
		s.nav.Navigate(ctx, domain.PathSignIn)
		return nil
	}

	log.Error("logout failed", "err", err)
	if errors.Is(err, domain.ErrUnauthorized) {
		s.clearSession(ctx)
		s.nav.Navigate(ctx, domain.PathLogin)
	}

	msg := domain.ServerMessage(err)
	if msg == "" {
		msg = msgLogoutFailed
	}
	s.mu.Lock()
	s.message = msg
	s.mu.Unlock()

	return fmt.Errorf("%s: %w", op, err)
}

func (s *Sidebar) release() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

func (s *Sidebar) closePrompt() {
	s.mu.Lock()
	s.prompt = nil
	s.mu.Unlock()
}

func (s *Sidebar) clearSession(ctx context.Context) {
	if err := s.session.ClearSession(ctx); err != nil {
		slog.Error("failed to clear session", "op", "Sidebar.clearSession", "err", err)
	}
}
