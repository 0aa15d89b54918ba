package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
)

type authenticator interface {
	Login(context.Context, domain.Credentials) (domain.Session, error)
}

type LoginState struct {
	Email    string
	Password string
	Errors   domain.FieldErrors
	InFlight bool
}

func ValidateLogin(s LoginState) domain.FieldErrors {
	errs := make(domain.FieldErrors)
	validateCredentials(s.Email, s.Password, errs)
	return errs
}

type LoginForm struct {
	mu      sync.Mutex
	state   LoginState
	auth    authenticator
	session port.SessionProvider
	nav     port.Navigator
}

func NewLoginForm(
	auth authenticator, session port.SessionProvider, nav port.Navigator,
) *LoginForm {
	if auth == nil || session == nil || nav == nil {
		panic("NewLoginForm: nil dependency") // develop mistake
	}
	return &LoginForm{
		state:   LoginState{Errors: make(domain.FieldErrors)},
		auth:    auth,
		session: session,
		nav:     nav,
	}
}

func (f *LoginForm) State() LoginState {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.state
	s.Errors = s.Errors.Clone()
	return s
}

func (f *LoginForm) SubmitLabel() string {
	if f.State().InFlight {
		return "Signing In..."
	}
	return "Sign In"
}

func (f *LoginForm) ChangeField(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch name {
	case FieldEmail:
		f.state.Email = value
	case FieldPassword:
		f.state.Password = value
	default:
		return
	}
	f.state.Errors.Clear(name)
}

func (f *LoginForm) Validate() domain.FieldErrors {
	return ValidateLogin(f.State())
}

func (f *LoginForm) Submit(ctx context.Context) error {
	const op = "LoginForm.Submit"
	log := slog.With("op", op)

	creds, err := f.begin()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	sess, err := func() (domain.Session, error) {
		defer f.release()
		return f.auth.Login(ctx, creds)
	}()
	if err != nil {
		f.fail(err)
		return fmt.Errorf("%s: %w", op, err)
	}

	if sess.Token == "" {
		log.Warn("login response carries no token")
		return nil
	}

	if err := f.session.SetSession(ctx, sess); err != nil {
		log.Error("failed to persist session", "err", err)
		f.setBanner(msgGeneric)
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("signed in", "user", sess.User.UserName)
	f.nav.Navigate(ctx, domain.PathProducts)
	return nil
}

func (f *LoginForm) begin() (domain.Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.InFlight {
		return domain.Credentials{}, ErrInFlight
	}

	errs := ValidateLogin(f.state)
	f.state.Errors = errs
	if !errs.Valid() {
		return domain.Credentials{}, ErrInvalid
	}

	f.state.InFlight = true
	return domain.Credentials{
		Email:    f.state.Email,
		Password: f.state.Password,
	}, nil
}

func (f *LoginForm) release() {
	f.mu.Lock()
	f.state.InFlight = false
	f.mu.Unlock()
}

func (f *LoginForm) setBanner(msg string) {
	f.mu.Lock()
	f.state.Errors.Set(domain.FormField, msg)
	f.mu.Unlock()
}

func (f *LoginForm) fail(err error) {
	const op = "LoginForm.fail"
	slog.Warn("login failed", "op", op, "err", err)

	msg := msgGeneric
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		msg = "Invalid email or password."
	case domain.ServerMessage(err) != "":
		msg = domain.ServerMessage(err)
	}
	f.setBanner(msg)
}
