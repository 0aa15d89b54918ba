package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
	"github.com/niksmo/shop-admin/internal/core/preview"
)

type registrar interface {
	Register(context.Context, domain.Registration) error
}

type RegisterState struct {
	FirstName    string
	LastName     string
	Email        string
	Password     string
	ProfileImage *domain.Image
	Preview      string
	Errors       domain.FieldErrors
	InFlight     bool
}

// ValidateRegister reports the field errors of s. Unlike the product form
// the profile image is judged on the blob itself.
func ValidateRegister(s RegisterState) domain.FieldErrors {
	errs := make(domain.FieldErrors)
	if blank(s.FirstName) {
		errs.Set(FieldFirstName, "First name is required")
	}
	if blank(s.LastName) {
		errs.Set(FieldLastName, "Last name is required")
	}
	validateCredentials(s.Email, s.Password, errs)
	if s.ProfileImage == nil {
		errs.Set(FieldProfileImage, "Profile image is required")
	}
	return errs
}

type RegisterForm struct {
	mu     sync.Mutex
	state  RegisterState
	images imageLoader
	auth   registrar
	nav    port.Navigator
}

func NewRegisterForm(auth registrar, nav port.Navigator) *RegisterForm {
	if auth == nil || nav == nil {
		panic("NewRegisterForm: nil dependency") // develop mistake
	}
	return &RegisterForm{
		state: RegisterState{Errors: make(domain.FieldErrors)},
		auth:  auth,
		nav:   nav,
	}
}

func (f *RegisterForm) State() RegisterState {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.state
	s.Errors = s.Errors.Clone()
	return s
}

func (f *RegisterForm) SubmitLabel() string {
	if f.State().InFlight {
		return "Creating Account..."
	}
	return "Sign Up"
}

func (f *RegisterForm) ChangeField(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch name {
	case FieldFirstName:
		f.state.FirstName = value
	case FieldLastName:
		f.state.LastName = value
	case FieldEmail:
		f.state.Email = value
	case FieldPassword:
		f.state.Password = value
	default:
		return
	}
	f.state.Errors.Clear(name)
}

func (f *RegisterForm) ChangeImage(ctx context.Context, b domain.Blob) <-chan error {
	return f.images.load(ctx, &f.mu, b, func(out preview.Outcome) {
		if out.Err != nil {
			slog.Warn("failed to read image",
				"op", "RegisterForm.ChangeImage", "err", out.Err)
			f.state.Errors.Set(FieldProfileImage, imageReadMessage(out.Err))
			return
		}
		img := out.Result.Image
		f.state.ProfileImage = &img
		f.state.Preview = out.Result.DataURL
		f.state.Errors.Clear(FieldProfileImage)
	})
}

func (f *RegisterForm) RemoveImage() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.images.supersede()
	f.state.ProfileImage = nil
	f.state.Preview = ""
}

func (f *RegisterForm) Validate() domain.FieldErrors {
	return ValidateRegister(f.State())
}

func (f *RegisterForm) Submit(ctx context.Context) error {
	const op = "RegisterForm.Submit"
	log := slog.With("op", op)

	reg, err := f.begin()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = func() error {
		defer f.release()
		return f.auth.Register(ctx, reg)
	}()
	if err != nil {
		f.fail(err)
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("account created", "user", reg.UserName())
	f.nav.Navigate(ctx, domain.PathSignIn)
	return nil
}

func (f *RegisterForm) begin() (domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.InFlight {
		return domain.Registration{}, ErrInFlight
	}

	errs := ValidateRegister(f.state)
	f.state.Errors = errs
	if !errs.Valid() {
		return domain.Registration{}, ErrInvalid
	}

	f.state.InFlight = true
	return domain.Registration{
		FirstName:    f.state.FirstName,
		LastName:     f.state.LastName,
		Email:        f.state.Email,
		Password:     f.state.Password,
		ProfileImage: f.state.ProfileImage,
	}, nil
}

func (f *RegisterForm) release() {
	f.mu.Lock()
	f.state.InFlight = false
	f.mu.Unlock()
}

// fail keeps the banner coarse: structured field errors from the server
// are summed up by its message, never mapped per field.
func (f *RegisterForm) fail(err error) {
	const op = "RegisterForm.fail"
	slog.Warn("registration failed", "op", op, "err", err)

	msg := msgGeneric
	if errors.Is(err, domain.ErrServerValidation) {
		msg = domain.ServerMessage(err)
		if msg == "" {
			msg = "Registration failed"
		}
	}

	f.mu.Lock()
	f.state.Errors.Set(domain.FormField, msg)
	f.mu.Unlock()
}
