package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/niksmo/shop-admin/config"
	"github.com/niksmo/shop-admin/internal/adapter"
	"github.com/niksmo/shop-admin/internal/adapter/restapi"
	"github.com/niksmo/shop-admin/internal/adapter/session"
	"github.com/niksmo/shop-admin/internal/adapter/terminal"
	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/form"
	"github.com/niksmo/shop-admin/internal/core/port"
	"github.com/niksmo/shop-admin/internal/core/preview"
	"github.com/niksmo/shop-admin/internal/core/service"
	"github.com/niksmo/shop-admin/internal/core/view"
)

const keyringService = "shop-admin"

var (
	ErrSignedOut = errors.New("not signed in")
	ErrFailed    = errors.New("command failed")
)

type RegisterArgs struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	ImagePath string
}

// ProductArgs are the form inputs of add and edit. Nil fields keep the
// current value.
type ProductArgs struct {
	Name        *string
	Price       *string
	ImagePath   string
	RemoveImage bool
}

// An Admin runs one admin command per call against the remote API and
// renders the resulting view state on the terminal.
type Admin struct {
	store   port.SessionProvider
	service service.Service
	router  *view.Router
	term    *terminal.Terminal
	closers []func()
}

func NewAdmin(
	ctx context.Context, cfg config.Config, out io.Writer, in io.Reader,
) (*Admin, error) {
	const op = "NewAdmin"

	a := &Admin{term: terminal.New(out, in)}

	if err := a.initSession(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hc, err := newHTTPClient(cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	api := restapi.New(
		cfg.API.BaseURL,
		restapi.HTTPClientOpt(hc),
		restapi.TokenSourceOpt(a.store),
	)

	publisher, closePublisher := newPublisher(ctx, cfg)
	a.closers = append(a.closers, closePublisher)

	a.service = service.New(api, api, a.store, publisher)
	a.router = view.NewRouter(domain.PathSignIn, a.store)
	return a, nil
}

func (a *Admin) initSession(cfg config.Config) error {
	switch cfg.Session.Backend {
	case config.SessionBackendKeyring:
		a.store = session.NewKeyringStore(keyringService)
	default:
		s, err := session.NewBoltStore(cfg.Session.Path)
		if err != nil {
			return err
		}
		a.store = s
		a.closers = append(a.closers, s.Close)
	}
	return nil
}

func newHTTPClient(cfg config.Config) (*http.Client, error) {
	hc := &http.Client{Timeout: cfg.API.Timeout}
	if cfg.API.CAFile == "" {
		return hc, nil
	}

	tlsCfg, err := adapter.MakeTLSConfig(cfg.API.CAFile, "", "")
	if err != nil {
		return nil, err
	}
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = tlsCfg
	hc.Transport = tr
	return hc, nil
}

func (a *Admin) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	slog.Debug("admin is closed", "op", "Admin.Close")
}

func (a *Admin) Path() string {
	return a.router.Path()
}

func (a *Admin) Login(ctx context.Context, email, password string) error {
	const op = "Admin.Login"

	a.router.Navigate(ctx, domain.PathLogin)

	f := form.NewLoginForm(a.service, a.store, a.router)
	f.ChangeField(form.FieldEmail, email)
	f.ChangeField(form.FieldPassword, password)

	if err := f.Submit(ctx); err != nil {
		a.term.LoginForm(f)
		return fmt.Errorf("%s: %w", op, err)
	}

	if a.router.Path() != domain.PathProducts {
		a.term.LoginForm(f)
		return fmt.Errorf("%s: %w: no session issued", op, ErrFailed)
	}
	return a.Products(ctx)
}

func (a *Admin) Register(ctx context.Context, args RegisterArgs) error {
	const op = "Admin.Register"

	a.router.Navigate(ctx, domain.PathRegister)

	f := form.NewRegisterForm(a.service, a.router)
	f.ChangeField(form.FieldFirstName, args.FirstName)
	f.ChangeField(form.FieldLastName, args.LastName)
	f.ChangeField(form.FieldEmail, args.Email)
	f.ChangeField(form.FieldPassword, args.Password)
	if args.ImagePath != "" {
		if err := <-f.ChangeImage(ctx, preview.FileBlob(args.ImagePath)); err != nil {
			slog.Warn("image rejected", "op", op, "err", err)
			a.term.RegisterForm(f)
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := f.Submit(ctx); err != nil {
		a.term.RegisterForm(f)
		return fmt.Errorf("%s: %w", op, err)
	}

	a.term.Info("Account created. Sign in with the login command.")
	return nil
}

// Logout asks for confirmation unless yes is set.
func (a *Admin) Logout(ctx context.Context, yes bool) error {
	const op = "Admin.Logout"

	sb := view.NewSidebar("Products", a.service, a.store, a.router)
	a.term.Header(view.NewHeader(ctx, "Logout", a.store))

	p := sb.RequestSignOut()
	if yes {
		p.Resolve(ctx, true)
	} else if !a.term.Ask(ctx, p) {
		return nil
	}

	a.term.Sidebar(sb)
	if msg := sb.Message(); msg != "" {
		return fmt.Errorf("%s: %w: %s", op, ErrFailed, msg)
	}
	a.term.Info("Signed out.")
	return nil
}

func (a *Admin) Products(ctx context.Context) error {
	const op = "Admin.Products"

	v, err := a.mountProducts(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	a.renderProducts(ctx, v)
	return nil
}

func (a *Admin) AddProduct(ctx context.Context, args ProductArgs) error {
	const op = "Admin.AddProduct"

	v, err := a.mountProducts(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	f := v.Add()
	if err := a.submitProduct(ctx, v, f, args); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (a *Admin) EditProduct(ctx context.Context, id int64, args ProductArgs) error {
	const op = "Admin.EditProduct"

	v, err := a.mountProducts(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	f, err := v.Edit(id)
	if err != nil {
		a.term.Alert(fmt.Sprintf("Product %d not found.", id))
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := a.submitProduct(ctx, v, f, args); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteProduct asks for confirmation unless yes is set.
func (a *Admin) DeleteProduct(ctx context.Context, id int64, yes bool) error {
	const op = "Admin.DeleteProduct"

	v, err := a.mountProducts(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, ok := domain.FindProduct(v.Products(), id); !ok {
		a.term.Alert(fmt.Sprintf("Product %d not found.", id))
		return fmt.Errorf("%s: id %d: %w", op, id, view.ErrProductNotFound)
	}

	p := v.RequestDelete(id)
	if yes {
		p.Resolve(ctx, true)
	} else if !a.term.Ask(ctx, p) {
		return nil
	}

	if err := a.checkSession(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, ok := domain.FindProduct(v.Products(), id); ok {
		return fmt.Errorf("%s: %w: product %d still exists", op, ErrFailed, id)
	}
	a.renderProducts(ctx, v)
	return nil
}

func (a *Admin) mountProducts(ctx context.Context) (*view.ProductsView, error) {
	a.router.Navigate(ctx, domain.PathProducts)
	if a.router.Current(ctx) != view.RouteProducts {
		a.term.Alert("Please sign in first.")
		return nil, ErrSignedOut
	}

	v := view.NewProductsView(a.service, a.store, a.router, a.term)
	if err := v.Mount(ctx); err != nil {
		if sErr := a.checkSession(); sErr != nil {
			return nil, sErr
		}
		a.term.Alert(msgLoadFailed)
		return nil, err
	}
	return v, nil
}

const msgLoadFailed = "Failed to load products."

func (a *Admin) submitProduct(
	ctx context.Context, v *view.ProductsView, f *form.ProductForm, args ProductArgs,
) error {
	const op = "Admin.submitProduct"

	if args.Name != nil {
		f.ChangeField(form.FieldName, *args.Name)
	}
	if args.Price != nil {
		f.ChangeField(form.FieldPrice, *args.Price)
	}
	if args.RemoveImage {
		f.RemoveImage()
	}
	if args.ImagePath != "" {
		if err := <-f.ChangeImage(ctx, preview.FileBlob(args.ImagePath)); err != nil {
			slog.Warn("image rejected", "op", op, "err", err)
			a.term.ProductForm(f)
			return err
		}
	}

	if err := f.Submit(ctx); err != nil {
		if sErr := a.checkSession(); sErr != nil {
			return errors.Join(err, sErr)
		}
		a.term.ProductForm(f)
		return err
	}

	a.renderProducts(ctx, v)
	return nil
}

// checkSession reports a session the API rejected. Views route to the
// login page in that case.
func (a *Admin) checkSession() error {
	if a.router.Path() != domain.PathLogin {
		return nil
	}
	a.term.Alert("Session expired. Sign in again with the login command.")
	return domain.ErrUnauthorized
}

func (a *Admin) renderProducts(ctx context.Context, v *view.ProductsView) {
	a.term.Header(view.NewHeader(ctx, v.Section(), a.store))
	a.term.ProductsView(v)
}
