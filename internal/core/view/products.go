package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/form"
	"github.com/niksmo/shop-admin/internal/core/port"
)

var ErrProductNotFound = errors.New("product not found")

var _ form.Parent = (*ProductsView)(nil)

const (
	deletePromptText = "Are you sure you want to delete this product?"
	msgDeleteFailed  = "Failed to delete product."
)

// A ProductsView owns the cached product list and switches between the
// list and the product form.
type ProductsView struct {
	mu       sync.Mutex
	api      port.ProductsAPI
	session  port.SessionProvider
	nav      port.Navigator
	notifier port.Notifier

	mode     domain.Mode
	products []domain.Product
	loading  bool
	form     *form.ProductForm
	prompt   *Prompt
	staged   int64
}

func NewProductsView(
	api port.ProductsAPI,
	session port.SessionProvider,
	nav port.Navigator,
	notifier port.Notifier,
) *ProductsView {
	if api == nil || session == nil || nav == nil || notifier == nil {
		panic("NewProductsView: nil dependency") // develop mistake
	}
	return &ProductsView{
		api:      api,
		session:  session,
		nav:      nav,
		notifier: notifier,
	}
}

func (v *ProductsView) Mount(ctx context.Context) error {
	return v.load(ctx)
}

func (v *ProductsView) Mode() domain.Mode {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mode
}

func (v *ProductsView) Section() string {
	switch v.Mode() {
	case domain.ModeAdd:
		return "Products/Add"
	case domain.ModeEdit:
		return "Products/Edit"
	default:
		return "Products"
	}
}

func (v *ProductsView) Products() []domain.Product {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.products)
}

func (v *ProductsView) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Form is nil in list mode.
func (v *ProductsView) Form() *form.ProductForm {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form
}

// Prompt is nil unless a delete is staged.
func (v *ProductsView) Prompt() *Prompt {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.prompt
}

func (v *ProductsView) Add() *form.ProductForm {
	f := form.NewProductForm(domain.ModeAdd, nil, v.api, v)

	v.mu.Lock()
	v.mode = domain.ModeAdd
	v.form = f
	v.mu.Unlock()

	return f
}

func (v *ProductsView) Edit(id int64) (*form.ProductForm, error) {
	const op = "ProductsView.Edit"

	v.mu.Lock()
	defer v.mu.Unlock()

	p, ok := domain.FindProduct(v.products, id)
	if !ok {
		return nil, fmt.Errorf("%s: id %d: %w", op, id, ErrProductNotFound)
	}

	f := form.NewProductForm(domain.ModeEdit, &p, v.api, v)
	v.mode = domain.ModeEdit
	v.form = f
	return f, nil
}

// RequestDelete stages id and opens the confirmation prompt.
func (v *ProductsView) RequestDelete(id int64) *Prompt {
	p := NewPrompt(
		deletePromptText,
		func(ctx context.Context) { v.confirmDelete(ctx, id) },
		v.closePrompt,
	)

	v.mu.Lock()
	v.staged = id
	v.prompt = p
	v.mu.Unlock()

	return p
}

func (v *ProductsView) Staged() (int64, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.staged, v.prompt != nil
}

// ShowList switches back to the list, which is then fetched again.
func (v *ProductsView) ShowList(ctx context.Context) {
	v.mu.Lock()
	v.mode = domain.ModeList
	v.form = nil
	v.mu.Unlock()

	_ = v.load(ctx)
}

func (v *ProductsView) Alert(msg string) {
	v.notifier.Alert(msg)
}

// Unauthorized drops the persisted session and sends the user to sign in.
func (v *ProductsView) Unauthorized(ctx context.Context) {
	const op = "ProductsView.Unauthorized"

	if err := v.session.ClearSession(ctx); err != nil {
		slog.Error("failed to clear session", "op", op, "err", err)
	}
	v.nav.Navigate(ctx, domain.PathLogin)
}

func (v *ProductsView) load(ctx context.Context) error {
	const op = "ProductsView.load"
	log := slog.With("op", op)

	v.mu.Lock()
	v.loading = true
	v.mu.Unlock()

	ps, err := func() ([]domain.Product, error) {
		defer v.setLoading(false)
		return v.api.ListProducts(ctx)
	}()
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			v.Unauthorized(ctx)
		}
		log.Error("failed to fetch products", "err", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	v.mu.Lock()
	v.products = ps
	v.mu.Unlock()

	log.Debug("products fetched", "nProducts", len(ps))
	return nil
}

func (v *ProductsView) setLoading(b bool) {
	v.mu.Lock()
	v.loading = b
	v.mu.Unlock()
}

func (v *ProductsView) confirmDelete(ctx context.Context, id int64) {
	const op = "ProductsView.confirmDelete"
	log := slog.With("op", op, "id", id)

	defer v.closePrompt()

	err := v.api.DeleteProduct(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			log.Warn("session rejected", "err", err)
			v.Unauthorized(ctx)
			return
		}
		log.Error("failed to delete product", "err", err)
		v.notifier.Alert(msgDeleteFailed)
		return
	}

	v.mu.Lock()
	v.products = domain.RemoveProduct(v.products, id)
	v.mu.Unlock()

	log.Info("product deleted")
}

func (v *ProductsView) closePrompt() {
	v.mu.Lock()
	v.prompt = nil
	v.staged = 0
	v.mu.Unlock()
}
