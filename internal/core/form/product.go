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

const msgSaveRejected = "Failed to save product. Please check inputs."

// A Parent owns the product form and decides what is shown after it.
type Parent interface {
	port.Notifier
	ShowList(context.Context)
	Unauthorized(context.Context)
}

type ProductState struct {
	Name     string
	Price    string
	Image    *domain.Image
	Preview  string
	Errors   domain.FieldErrors
	InFlight bool
}

func (s ProductState) clone() ProductState {
	s.Errors = s.Errors.Clone()
	return s
}

// ValidateProduct reports the field errors of s. An image is satisfied by
// a newly chosen blob or by the preview of the record being edited.
func ValidateProduct(s ProductState) domain.FieldErrors {
	errs := make(domain.FieldErrors)
	if blank(s.Name) {
		errs.Set(FieldName, "Product name is required")
	}
	if !positiveNumber(s.Price) {
		errs.Set(FieldPrice, "Valid price is required")
	}
	if s.Image == nil && s.Preview == "" {
		errs.Set(FieldImage, "Product image is required")
	}
	return errs
}

// A ProductForm is the shared add/edit product form.
type ProductForm struct {
	mu     sync.Mutex
	mode   domain.Mode
	target domain.Product
	state  ProductState
	images imageLoader
	api    port.ProductsWriter
	parent Parent
}

// NewProductForm returns a fresh form. In [domain.ModeEdit] it is seeded
// from target; the existing image URL becomes the preview.
func NewProductForm(
	mode domain.Mode,
	target *domain.Product,
	api port.ProductsWriter,
	parent Parent,
) *ProductForm {
	const op = "NewProductForm"

	if api == nil || parent == nil {
		panic(fmt.Errorf("%s: nil dependency", op)) // develop mistake
	}

	f := &ProductForm{
		mode:   mode,
		api:    api,
		parent: parent,
		state:  ProductState{Errors: make(domain.FieldErrors)},
	}

	switch mode {
	case domain.ModeAdd:
	case domain.ModeEdit:
		if target == nil {
			panic(fmt.Errorf("%s: edit mode without a product", op)) // develop mistake
		}
		f.target = *target
		f.state.Name = target.Name
		f.state.Price = target.PriceText()
		f.state.Preview = target.ImageURL
	default:
		panic(fmt.Errorf("%s: unexpected mode %q", op, mode)) // develop mistake
	}

	return f
}

func (f *ProductForm) Mode() domain.Mode {
	return f.mode
}

func (f *ProductForm) Title() string {
	if f.mode == domain.ModeEdit {
		return "Edit Product"
	}
	return "Add Product"
}

func (f *ProductForm) SubmitLabel() string {
	if f.State().InFlight {
		return "Saving..."
	}
	return "Save"
}

func (f *ProductForm) State() ProductState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.clone()
}

func (f *ProductForm) ChangeField(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch name {
	case FieldName:
		f.state.Name = value
	case FieldPrice:
		f.state.Price = value
	default:
		return
	}
	f.state.Errors.Clear(name)
}

// ChangeImage reads b asynchronously. The returned channel yields the read
// error, nil on success, after the form state has been updated.
func (f *ProductForm) ChangeImage(ctx context.Context, b domain.Blob) <-chan error {
	return f.images.load(ctx, &f.mu, b, func(out preview.Outcome) {
		if out.Err != nil {
			slog.Warn("failed to read image",
				"op", "ProductForm.ChangeImage", "err", out.Err)
			f.state.Errors.Set(FieldImage, imageReadMessage(out.Err))
			return
		}
		img := out.Result.Image
		f.state.Image = &img
		f.state.Preview = out.Result.DataURL
		f.state.Errors.Clear(FieldImage)
	})
}

func (f *ProductForm) RemoveImage() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.images.supersede()
	f.state.Image = nil
	f.state.Preview = ""
}

func (f *ProductForm) Validate() domain.FieldErrors {
	return ValidateProduct(f.State())
}

func (f *ProductForm) Submit(ctx context.Context) error {
	const op = "ProductForm.Submit"
	log := slog.With("op", op, "mode", f.mode.String())

	in, err := f.begin()
	if err != nil {
		log.Debug("submit rejected", "err", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	err = func() error {
		defer f.release()
		return f.save(ctx, in)
	}()

	if err != nil {
		f.fail(ctx, err)
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("product saved", "name", in.Name)
	f.parent.ShowList(ctx)
	return nil
}

func (f *ProductForm) Cancel(ctx context.Context) {
	f.mu.Lock()
	f.images.supersede()
	f.state = ProductState{Errors: make(domain.FieldErrors)}
	f.mu.Unlock()

	f.parent.ShowList(ctx)
}

func (f *ProductForm) begin() (domain.ProductInput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.InFlight {
		return domain.ProductInput{}, ErrInFlight
	}

	errs := ValidateProduct(f.state)
	f.state.Errors = errs
	if !errs.Valid() {
		return domain.ProductInput{}, ErrInvalid
	}

	f.state.InFlight = true
	return domain.ProductInput{
		Name:  f.state.Name,
		Price: f.state.Price,
		Image: f.state.Image,
	}, nil
}

func (f *ProductForm) release() {
	f.mu.Lock()
	f.state.InFlight = false
	f.mu.Unlock()
}

func (f *ProductForm) save(ctx context.Context, in domain.ProductInput) error {
	if f.mode == domain.ModeEdit {
		return f.api.UpdateProduct(ctx, f.target.ID, in)
	}
	return f.api.CreateProduct(ctx, in)
}

func (f *ProductForm) fail(ctx context.Context, err error) {
	const op = "ProductForm.fail"
	log := slog.With("op", op)

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		log.Warn("session rejected", "err", err)
		f.parent.Unauthorized(ctx)
	case errors.Is(err, domain.ErrServerValidation):
		log.Warn("input rejected by server", "err", err)
		f.mu.Lock()
		f.state.Errors.Set(domain.FormField, msgSaveRejected)
		f.mu.Unlock()
	default:
		log.Error("failed to save product", "err", err)
		f.parent.Alert(msgGeneric)
	}
}
