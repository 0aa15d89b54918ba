package form

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/preview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func lamp() *domain.Product {
	return &domain.Product{ID: 7, Name: "Lamp", Price: 19.5, ImageURL: "https://img/lamp.png"}
}

func TestValidateProduct(t *testing.T) {
	img := &domain.Image{Name: "a.png", ContentType: "image/png", Data: pngData}

	tests := []struct {
		name     string
		state    ProductState
		expField []string
	}{
		{"valid new", ProductState{Name: "Lamp", Price: "9.99", Image: img}, nil},
		{"valid edit preview", ProductState{Name: "Lamp", Price: "1", Preview: "https://x"}, nil},
		{"blank name", ProductState{Name: "   ", Price: "1", Image: img}, []string{FieldName}},
		{"zero price", ProductState{Name: "a", Price: "0", Image: img}, []string{FieldPrice}},
		{"negative price", ProductState{Name: "a", Price: "-3", Image: img}, []string{FieldPrice}},
		{"text price", ProductState{Name: "a", Price: "abc", Image: img}, []string{FieldPrice}},
		{"inf price", ProductState{Name: "a", Price: "Inf", Image: img}, []string{FieldPrice}},
		{"no image", ProductState{Name: "a", Price: "1"}, []string{FieldImage}},
		{"all", ProductState{}, []string{FieldName, FieldPrice, FieldImage}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateProduct(tt.state)
			assert.Len(t, errs, len(tt.expField))
			for _, f := range tt.expField {
				assert.NotEmpty(t, errs.Get(f), f)
			}
		})
	}
}

func TestNewProductForm(t *testing.T) {
	api, parent := new(MockProductsWriter), new(fakeParent)

	t.Run("EditSeedsFields", func(t *testing.T) {
		f := NewProductForm(domain.ModeEdit, lamp(), api, parent)
		s := f.State()
		assert.Equal(t, "Lamp", s.Name)
		assert.Equal(t, "19.5", s.Price)
		assert.Equal(t, "https://img/lamp.png", s.Preview)
		assert.Nil(t, s.Image)
		assert.Equal(t, "Edit Product", f.Title())
	})

	t.Run("AddIsEmpty", func(t *testing.T) {
		f := NewProductForm(domain.ModeAdd, nil, api, parent)
		s := f.State()
		assert.Empty(t, s.Name)
		assert.Empty(t, s.Preview)
		assert.Equal(t, "Add Product", f.Title())
		assert.Equal(t, "Save", f.SubmitLabel())
	})

	t.Run("EditWithoutTargetPanics", func(t *testing.T) {
		assert.Panics(t, func() { NewProductForm(domain.ModeEdit, nil, api, parent) })
	})

	t.Run("ListModePanics", func(t *testing.T) {
		assert.Panics(t, func() { NewProductForm(domain.ModeList, nil, api, parent) })
	})
}

func TestProductFormSubmit(t *testing.T) {
	t.Run("InvalidDoesNotCallAPI", func(t *testing.T) {
		api, parent := new(MockProductsWriter), new(fakeParent)
		f := NewProductForm(domain.ModeAdd, nil, api, parent)
		f.ChangeField(FieldName, "")
		f.ChangeField(FieldPrice, "-1")

		err := f.Submit(t.Context())
		require.ErrorIs(t, err, ErrInvalid)

		s := f.State()
		assert.Equal(t, "Product name is required", s.Errors.Get(FieldName))
		assert.Equal(t, "Valid price is required", s.Errors.Get(FieldPrice))
		assert.Equal(t, "Product image is required", s.Errors.Get(FieldImage))
		api.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
		assert.Zero(t, parent.shown)
	})

	t.Run("ChangeFieldClearsError", func(t *testing.T) {
		f := NewProductForm(domain.ModeAdd, nil, new(MockProductsWriter), new(fakeParent))
		require.ErrorIs(t, f.Submit(t.Context()), ErrInvalid)
		f.ChangeField(FieldName, "Lamp")
		s := f.State()
		assert.Empty(t, s.Errors.Get(FieldName))
		assert.NotEmpty(t, s.Errors.Get(FieldPrice))
	})

	t.Run("CreateWithImage", func(t *testing.T) {
		api, parent := new(MockProductsWriter), new(fakeParent)
		release := make(chan struct{})
		started := make(chan struct{})
		api.On("CreateProduct", mock.Anything, mock.MatchedBy(func(in domain.ProductInput) bool {
			return in.Name == "Chair" && in.Price == "42" &&
				in.Image != nil && in.Image.ContentType == "image/png"
		})).Run(func(mock.Arguments) {
			close(started)
			<-release
		}).Return(nil).Once()

		f := NewProductForm(domain.ModeAdd, nil, api, parent)
		f.ChangeField(FieldName, "Chair")
		f.ChangeField(FieldPrice, "42")
		require.NoError(t, <-f.ChangeImage(t.Context(), preview.BytesBlob{Filename: "c.png", Data: pngData}))
		assert.Contains(t, f.State().Preview, "data:image/png;base64,")
		assert.False(t, f.State().InFlight)

		done := make(chan error, 1)
		go func() { done <- f.Submit(t.Context()) }()
		<-started

		assert.True(t, f.State().InFlight)
		assert.Equal(t, "Saving...", f.SubmitLabel())

		close(release)
		require.NoError(t, <-done)
		assert.False(t, f.State().InFlight)
		assert.Equal(t, 1, parent.shown)
		api.AssertExpectations(t)
	})

	t.Run("EditKeepsImageWhenUnchanged", func(t *testing.T) {
		api, parent := new(MockProductsWriter), new(fakeParent)
		api.On("UpdateProduct", mock.Anything, int64(7), domain.ProductInput{
			Name: "Lamp", Price: "21",
		}).Return(nil).Once()

		f := NewProductForm(domain.ModeEdit, lamp(), api, parent)
		f.ChangeField(FieldPrice, "21")
		require.NoError(t, f.Submit(t.Context()))
		api.AssertExpectations(t)
		assert.Equal(t, 1, parent.shown)
	})

	t.Run("EditAfterRemoveImageNeedsOne", func(t *testing.T) {
		api := new(MockProductsWriter)
		f := NewProductForm(domain.ModeEdit, lamp(), api, new(fakeParent))
		f.RemoveImage()
		require.ErrorIs(t, f.Submit(t.Context()), ErrInvalid)
		assert.Equal(t, "Product image is required", f.State().Errors.Get(FieldImage))
	})

	t.Run("ServerValidationSetsBanner", func(t *testing.T) {
		api, parent := new(MockProductsWriter), new(fakeParent)
		api.On("UpdateProduct", mock.Anything, int64(7), mock.Anything).Return(&domain.APIError{
			Status: 422, Message: "invalid", Fields: map[string][]string{"price": {"bad"}},
		})

		f := NewProductForm(domain.ModeEdit, lamp(), api, parent)
		err := f.Submit(t.Context())
		require.ErrorIs(t, err, domain.ErrServerValidation)

		s := f.State()
		assert.Equal(t, "Failed to save product. Please check inputs.", s.Errors.Get(domain.FormField))
		assert.False(t, s.InFlight)
		assert.Zero(t, parent.shown)
		assert.Empty(t, parent.alerts)
	})

	t.Run("UnauthorizedDelegates", func(t *testing.T) {
		api, parent := new(MockProductsWriter), new(fakeParent)
		api.On("UpdateProduct", mock.Anything, int64(7), mock.Anything).
			Return(&domain.APIError{Status: 401})

		f := NewProductForm(domain.ModeEdit, lamp(), api, parent)
		require.ErrorIs(t, f.Submit(t.Context()), domain.ErrUnauthorized)
		assert.Equal(t, 1, parent.unauthorized)
	})

	t.Run("OtherFailureAlerts", func(t *testing.T) {
		api, parent := new(MockProductsWriter), new(fakeParent)
		api.On("UpdateProduct", mock.Anything, int64(7), mock.Anything).Return(assert.AnError)

		f := NewProductForm(domain.ModeEdit, lamp(), api, parent)
		require.ErrorIs(t, f.Submit(t.Context()), assert.AnError)
		assert.Equal(t, []string{"Something went wrong. Please try again."}, parent.alerts)
		assert.Empty(t, f.State().Errors.Get(domain.FormField))
	})

	t.Run("InFlightGuard", func(t *testing.T) {
		api, parent := new(MockProductsWriter), new(fakeParent)
		release := make(chan struct{})
		started := make(chan struct{})
		api.On("UpdateProduct", mock.Anything, int64(7), mock.Anything).
			Run(func(mock.Arguments) {
				close(started)
				<-release
			}).Return(nil).Once()

		f := NewProductForm(domain.ModeEdit, lamp(), api, parent)

		done := make(chan error, 1)
		go func() { done <- f.Submit(t.Context()) }()
		<-started

		assert.True(t, f.State().InFlight)
		assert.Equal(t, "Saving...", f.SubmitLabel())
		require.ErrorIs(t, f.Submit(t.Context()), ErrInFlight)

		close(release)
		require.NoError(t, <-done)
		assert.False(t, f.State().InFlight)
		api.AssertNumberOfCalls(t, "UpdateProduct", 1)
	})
}

func TestProductFormImage(t *testing.T) {
	t.Run("RejectsNonImage", func(t *testing.T) {
		f := NewProductForm(domain.ModeAdd, nil, new(MockProductsWriter), new(fakeParent))
		err := <-f.ChangeImage(t.Context(), preview.BytesBlob{Filename: "a.txt", Data: []byte("hello")})
		require.ErrorIs(t, err, preview.ErrNotImage)
		s := f.State()
		assert.Nil(t, s.Image)
		assert.Equal(t, "Only image files are allowed", s.Errors.Get(FieldImage))
	})

	t.Run("RemoveSupersedesRead", func(t *testing.T) {
		f := NewProductForm(domain.ModeAdd, nil, new(MockProductsWriter), new(fakeParent))
		blob := &slowBlob{gate: make(chan struct{})}

		errc := f.ChangeImage(t.Context(), blob)
		f.RemoveImage()
		close(blob.gate)

		require.ErrorIs(t, <-errc, ErrSuperseded)
		assert.Nil(t, f.State().Image)
		assert.Empty(t, f.State().Preview)
	})

	t.Run("CancelResets", func(t *testing.T) {
		parent := new(fakeParent)
		f := NewProductForm(domain.ModeEdit, lamp(), new(MockProductsWriter), parent)
		f.ChangeField(FieldName, "x")
		f.Cancel(context.Background())
		assert.Empty(t, f.State().Name)
		assert.Equal(t, 1, parent.shown)
	})
}

// slowBlob blocks Open until gate closes.
type slowBlob struct {
	gate chan struct{}
}

func (b *slowBlob) Name() string { return "slow.png" }

func (b *slowBlob) Open() (io.ReadCloser, error) {
	select {
	case <-b.gate:
	case <-time.After(time.Second):
	}
	return io.NopCloser(bytes.NewReader(pngData)), nil
}
