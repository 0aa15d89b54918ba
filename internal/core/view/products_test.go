package view

import (
	"context"
	"errors"
	"testing"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func catalog() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Lamp", Price: 19.5, ImageURL: "https://img/lamp.png"},
		{ID: 2, Name: "Chair", Price: 42, ImageURL: "https://img/chair.png"},
	}
}

func newProductsView(api *MockProductsAPI, sess *memSession) (*ProductsView, *Router, *recNotifier) {
	router := NewRouter(domain.PathProducts, sess)
	n := new(recNotifier)
	return NewProductsView(api, sess, router, n), router, n
}

func TestProductsViewMount(t *testing.T) {
	t.Run("LoadsList", func(t *testing.T) {
		api := new(MockProductsAPI)
		api.On("ListProducts", mock.Anything).Return(catalog(), nil).Once()

		v, _, _ := newProductsView(api, signedIn())
		require.NoError(t, v.Mount(t.Context()))

		assert.Len(t, v.Products(), 2)
		assert.False(t, v.Loading())
		assert.Equal(t, domain.ModeList, v.Mode())
		assert.Equal(t, "Products", v.Section())
	})

	t.Run("UnauthorizedClearsSession", func(t *testing.T) {
		api := new(MockProductsAPI)
		api.On("ListProducts", mock.Anything).Return(nil, &domain.APIError{Status: 401})

		sess := signedIn()
		v, router, _ := newProductsView(api, sess)
		require.ErrorIs(t, v.Mount(t.Context()), domain.ErrUnauthorized)

		assert.Equal(t, 1, sess.cleared)
		assert.Equal(t, domain.PathLogin, router.Path())
	})

	t.Run("LoadingWhileInFlight", func(t *testing.T) {
		api := new(MockProductsAPI)
		started, release := make(chan struct{}), make(chan struct{})
		api.On("ListProducts", mock.Anything).Run(func(mock.Arguments) {
			close(started)
			<-release
		}).Return(catalog(), nil)

		v, _, _ := newProductsView(api, signedIn())
		done := make(chan error, 1)
		go func() { done <- v.Mount(context.Background()) }()

		<-started
		assert.True(t, v.Loading())
		close(release)
		require.NoError(t, <-done)
		assert.False(t, v.Loading())
	})
}

func TestProductsViewModes(t *testing.T) {
	api := new(MockProductsAPI)
	api.On("ListProducts", mock.Anything).Return(catalog(), nil)

	v, _, _ := newProductsView(api, signedIn())
	require.NoError(t, v.Mount(t.Context()))

	f := v.Add()
	assert.Equal(t, domain.ModeAdd, v.Mode())
	assert.Equal(t, "Products/Add", v.Section())
	assert.Same(t, f, v.Form())
	assert.Empty(t, f.State().Name)

	f, err := v.Edit(2)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeEdit, v.Mode())
	assert.Equal(t, "Products/Edit", v.Section())
	assert.Equal(t, "Chair", f.State().Name)
	assert.Equal(t, "42", f.State().Price)

	_, err = v.Edit(99)
	require.ErrorIs(t, err, ErrProductNotFound)

	f.Cancel(t.Context())
	assert.Equal(t, domain.ModeList, v.Mode())
	assert.Nil(t, v.Form())
	api.AssertNumberOfCalls(t, "ListProducts", 2)
}

func TestProductsViewSaveReturnsToList(t *testing.T) {
	api := new(MockProductsAPI)
	api.On("ListProducts", mock.Anything).Return(catalog(), nil)
	api.On("UpdateProduct", mock.Anything, int64(1), mock.Anything).Return(nil).Once()

	v, _, _ := newProductsView(api, signedIn())
	require.NoError(t, v.Mount(t.Context()))

	f, err := v.Edit(1)
	require.NoError(t, err)
	require.NoError(t, f.Submit(t.Context()))

	assert.Equal(t, domain.ModeList, v.Mode())
	api.AssertNumberOfCalls(t, "ListProducts", 2)
}

func TestProductsViewDelete(t *testing.T) {
	t.Run("Confirm", func(t *testing.T) {
		api := new(MockProductsAPI)
		api.On("ListProducts", mock.Anything).Return(catalog(), nil).Once()
		api.On("DeleteProduct", mock.Anything, int64(1)).Return(nil).Once()

		v, _, n := newProductsView(api, signedIn())
		require.NoError(t, v.Mount(t.Context()))

		p := v.RequestDelete(1)
		assert.Equal(t, "Are you sure you want to delete this product?", p.Text())
		id, open := v.Staged()
		assert.Equal(t, int64(1), id)
		assert.True(t, open)

		p.Resolve(t.Context(), true)

		assert.Len(t, v.Products(), 1)
		assert.Nil(t, v.Prompt())
		assert.Empty(t, n.alerts)
		api.AssertExpectations(t)
	})

	t.Run("Decline", func(t *testing.T) {
		api := new(MockProductsAPI)
		api.On("ListProducts", mock.Anything).Return(catalog(), nil).Once()

		v, _, _ := newProductsView(api, signedIn())
		require.NoError(t, v.Mount(t.Context()))

		v.RequestDelete(2).Resolve(t.Context(), false)

		assert.Len(t, v.Products(), 2)
		_, open := v.Staged()
		assert.False(t, open)
		api.AssertNotCalled(t, "DeleteProduct", mock.Anything, mock.Anything)
	})

	t.Run("ResolveOnlyOnce", func(t *testing.T) {
		api := new(MockProductsAPI)
		api.On("ListProducts", mock.Anything).Return(catalog(), nil).Once()
		api.On("DeleteProduct", mock.Anything, int64(1)).Return(nil).Once()

		v, _, _ := newProductsView(api, signedIn())
		require.NoError(t, v.Mount(t.Context()))

		p := v.RequestDelete(1)
		p.Resolve(t.Context(), true)
		p.Resolve(t.Context(), true)
		api.AssertNumberOfCalls(t, "DeleteProduct", 1)
	})

	t.Run("FailureAlerts", func(t *testing.T) {
		api := new(MockProductsAPI)
		api.On("ListProducts", mock.Anything).Return(catalog(), nil).Once()
		api.On("DeleteProduct", mock.Anything, int64(1)).Return(errors.New("boom"))

		v, _, n := newProductsView(api, signedIn())
		require.NoError(t, v.Mount(t.Context()))

		v.RequestDelete(1).Resolve(t.Context(), true)
		assert.Len(t, v.Products(), 2)
		assert.Equal(t, []string{"Failed to delete product."}, n.alerts)
	})

	t.Run("Unauthorized", func(t *testing.T) {
		api := new(MockProductsAPI)
		api.On("ListProducts", mock.Anything).Return(catalog(), nil).Once()
		api.On("DeleteProduct", mock.Anything, int64(1)).Return(&domain.APIError{Status: 401})

		sess := signedIn()
		v, router, n := newProductsView(api, sess)
		require.NoError(t, v.Mount(t.Context()))

		v.RequestDelete(1).Resolve(t.Context(), true)
		assert.Equal(t, domain.PathLogin, router.Path())
		assert.Equal(t, 1, sess.cleared)
		assert.Empty(t, n.alerts)
	})
}
