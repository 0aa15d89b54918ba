package app

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/niksmo/shop-admin/config"
	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/form"
	"github.com/niksmo/shop-admin/internal/core/preview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "tok-1"

type fakeItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	ImageURL string `json:"image_url"`
}

// fakeAPI is an in-memory products API.
type fakeAPI struct {
	mu      sync.Mutex
	nextID  int64
	items   []fakeItem
	methods []string
}

func newFakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	api := &fakeAPI{nextID: 2, items: []fakeItem{
		{ID: 1, Name: "Lamp", Price: "19.50", ImageURL: "https://img/lamp.png"},
	}}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /task-login", func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("password") != "secret123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Unauthenticated."}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"` + testToken + `","user":{"id":1,"first_name":"Jane","last_name":"Doe","user_name":"jane_doe"}}`))
	})
	mux.HandleFunc("POST /logout", api.authed(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	mux.HandleFunc("GET /items", api.authed(func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		defer api.mu.Unlock()
		_ = json.NewEncoder(w).Encode(api.items)
	}))
	mux.HandleFunc("POST /items", api.authed(func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		defer api.mu.Unlock()
		if _, _, err := r.FormFile("image"); err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"invalid","errors":{"image":["required"]}}`))
			return
		}
		api.items = append(api.items, fakeItem{
			ID: api.nextID, Name: r.FormValue("name"), Price: r.FormValue("price"),
		})
		api.nextID++
		w.WriteHeader(http.StatusCreated)
	}))
	mux.HandleFunc("POST /items/{id}", api.authed(func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		defer api.mu.Unlock()
		api.methods = append(api.methods, r.FormValue("_method"))
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		for i := range api.items {
			if api.items[i].ID == id {
				api.items[i].Name = r.FormValue("name")
				api.items[i].Price = r.FormValue("price")
			}
		}
	}))
	mux.HandleFunc("DELETE /items/{id}", api.authed(func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		defer api.mu.Unlock()
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		kept := api.items[:0]
		for _, it := range api.items {
			if it.ID != id {
				kept = append(kept, it)
			}
		}
		api.items = kept
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func (api *fakeAPI) authed(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Unauthenticated."}`))
			return
		}
		h(w, r)
	}
}

func newTestAdmin(t *testing.T, baseURL, input string) (*Admin, *bytes.Buffer) {
	t.Helper()
	cfg := config.Config{}
	cfg.API.BaseURL = baseURL
	cfg.Session.Backend = config.SessionBackendFile
	cfg.Session.Path = filepath.Join(t.TempDir(), "session.db")

	var out bytes.Buffer
	a, err := NewAdmin(t.Context(), cfg, &out, strings.NewReader(input))
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a, &out
}

func ptr(s string) *string { return &s }

func TestAdminFlow(t *testing.T) {
	srv := newFakeAPI(t)
	a, out := newTestAdmin(t, srv.URL, "")
	ctx := t.Context()

	require.ErrorIs(t, a.Products(ctx), ErrSignedOut)
	assert.Equal(t, domain.PathSignIn, a.Path())

	err := a.Login(ctx, "jane@example.com", "wrongpass")
	require.Error(t, err)
	assert.Contains(t, out.String(), "Invalid email or password.")

	out.Reset()
	require.NoError(t, a.Login(ctx, "jane@example.com", "secret123"))
	assert.Equal(t, domain.PathProducts, a.Path())
	assert.Contains(t, out.String(), "Lamp")
	assert.Contains(t, out.String(), "Jane Doe")

	t.Run("AddInvalid", func(t *testing.T) {
		out.Reset()
		err := a.AddProduct(ctx, ProductArgs{Name: ptr(""), Price: ptr("0")})
		require.ErrorIs(t, err, form.ErrInvalid)
		assert.Contains(t, out.String(), "Product name is required")
		assert.Contains(t, out.String(), "Valid price is required")
		assert.Contains(t, out.String(), "Product image is required")
	})

	t.Run("Add", func(t *testing.T) {
		img := filepath.Join(t.TempDir(), "chair.png")
		require.NoError(t, os.WriteFile(img, []byte("\x89PNG\r\n\x1a\n0000"), 0o600))

		out.Reset()
		err := a.AddProduct(ctx, ProductArgs{
			Name: ptr("Chair"), Price: ptr("42"), ImagePath: img,
		})
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Chair")
	})

	t.Run("Edit", func(t *testing.T) {
		out.Reset()
		err := a.EditProduct(ctx, 1, ProductArgs{Price: ptr("21")})
		require.NoError(t, err)
		assert.Contains(t, out.String(), "$21.00")
		assert.Contains(t, out.String(), "Lamp")
	})

	t.Run("EditMissingImage", func(t *testing.T) {
		out.Reset()
		err := a.EditProduct(ctx, 1, ProductArgs{
			Price: ptr("30"), ImagePath: filepath.Join(t.TempDir(), "typo.png"),
		})
		require.ErrorIs(t, err, fs.ErrNotExist)
		assert.Contains(t, out.String(), "Failed to read image")

		out.Reset()
		require.NoError(t, a.Products(ctx))
		assert.Contains(t, out.String(), "$21.00")
		assert.NotContains(t, out.String(), "$30.00")
	})

	t.Run("AddNotImage", func(t *testing.T) {
		txt := filepath.Join(t.TempDir(), "notes.png")
		require.NoError(t, os.WriteFile(txt, []byte("plain text"), 0o600))

		out.Reset()
		err := a.AddProduct(ctx, ProductArgs{Name: ptr("Desk"), Price: ptr("5"), ImagePath: txt})
		require.ErrorIs(t, err, preview.ErrNotImage)
		assert.Contains(t, out.String(), "Only image files are allowed")
		assert.NotContains(t, out.String(), "Product image is required")

		out.Reset()
		require.NoError(t, a.Products(ctx))
		assert.NotContains(t, out.String(), "Desk")
	})

	t.Run("EditUnknown", func(t *testing.T) {
		err := a.EditProduct(ctx, 99, ProductArgs{})
		require.Error(t, err)
	})

	t.Run("Delete", func(t *testing.T) {
		out.Reset()
		require.NoError(t, a.DeleteProduct(ctx, 1, true))
		assert.NotContains(t, out.String(), "Lamp")
	})

	t.Run("Logout", func(t *testing.T) {
		require.NoError(t, a.Logout(ctx, true))
		assert.Equal(t, domain.PathSignIn, a.Path())
		require.ErrorIs(t, a.Products(ctx), ErrSignedOut)
	})
}

func TestAdminRegisterMissingImage(t *testing.T) {
	srv := newFakeAPI(t)
	a, out := newTestAdmin(t, srv.URL, "")

	err := a.Register(t.Context(), RegisterArgs{
		FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Password: "secret123",
		ImagePath: filepath.Join(t.TempDir(), "me.png"),
	})
	require.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, out.String(), "Failed to read image")
	assert.NotContains(t, out.String(), "Profile image is required")
	assert.Equal(t, domain.PathRegister, a.Path())
}

func TestAdminDeleteDeclined(t *testing.T) {
	srv := newFakeAPI(t)
	a, out := newTestAdmin(t, srv.URL, "n\n")
	ctx := t.Context()

	require.NoError(t, a.Login(ctx, "jane@example.com", "secret123"))
	out.Reset()

	require.NoError(t, a.DeleteProduct(ctx, 1, false))
	assert.Contains(t, out.String(), "Are you sure you want to delete this product?")

	out.Reset()
	require.NoError(t, a.Products(ctx))
	assert.Contains(t, out.String(), "Lamp")
}

func TestAdminSessionPersists(t *testing.T) {
	srv := newFakeAPI(t)
	path := filepath.Join(t.TempDir(), "session.db")

	cfg := config.Config{}
	cfg.API.BaseURL = srv.URL
	cfg.Session.Backend = config.SessionBackendFile
	cfg.Session.Path = path

	var out bytes.Buffer
	a, err := NewAdmin(t.Context(), cfg, &out, strings.NewReader(""))
	require.NoError(t, err)
	require.NoError(t, a.Login(t.Context(), "jane@example.com", "secret123"))
	a.Close()

	b, err := NewAdmin(t.Context(), cfg, &out, strings.NewReader(""))
	require.NoError(t, err)
	defer b.Close()
	require.NoError(t, b.Products(t.Context()))
}
