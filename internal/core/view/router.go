package view

import (
	"context"
	"log/slog"
	"sync"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
)

var _ port.Navigator = (*Router)(nil)

type Route int

const (
	RouteLogin Route = iota
	RouteRegister
	RouteProducts
)

func (r Route) String() string {
	switch r {
	case RouteRegister:
		return "register"
	case RouteProducts:
		return "products"
	default:
		return "login"
	}
}

// Resolve maps a path to its view. Unknown paths land on sign-in.
func Resolve(path string) Route {
	switch path {
	case domain.PathRegister:
		return RouteRegister
	case domain.PathProducts:
		return RouteProducts
	default:
		return RouteLogin
	}
}

// A Router holds the current path. Views move it through Navigate.
type Router struct {
	mu     sync.Mutex
	path   string
	tokens port.TokenSource
}

func NewRouter(path string, tokens port.TokenSource) *Router {
	if tokens == nil {
		panic("NewRouter: nil token source") // develop mistake
	}
	if path == "" {
		path = domain.PathSignIn
	}
	return &Router{path: path, tokens: tokens}
}

func (r *Router) Navigate(ctx context.Context, path string) {
	r.mu.Lock()
	from := r.path
	r.path = path
	r.mu.Unlock()

	slog.Debug("navigate", "op", "Router.Navigate", "from", from, "to", path)
}

func (r *Router) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

// Current resolves the current path. The products view needs a session;
// without one the router redirects to sign-in.
func (r *Router) Current(ctx context.Context) Route {
	route := Resolve(r.Path())
	if route != RouteProducts {
		return route
	}

	token, err := r.tokens.Token(ctx)
	if err != nil || token == "" {
		slog.Debug("no session, redirecting", "op", "Router.Current", "err", err)
		r.Navigate(ctx, domain.PathSignIn)
		return RouteLogin
	}
	return RouteProducts
}
