package port

import (
	"context"
	"sync"

	"github.com/niksmo/shop-admin/internal/core/domain"
)

type (
	runnerContextWg interface {
		Run(context.Context, context.CancelFunc, *sync.WaitGroup)
	}

	closer interface {
		Close()
	}
)

type ProductsReader interface {
	ListProducts(context.Context) ([]domain.Product, error)
}

type ProductsWriter interface {
	CreateProduct(context.Context, domain.ProductInput) error
	UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) error
}

type ProductsDeleter interface {
	DeleteProduct(ctx context.Context, id int64) error
}

type ProductsAPI interface {
	ProductsReader
	ProductsWriter
	ProductsDeleter
}

type AuthAPI interface {
	Login(context.Context, domain.Credentials) (domain.Session, error)
	Register(context.Context, domain.Registration) error
	Logout(context.Context) error
}

type TokenSource interface {
	Token(context.Context) (string, error)
}

// A SessionProvider persists the session between runs.
type SessionProvider interface {
	TokenSource
	User(context.Context) (domain.User, error)
	SetSession(context.Context, domain.Session) error
	ClearSession(context.Context) error
}

type Navigator interface {
	Navigate(ctx context.Context, path string)
}

type Notifier interface {
	Alert(msg string)
}

type ActivityPublisher interface {
	PublishActivity(context.Context, domain.ActivityEvent) error
}

type ActivitySaver interface {
	SaveActivity(context.Context, domain.ActivityEvent) error
}

type ActivityReader interface {
	ReadActivity(ctx context.Context, username string, limit int) ([]domain.ActivityEvent, error)
}

type ActivityProcessor interface {
	runnerContextWg
	closer
}
