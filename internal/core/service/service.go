package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
)

var _ port.ProductsAPI = (*Service)(nil)
var _ port.AuthAPI = (*Service)(nil)

// A Service fronts the remote API for the views and records what the
// signed-in admin did. Recording is best effort.
type Service struct {
	products port.ProductsAPI
	auth     port.AuthAPI
	session  port.SessionProvider
	activity port.ActivityPublisher
	now      func() time.Time
}

func New(
	products port.ProductsAPI,
	auth port.AuthAPI,
	session port.SessionProvider,
	activity port.ActivityPublisher,
) Service {
	return Service{
		products: products,
		auth:     auth,
		session:  session,
		activity: activity,
		now:      time.Now,
	}
}

func (s Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "Service.ListProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (s Service) CreateProduct(ctx context.Context, in domain.ProductInput) error {
	const op = "Service.CreateProduct"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.products.CreateProduct(ctx, in); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.record(ctx, "", domain.ActivityEvent{
		Action:      domain.ActionProductCreated,
		ProductName: in.Name,
	})
	return nil
}

func (s Service) UpdateProduct(
	ctx context.Context, id int64, in domain.ProductInput,
) error {
	const op = "Service.UpdateProduct"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.products.UpdateProduct(ctx, id, in); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.record(ctx, "", domain.ActivityEvent{
		Action:      domain.ActionProductUpdated,
		ProductID:   id,
		ProductName: in.Name,
	})
	return nil
}

func (s Service) DeleteProduct(ctx context.Context, id int64) error {
	const op = "Service.DeleteProduct"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.record(ctx, "", domain.ActivityEvent{
		Action:    domain.ActionProductDeleted,
		ProductID: id,
	})
	return nil
}

func (s Service) Login(
	ctx context.Context, creds domain.Credentials,
) (domain.Session, error) {
	const op = "Service.Login"

	if err := ctx.Err(); err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	sess, err := s.auth.Login(ctx, creds)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	s.record(ctx, sess.User.UserName, domain.ActivityEvent{
		Action: domain.ActionLogin,
	})
	return sess, nil
}

func (s Service) Register(ctx context.Context, reg domain.Registration) error {
	const op = "Service.Register"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.auth.Register(ctx, reg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s Service) Logout(ctx context.Context) error {
	const op = "Service.Logout"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	username := s.username(ctx)

	if err := s.auth.Logout(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.record(ctx, username, domain.ActivityEvent{
		Action: domain.ActionLogout,
	})
	return nil
}

// record publishes evt. An empty username is taken from the session.
func (s Service) record(
	ctx context.Context, username string, evt domain.ActivityEvent,
) {
	const op = "Service.record"
	log := slog.With("op", op, "action", evt.Action)

	if username == "" {
		username = s.username(ctx)
	}

	evt.ID = uuid.NewString()
	evt.Username = username
	evt.OccurredAt = s.now().UTC()

	if err := s.activity.PublishActivity(ctx, evt); err != nil {
		log.Warn("failed to publish activity", "err", err)
		return
	}
	log.Debug("activity published", "id", evt.ID)
}

func (s Service) username(ctx context.Context) string {
	u, err := s.session.User(ctx)
	if err != nil {
		return ""
	}
	return u.UserName
}
