package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
	"github.com/zalando/go-keyring"
)

var _ port.SessionProvider = (*KeyringStore)(nil)

// A KeyringStore keeps the session in the OS credential store under one
// service name.
type KeyringStore struct {
	service string
}

func NewKeyringStore(service string) KeyringStore {
	if service == "" {
		panic("NewKeyringStore: empty service") // develop mistake
	}
	return KeyringStore{service}
}

func (s KeyringStore) Token(ctx context.Context) (string, error) {
	const op = "KeyringStore.Token"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := keyring.Get(s.service, tokenKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

func (s KeyringStore) User(ctx context.Context) (domain.User, error) {
	const op = "KeyringStore.User"

	if err := ctx.Err(); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	v, err := keyring.Get(s.service, userKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return domain.User{}, fmt.Errorf("%s: %w", op, domain.ErrNoSession)
		}
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	u, err := decodeUser([]byte(v))
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func (s KeyringStore) SetSession(ctx context.Context, sess domain.Session) error {
	const op = "KeyringStore.SetSession"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	userB, err := encodeUser(sess.User)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := keyring.Set(s.service, tokenKey, sess.Token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := keyring.Set(s.service, userKey, string(userB)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s KeyringStore) ClearSession(ctx context.Context) error {
	const op = "KeyringStore.ClearSession"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var errs []error
	for _, key := range []string{tokenKey, userKey} {
		err := keyring.Delete(s.service, key)
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
