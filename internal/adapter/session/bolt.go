package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
	bolt "go.etcd.io/bbolt"
)

var _ port.SessionProvider = (*BoltStore)(nil)

var bucket = []byte("session")

// A BoltStore keeps the session in a bbolt file.
type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(path string) (BoltStore, error) {
	const op = "NewBoltStore"

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return BoltStore{}, fmt.Errorf("%s: %w", op, err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return BoltStore{}, fmt.Errorf("%s: %w", op, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return BoltStore{}, fmt.Errorf("%s: %w", op, err)
	}

	return BoltStore{db}, nil
}

func (s BoltStore) Close() {
	const op = "BoltStore.Close"
	if err := s.db.Close(); err != nil {
		slog.Error("failed to close", "op", op, "err", err)
	}
}

// Token returns an empty token when nobody is signed in.
func (s BoltStore) Token(ctx context.Context) (string, error) {
	const op = "BoltStore.Token"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var token string
	err := s.db.View(func(tx *bolt.Tx) error {
		token = string(tx.Bucket(bucket).Get([]byte(tokenKey)))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

func (s BoltStore) User(ctx context.Context) (domain.User, error) {
	const op = "BoltStore.User"

	if err := ctx.Err(); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucket).Get([]byte(userKey)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	if data == nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, domain.ErrNoSession)
	}

	u, err := decodeUser(data)
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func (s BoltStore) SetSession(ctx context.Context, sess domain.Session) error {
	const op = "BoltStore.SetSession"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	userB, err := encodeUser(sess.User)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if err := b.Put([]byte(tokenKey), []byte(sess.Token)); err != nil {
			return err
		}
		return b.Put([]byte(userKey), userB)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s BoltStore) ClearSession(ctx context.Context) error {
	const op = "BoltStore.ClearSession"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if err := b.Delete([]byte(tokenKey)); err != nil {
			return err
		}
		return b.Delete([]byte(userKey))
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
