package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

var testSession = domain.Session{
	Token: "tok-1",
	User: domain.User{
		ID: 1, FirstName: "Jane", LastName: "Doe", UserName: "jane_doe",
	},
}

func testStore(t *testing.T, s port.SessionProvider) {
	t.Helper()
	ctx := t.Context()

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	_, err = s.User(ctx)
	require.ErrorIs(t, err, domain.ErrNoSession)

	require.NoError(t, s.SetSession(ctx, testSession))

	token, err = s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	u, err := s.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, testSession.User, u)

	require.NoError(t, s.ClearSession(ctx))
	require.NoError(t, s.ClearSession(ctx))

	token, err = s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = s.Token(canceled)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBoltStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.db")

	s, err := NewBoltStore(path)
	require.NoError(t, err)
	testStore(t, s)

	t.Run("Reopen", func(t *testing.T) {
		require.NoError(t, s.SetSession(t.Context(), testSession))
		s.Close()

		s, err := NewBoltStore(path)
		require.NoError(t, err)
		defer s.Close()

		u, err := s.User(t.Context())
		require.NoError(t, err)
		assert.Equal(t, "jane_doe", u.UserName)
	})
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	testStore(t, NewKeyringStore("shop-admin-test"))

	assert.Panics(t, func() { NewKeyringStore("") })
}
