package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roomstead/roomstead/internal/hotel/domain"
	"github.com/roomstead/roomstead/internal/hotel/store"
	"github.com/roomstead/roomstead/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func createUser(t *testing.T, s *Store, id string) {
	t.Helper()
	require.NoError(t, s.Users().CreateUser(context.Background(), domain.User{
		ID: id, Username: "user-" + id,
	}))
}

func TestUpdateRefreshTokenCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	createUser(t, s, "u1")

	expiry := time.Now().UTC().Add(time.Hour)
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		ID: idx.New().String(), Token: "old", UserID: "u1", ClientID: "c1", ExpiresAt: expiry,
	}))

	// First rotation keyed on the old value wins.
	require.NoError(t, s.RefreshTokens().UpdateRefreshToken(ctx, "u1", "c1", "old", "new", expiry))

	record, err := s.RefreshTokens().GetRefreshToken(ctx, "new")
	require.NoError(t, err)
	require.Equal(t, "u1", record.UserID)

	// A second rotation with the consumed value must not write anything.
	err = s.RefreshTokens().UpdateRefreshToken(ctx, "u1", "c1", "old", "hijack", expiry)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.RefreshTokens().GetRefreshToken(ctx, "hijack")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.RefreshTokens().GetRefreshToken(ctx, "new")
	require.NoError(t, err)
}

func TestReplaceRefreshTokenUpserts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	createUser(t, s, "u1")

	expiry := time.Now().UTC().Add(time.Hour)

	first := domain.RefreshToken{
		ID: idx.New().String(), Token: "first", UserID: "u1", ClientID: "c1", ExpiresAt: expiry,
	}
	require.NoError(t, s.RefreshTokens().ReplaceRefreshToken(ctx, first))

	// Same (user, client) pair gets exactly one current token.
	second := domain.RefreshToken{
		ID: idx.New().String(), Token: "second", UserID: "u1", ClientID: "c1", ExpiresAt: expiry,
	}
	require.NoError(t, s.RefreshTokens().ReplaceRefreshToken(ctx, second))

	_, err := s.RefreshTokens().GetRefreshToken(ctx, "first")
	require.ErrorIs(t, err, store.ErrNotFound)

	record, err := s.RefreshTokens().GetRefreshToken(ctx, "second")
	require.NoError(t, err)
	require.Equal(t, "c1", record.ClientID)

	// A different client keeps its own token.
	other := domain.RefreshToken{
		ID: idx.New().String(), Token: "mobile", UserID: "u1", ClientID: "c2", ExpiresAt: expiry,
	}
	require.NoError(t, s.RefreshTokens().ReplaceRefreshToken(ctx, other))

	_, err = s.RefreshTokens().GetRefreshToken(ctx, "second")
	require.NoError(t, err)
}

func TestDeleteExpiredRefreshTokens(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	createUser(t, s, "u1")
	createUser(t, s, "u2")

	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		ID: idx.New().String(), Token: "stale", UserID: "u1", ClientID: "c1",
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}))
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		ID: idx.New().String(), Token: "live", UserID: "u2", ClientID: "c1",
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}))

	require.NoError(t, s.RefreshTokens().DeleteExpiredRefreshTokens(ctx))

	_, err := s.RefreshTokens().GetRefreshToken(ctx, "stale")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.RefreshTokens().GetRefreshToken(ctx, "live")
	require.NoError(t, err)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sentinel := errors.New("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, domain.User{ID: "u1", Username: "alice"}); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	_, err = s.Users().GetUserByID(ctx, "u1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxCommits(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, domain.User{ID: "u1", Username: "alice"}); err != nil {
			return err
		}
		return tx.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
			ID: idx.New().String(), Token: "tok", UserID: "u1", ClientID: "c1",
			ExpiresAt: time.Now().UTC().Add(time.Hour),
		})
	})
	require.NoError(t, err)

	user, err := s.Users().GetUserByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)

	record, err := s.RefreshTokens().GetRefreshToken(ctx, "tok")
	require.NoError(t, err)
	require.Equal(t, "u1", record.UserID)
}
