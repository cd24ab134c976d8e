package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roomstead/roomstead/internal/hotel/domain"
	"github.com/roomstead/roomstead/internal/hotel/store"
	"github.com/roomstead/roomstead/internal/hotel/store/drivers/sqlite"
	"github.com/roomstead/roomstead/pkg/idx"
	"github.com/roomstead/roomstead/pkg/tokenx"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func testTokenConfig() tokenx.Config {
	return tokenx.Config{
		Issuer:     "roomstead-test",
		Audience:   "roomstead",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
		Secret:     "0123456789abcdef0123456789abcdef",
	}
}

func TestSignUpViaEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and first session", func(t *testing.T) {
		db := newTestStore(t)
		svc := &AuthService{Store: db, Tokens: testTokenConfig()}

		pair, err := svc.SignUpViaEmail(ctx, SignUpRequest{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "hunter2hunter2",
			ClientID: "desktop",
		})
		require.NoError(t, err)
		require.NotEmpty(t, pair.Access.Value)
		require.NotEmpty(t, pair.Refresh.Value)

		user, err := db.Users().GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, "alice", user.Username)
		require.Equal(t, "local", user.AuthProvider)
		require.Len(t, user.ID, 8)

		record, err := db.RefreshTokens().GetRefreshToken(ctx, pair.Refresh.Value)
		require.NoError(t, err)
		require.Equal(t, user.ID, record.UserID)
		require.Equal(t, "desktop", record.ClientID)
	})

	t.Run("blank username becomes a guest name", func(t *testing.T) {
		db := newTestStore(t)
		svc := &AuthService{Store: db, Tokens: testTokenConfig()}

		_, err := svc.SignUpViaEmail(ctx, SignUpRequest{
			Email:    "guest@example.com",
			Password: "hunter2hunter2",
			ClientID: "desktop",
		})
		require.NoError(t, err)

		user, err := db.Users().GetUserByEmail(ctx, "guest@example.com")
		require.NoError(t, err)
		require.Regexp(t, `^Guest-.{7}$`, user.Username)
	})

	t.Run("duplicate email creates nothing", func(t *testing.T) {
		db := newTestStore(t)
		svc := &AuthService{Store: db, Tokens: testTokenConfig()}

		_, err := svc.SignUpViaEmail(ctx, SignUpRequest{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "hunter2hunter2",
			ClientID: "desktop",
		})
		require.NoError(t, err)

		_, err = svc.SignUpViaEmail(ctx, SignUpRequest{
			Username: "impostor",
			Email:    "alice@example.com",
			Password: "different-pass",
			ClientID: "desktop",
		})
		require.ErrorIs(t, err, ErrUserExists)

		users, err := db.Users().ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
	})
}

func TestSignInViaEmail(t *testing.T) {
	ctx := context.Background()

	signUp := func(t *testing.T, db store.Store) *AuthService {
		t.Helper()
		svc := &AuthService{Store: db, Tokens: testTokenConfig()}
		_, err := svc.SignUpViaEmail(ctx, SignUpRequest{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "hunter2hunter2",
			ClientID: "desktop",
		})
		require.NoError(t, err)
		return svc
	}

	t.Run("unknown email", func(t *testing.T) {
		db := newTestStore(t)
		svc := signUp(t, db)

		_, err := svc.SignInViaEmail(ctx, SignInRequest{
			Email:    "nobody@example.com",
			Password: "hunter2hunter2",
			ClientID: "desktop",
		})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		db := newTestStore(t)
		svc := signUp(t, db)

		_, err := svc.SignInViaEmail(ctx, SignInRequest{
			Email:    "alice@example.com",
			Password: "not-the-password",
			ClientID: "desktop",
		})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("replaces the session for the client", func(t *testing.T) {
		db := newTestStore(t)
		svc := signUp(t, db)

		pair, err := svc.SignInViaEmail(ctx, SignInRequest{
			Email:    "alice@example.com",
			Password: "hunter2hunter2",
			ClientID: "desktop",
		})
		require.NoError(t, err)

		record, err := db.RefreshTokens().GetRefreshToken(ctx, pair.Refresh.Value)
		require.NoError(t, err)
		require.Equal(t, "desktop", record.ClientID)

		// The sign-up session for the same client is gone.
		second, err := svc.SignInViaEmail(ctx, SignInRequest{
			Email:    "alice@example.com",
			Password: "hunter2hunter2",
			ClientID: "desktop",
		})
		require.NoError(t, err)

		_, err = db.RefreshTokens().GetRefreshToken(ctx, pair.Refresh.Value)
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = db.RefreshTokens().GetRefreshToken(ctx, second.Refresh.Value)
		require.NoError(t, err)
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown token", func(t *testing.T) {
		db := newTestStore(t)
		svc := &AuthService{Store: db, Tokens: testTokenConfig()}

		_, err := svc.Refresh(ctx, "never-issued")
		require.ErrorIs(t, err, ErrNoRefreshToken)
	})

	t.Run("expired token", func(t *testing.T) {
		db := newTestStore(t)
		svc := &AuthService{Store: db, Tokens: testTokenConfig()}

		require.NoError(t, db.Users().CreateUser(ctx, domain.User{
			ID:       idx.Short(),
			Username: "alice",
			Email:    "alice@example.com",
		}))
		user, err := db.Users().GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)

		require.NoError(t, db.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
			ID:        idx.New().String(),
			Token:     "stale-token",
			UserID:    user.ID,
			ClientID:  "desktop",
			ExpiresAt: time.Now().UTC().Add(-time.Hour),
		}))

		_, err = svc.Refresh(ctx, "stale-token")
		require.ErrorIs(t, err, ErrRefreshExpired)
	})

	t.Run("rotates the stored value", func(t *testing.T) {
		db := newTestStore(t)
		svc := &AuthService{Store: db, Tokens: testTokenConfig()}

		pair, err := svc.SignUpViaEmail(ctx, SignUpRequest{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "hunter2hunter2",
			ClientID: "desktop",
		})
		require.NoError(t, err)

		rotated, err := svc.Refresh(ctx, pair.Refresh.Value)
		require.NoError(t, err)
		require.NotEqual(t, pair.Refresh.Value, rotated.Refresh.Value)

		_, err = db.RefreshTokens().GetRefreshToken(ctx, rotated.Refresh.Value)
		require.NoError(t, err)

		// The old value was consumed; replaying it must fail.
		_, err = svc.Refresh(ctx, pair.Refresh.Value)
		require.ErrorIs(t, err, ErrNoRefreshToken)
	})
}
