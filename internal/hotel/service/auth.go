package service

import (
	"context"
	"errors"
	"time"

	"github.com/roomstead/roomstead/internal/hotel/domain"
	"github.com/roomstead/roomstead/internal/hotel/store"
	"github.com/roomstead/roomstead/pkg/cryptox"
	"github.com/roomstead/roomstead/pkg/idx"
	"github.com/roomstead/roomstead/pkg/slogx"
	"github.com/roomstead/roomstead/pkg/tokenx"
)

// Result variants of the auth use-cases. Callers switch on these with
// errors.Is; anything unexpected from the store collapses to the Failed
// variant of the operation.
var (
	ErrNoRefreshToken     = errors.New("no_refresh_token_found")
	ErrRefreshExpired     = errors.New("refresh_token_expired")
	ErrForbidden          = errors.New("forbidden")
	ErrRefreshFailed      = errors.New("refresh_failed")
	ErrUserExists         = errors.New("user_already_exists")
	ErrSignUpFailed       = errors.New("sign_up_failed")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrSignInFailed       = errors.New("sign_in_failed")
)

// AuthService composes the token service, the store and the password hashing
// collaborator into the sign-up / sign-in / refresh business transactions.
// It holds no state between calls.
type AuthService struct {
	Store  store.Store
	Tokens tokenx.Config
}

type SignUpRequest struct {
	Username string
	Email    string
	Password string
	ClientID string
}

type SignInRequest struct {
	Email    string
	Password string
	ClientID string
}

// SignUpViaEmail registers a new user and issues their first token pair.
// The user row and the initial refresh-token row are written in a single
// transaction, so a failure of either leaves no half-registered account.
func (s *AuthService) SignUpViaEmail(ctx context.Context, req SignUpRequest) (*tokenx.Pair, error) {
	log := slogx.FromContext(ctx)

	_, err := s.Store.Users().GetUserByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, ErrUserExists
	case !errors.Is(err, store.ErrNotFound):
		log.Error("sign-up email lookup failed", "err", err)
		return nil, ErrSignUpFailed
	}

	// 8-char random id; collision probability accepted as negligible.
	userID := idx.Short()

	pair, err := tokenx.GeneratePair(s.Tokens, tokenx.Claim{Name: "userId", Value: userID})
	if err != nil {
		log.Error("sign-up token generation failed", "err", err)
		return nil, ErrSignUpFailed
	}

	username := req.Username
	if username == "" {
		username = "Guest-" + idx.Suffix()
	}

	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		log.Error("sign-up password hashing failed", "err", err)
		return nil, ErrSignUpFailed
	}

	user := domain.User{
		ID:           userID,
		Username:     username,
		Email:        req.Email,
		PasswordHash: hash,
		AuthProvider: "local",
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return err
		}
		return tx.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
			ID:        idx.New().String(),
			Token:     pair.Refresh.Value,
			UserID:    userID,
			ClientID:  req.ClientID,
			ExpiresAt: pair.Refresh.ExpiresAt,
		})
	})
	if err != nil {
		log.Error("sign-up persistence failed", "err", err, "user_id", userID)
		return nil, ErrSignUpFailed
	}

	return &pair, nil
}

// SignInViaEmail verifies credentials and starts a fresh session for the
// (user, client) pair, replacing any previous refresh token it held.
func (s *AuthService) SignInViaEmail(ctx context.Context, req SignInRequest) (*tokenx.Pair, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		log.Error("sign-in email lookup failed", "err", err)
		return nil, ErrSignInFailed
	}

	if err := cryptox.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	pair, err := tokenx.GeneratePair(s.Tokens, tokenx.Claim{Name: "userId", Value: user.ID})
	if err != nil {
		log.Error("sign-in token generation failed", "err", err)
		return nil, ErrSignInFailed
	}

	err = s.Store.RefreshTokens().ReplaceRefreshToken(ctx, domain.RefreshToken{
		ID:        idx.New().String(),
		Token:     pair.Refresh.Value,
		UserID:    user.ID,
		ClientID:  req.ClientID,
		ExpiresAt: pair.Refresh.ExpiresAt,
	})
	if err != nil {
		log.Error("sign-in refresh token persistence failed", "err", err, "user_id", user.ID)
		return nil, ErrSignInFailed
	}

	return &pair, nil
}

// Refresh exchanges a refresh token for a new pair, rotating the stored value.
// It is a strict state machine over one transition: the first failing step is
// reported to the caller and nothing is retried. Rotation is not idempotent:
// a second refresh with the same old token fails at the compare-and-swap.
func (s *AuthService) Refresh(ctx context.Context, oldRefreshToken string) (*tokenx.Pair, error) {
	log := slogx.FromContext(ctx)

	record, err := s.Store.RefreshTokens().GetRefreshToken(ctx, oldRefreshToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoRefreshToken
		}
		log.Error("refresh token lookup failed", "err", err)
		return nil, ErrRefreshFailed
	}

	// Guards store implementations that index by a secondary key.
	if record.Token != oldRefreshToken {
		return nil, ErrForbidden
	}

	if record.ExpiresAt.Before(time.Now().UTC()) {
		return nil, ErrRefreshExpired
	}

	pair, err := tokenx.GeneratePair(s.Tokens, tokenx.Claim{Name: "userId", Value: record.UserID})
	if err != nil {
		log.Error("refresh token generation failed", "err", err)
		return nil, ErrRefreshFailed
	}

	// The conditional update keyed on the old value is the sole serialization
	// point: of two concurrent refreshes only one lands.
	err = s.Store.RefreshTokens().UpdateRefreshToken(ctx,
		record.UserID, record.ClientID, oldRefreshToken,
		pair.Refresh.Value, pair.Refresh.ExpiresAt)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error("refresh token rotation failed", "err", err, "user_id", record.UserID)
		}
		return nil, ErrRefreshFailed
	}

	return &pair, nil
}
