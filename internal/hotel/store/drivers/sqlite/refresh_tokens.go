package sqlite

import (
	"context"
	"time"

	"github.com/roomstead/roomstead/internal/hotel/domain"
	"github.com/roomstead/roomstead/internal/hotel/store"
)

type refreshTokensRepo struct {
	db querier
}

const refreshTokenColumns = `id, token, user_id, client_id, expires_at, created_at, updated_at`

func (r *refreshTokensRepo) GetRefreshToken(ctx context.Context, token string) (domain.RefreshToken, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+refreshTokenColumns+` FROM refresh_tokens WHERE token = ?`, token)

	var t domain.RefreshToken
	err := row.Scan(&t.ID, &t.Token, &t.UserID, &t.ClientID,
		&t.ExpiresAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (id, token, user_id, client_id, expires_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Token, t.UserID, t.ClientID, t.ExpiresAt.UTC(), now, now)
	return err
}

// UpdateRefreshToken is the rotation compare-and-swap: the WHERE clause pins
// the old token value, so of two concurrent rotations only one matches a row.
func (r *refreshTokensRepo) UpdateRefreshToken(
	ctx context.Context,
	userID, clientID, oldToken, newToken string,
	newExpiry time.Time,
) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET token = ?, expires_at = ?, updated_at = ?
		 WHERE user_id = ? AND client_id = ? AND token = ?`,
		newToken, newExpiry.UTC(), time.Now().UTC(), userID, clientID, oldToken)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// ReplaceRefreshToken upserts on the (user_id, client_id) uniqueness so a
// pair never accumulates more than one current token value.
func (r *refreshTokensRepo) ReplaceRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (id, token, user_id, client_id, expires_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, client_id)
		 DO UPDATE SET token = excluded.token, expires_at = excluded.expires_at, updated_at = excluded.updated_at`,
		t.ID, t.Token, t.UserID, t.ClientID, t.ExpiresAt.UTC(), now, now)
	return err
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < ?`, time.Now().UTC())
	return err
}

func requireRowAffected(res interface{ RowsAffected() (int64, error) }) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
