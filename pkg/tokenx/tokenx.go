// Package tokenx builds and verifies the signed access/refresh token pairs
// used by the auth use-cases. It is stateless; every generated token carries
// a fresh id so no two are ever equal. Both tokens are HS256-signed with the
// same shared secret; the refresh token carries the same claim set with a
// longer lifetime and a distinct "typ" marker.
package tokenx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/roomstead/roomstead/pkg/idx"
)

const (
	// TypeAccess marks short-lived request credentials.
	TypeAccess = "access"
	// TypeRefresh marks the long-lived rotation credential.
	TypeRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("tokenx: invalid token")
	ErrExpiredToken = errors.New("tokenx: expired token")
)

// Config is the immutable process-wide token configuration. An empty secret
// is a deployment error; Validate catches it at startup so generation never
// has to treat it as a recoverable result.
type Config struct {
	Issuer     string
	Audience   string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Secret     string
}

func (c Config) Validate() error {
	if c.Secret == "" {
		return errors.New("tokenx: signing secret must not be empty")
	}
	if c.Issuer == "" {
		return errors.New("tokenx: issuer must not be empty")
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return errors.New("tokenx: token lifetimes must be positive")
	}
	return nil
}

// Claim is a single name/value pair embedded in a token payload. Uniqueness
// of names is the caller's responsibility.
type Claim struct {
	Name  string
	Value any
}

// Token is an opaque signed string together with its absolute expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Pair is the unit of successful authentication.
type Pair struct {
	Access  Token
	Refresh Token
}

// GeneratePair creates a signed access/refresh token pair carrying the given
// claims. No side effects; persistence of the refresh half is the caller's
// concern.
func GeneratePair(cfg Config, claims ...Claim) (Pair, error) {
	now := time.Now().UTC()

	accessExp := now.Add(cfg.AccessTTL)
	access, err := sign(cfg, TypeAccess, now, accessExp, claims)
	if err != nil {
		return Pair{}, fmt.Errorf("tokenx: sign access token: %w", err)
	}

	refreshExp := now.Add(cfg.RefreshTTL)
	refresh, err := sign(cfg, TypeRefresh, now, refreshExp, claims)
	if err != nil {
		return Pair{}, fmt.Errorf("tokenx: sign refresh token: %w", err)
	}

	return Pair{
		Access:  Token{Value: access, ExpiresAt: accessExp},
		Refresh: Token{Value: refresh, ExpiresAt: refreshExp},
	}, nil
}

func sign(cfg Config, typ string, issuedAt, expiresAt time.Time, claims []Claim) (string, error) {
	// The jti keeps tokens minted within the same second distinct, which the
	// store's unique token column and rotation both rely on.
	mc := jwt.MapClaims{
		"jti": idx.New().String(),
		"typ": typ,
		"iss": cfg.Issuer,
		"aud": cfg.Audience,
		"iat": issuedAt.Unix(),
		"exp": expiresAt.Unix(),
	}
	for _, c := range claims {
		mc[c.Name] = c.Value
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mc)
	return token.SignedString([]byte(cfg.Secret))
}

// Claims is the verified subset of a token payload the service cares about.
type Claims struct {
	UserID    string
	Type      string
	ExpiresAt time.Time
}

// Parse verifies a token's signature, issuer, audience and expiry against the
// config and extracts its claims. Expired tokens return ErrExpiredToken; every
// other failure collapses to ErrInvalidToken.
func Parse(cfg Config, raw string) (Claims, error) {
	parsed, err := jwt.Parse(raw,
		func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, ErrInvalidToken
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpiredToken
		}
		return Claims{}, ErrInvalidToken
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}

	typ, _ := mc["typ"].(string)
	if typ != TypeAccess && typ != TypeRefresh {
		return Claims{}, ErrInvalidToken
	}

	userID, _ := mc["userId"].(string)

	expFloat, ok := mc["exp"].(float64)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	return Claims{
		UserID:    userID,
		Type:      typ,
		ExpiresAt: time.Unix(int64(expFloat), 0).UTC(),
	}, nil
}
