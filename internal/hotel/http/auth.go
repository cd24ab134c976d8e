package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/roomstead/roomstead/internal/hotel/service"
	"github.com/roomstead/roomstead/pkg/httpx"
	"github.com/roomstead/roomstead/pkg/slogx"
	"github.com/roomstead/roomstead/pkg/tokenx"
)

// AuthHandler serves the /v1/auth endpoints.
type AuthHandler struct {
	AuthService *service.AuthService
}

type signUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	ClientID string `json:"client_id"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	ClientID string `json:"client_id"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

func newTokenResponse(pair *tokenx.Pair, cfg tokenx.Config) tokenResponse {
	return tokenResponse{
		AccessToken:  pair.Access.Value,
		RefreshToken: pair.Refresh.Value,
		TokenType:    "Bearer",
		ExpiresIn:    int(cfg.AccessTTL.Seconds()),
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Request body must be valid JSON")
		return false
	}
	return true
}

func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req signUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}
	if req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "password is required")
		return
	}
	if strings.TrimSpace(req.ClientID) == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "client_id is required")
		return
	}

	pair, err := h.AuthService.SignUpViaEmail(ctx, service.SignUpRequest{
		Username: strings.TrimSpace(req.Username),
		Email:    req.Email,
		Password: req.Password,
		ClientID: strings.TrimSpace(req.ClientID),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserExists):
			httpx.WriteError(w, http.StatusConflict, "user_already_exists", "An account with this email already exists")
		default:
			log.Error("sign-up failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Sign up failed")
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, newTokenResponse(pair, h.AuthService.Tokens))
}

func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req signInRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}
	if strings.TrimSpace(req.ClientID) == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "client_id is required")
		return
	}

	pair, err := h.AuthService.SignInViaEmail(ctx, service.SignInRequest{
		Email:    req.Email,
		Password: req.Password,
		ClientID: strings.TrimSpace(req.ClientID),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Email or password is incorrect")
		default:
			log.Error("sign-in failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Sign in failed")
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, newTokenResponse(pair, h.AuthService.Tokens))
}

func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req refreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "refresh_token is required")
		return
	}

	pair, err := h.AuthService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoRefreshToken):
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_grant", "Refresh token is not recognised")
		case errors.Is(err, service.ErrRefreshExpired):
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_grant", "Refresh token has expired")
		case errors.Is(err, service.ErrForbidden):
			httpx.WriteError(w, http.StatusForbidden, "forbidden", "Refresh token is not valid for this session")
		default:
			log.Error("refresh failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Refresh failed")
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, newTokenResponse(pair, h.AuthService.Tokens))
}
