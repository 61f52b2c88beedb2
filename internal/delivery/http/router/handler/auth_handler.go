package handler

import (
	"log/slog"
	"net/http"

	"lookmarket/internal/delivery/http/response"
	"lookmarket/internal/domain/entity"
	domainerrors "lookmarket/internal/domain/errors"
	"lookmarket/internal/domain/service"
	"lookmarket/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler composes credential verification with token issuance. The
// usecase decides whether the account may log in or refresh; the token
// service turns that decision into signed tokens.
type AuthHandler struct {
	authUC   usecase.AuthUsecase
	tokenSvc service.TokenService
	logger   *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(authUC usecase.AuthUsecase, tokenSvc service.TokenService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUC:   authUC,
		tokenSvc: tokenSvc,
		logger:   logger,
	}
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token in the body rather than a header.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// TokenResponse is the token pair returned by login and refresh.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"` // Access token lifetime in seconds
}

// Login handles the credential login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var input LoginRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	account, err := h.authUC.Authenticate(c.Request().Context(), input.Email, input.Password)
	if err != nil {
		return errors.WithStack(err)
	}

	tokens, err := h.issueTokenPair(account)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, tokens, "Login successful")
}

// Refresh exchanges a valid refresh token for a fresh token pair. The token
// alone is not enough: the account behind it must still be ACTIVE.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var input RefreshRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid refresh input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	if !h.tokenSvc.Validate(input.RefreshToken) {
		return domainerrors.ErrInvalidToken
	}

	claims, err := h.tokenSvc.Claims(input.RefreshToken)
	if err != nil {
		return domainerrors.ErrInvalidToken
	}
	if claims.Type != service.TokenTypeRefresh {
		// Access tokens cannot buy new tokens.
		return domainerrors.ErrInvalidToken.WrapMessage("token is not a refresh token")
	}

	account, err := h.authUC.ValidateForRefresh(c.Request().Context(), claims.AccountID)
	if err != nil {
		return errors.WithStack(err)
	}

	tokens, err := h.issueTokenPair(account)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, tokens, "Token refreshed successfully")
}

func (h *AuthHandler) issueTokenPair(account *entity.Account) (*TokenResponse, error) {
	accessToken, err := h.tokenSvc.IssueAccessToken(account.ID(), account.Email(), account.Role().String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue access token")
	}

	refreshToken, err := h.tokenSvc.IssueRefreshToken(account.ID())
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue refresh token")
	}

	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(h.tokenSvc.AccessTokenTTL().Seconds()),
	}, nil
}
