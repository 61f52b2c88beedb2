// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"lookmarket/config"
	"lookmarket/internal/domain/service"
)

// minSecretLength is the minimum byte length of the HS256 signing secret.
const minSecretLength = 32

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
// One symmetric secret signs both access and refresh tokens; the "type" claim
// tells them apart.
type jwtService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     *slog.Logger
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config, logger *slog.Logger) (service.TokenService, error) {
	if len(cfg.JWT.Secret) < minSecretLength {
		return nil, errors.Errorf("jwt secret must be at least %d bytes", minSecretLength)
	}
	if cfg.JWT.AccessTTL <= 0 || cfg.JWT.RefreshTTL <= 0 {
		return nil, errors.New("jwt token lifetimes must be positive")
	}

	return &jwtService{
		secret:     []byte(cfg.JWT.Secret),
		accessTTL:  cfg.JWT.AccessTTL,
		refreshTTL: cfg.JWT.RefreshTTL,
		logger:     logger,
	}, nil
}

// IssueAccessToken creates a short-lived token carrying the account's identity claims.
func (s *jwtService) IssueAccessToken(accountID uuid.UUID, email, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   accountID.String(),
		"email": email,
		"role":  role,
		"type":  service.TokenTypeAccess,
		"iat":   now.Unix(),
		"exp":   now.Add(s.accessTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(s.secret)
}

// IssueRefreshToken creates a long-lived token carrying only the account ID.
// Email and role are resolved from storage at refresh time, so a refresh
// issued before a role change still yields a token with the current role.
func (s *jwtService) IssueRefreshToken(accountID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  accountID.String(),
		"type": service.TokenTypeRefresh,
		"iat":  now.Unix(),
		"exp":  now.Add(s.refreshTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(s.secret)
}

// Validate reports whether the token is well formed, correctly signed and
// unexpired. Each rejection reason is logged at warn level; callers only see
// the boolean.
func (s *jwtService) Validate(tokenString string) bool {
	if tokenString == "" {
		s.logger.Warn("token validation failed: empty token")

		return false
	}

	_, err := s.parse(tokenString)
	if err == nil {
		return true
	}

	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		s.logger.Warn("token validation failed: malformed token")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		s.logger.Warn("token validation failed: invalid signature")
	case errors.Is(err, jwt.ErrTokenExpired):
		s.logger.Warn("token validation failed: token expired")
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		s.logger.Warn("token validation failed: token not valid yet")
	default:
		s.logger.Warn("token validation failed", slog.Any("error", err))
	}

	return false
}

// Claims parses and verifies the token, then extracts its claims.
func (s *jwtService) Claims(tokenString string) (*service.TokenClaims, error) {
	token, err := s.parse(tokenString)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims format")
	}

	sub, err := mapClaims.GetSubject()
	if err != nil {
		return nil, errors.Wrap(err, "token has no subject")
	}
	accountID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.Wrap(err, "token subject is not a valid account id")
	}

	tokenType, _ := mapClaims["type"].(string)
	if tokenType == "" {
		return nil, errors.New("token has no type claim")
	}

	claims := &service.TokenClaims{
		AccountID: accountID,
		Type:      tokenType,
	}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if role, ok := mapClaims["role"].(string); ok {
		claims.Role = role
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	return claims, nil
}

// TokenType returns the "type" claim of a verified token.
func (s *jwtService) TokenType(tokenString string) (string, error) {
	claims, err := s.Claims(tokenString)
	if err != nil {
		return "", err
	}

	return claims.Type, nil
}

// AccessTokenTTL returns the configured lifetime of access tokens.
func (s *jwtService) AccessTokenTTL() time.Duration {
	return s.accessTTL
}

func (s *jwtService) parse(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	})
}
