package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lookmarket/config"
	delivctx "lookmarket/internal/delivery/context"
	"lookmarket/internal/infra/auth"

	"lookmarket/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) service.TokenService {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = "middleware_test_secret_key_long_enough_for_hs256"
	cfg.JWT.AccessTTL = 15 * time.Minute
	cfg.JWT.RefreshTTL = 24 * time.Hour

	tokenSvc, err := auth.NewJWTService(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	return tokenSvc
}

// gateFixture runs a request through Authenticate and reports the principal
// the inner handler observed.
func gateFixture(t *testing.T, tokenSvc service.TokenService, authHeader string) (*delivctx.Principal, bool, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	m := NewAuthMiddleware(tokenSvc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	var principal *delivctx.Principal
	var authenticated bool
	handler := m.Authenticate(func(c echo.Context) error {
		principal, authenticated = delivctx.GetPrincipal(c.Request().Context())

		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))

	return principal, authenticated, rec
}

func TestAuthenticate_ValidAccessToken(t *testing.T) {
	tokenSvc := newTestTokenService(t)
	accountID := uuid.New()

	token, err := tokenSvc.IssueAccessToken(accountID, "alice@x.com", "SELLER")
	require.NoError(t, err)

	principal, authenticated, rec := gateFixture(t, tokenSvc, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, authenticated)
	assert.Equal(t, accountID, principal.AccountID)
	assert.Equal(t, "alice@x.com", principal.Email)
	assert.Equal(t, "SELLER", principal.Role)
	assert.Equal(t, "ROLE_SELLER", principal.Authority)
}

func TestAuthenticate_MissingHeaderProceedsUnauthenticated(t *testing.T) {
	tokenSvc := newTestTokenService(t)

	_, authenticated, rec := gateFixture(t, tokenSvc, "")

	// The gate never rejects on its own.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, authenticated)
}

func TestAuthenticate_GarbageTokenProceedsUnauthenticated(t *testing.T) {
	tokenSvc := newTestTokenService(t)

	_, authenticated, rec := gateFixture(t, tokenSvc, "Bearer not-a-jwt")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, authenticated)
}

func TestAuthenticate_NonBearerSchemeProceedsUnauthenticated(t *testing.T) {
	tokenSvc := newTestTokenService(t)

	_, authenticated, rec := gateFixture(t, tokenSvc, "Basic dXNlcjpwYXNz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, authenticated)
}

func TestAuthenticate_RefreshTokenDoesNotAuthenticate(t *testing.T) {
	tokenSvc := newTestTokenService(t)

	refresh, err := tokenSvc.IssueRefreshToken(uuid.New())
	require.NoError(t, err)

	_, authenticated, rec := gateFixture(t, tokenSvc, "Bearer "+refresh)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, authenticated)
}

func TestRequireAuthenticated(t *testing.T) {
	tokenSvc := newTestTokenService(t)
	m := NewAuthMiddleware(tokenSvc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	e := echo.New()

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	t.Run("without principal", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())

		err := m.RequireAuthenticated(next)(c)
		assert.Error(t, err)
	})

	t.Run("with principal", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		principal := &delivctx.Principal{AccountID: uuid.New(), Role: "CUSTOMER", Authority: "ROLE_CUSTOMER"}
		req = req.WithContext(delivctx.WithPrincipal(req.Context(), principal))
		c := e.NewContext(req, httptest.NewRecorder())

		assert.NoError(t, m.RequireAuthenticated(next)(c))
	})
}

func TestRequireAuthority(t *testing.T) {
	tokenSvc := newTestTokenService(t)
	m := NewAuthMiddleware(tokenSvc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	guard := m.RequireAuthority("ROLE_ADMIN")

	t.Run("admin passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		principal := &delivctx.Principal{AccountID: uuid.New(), Role: "ADMIN", Authority: "ROLE_ADMIN"}
		req = req.WithContext(delivctx.WithPrincipal(req.Context(), principal))
		c := e.NewContext(req, httptest.NewRecorder())

		assert.NoError(t, guard(next)(c))
	})

	t.Run("customer is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		principal := &delivctx.Principal{AccountID: uuid.New(), Role: "CUSTOMER", Authority: "ROLE_CUSTOMER"}
		req = req.WithContext(delivctx.WithPrincipal(req.Context(), principal))
		c := e.NewContext(req, httptest.NewRecorder())

		assert.Error(t, guard(next)(c))
	})

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())

		assert.Error(t, guard(next)(c))
	})
}
