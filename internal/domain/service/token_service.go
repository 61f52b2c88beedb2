package service

import (
	"time"

	"github.com/google/uuid"
)

// Token type discriminator values carried in the "type" claim. Access and
// refresh tokens share one signing secret and differ only by this claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenClaims is the decoded claim set of a signed token. Email and Role are
// only present on access tokens.
type TokenClaims struct {
	AccountID uuid.UUID
	Email     string
	Role      string
	Type      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService defines the interface for issuing and validating the signed
// tokens used for stateless authentication. This abstracts the token format
// from the delivery layer.
type TokenService interface {
	// IssueAccessToken creates a short-lived token carrying identity and role.
	IssueAccessToken(accountID uuid.UUID, email, role string) (string, error)

	// IssueRefreshToken creates a long-lived token carrying only the subject.
	IssueRefreshToken(accountID uuid.UUID) (string, error)

	// Validate reports whether the token is well-formed, correctly signed and
	// unexpired. It never returns an error: every rejection collapses to
	// false.
	Validate(token string) bool

	// Claims decodes the claim set of a token. Callers must only invoke it
	// after a successful Validate; behavior on arbitrary input is undefined.
	Claims(token string) (*TokenClaims, error)

	// TokenType returns the "type" claim, "access" or "refresh".
	TokenType(token string) (string, error)

	// AccessTokenTTL returns the configured access-token lifetime.
	AccessTokenTTL() time.Duration
}
