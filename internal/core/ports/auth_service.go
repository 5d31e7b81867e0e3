package ports

import (
	"context"
	"time"

	"github.com/gofix/gofix-api/internal/core/domain"
)

// Claims are the identity assertions embedded in a session token.
type Claims struct {
	AccountID string
	Role      domain.Role
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(accountID string, role domain.Role, email string) (string, error)
	TTL() time.Duration
}

// TokenVerifier validates session tokens. Failures are one of
// domain.ErrTokenMalformed, domain.ErrTokenExpired or domain.ErrInvalidToken.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// AccountLookup resolves the account behind a verified token.
type AccountLookup interface {
	FindByID(ctx context.Context, id string) (*domain.Account, error)
}

// SignupInput carries the registration form. Which fields are required
// depends on Role.
type SignupInput struct {
	Name         string
	Email        string
	Password     string
	Role         string
	PhoneNumber  string
	Address      string
	BusinessName string
	ServiceType  string
	Experience   string
	Availability string
	Company      string
	Industry     string
}

// Session is what a successful signup or login hands back to the client.
type Session struct {
	Token   string
	Account *domain.Account
}

// AuthService covers the credential and session side of the account lifecycle.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Refresh(ctx context.Context, token string) (*Session, error)
	VerifyEmail(ctx context.Context, token string) (*domain.Account, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}
