package domain

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role classifies an account.
type Role string

const (
	RoleProvider Role = "provider"
	RoleSeeker   Role = "seeker"
)

// bcryptCost is the fixed work factor applied to every password hash.
const bcryptCost = 10

// MinPasswordLength is the shortest accepted plaintext password.
const MinPasswordLength = 8

// MaxPasswordLength is the bcrypt input ceiling in bytes.
const MaxPasswordLength = 72

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ParseRole validates s against the two known roles.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleProvider:
		return RoleProvider, true
	case RoleSeeker:
		return RoleSeeker, true
	}
	return "", false
}

// Account status values accepted by UpdateStatus.
const (
	StatusAccountActive   = "active"
	StatusAccountInactive = "inactive"
)

// ParseAccountStatus maps an account status string onto the Active flag.
func ParseAccountStatus(s string) (active bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case StatusAccountActive:
		return true, true
	case StatusAccountInactive:
		return false, true
	}
	return false, false
}

// Account is a registered user, either a provider or a seeker.
type Account struct {
	ID                string
	Name              string
	Email             string
	PasswordHash      string
	Role              Role
	Profile           Profile
	ProfileComplete   bool
	Active            bool
	EmailVerified     bool
	VerificationToken string
	ResetTokenHash    string
	ResetTokenExpiry  time.Time
	LastLogin         *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Refresh recomputes the derived fields. Must run before every persist.
func (a *Account) Refresh(now time.Time) {
	a.Email = NormalizeEmail(a.Email)
	a.ProfileComplete = ProfileComplete(a)
	a.UpdatedAt = now
}

// NormalizeEmail trims and lower-cases an address so that uniqueness is
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether email is syntactically plausible.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// HashPassword returns the salted bcrypt digest of plain.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares plain against a digest produced by HashPassword.
func CheckPassword(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
