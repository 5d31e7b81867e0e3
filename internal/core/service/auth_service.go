package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gofix/gofix-api/internal/core/domain"
	"github.com/gofix/gofix-api/internal/core/ports"
)

// resetTokenTTL bounds how long a password reset link stays usable.
const resetTokenTTL = 10 * time.Minute

// AuthService implements signup, login and the token side flows.
type AuthService struct {
	repo     ports.AccountRepository
	tokens   ports.TokenIssuer
	verifier ports.TokenVerifier
	notifier ports.Notifier
	logger   zerolog.Logger
	now      func() time.Time
}

func NewAuthService(
	repo ports.AccountRepository,
	tokens *TokenService,
	notifier ports.Notifier,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		repo:     repo,
		tokens:   tokens,
		verifier: tokens,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Signup validates the form, persists a new account and opens a session.
// Welcome and admin emails are queued best-effort; their failure never
// fails the signup.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.Session, error) {
	role := domain.RoleProvider
	if strings.TrimSpace(in.Role) != "" {
		parsed, ok := domain.ParseRole(in.Role)
		if !ok {
			return nil, domain.NewValidationError("role must be either provider or seeker")
		}
		role = parsed
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = domain.NormalizeEmail(in.Email)
	if err := validateSignup(role, in); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrDuplicateAccount
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("signup: lookup email: %w", err)
	}

	hash, err := domain.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("signup: hash password: %w", err)
	}

	now := s.now()
	account := &domain.Account{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		Profile: domain.Profile{
			Phone:    strings.TrimSpace(in.PhoneNumber),
			Location: strings.TrimSpace(in.Address),
			Provider: domain.ProviderProfile{
				BusinessName: strings.TrimSpace(in.BusinessName),
				ServiceType:  strings.TrimSpace(in.ServiceType),
				Experience:   strings.TrimSpace(in.Experience),
				Availability: strings.TrimSpace(in.Availability),
				Skills:       []string{},
			},
			Seeker: domain.SeekerProfile{
				Company:  strings.TrimSpace(in.Company),
				Industry: strings.TrimSpace(in.Industry),
			},
		},
		Active:            true,
		VerificationToken: uuid.NewString(),
		CreatedAt:         now,
	}
	account.Refresh(now)

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateAccount) {
			return nil, err
		}
		return nil, fmt.Errorf("signup: create account: %w", err)
	}

	token, err := s.tokens.Issue(created.ID, created.Role, created.Email)
	if err != nil {
		return nil, fmt.Errorf("signup: issue token: %w", err)
	}

	s.logger.Info().Str("account_id", created.ID).Str("role", string(created.Role)).Msg("account created")
	s.notifySignup(ctx, created)

	return &ports.Session{Token: token, Account: created}, nil
}

func (s *AuthService) notifySignup(ctx context.Context, a *domain.Account) {
	if err := s.notifier.SendWelcome(ctx, a.Email, a.Name, a.VerificationToken); err != nil {
		s.logger.Warn().Err(err).Str("account_id", a.ID).Msg("welcome email not queued")
	}
	if a.Role != domain.RoleProvider {
		return
	}
	signup := ports.ProviderSignup{
		Name:         a.Name,
		Email:        a.Email,
		BusinessName: a.Profile.Provider.BusinessName,
		ServiceType:  a.Profile.Provider.ServiceType,
		PhoneNumber:  a.Profile.Phone,
	}
	if err := s.notifier.SendAdminNotification(ctx, signup); err != nil {
		s.logger.Warn().Err(err).Str("account_id", a.ID).Msg("admin notification not queued")
	}
}

// validateSignup enforces the per-role required field list and the basic
// shape of name, email and password.
func validateSignup(role domain.Role, in ports.SignupInput) error {
	required := []struct {
		name  string
		value string
	}{
		{"name", in.Name},
		{"email", in.Email},
		{"password", in.Password},
		{"phoneNumber", in.PhoneNumber},
		{"address", in.Address},
	}
	if role == domain.RoleProvider {
		required = append(required,
			struct{ name, value string }{"businessName", in.BusinessName},
			struct{ name, value string }{"serviceType", in.ServiceType},
			struct{ name, value string }{"experience", in.Experience},
			struct{ name, value string }{"availability", in.Availability},
		)
	}

	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return domain.NewValidationError("All required fields must be provided. Missing: " + strings.Join(missing, ", "))
	}

	if n := utf8.RuneCountInString(in.Name); n < 2 || n > 50 {
		return domain.NewValidationError("name must be between 2 and 50 characters")
	}
	if !domain.ValidEmail(in.Email) {
		return domain.NewValidationError("please provide a valid email")
	}
	return validatePassword(in.Password)
}

func validatePassword(password string) error {
	if len(password) < domain.MinPasswordLength {
		return domain.NewValidationError(fmt.Sprintf("password must be at least %d characters", domain.MinPasswordLength))
	}
	if len(password) > domain.MaxPasswordLength {
		return domain.NewValidationError(fmt.Sprintf("password must be at most %d bytes", domain.MaxPasswordLength))
	}
	return nil
}

// Login verifies credentials and opens a session. Unknown email, wrong
// password and deactivated accounts all yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.NewValidationError("Email and password are required")
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: lookup email: %w", err)
	}

	if !domain.CheckPassword(account.PasswordHash, password) || !account.Active {
		s.logger.Info().Str("email", email).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.ID, account.Role, account.Email)
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}

	now := s.now()
	if err := s.repo.TouchLastLogin(ctx, account.ID, now); err != nil {
		s.logger.Warn().Err(err).Str("account_id", account.ID).Msg("failed to record last login")
	} else {
		account.LastLogin = &now
	}

	return &ports.Session{Token: token, Account: account}, nil
}

// Refresh exchanges a still-valid token for a new one with a fresh expiry.
// Deactivated accounts cannot refresh.
func (s *AuthService) Refresh(ctx context.Context, token string) (*ports.Session, error) {
	if token == "" {
		return nil, domain.NewValidationError("Token is required")
	}
	claims, err := s.verifier.Verify(token)
	if err != nil {
		return nil, err
	}

	account, err := s.repo.FindByID(ctx, claims.AccountID)
	if err != nil {
		return nil, err
	}
	if !account.Active {
		return nil, domain.ErrAccountNotFound
	}

	fresh, err := s.tokens.Issue(account.ID, account.Role, account.Email)
	if err != nil {
		return nil, fmt.Errorf("refresh: issue token: %w", err)
	}
	return &ports.Session{Token: fresh, Account: account}, nil
}

// VerifyEmail consumes a verification token sent in the welcome email.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*domain.Account, error) {
	if token == "" {
		return nil, domain.ErrNotFound
	}
	account, err := s.repo.FindByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	account.EmailVerified = true
	account.VerificationToken = ""
	account.Refresh(s.now())
	if err := s.repo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("verify email: %w", err)
	}
	return account, nil
}

// ForgotPassword stores a short-lived reset token and mails it. It reports
// success whether or not the address is registered.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	if !domain.ValidEmail(email) {
		return domain.NewValidationError("please provide a valid email")
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil
		}
		return fmt.Errorf("forgot password: %w", err)
	}

	token := uuid.NewString()
	now := s.now()
	account.ResetTokenHash = hashResetToken(token)
	account.ResetTokenExpiry = now.Add(resetTokenTTL)
	account.Refresh(now)
	if err := s.repo.Update(ctx, account); err != nil {
		return fmt.Errorf("forgot password: store token: %w", err)
	}

	if err := s.notifier.SendPasswordReset(ctx, account.Email, token); err != nil {
		s.logger.Warn().Err(err).Str("account_id", account.ID).Msg("password reset email not queued")
	}
	return nil
}

// ResetPassword replaces the password of the account holding token.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if token == "" {
		return domain.ErrInvalidResetToken
	}

	account, err := s.repo.FindByResetTokenHash(ctx, hashResetToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.ErrInvalidResetToken
		}
		return fmt.Errorf("reset password: %w", err)
	}
	now := s.now()
	if !now.Before(account.ResetTokenExpiry) {
		return domain.ErrInvalidResetToken
	}

	hash, err := domain.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("reset password: hash: %w", err)
	}
	account.PasswordHash = hash
	account.ResetTokenHash = ""
	account.ResetTokenExpiry = time.Time{}
	account.Refresh(now)
	if err := s.repo.Update(ctx, account); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	s.logger.Info().Str("account_id", account.ID).Msg("password reset")
	return nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
