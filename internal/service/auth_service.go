package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"gymora/api/internal/config"
	"gymora/api/internal/ids"
	"gymora/api/internal/models"
	"gymora/api/internal/repository"
	"gymora/api/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserSuspended      = errors.New("user suspended")
	ErrEmailTaken         = errors.New("email already registered")
)

// UserStore is the slice of the user repository AuthService depends on.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}

// SessionStore persists session rows keyed by token hash.
type SessionStore interface {
	Create(ctx context.Context, session models.Session) error
	GetByTokenHash(ctx context.Context, tokenHash []byte) (models.Session, error)
	DeleteByTokenHash(ctx context.Context, tokenHash []byte) error
	DeleteByUser(ctx context.Context, userID string) error
}

// AuthService owns the session lifecycle: NONE -> ACTIVE -> (EXPIRED | REVOKED).
// Expiry is detected lazily on resolve and collapses the session back to NONE.
type AuthService struct {
	users    UserStore
	sessions SessionStore
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewAuthService(
	users UserStore,
	sessions SessionStore,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		log:      log,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     models.UserRole
}

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      models.User
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" || input.Password == "" {
		return AuthResult{}, errors.New("email and password required")
	}
	if input.Role == "" {
		input.Role = models.UserRoleMember
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return AuthResult{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Email:        input.Email,
		PasswordHash: passwordHash,
		Name:         input.Name,
		Role:         input.Role,
		Status:       models.UserStatusActive,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return AuthResult{}, ErrEmailTaken
		}
		return AuthResult{}, err
	}

	return s.CreateSession(ctx, user)
}

type LoginInput struct {
	Email    string
	Password string
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	if user.Status != models.UserStatusActive {
		return AuthResult{}, ErrUserSuspended
	}

	if !security.VerifyPassword(input.Password, user.PasswordHash) {
		return AuthResult{}, ErrInvalidCredentials
	}

	return s.CreateSession(ctx, user)
}

// CreateSession issues an opaque token with 256 bits of entropy and persists
// its hash. expiresAt is always createdAt + the configured TTL.
func (s *AuthService) CreateSession(ctx context.Context, user models.User) (AuthResult, error) {
	token, tokenHash, err := security.GenerateSessionToken()
	if err != nil {
		return AuthResult{}, err
	}

	now := time.Now()
	session := models.Session{
		TokenHash: tokenHash,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.Security.SessionTTL),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return AuthResult{}, err
	}

	return AuthResult{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		User:      user,
	}, nil
}

// ResolveSession maps a bearer token to its user. Absent token, expired
// token, or a missing/suspended user all resolve to nil; an expired row is
// deleted before reporting no session.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	tokenHash := security.HashSessionToken(token)

	session, err := s.sessions.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if session.Expired(time.Now()) {
		if err := s.sessions.DeleteByTokenHash(ctx, tokenHash); err != nil {
			s.log.Warn().Err(err).Msg("delete expired session failed")
		}
		return nil, nil
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Session row outlived its user; integrity is by convention only.
			return nil, nil
		}
		return nil, err
	}
	if user.Status != models.UserStatusActive {
		return nil, nil
	}

	return &user, nil
}

// ClearSession revokes a token. Clearing an unknown token is not an error.
func (s *AuthService) ClearSession(ctx context.Context, token string) error {
	return s.sessions.DeleteByTokenHash(ctx, security.HashSessionToken(token))
}

func (s *AuthService) ChangePassword(ctx context.Context, userID string, currentPassword string, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !security.VerifyPassword(currentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, passwordHash)
}

// RequestPasswordReset issues a short-lived reset token for the account, if
// it exists. Callers must not reveal whether the email was known.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil
		}
		return "", err
	}

	return security.GenerateResetToken(s.cfg.Security.ResetTokenSecret, user.ID, s.cfg.Security.ResetTokenTTL)
}

// ResetPassword consumes a reset token, stores a new credential, and revokes
// every session for the account.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken string, newPassword string) error {
	userID, err := security.ParseResetToken(resetToken, s.cfg.Security.ResetTokenSecret)
	if err != nil {
		return ErrInvalidCredentials
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, passwordHash); err != nil {
		return err
	}

	return s.sessions.DeleteByUser(ctx, userID)
}
