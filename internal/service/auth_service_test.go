package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymora/api/internal/config"
	"gymora/api/internal/models"
	"gymora/api/internal/repository"
)

type memUserStore struct {
	rows map[string]models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{rows: map[string]models.User{}}
}

func (m *memUserStore) Create(_ context.Context, user models.User) error {
	for _, existing := range m.rows {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	m.rows[user.ID] = user
	return nil
}

func (m *memUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range m.rows {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (m *memUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	user, ok := m.rows[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *memUserStore) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	user, ok := m.rows[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	m.rows[id] = user
	return nil
}

type memSessionStore struct {
	rows map[string]models.Session
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{rows: map[string]models.Session{}}
}

func (m *memSessionStore) Create(_ context.Context, session models.Session) error {
	m.rows[string(session.TokenHash)] = session
	return nil
}

func (m *memSessionStore) GetByTokenHash(_ context.Context, tokenHash []byte) (models.Session, error) {
	session, ok := m.rows[string(tokenHash)]
	if !ok {
		return models.Session{}, repository.ErrSessionNotFound
	}
	return session, nil
}

func (m *memSessionStore) DeleteByTokenHash(_ context.Context, tokenHash []byte) error {
	delete(m.rows, string(tokenHash))
	return nil
}

func (m *memSessionStore) DeleteByUser(_ context.Context, userID string) error {
	for key, session := range m.rows {
		if session.UserID == userID {
			delete(m.rows, key)
		}
	}
	return nil
}

func newAuthTestService() (*AuthService, *memUserStore, *memSessionStore) {
	users := newMemUserStore()
	sessions := newMemSessionStore()
	cfg := &config.AppConfig{
		Security: config.SecurityConfig{
			SessionTTL:       time.Hour,
			SessionCookie:    "gymora_session",
			ResetTokenSecret: "test-secret",
			ResetTokenTTL:    30 * time.Minute,
		},
	}
	return NewAuthService(users, sessions, cfg, zerolog.Nop()), users, sessions
}

func TestResolveSessionUnknownToken(t *testing.T) {
	svc, _, _ := newAuthTestService()

	user, err := svc.ResolveSession(context.Background(), "never-issued")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestResolveSessionRoundTrip(t *testing.T) {
	svc, _, _ := newAuthTestService()

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:    "member@example.com",
		Password: "long enough password",
		Name:     "Member",
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), result.ExpiresAt, time.Minute)

	user, err := svc.ResolveSession(context.Background(), result.Token)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, result.User.ID, user.ID)
}

func TestResolveSessionExpiredDeletesRow(t *testing.T) {
	svc, users, sessions := newAuthTestService()

	users.rows["u1"] = models.User{ID: "u1", Email: "a@b.c", Status: models.UserStatusActive}

	result, err := svc.CreateSession(context.Background(), users.rows["u1"])
	require.NoError(t, err)
	require.Len(t, sessions.rows, 1)

	// Age the stored row past its expiry.
	for key, session := range sessions.rows {
		session.ExpiresAt = time.Now().Add(-time.Minute)
		sessions.rows[key] = session
	}

	user, err := svc.ResolveSession(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Empty(t, sessions.rows, "expired row must be deleted on resolve")
}

func TestResolveSessionAfterClear(t *testing.T) {
	svc, users, _ := newAuthTestService()

	users.rows["u1"] = models.User{ID: "u1", Email: "a@b.c", Status: models.UserStatusActive}

	result, err := svc.CreateSession(context.Background(), users.rows["u1"])
	require.NoError(t, err)

	require.NoError(t, svc.ClearSession(context.Background(), result.Token))

	user, err := svc.ResolveSession(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Nil(t, user)

	// Clearing again is not an error.
	assert.NoError(t, svc.ClearSession(context.Background(), result.Token))
}

func TestResolveSessionSuspendedUser(t *testing.T) {
	svc, users, _ := newAuthTestService()

	users.rows["u1"] = models.User{ID: "u1", Email: "a@b.c", Status: models.UserStatusActive}
	result, err := svc.CreateSession(context.Background(), users.rows["u1"])
	require.NoError(t, err)

	suspended := users.rows["u1"]
	suspended.Status = models.UserStatusSuspended
	users.rows["u1"] = suspended

	user, err := svc.ResolveSession(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthTestService()

	input := RegisterInput{Email: "dup@example.com", Password: "long enough password", Name: "A"}
	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), input)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthTestService()

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "member@example.com",
		Password: "correct password",
		Name:     "Member",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginInput{Email: "member@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginInput{Email: "unknown@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResetPasswordRevokesSessions(t *testing.T) {
	svc, _, sessions := newAuthTestService()

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:    "member@example.com",
		Password: "original password",
		Name:     "Member",
	})
	require.NoError(t, err)

	token, err := svc.RequestPasswordReset(context.Background(), "member@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(context.Background(), token, "brand new password"))
	assert.Empty(t, sessions.rows, "reset must revoke every session")

	_, err = svc.Login(context.Background(), LoginInput{Email: "member@example.com", Password: "brand new password"})
	assert.NoError(t, err)

	user, err := svc.ResolveSession(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Nil(t, user)
}
