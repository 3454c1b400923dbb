package models

import "time"

type UserRole string

const (
	UserRoleMember  UserRole = "member"
	UserRoleTrainer UserRole = "trainer"
	UserRoleAdmin   UserRole = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         UserRole
	Status       UserStatus
	TrainerID    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session maps an opaque bearer token (stored hashed) to a user. Expiry is
// checked lazily on lookup; an expired row is deleted before "no session" is
// reported. There is no proactive sweep requirement beyond the nightly job.
type Session struct {
	TokenHash []byte
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
