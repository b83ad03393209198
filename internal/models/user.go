package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

const (
	NameMinLength     = 3
	NameMaxLength     = 40
	PasswordMinLength = 8
)

type User struct {
	ID                     string
	Name                   string
	Email                  string
	Role                   Role
	PasswordHash           []byte
	PasswordChangedAt      *time.Time
	PasswordResetToken     []byte
	PasswordResetExpiresAt *time.Time
	Active                 bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// ChangedPasswordAfter reports whether the password was changed strictly
// after the given token issue time. Comparison is in whole seconds because
// JWT issued-at claims carry second precision.
func (u User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return issuedAt.Unix() < u.PasswordChangedAt.Unix()
}
