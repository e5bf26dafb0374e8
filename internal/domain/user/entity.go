package user

import (
	"time"

	"github.com/google/uuid"
)

// Role is the account role carried in access tokens.
type Role string

const (
	RoleHousehold Role = "household"
	RoleAdmin     Role = "admin"
)

// User is an account holder. The household profile lives on the account.
type User struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         Role      `db:"role"`
	AreaSqm      float64   `db:"area_sqm"`
	Occupants    int       `db:"occupants"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// IsAdmin returns true if user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
