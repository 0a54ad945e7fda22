package models

import "time"

// User is an account the settlement reconciler links bookings to. Password
// hash is only populated for back-office accounts.
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	Phone        *string   `json:"phone,omitempty" db:"phone"`
	Role         string    `json:"role" db:"role"`
	PasswordHash *string   `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// IsAdmin reports whether the user can access the back-office surface
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// AdminLoginRequest is the body of POST /api/admin/login
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
