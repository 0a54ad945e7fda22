package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/tripgo/booking-backend/internal/models"
)

// UserRepository handles database operations for the users table
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByEmail resolves a user by email (case-insensitive). The settlement
// reconciler uses this to link auto-created bookings to an account.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := `
		SELECT id, email, name, phone, role, password_hash, created_at, updated_at
		FROM users
		WHERE LOWER(email) = $1
	`

	return r.scanUser(r.db.QueryRow(query, strings.ToLower(email)))
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(userID string) (*models.User, error) {
	query := `
		SELECT id, email, name, phone, role, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	return r.scanUser(r.db.QueryRow(query, userID))
}

// scanUser scans a single user row
func (r *UserRepository) scanUser(row scanner) (*models.User, error) {
	user := &models.User{}
	var phone sql.NullString
	var passwordHash sql.NullString

	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &phone, &user.Role,
		&passwordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	if phone.Valid {
		user.Phone = &phone.String
	}
	if passwordHash.Valid {
		user.PasswordHash = &passwordHash.String
	}

	return user, nil
}
