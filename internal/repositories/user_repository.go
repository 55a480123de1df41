package repositories

import (
	"errors"

	"recipehub/internal/models"
)

// ErrNotFound is returned by every repository when the requested entity
// does not exist.
var ErrNotFound = errors.New("record not found")

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	// GetByIDWithoutPassword loads a user with the password column omitted.
	// Used by the auth middleware so the hash never travels with the request.
	GetByIDWithoutPassword(id string) (*models.User, error)
	Count() (int64, error)
	UpdateRole(id string, role models.Role) error
	// RecordLogin bumps the login counter and timestamp atomically.
	RecordLogin(id string) error
}
