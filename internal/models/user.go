package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the authorization level of a user account.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	return r == RoleUser || r == RoleModerator || r == RoleAdmin
}

// User represents a registered account.
type User struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username    string     `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email       string     `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password    string     `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"` // bcrypt hash, never serialized
	Role        Role       `json:"role" gorm:"type:varchar(20);default:user"`
	IsActive    bool       `json:"is_active" gorm:"default:true"`
	LoginCount  int        `json:"login_count"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	gorm.Model  `json:"-"` // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// PublicView strips fields that must never leave the server.
func (u *User) PublicView() map[string]interface{} {
	return map[string]interface{}{
		"id":        u.ID,
		"username":  u.Username,
		"email":     u.Email,
		"role":      u.Role,
		"is_active": u.IsActive,
	}
}
