package models

import "time"

// Admin roles.
const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
)

// User represents a back-office admin account. The first account ever
// registered becomes superadmin; everyone after that is a plain admin.
type User struct {
	BaseModel
	Name         string     `json:"name"`
	Email        string     `gorm:"uniqueIndex" json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	LastLogin    *time.Time `json:"last_login"`
}
