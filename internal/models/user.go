package models

import "time"

// Role is the coarse permission level of a user.
type Role string

const (
	RoleDeveloper Role = "DEVELOPER"
	RoleAdmin     Role = "ADMIN"
)

// User represents an identity that can own projects and file reports.
// Email and wallet address are optional but unique when present.
type User struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Email         *string   `json:"email,omitempty" gorm:"uniqueIndex;type:varchar(255)"`
	PasswordHash  *string   `json:"-" gorm:"type:varchar(255)"`
	WalletAddress *string   `json:"wallet_address,omitempty" gorm:"uniqueIndex;type:varchar(128)"`
	Role          Role      `json:"role" gorm:"type:varchar(16);not null"`
	CreatedAt     time.Time `json:"created_at"`
}
