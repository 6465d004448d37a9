package models

import "time"

// Role values accepted by the API. Stored as plain strings but validated
// at the boundary so nothing else ever reaches the database.
const (
	RoleAdmin  = "ADMIN"
	RoleReader = "READER"
	RoleUser   = "USER"
)

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleReader, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Password  string    `gorm:"column:password_hash;not null" json:"-"` // bcrypt hash, never serialized
	Role      string    `gorm:"size:20;default:'READER';not null" json:"role"`
	Email     string    `gorm:"size:100" json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
