package models

import (
	"strings"

	"github.com/google/uuid"
)

type User struct {
	Username string   `json:"username" gorm:"primaryKey"`
	Password string   `json:"password" gorm:"not null"`
	Role     UserRole `json:"role" gorm:"default:'customer'"`
	UserID   string   `json:"user_id" gorm:"uniqueIndex;not null"`
}

type UserRole string

const (
	Guest      UserRole = "guest"
	Customer   UserRole = "customer"
	StoreOwner UserRole = "store_owner"
)

// NewUserID returns an opaque identity token shared by guest sessions and
// registered users.
func NewUserID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
