package models

import "gorm.io/gorm"

// User is a back-office staff account.
type User struct {
	gorm.Model
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique"`
	Password string `json:"-"`
	Role     string `json:"role"` // "admin" or "ops"
}
