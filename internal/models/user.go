package models

import (
	"time"
)

// Role is the account type of a user
type Role string

const (
	RoleUser  Role = "USER"
	RoleTPS   Role = "TPS"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleTPS, RoleAdmin:
		return true
	}
	return false
}

// User represents the users table
type User struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	DocumentID   string    `json:"document_id" gorm:"column:document_id;size:64;uniqueIndex"`
	Name         string    `json:"name" gorm:"column:name;size:120;not null"`
	Email        string    `json:"email" gorm:"column:email;size:160;uniqueIndex;not null"`
	Phone        string    `json:"phone" gorm:"column:phone;size:32"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	Role         Role      `json:"role" gorm:"column:role;size:16;index;not null"`
	Address      string    `json:"address" gorm:"column:address"`
	Kecamatan    string    `json:"kecamatan" gorm:"column:kecamatan;size:80;index"`
	Kelurahan    string    `json:"kelurahan" gorm:"column:kelurahan;size:80"`
	Latitude     *float64  `json:"latitude" gorm:"column:latitude"`
	Longitude    *float64  `json:"longitude" gorm:"column:longitude"`
	IsActive     bool      `json:"is_active" gorm:"column:is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	TPSProfile *TPSProfile `json:"tps_profile,omitempty" gorm:"foreignKey:UserID"`
}

// TableName sets the insert table name for User
func (User) TableName() string {
	return "users"
}
