package models

import (
	"time"
)

// MasterMenu represents the master_menus table. Each menu belongs to one role's navigation.
type MasterMenu struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	DocumentID string    `json:"document_id" gorm:"column:document_id;size:64"`
	Name       string    `json:"name" gorm:"column:name;not null"`
	Code       string    `json:"code" gorm:"column:code;size:64;uniqueIndex;not null"`
	Path       string    `json:"path" gorm:"column:path"`
	Icon       string    `json:"icon" gorm:"column:icon"`
	Order      int       `json:"order" gorm:"column:menu_order"`
	Role       Role      `json:"role" gorm:"column:role;size:16;index;not null"`
	IsActive   bool      `json:"is_active" gorm:"column:is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName sets the insert table name for MasterMenu
func (MasterMenu) TableName() string {
	return "master_menus"
}
