package models

import (
	"time"
)

// WasteCategory represents the waste_categories table
type WasteCategory struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Code        string    `json:"code" gorm:"column:code;size:32;uniqueIndex;not null" yaml:"code"`
	Name        string    `json:"name" gorm:"column:name;size:120;not null" yaml:"name"`
	Description string    `json:"description" gorm:"column:description" yaml:"description"`
	PricePerKg  int64     `json:"price_per_kg" gorm:"column:price_per_kg;not null" yaml:"price_per_kg"`
	IsActive    bool      `json:"is_active" gorm:"column:is_active" yaml:"is_active"`
	CreatedAt   time.Time `json:"created_at" yaml:"-"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"-"`
}

// TableName sets the insert table name for WasteCategory
func (WasteCategory) TableName() string {
	return "waste_categories"
}
