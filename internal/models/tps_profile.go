package models

import (
	"time"
)

// TPSProfile represents the tps_profiles table, one per TPS account
type TPSProfile struct {
	ID             uint      `json:"id" gorm:"primarykey"`
	UserID         uint      `json:"user_id" gorm:"column:user_id;uniqueIndex;not null"`
	Name           string    `json:"name" gorm:"column:name;size:120;not null"`
	Address        string    `json:"address" gorm:"column:address"`
	Kecamatan      string    `json:"kecamatan" gorm:"column:kecamatan;size:80;index"`
	Kelurahan      string    `json:"kelurahan" gorm:"column:kelurahan;size:80"`
	Latitude       float64   `json:"latitude" gorm:"column:latitude"`
	Longitude      float64   `json:"longitude" gorm:"column:longitude"`
	OperatingHours string    `json:"operating_hours" gorm:"column:operating_hours;size:64"`
	CapacityKg     float64   `json:"capacity_kg" gorm:"column:capacity_kg"`
	IsVerified     bool      `json:"is_verified" gorm:"column:is_verified"`
	IsOpen         bool      `json:"is_open" gorm:"column:is_open"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName sets the insert table name for TPSProfile
func (TPSProfile) TableName() string {
	return "tps_profiles"
}
