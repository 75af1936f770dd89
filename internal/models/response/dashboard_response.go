package response

// StatusCount is the number of pickups in one status
type StatusCount struct {
	Status string `json:"status" gorm:"column:status" example:"PENDING"`
	Count  int64  `json:"count" gorm:"column:count" example:"4"`
}

// KecamatanCount is the number of pickups in one kecamatan
type KecamatanCount struct {
	Kecamatan string `json:"kecamatan" gorm:"column:kecamatan" example:"Tebet"`
	Count     int64  `json:"count" gorm:"column:count" example:"11"`
}

// RoleCount is the number of users holding one role
type RoleCount struct {
	Role  string `json:"role" gorm:"column:role" example:"USER"`
	Count int64  `json:"count" gorm:"column:count" example:"120"`
}

// AdminDashboardResponse aggregates platform-wide statistics
type AdminDashboardResponse struct {
	UsersByRole       []RoleCount      `json:"users_by_role"`
	VerifiedTPS       int64            `json:"verified_tps" example:"8"`
	UnverifiedTPS     int64            `json:"unverified_tps" example:"2"`
	PickupsByStatus   []StatusCount    `json:"pickups_by_status"`
	PickupsKecamatan  []KecamatanCount `json:"pickups_by_kecamatan"`
	CompletedWeightKg float64          `json:"completed_weight_kg" example:"1520.5"`
	Revenue           int64            `json:"revenue" example:"4500000"`
}

// TPSDashboardResponse aggregates statistics for one TPS
type TPSDashboardResponse struct {
	PickupsByStatus   []StatusCount `json:"pickups_by_status"`
	CompletedWeightKg float64       `json:"completed_weight_kg" example:"320.25"`
	Revenue           int64         `json:"revenue" example:"950000"`
}

// UserDashboardResponse aggregates statistics for one household user
type UserDashboardResponse struct {
	PickupsByStatus  []StatusCount `json:"pickups_by_status"`
	RecycledWeightKg float64       `json:"recycled_weight_kg" example:"42.5"`
	TotalPaid        int64         `json:"total_paid" example:"125000"`
}
