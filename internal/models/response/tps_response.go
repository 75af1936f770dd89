package response

import "goclean-be-svc/internal/models"

// NearbyTPSResponse is a TPS profile with its distance from the query point
type NearbyTPSResponse struct {
	models.TPSProfile
	DistanceKm float64 `json:"distance_km" example:"1.37"`
}

// RegionResponse lists the kelurahan known inside one kecamatan
type RegionResponse struct {
	Kecamatan string   `json:"kecamatan" example:"Tebet"`
	Kelurahan []string `json:"kelurahan" example:"Manggarai,Bukit Duri"`
}
