package response

// MenuResponse represents the menu response structure
type MenuResponse struct {
	ID    uint   `json:"id" example:"1"`
	Name  string `json:"name" example:"Riwayat Penjemputan"`
	Code  string `json:"code" example:"pickup-history"`
	Path  string `json:"path" example:"/pickups"`
	Icon  string `json:"icon" example:"truck"`
	Order int    `json:"order" example:"1"`
}
