package response

import "time"

// PaymentLinkResponse represents the response for payment link creation
type PaymentLinkResponse struct {
	TransactionIDs []uint `json:"transaction_ids" example:"6,2"`
	Amount         int64  `json:"amount" example:"57000"`
	PaymentURL     string `json:"payment_url" example:"https://goclean.myr.id/invoices/abc"`
	Description    string `json:"description" example:"6,2 (DocumentID: trx-...)"`
}

// TransactionExportRow is one row of the transaction spreadsheet export
type TransactionExportRow struct {
	ID            uint       `gorm:"column:id"`
	PickupID      uint       `gorm:"column:pickup_id"`
	UserName      string     `gorm:"column:user_name"`
	TPSName       string     `gorm:"column:tps_name"`
	Kecamatan     string     `gorm:"column:kecamatan"`
	TotalWeightKg float64    `gorm:"column:total_weight_kg"`
	Subtotal      int64      `gorm:"column:subtotal"`
	ServiceFee    int64      `gorm:"column:service_fee"`
	TotalAmount   int64      `gorm:"column:total_amount"`
	PaymentMethod *string    `gorm:"column:payment_method"`
	PaymentStatus string     `gorm:"column:payment_status"`
	PaidAt        *time.Time `gorm:"column:paid_at"`
}
