package repository

import (
	"gorm.io/gorm"

	"goclean-be-svc/internal/models"
)

// PaymentConfigRepository holds the flat service fee added to every completed pickup.
// Old fees stay in payment_configs as inactive rows.
type PaymentConfigRepository interface {
	CurrentServiceFee() (int64, error)
	SetServiceFee(fee int64) (*models.PaymentConfig, error)
}

type paymentConfigRepository struct {
	db *gorm.DB
}

// NewPaymentConfigRepository creates a new instance of PaymentConfigRepository
func NewPaymentConfigRepository(db *gorm.DB) PaymentConfigRepository {
	return &paymentConfigRepository{
		db: db,
	}
}

// CurrentServiceFee returns the fee of the newest active row, 0 when none is active
func (r *paymentConfigRepository) CurrentServiceFee() (int64, error) {
	var fees []int64

	err := r.db.Model(&models.PaymentConfig{}).
		Where("is_active = ?", true).
		Order("id DESC").
		Limit(1).
		Pluck("service_fee", &fees).Error
	if err != nil || len(fees) == 0 {
		return 0, err
	}

	return fees[0], nil
}

// SetServiceFee retires the active fee and makes fee the current one
func (r *paymentConfigRepository) SetServiceFee(fee int64) (*models.PaymentConfig, error) {
	current := &models.PaymentConfig{ServiceFee: fee, IsActive: true}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PaymentConfig{}).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(current).Error
	})
	if err != nil {
		return nil, err
	}

	return current, nil
}
