package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"goclean-be-svc/internal/models"
	"goclean-be-svc/internal/models/response"
	"goclean-be-svc/pkg/utils"
)

// TransactionFilter scopes transaction queries to what a caller may see
type TransactionFilter struct {
	UserID    *uint
	TPSID     *uint
	Status    *models.PaymentStatus
	Kecamatan string
	From      *time.Time
	To        *time.Time
}

func (f TransactionFilter) apply(query *gorm.DB, table string) *gorm.DB {
	if f.UserID != nil {
		query = query.Where(table+".user_id = ?", *f.UserID)
	}
	if f.TPSID != nil {
		query = query.Where(table+".tps_id = ?", *f.TPSID)
	}
	if f.Status != nil {
		query = query.Where(table+".payment_status = ?", *f.Status)
	}
	if f.From != nil {
		query = query.Where(table+".created_at >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where(table+".created_at < ?", *f.To)
	}
	return query
}

// TransactionRepository defines the interface for transaction data operations
type TransactionRepository interface {
	GetByID(id uint) (*models.Transaction, error)
	GetByIDs(ids []uint) ([]*models.Transaction, error)
	GetByPickupID(pickupID uint) (*models.Transaction, error)
	List(filter TransactionFilter, page, perPage int) ([]*models.Transaction, int64, error)
	MarkPending(ids []uint, paymentURL, reference string) error
	MarkPaid(ids []uint, method models.PaymentMethod, reference *string, paidAt time.Time) ([]uint, error)
	ListUpdatedSince(filter TransactionFilter, since time.Time, limit int) ([]*models.Transaction, error)
	ListForExport(filter TransactionFilter) ([]*response.TransactionExportRow, error)
}

// transactionRepository implements TransactionRepository
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new instance of TransactionRepository
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

// GetByID retrieves a transaction by ID
func (r *transactionRepository) GetByID(id uint) (*models.Transaction, error) {
	var trx models.Transaction

	err := r.db.Where("id = ?", id).First(&trx).Error
	if err != nil {
		return nil, err
	}

	return &trx, nil
}

// GetByIDs retrieves several transactions ordered by ID
func (r *transactionRepository) GetByIDs(ids []uint) ([]*models.Transaction, error) {
	var list []*models.Transaction
	if len(ids) == 0 {
		return list, nil
	}

	err := r.db.Where("id IN ?", ids).Order("id").Find(&list).Error
	return list, err
}

// GetByPickupID retrieves the transaction created when a pickup completed
func (r *transactionRepository) GetByPickupID(pickupID uint) (*models.Transaction, error) {
	var trx models.Transaction

	err := r.db.Where("pickup_id = ?", pickupID).First(&trx).Error
	if err != nil {
		return nil, err
	}

	return &trx, nil
}

// List retrieves transactions newest first
func (r *transactionRepository) List(filter TransactionFilter, page, perPage int) ([]*models.Transaction, int64, error) {
	var list []*models.Transaction
	var total int64

	query := filter.apply(r.db.Model(&models.Transaction{}), "transactions")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC, id DESC").
		Limit(perPage).
		Offset(utils.Offset(page, perPage)).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

// MarkPending records an issued payment link on payable transactions
func (r *transactionRepository) MarkPending(ids []uint, paymentURL, reference string) error {
	return r.db.Model(&models.Transaction{}).
		Where("id IN ? AND payment_status IN ?", ids, []models.PaymentStatus{models.PaymentUnpaid, models.PaymentFailed}).
		Updates(map[string]interface{}{
			"payment_status":    models.PaymentPending,
			"payment_method":    models.PaymentOnline,
			"payment_url":       paymentURL,
			"payment_reference": reference,
			"updated_at":        time.Now().UTC(),
		}).Error
}

// MarkPaid settles the given transactions that are not yet PAID and returns the IDs it changed.
// The unpaid rows stay locked until commit, so overlapping calls never both claim a row.
func (r *transactionRepository) MarkPaid(ids []uint, method models.PaymentMethod, reference *string, paidAt time.Time) ([]uint, error) {
	var changed []uint

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Transaction{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ? AND payment_status <> ?", ids, models.PaymentPaid).
			Order("id").
			Pluck("id", &changed).Error; err != nil {
			return err
		}
		if len(changed) == 0 {
			return nil
		}

		fields := map[string]interface{}{
			"payment_status": models.PaymentPaid,
			"payment_method": method,
			"paid_at":        paidAt,
			"updated_at":     paidAt,
		}
		if reference != nil {
			fields["payment_reference"] = *reference
		}

		result := tx.Model(&models.Transaction{}).
			Where("id IN ? AND payment_status <> ?", changed, models.PaymentPaid).
			Updates(fields)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(changed)) {
			return ErrStaleStatus
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return changed, nil
}

// ListUpdatedSince returns transactions in scope changed after since
func (r *transactionRepository) ListUpdatedSince(filter TransactionFilter, since time.Time, limit int) ([]*models.Transaction, error) {
	var list []*models.Transaction

	err := filter.apply(r.db.Model(&models.Transaction{}), "transactions").
		Where("updated_at > ?", since).
		Order("updated_at, id").
		Limit(limit).
		Find(&list).Error
	return list, err
}

// ListForExport joins transactions with the names needed for the spreadsheet
func (r *transactionRepository) ListForExport(filter TransactionFilter) ([]*response.TransactionExportRow, error) {
	var rows []*response.TransactionExportRow

	query := r.db.Table("transactions").
		Select(`transactions.id, transactions.pickup_id,
			u.name AS user_name, tp.name AS tps_name, p.kecamatan,
			transactions.total_weight_kg, transactions.subtotal, transactions.service_fee,
			transactions.total_amount, transactions.payment_method, transactions.payment_status,
			transactions.paid_at`).
		Joins("JOIN users u ON u.id = transactions.user_id").
		Joins("JOIN tps_profiles tp ON tp.id = transactions.tps_id").
		Joins("JOIN pickup_requests p ON p.id = transactions.pickup_id")

	query = filter.apply(query, "transactions")
	if filter.Kecamatan != "" {
		query = query.Where("p.kecamatan = ?", filter.Kecamatan)
	}

	err := query.Order("transactions.id").Scan(&rows).Error
	return rows, err
}
