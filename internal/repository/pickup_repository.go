package repository

import (
	"time"

	"gorm.io/gorm"

	"goclean-be-svc/internal/models"
	"goclean-be-svc/pkg/utils"
)

// PickupFilter scopes pickup queries to what a caller may see
type PickupFilter struct {
	// UserID limits to pickups owned by this user
	UserID *uint
	// TPSID limits to pickups assigned to this TPS
	TPSID *uint
	// IncludePending widens a TPSID scope with PENDING pickups, in PendingKecamatan when set
	IncludePending   bool
	PendingKecamatan string
	Status           *models.PickupStatus
}

// scopeClause renders the filter as a parameterized WHERE fragment
func (f PickupFilter) scopeClause() (string, []interface{}) {
	clause := "1 = 1"
	var args []interface{}

	if f.UserID != nil {
		clause += " AND user_id = ?"
		args = append(args, *f.UserID)
	}
	if f.TPSID != nil {
		switch {
		case !f.IncludePending:
			clause += " AND tps_id = ?"
			args = append(args, *f.TPSID)
		case f.PendingKecamatan != "":
			clause += " AND (tps_id = ? OR (status = ? AND kecamatan = ?))"
			args = append(args, *f.TPSID, models.PickupPending, f.PendingKecamatan)
		default:
			clause += " AND (tps_id = ? OR status = ?)"
			args = append(args, *f.TPSID, models.PickupPending)
		}
	}
	if f.Status != nil {
		clause += " AND status = ?"
		args = append(args, *f.Status)
	}

	return clause, args
}

// TransitionParams describes one compare-and-set status change
type TransitionParams struct {
	ID   uint
	From models.PickupStatus
	To   models.PickupStatus
	// RequireTPSID additionally requires the pickup to be assigned to this TPS
	RequireTPSID *uint
	// Fields are extra columns written together with the status
	Fields  map[string]interface{}
	History *models.PickupStatusHistory
}

// PickupRepository defines the interface for pickup data operations
type PickupRepository interface {
	Create(pickup *models.PickupRequest, history *models.PickupStatusHistory) error
	GetByID(id uint) (*models.PickupRequest, error)
	List(filter PickupFilter, page, perPage int) ([]*models.PickupRequest, int64, error)
	Transition(params TransitionParams) error
	Complete(params TransitionParams, items []*models.PickupItem, trx *models.Transaction) error
	UpdateDriverLocation(id, tpsID uint, lat, lng float64, at time.Time) error
	ListHistory(pickupID uint) ([]*models.PickupStatusHistory, error)
	ListUpdatedSince(filter PickupFilter, since time.Time, limit int) ([]*models.PickupRequest, error)
	ListExpiredPending(createdBefore time.Time, afterID uint, limit int) ([]*models.PickupRequest, error)
}

// pickupRepository implements PickupRepository
type pickupRepository struct {
	db *gorm.DB
}

// NewPickupRepository creates a new instance of PickupRepository
func NewPickupRepository(db *gorm.DB) PickupRepository {
	return &pickupRepository{
		db: db,
	}
}

// Create inserts a pickup with its items and the initial history row
func (r *pickupRepository) Create(pickup *models.PickupRequest, history *models.PickupStatusHistory) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(pickup).Error; err != nil {
			return err
		}
		history.PickupID = pickup.ID
		return tx.Create(history).Error
	})
}

// GetByID retrieves a pickup with items and their categories
func (r *pickupRepository) GetByID(id uint) (*models.PickupRequest, error) {
	var pickup models.PickupRequest

	err := r.db.Preload("Items.WasteCategory").Where("id = ?", id).First(&pickup).Error
	if err != nil {
		return nil, err
	}

	return &pickup, nil
}

// List retrieves pickups newest first
func (r *pickupRepository) List(filter PickupFilter, page, perPage int) ([]*models.PickupRequest, int64, error) {
	var pickups []*models.PickupRequest
	var total int64

	clause, args := filter.scopeClause()
	query := r.db.Model(&models.PickupRequest{}).Where(clause, args...)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Items.WasteCategory").
		Order("created_at DESC, id DESC").
		Limit(perPage).
		Offset(utils.Offset(page, perPage)).
		Find(&pickups).Error
	if err != nil {
		return nil, 0, err
	}

	return pickups, total, nil
}

func (r *pickupRepository) transition(tx *gorm.DB, params TransitionParams) error {
	fields := map[string]interface{}{
		"status":     params.To,
		"updated_at": time.Now().UTC(),
	}
	for k, v := range params.Fields {
		fields[k] = v
	}

	query := tx.Model(&models.PickupRequest{}).Where("id = ? AND status = ?", params.ID, params.From)
	if params.RequireTPSID != nil {
		query = query.Where("tps_id = ?", *params.RequireTPSID)
	}

	result := query.Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleStatus
	}

	if params.History != nil {
		params.History.PickupID = params.ID
		if err := tx.Create(params.History).Error; err != nil {
			return err
		}
	}
	return nil
}

// Transition moves a pickup from params.From to params.To only if it is still in params.From.
// ErrStaleStatus means another writer got there first.
func (r *pickupRepository) Transition(params TransitionParams) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return r.transition(tx, params)
	})
}

// Complete performs the PICKED_UP -> COMPLETED transition, stores actual weights and
// creates the transaction, all or nothing
func (r *pickupRepository) Complete(params TransitionParams, items []*models.PickupItem, trx *models.Transaction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := r.transition(tx, params); err != nil {
			return err
		}

		for _, item := range items {
			err := tx.Model(&models.PickupItem{}).
				Where("id = ? AND pickup_id = ?", item.ID, params.ID).
				Updates(map[string]interface{}{
					"actual_weight_kg": item.ActualWeightKg,
					"price_per_kg":     item.PricePerKg,
					"subtotal":         item.Subtotal,
				}).Error
			if err != nil {
				return err
			}
		}

		return tx.Create(trx).Error
	})
}

// UpdateDriverLocation stores the driver position while the pickup is trackable and
// assigned to tpsID. ErrStaleStatus means neither holds any more.
func (r *pickupRepository) UpdateDriverLocation(id, tpsID uint, lat, lng float64, at time.Time) error {
	result := r.db.Model(&models.PickupRequest{}).
		Where("id = ? AND tps_id = ? AND status IN ?", id, tpsID, []models.PickupStatus{models.PickupAccepted, models.PickupOnTheWay}).
		Updates(map[string]interface{}{
			"driver_latitude":    lat,
			"driver_longitude":   lng,
			"driver_location_at": at,
			"updated_at":         at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

// ListHistory returns the status history oldest first
func (r *pickupRepository) ListHistory(pickupID uint) ([]*models.PickupStatusHistory, error) {
	var history []*models.PickupStatusHistory

	err := r.db.Where("pickup_id = ?", pickupID).Order("created_at, id").Find(&history).Error
	return history, err
}

// ListUpdatedSince returns pickups in scope changed after since, oldest change first,
// with their items attached
func (r *pickupRepository) ListUpdatedSince(filter PickupFilter, since time.Time, limit int) ([]*models.PickupRequest, error) {
	var pickups []*models.PickupRequest

	clause, args := filter.scopeClause()
	query := `SELECT * FROM pickup_requests WHERE updated_at > ? AND ` + clause + ` ORDER BY updated_at, id LIMIT ?`

	queryArgs := append([]interface{}{since}, args...)
	queryArgs = append(queryArgs, limit)

	if err := r.db.Raw(query, queryArgs...).Scan(&pickups).Error; err != nil {
		return nil, err
	}
	if len(pickups) == 0 {
		return pickups, nil
	}

	ids := make([]uint, len(pickups))
	byID := make(map[uint]*models.PickupRequest, len(pickups))
	for i, p := range pickups {
		ids[i] = p.ID
		byID[p.ID] = p
	}

	var items []models.PickupItem
	if err := r.db.Where("pickup_id IN ?", ids).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	for _, item := range items {
		if p, ok := byID[item.PickupID]; ok {
			p.Items = append(p.Items, item)
		}
	}

	return pickups, nil
}

// ListExpiredPending returns PENDING pickups created before the cutoff with an ID above afterID,
// in ID order
func (r *pickupRepository) ListExpiredPending(createdBefore time.Time, afterID uint, limit int) ([]*models.PickupRequest, error) {
	var pickups []*models.PickupRequest

	err := r.db.Where("status = ? AND created_at < ? AND id > ?", models.PickupPending, createdBefore, afterID).
		Order("id").
		Limit(limit).
		Find(&pickups).Error
	return pickups, err
}
