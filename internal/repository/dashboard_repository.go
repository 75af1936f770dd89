package repository

import (
	"gorm.io/gorm"

	"goclean-be-svc/internal/models"
	"goclean-be-svc/internal/models/response"
)

// DashboardScope limits aggregates to one user or one TPS. Both nil means platform-wide.
type DashboardScope struct {
	UserID *uint
	TPSID  *uint
}

func (s DashboardScope) clause(alias string) (string, []interface{}) {
	clause := "1 = 1"
	var args []interface{}
	if s.UserID != nil {
		clause += " AND " + alias + ".user_id = ?"
		args = append(args, *s.UserID)
	}
	if s.TPSID != nil {
		clause += " AND " + alias + ".tps_id = ?"
		args = append(args, *s.TPSID)
	}
	return clause, args
}

// DashboardRepository defines the interface for dashboard data operations
type DashboardRepository interface {
	CountUsersByRole() ([]response.RoleCount, error)
	CountTPSByVerification() (verified int64, unverified int64, err error)
	CountPickupsByStatus(scope DashboardScope) ([]response.StatusCount, error)
	CountPickupsByKecamatan(limit int) ([]response.KecamatanCount, error)
	SumCompletedWeight(scope DashboardScope) (float64, error)
	SumPaidAmount(scope DashboardScope) (int64, error)
}

// dashboardRepository implements DashboardRepository
type dashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository creates a new instance of DashboardRepository
func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{
		db: db,
	}
}

// CountUsersByRole counts active and inactive accounts per role
func (r *dashboardRepository) CountUsersByRole() ([]response.RoleCount, error) {
	var result []response.RoleCount

	query := `
		SELECT role, COUNT(*) AS count
		FROM users
		GROUP BY role
		ORDER BY role
	`

	err := r.db.Raw(query).Scan(&result).Error
	return result, err
}

// CountTPSByVerification counts verified and unverified TPS profiles
func (r *dashboardRepository) CountTPSByVerification() (int64, int64, error) {
	var verified, unverified int64

	query := `
		SELECT
			COALESCE(SUM(CASE WHEN is_verified = ? THEN 1 ELSE 0 END), 0) AS verified,
			COALESCE(SUM(CASE WHEN is_verified = ? THEN 0 ELSE 1 END), 0) AS unverified
		FROM tps_profiles
	`

	if err := r.db.Raw(query, true, true).Row().Scan(&verified, &unverified); err != nil {
		return 0, 0, err
	}
	return verified, unverified, nil
}

// CountPickupsByStatus counts pickups per status within the scope
func (r *dashboardRepository) CountPickupsByStatus(scope DashboardScope) ([]response.StatusCount, error) {
	var result []response.StatusCount

	clause, args := scope.clause("p")
	query := `
		SELECT p.status AS status, COUNT(*) AS count
		FROM pickup_requests p
		WHERE ` + clause + `
		GROUP BY p.status
		ORDER BY p.status
	`

	err := r.db.Raw(query, args...).Scan(&result).Error
	return result, err
}

// CountPickupsByKecamatan returns the busiest kecamatan first
func (r *dashboardRepository) CountPickupsByKecamatan(limit int) ([]response.KecamatanCount, error) {
	var result []response.KecamatanCount

	query := `
		SELECT p.kecamatan AS kecamatan, COUNT(*) AS count
		FROM pickup_requests p
		WHERE p.kecamatan <> ''
		GROUP BY p.kecamatan
		ORDER BY count DESC, p.kecamatan
		LIMIT ?
	`

	err := r.db.Raw(query, limit).Scan(&result).Error
	return result, err
}

// SumCompletedWeight sums the weighed kilograms of completed pickups within the scope
func (r *dashboardRepository) SumCompletedWeight(scope DashboardScope) (float64, error) {
	var total float64

	clause, args := scope.clause("t")
	query := `
		SELECT COALESCE(SUM(t.total_weight_kg), 0)
		FROM transactions t
		WHERE ` + clause

	if err := r.db.Raw(query, args...).Row().Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// SumPaidAmount sums settled transaction totals within the scope
func (r *dashboardRepository) SumPaidAmount(scope DashboardScope) (int64, error) {
	var total int64

	clause, args := scope.clause("t")
	query := `
		SELECT COALESCE(SUM(t.total_amount), 0)
		FROM transactions t
		WHERE t.payment_status = ? AND ` + clause

	queryArgs := append([]interface{}{models.PaymentPaid}, args...)
	if err := r.db.Raw(query, queryArgs...).Row().Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
