package repository

import (
	"goclean-be-svc/internal/models"
	"goclean-be-svc/pkg/utils"

	"gorm.io/gorm"
)

// LogSchedulerRepository defines the interface for log scheduler data operations
type LogSchedulerRepository interface {
	CreateLogScheduler(log *models.LogScheduler) error
	List(code string, page, perPage int) ([]*models.LogScheduler, int64, error)
}

// logSchedulerRepository implements LogSchedulerRepository
type logSchedulerRepository struct {
	db *gorm.DB
}

// NewLogSchedulerRepository creates a new instance of LogSchedulerRepository
func NewLogSchedulerRepository(db *gorm.DB) LogSchedulerRepository {
	return &logSchedulerRepository{
		db: db,
	}
}

// CreateLogScheduler creates a new log scheduler record
func (r *logSchedulerRepository) CreateLogScheduler(log *models.LogScheduler) error {
	return r.db.Create(log).Error
}

// List retrieves scheduler logs newest first, optionally for one job code
func (r *logSchedulerRepository) List(code string, page, perPage int) ([]*models.LogScheduler, int64, error) {
	var logs []*models.LogScheduler
	var total int64

	query := r.db.Model(&models.LogScheduler{})
	if code != "" {
		query = query.Where("scheduler_code = ?", code)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("id DESC").Limit(perPage).Offset(utils.Offset(page, perPage)).Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
