package repository

import (
	"time"

	"gorm.io/gorm"

	"goclean-be-svc/internal/models"
	"goclean-be-svc/pkg/utils"
)

// NotificationRepository defines the interface for notification data operations
type NotificationRepository interface {
	CreateBatch(notifications []*models.Notification) error
	List(userID uint, unreadOnly bool, page, perPage int) ([]*models.Notification, int64, error)
	CountUnread(userID uint) (int64, error)
	MarkRead(userID, id uint, at time.Time) error
	MarkAllRead(userID uint, at time.Time) (int64, error)
	ListUpdatedSince(userID uint, since time.Time, limit int) ([]*models.Notification, error)
	DeleteReadBefore(cutoff time.Time) (int64, error)
}

// notificationRepository implements NotificationRepository
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new instance of NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{
		db: db,
	}
}

// CreateBatch inserts notifications in batches of 100
func (r *notificationRepository) CreateBatch(notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.CreateInBatches(notifications, 100).Error
}

// List retrieves a user's notifications newest first
func (r *notificationRepository) List(userID uint, unreadOnly bool, page, perPage int) ([]*models.Notification, int64, error) {
	var list []*models.Notification
	var total int64

	query := r.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

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

// CountUnread counts a user's unread notifications
func (r *notificationRepository) CountUnread(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", userID, false).Count(&count).Error
	return count, err
}

// MarkRead marks one notification read. gorm.ErrRecordNotFound means it does not belong to the user.
func (r *notificationRepository) MarkRead(userID, id uint, at time.Time) error {
	var n models.Notification
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&n).Error; err != nil {
		return err
	}
	if n.IsRead {
		return nil
	}

	return r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"is_read":    true,
			"read_at":    at,
			"updated_at": at,
		}).Error
}

// MarkAllRead marks every unread notification of a user read
func (r *notificationRepository) MarkAllRead(userID uint, at time.Time) (int64, error) {
	result := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read":    true,
			"read_at":    at,
			"updated_at": at,
		})
	return result.RowsAffected, result.Error
}

// ListUpdatedSince returns a user's notifications changed after since
func (r *notificationRepository) ListUpdatedSince(userID uint, since time.Time, limit int) ([]*models.Notification, error) {
	var list []*models.Notification

	err := r.db.Where("user_id = ? AND updated_at > ?", userID, since).
		Order("updated_at, id").
		Limit(limit).
		Find(&list).Error
	return list, err
}

// DeleteReadBefore removes read notifications created before the cutoff
func (r *notificationRepository) DeleteReadBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("is_read = ? AND created_at < ?", true, cutoff).Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}
