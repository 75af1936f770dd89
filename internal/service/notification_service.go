package service

import (
	"fmt"
	"time"

	"goclean-be-svc/internal/models"
	"goclean-be-svc/internal/repository"
	"goclean-be-svc/pkg/logger"
)

// NotificationService defines the interface for notification fan-out and inbox operations.
// The Notify* methods never fail the caller; errors are logged.
type NotificationService interface {
	NotifyPickupCreated(pickup *models.PickupRequest)
	NotifyPickupStatus(pickup *models.PickupRequest, actor Actor)
	NotifyPaymentReceived(transactions []*models.Transaction)
	NotifyTPSVerified(tps *models.TPSProfile)

	List(userID uint, unreadOnly bool, page, perPage int) ([]*models.Notification, int64, error)
	UnreadCount(userID uint) (int64, error)
	MarkRead(userID, id uint) error
	MarkAllRead(userID uint) (int64, error)
	DeleteReadOlderThan(days int) (int64, error)
}

// notificationService implements NotificationService
type notificationService struct {
	notificationRepo repository.NotificationRepository
	tpsRepo          repository.TPSRepository
	logger           *logger.Logger
	now              func() time.Time
}

// NewNotificationService creates a new instance of NotificationService
func NewNotificationService(notificationRepo repository.NotificationRepository, tpsRepo repository.TPSRepository, logger *logger.Logger) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		tpsRepo:          tpsRepo,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *notificationService) send(notifications []*models.Notification) {
	if len(notifications) == 0 {
		return
	}
	if err := s.notificationRepo.CreateBatch(notifications); err != nil {
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"type":  notifications[0].Type,
			"count": len(notifications),
		}).Error("Failed to store notifications")
		return
	}
	s.logger.WithFields(map[string]interface{}{
		"type":  notifications[0].Type,
		"count": len(notifications),
	}).Debug("Notifications sent")
}

// tpsUserID resolves the account that owns a TPS profile, zero when it cannot be found
func (s *notificationService) tpsUserID(tpsID *uint) uint {
	if tpsID == nil {
		return 0
	}
	tps, err := s.tpsRepo.GetByID(*tpsID)
	if err != nil {
		s.logger.WithError(err).WithField("tps_id", *tpsID).Warn("Failed to resolve TPS for notification")
		return 0
	}
	return tps.UserID
}

// NotifyPickupCreated notifies available TPS in the pickup's kecamatan, or every available TPS
// when none serve it
func (s *notificationService) NotifyPickupCreated(pickup *models.PickupRequest) {
	candidates, err := s.tpsRepo.ListAvailable(pickup.Kecamatan)
	if err == nil && len(candidates) == 0 && pickup.Kecamatan != "" {
		candidates, err = s.tpsRepo.ListAvailable("")
	}
	if err != nil {
		s.logger.WithError(err).WithField("pickup_id", pickup.ID).Error("Failed to list TPS for new pickup")
		return
	}

	pickupID := pickup.ID
	notifications := make([]*models.Notification, 0, len(candidates))
	for _, tps := range candidates {
		notifications = append(notifications, &models.Notification{
			UserID:   tps.UserID,
			Type:     models.NotifPickupCreated,
			Title:    "Permintaan penjemputan baru",
			Message:  fmt.Sprintf("Ada permintaan penjemputan baru di %s", pickup.Address),
			PickupID: &pickupID,
		})
	}
	s.send(notifications)
}

var pickupStatusMessages = map[models.PickupStatus]struct {
	typ   models.NotificationType
	title string
}{
	models.PickupAccepted:  {models.NotifPickupAccepted, "Penjemputan diterima"},
	models.PickupOnTheWay:  {models.NotifPickupOnTheWay, "Petugas dalam perjalanan"},
	models.PickupPickedUp:  {models.NotifPickupPickedUp, "Sampah telah dijemput"},
	models.PickupCompleted: {models.NotifPickupCompleted, "Penjemputan selesai"},
	models.PickupCancelled: {models.NotifPickupCancelled, "Penjemputan dibatalkan"},
}

// NotifyPickupStatus notifies the parties affected by the pickup's current status
func (s *notificationService) NotifyPickupStatus(pickup *models.PickupRequest, actor Actor) {
	msg, ok := pickupStatusMessages[pickup.Status]
	if !ok {
		return
	}

	var recipients []uint
	if pickup.Status == models.PickupCancelled {
		switch {
		case actor.IsUser():
			recipients = append(recipients, s.tpsUserID(pickup.TPSID))
		case actor.Role == models.RoleTPS:
			recipients = append(recipients, pickup.UserID)
		default:
			recipients = append(recipients, pickup.UserID, s.tpsUserID(pickup.TPSID))
		}
	} else {
		recipients = append(recipients, pickup.UserID)
	}

	pickupID := pickup.ID
	message := fmt.Sprintf("Status penjemputan #%d: %s", pickup.ID, pickup.Status)
	if pickup.Status == models.PickupCancelled && pickup.CancelReason != nil && *pickup.CancelReason != "" {
		message = fmt.Sprintf("%s (%s)", message, *pickup.CancelReason)
	}

	var notifications []*models.Notification
	for _, userID := range recipients {
		if userID == 0 || userID == actor.UserID {
			continue
		}
		notifications = append(notifications, &models.Notification{
			UserID:   userID,
			Type:     msg.typ,
			Title:    msg.title,
			Message:  message,
			PickupID: &pickupID,
		})
	}
	s.send(notifications)
}

// NotifyPaymentReceived notifies the owner and the TPS of every paid transaction
func (s *notificationService) NotifyPaymentReceived(transactions []*models.Transaction) {
	var notifications []*models.Notification
	for _, trx := range transactions {
		trxID := trx.ID
		pickupID := trx.PickupID
		tpsID := trx.TPSID
		message := fmt.Sprintf("Pembayaran Rp%d untuk penjemputan #%d telah diterima", trx.TotalAmount, trx.PickupID)

		for _, userID := range []uint{trx.UserID, s.tpsUserID(&tpsID)} {
			if userID == 0 {
				continue
			}
			notifications = append(notifications, &models.Notification{
				UserID:        userID,
				Type:          models.NotifPaymentReceived,
				Title:         "Pembayaran diterima",
				Message:       message,
				PickupID:      &pickupID,
				TransactionID: &trxID,
			})
		}
	}
	s.send(notifications)
}

// NotifyTPSVerified notifies the owner of a newly verified TPS
func (s *notificationService) NotifyTPSVerified(tps *models.TPSProfile) {
	s.send([]*models.Notification{{
		UserID:  tps.UserID,
		Type:    models.NotifTPSVerified,
		Title:   "TPS terverifikasi",
		Message: fmt.Sprintf("%s sudah terverifikasi dan dapat menerima penjemputan", tps.Name),
	}})
}

// List returns the caller's notifications, newest first
func (s *notificationService) List(userID uint, unreadOnly bool, page, perPage int) ([]*models.Notification, int64, error) {
	list, total, err := s.notificationRepo.List(userID, unreadOnly, page, perPage)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("Failed to list notifications")
		return nil, 0, err
	}
	return list, total, nil
}

func (s *notificationService) UnreadCount(userID uint) (int64, error) {
	return s.notificationRepo.CountUnread(userID)
}

// MarkRead marks one of the caller's notifications as read
func (s *notificationService) MarkRead(userID, id uint) error {
	if err := s.notificationRepo.MarkRead(userID, id, s.now()); err != nil {
		return translateRepoError(err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(userID uint) (int64, error) {
	return s.notificationRepo.MarkAllRead(userID, s.now())
}

// DeleteReadOlderThan removes read notifications older than the given number of days
func (s *notificationService) DeleteReadOlderThan(days int) (int64, error) {
	if days <= 0 {
		return 0, fmt.Errorf("%w: retention days must be positive", ErrInvalidInput)
	}
	cutoff := s.now().AddDate(0, 0, -days)
	deleted, err := s.notificationRepo.DeleteReadBefore(cutoff)
	if err != nil {
		return 0, err
	}
	s.logger.WithFields(map[string]interface{}{
		"deleted": deleted,
		"cutoff":  cutoff,
	}).Info("Old notifications deleted")
	return deleted, nil
}
