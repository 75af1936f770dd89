package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"goclean-be-svc/internal/models"
	"goclean-be-svc/internal/models/response"
	"goclean-be-svc/internal/repository"
	"goclean-be-svc/pkg/logger"
)

// SyncLimit caps each collection of a sync response
const SyncLimit = 200

// SyncService defines the interface for the polling-based incremental sync
type SyncService interface {
	Sync(actor Actor, since time.Time) (*response.SyncResponse, error)
}

// syncService implements SyncService
type syncService struct {
	pickupRepo       repository.PickupRepository
	trxRepo          repository.TransactionRepository
	notificationRepo repository.NotificationRepository
	tpsRepo          repository.TPSRepository
	logger           *logger.Logger
	now              func() time.Time
}

// NewSyncService creates a new instance of SyncService
func NewSyncService(
	pickupRepo repository.PickupRepository,
	trxRepo repository.TransactionRepository,
	notificationRepo repository.NotificationRepository,
	tpsRepo repository.TPSRepository,
	logger *logger.Logger,
) SyncService {
	return &syncService{
		pickupRepo:       pickupRepo,
		trxRepo:          trxRepo,
		notificationRepo: notificationRepo,
		tpsRepo:          tpsRepo,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// ParseSince accepts RFC3339 or unix seconds. An empty value is the zero time.
func ParseSince(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil && secs >= 0 {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: since must be RFC3339 or unix seconds", ErrInvalidInput)
}

// Sync returns everything in the caller's scope that changed after since. ServerTime is read
// before querying so rows written during the call are picked up by the next poll. When a
// collection holds more than SyncLimit changes, ServerTime moves back to the earliest cut.
func (s *syncService) Sync(actor Actor, since time.Time) (*response.SyncResponse, error) {
	serverTime := s.now()

	var pickupFilter repository.PickupFilter
	var trxFilter repository.TransactionFilter
	switch {
	case actor.IsAdmin():
	case actor.IsUser():
		userID := actor.UserID
		pickupFilter.UserID = &userID
		trxFilter.UserID = &userID
	case actor.IsTPS():
		tps, err := s.tpsRepo.GetByID(actor.TPSID)
		if err != nil {
			return nil, translateRepoError(err)
		}
		tpsID := tps.ID
		pickupFilter.TPSID = &tpsID
		pickupFilter.IncludePending = tps.IsVerified
		pickupFilter.PendingKecamatan = tps.Kecamatan
		trxFilter.TPSID = &tpsID
	default:
		return nil, ErrForbidden
	}

	pickups, err := s.pickupRepo.ListUpdatedSince(pickupFilter, since, SyncLimit+1)
	if err != nil {
		return nil, fmt.Errorf("failed to sync pickups: %w", err)
	}
	transactions, err := s.trxRepo.ListUpdatedSince(trxFilter, since, SyncLimit+1)
	if err != nil {
		return nil, fmt.Errorf("failed to sync transactions: %w", err)
	}
	notifications, err := s.notificationRepo.ListUpdatedSince(actor.UserID, since, SyncLimit+1)
	if err != nil {
		return nil, fmt.Errorf("failed to sync notifications: %w", err)
	}

	var cursor syncCursor
	pickups = clipSync(pickups, &cursor, func(p *models.PickupRequest) time.Time { return p.UpdatedAt })
	transactions = clipSync(transactions, &cursor, func(t *models.Transaction) time.Time { return t.UpdatedAt })
	notifications = clipSync(notifications, &cursor, func(n *models.Notification) time.Time { return n.UpdatedAt })
	if cursor.hasMore {
		serverTime = cursor.next
	}

	if pickups == nil {
		pickups = []*models.PickupRequest{}
	}
	if transactions == nil {
		transactions = []*models.Transaction{}
	}
	if notifications == nil {
		notifications = []*models.Notification{}
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":       actor.UserID,
		"since":         since,
		"pickups":       len(pickups),
		"transactions":  len(transactions),
		"notifications": len(notifications),
		"has_more":      cursor.hasMore,
	}).Debug("Sync served")

	return &response.SyncResponse{
		ServerTime:    serverTime,
		HasMore:       cursor.hasMore,
		Pickups:       pickups,
		Transactions:  transactions,
		Notifications: notifications,
	}, nil
}

// syncCursor is where the next poll resumes once a collection was cut off
type syncCursor struct {
	next    time.Time
	hasMore bool
}

// clipSync trims rows fetched with one extra to SyncLimit and pulls the cursor back to the
// last delivered change. Rows sharing that timestamp may lie past the cut, so the cursor
// sits a microsecond before it as long as the next page still starts past the first row.
func clipSync[T any](rows []T, cursor *syncCursor, updatedAt func(T) time.Time) []T {
	if len(rows) <= SyncLimit {
		return rows
	}
	rows = rows[:SyncLimit]

	resume := updatedAt(rows[SyncLimit-1])
	if stepped := resume.Add(-time.Microsecond); !updatedAt(rows[0]).After(stepped) {
		resume = stepped
	}
	if !cursor.hasMore || resume.Before(cursor.next) {
		cursor.next = resume
	}
	cursor.hasMore = true
	return rows
}
