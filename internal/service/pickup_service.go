package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"goclean-be-svc/internal/cache"
	"goclean-be-svc/internal/models"
	"goclean-be-svc/internal/models/response"
	"goclean-be-svc/internal/repository"
	"goclean-be-svc/pkg/logger"
	"goclean-be-svc/pkg/utils"
)

// expireBatchSize bounds how many pickups one expiry run cancels per query
var expireBatchSize = 100

// CreatePickupRequest represents a new pickup request from a household user
type CreatePickupRequest struct {
	Address     string              `json:"address" binding:"required" example:"Jl. Melati No. 1"`
	Kecamatan   string              `json:"kecamatan" binding:"max=80" example:"Tebet"`
	Kelurahan   string              `json:"kelurahan" binding:"max=80" example:"Manggarai"`
	Latitude    float64             `json:"latitude" binding:"latitude" example:"-6.2261"`
	Longitude   float64             `json:"longitude" binding:"longitude" example:"106.8503"`
	ScheduledAt *time.Time          `json:"scheduled_at" example:"2026-05-01T09:00:00Z"`
	Notes       string              `json:"notes" example:"Di depan pagar hijau"`
	Items       []PickupItemRequest `json:"items" binding:"required,min=1,dive"`
}

// PickupItemRequest is one waste category line of a new pickup
type PickupItemRequest struct {
	WasteCategoryID   uint    `json:"waste_category_id" binding:"required" example:"1"`
	EstimatedWeightKg float64 `json:"estimated_weight_kg" binding:"gt=0" example:"2.5"`
}

// CompletePickupRequest carries the weighed amount of every pickup item
type CompletePickupRequest struct {
	Items []CompletePickupItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CompletePickupItemRequest is the actual weight of one pickup item
type CompletePickupItemRequest struct {
	ItemID         uint    `json:"item_id" binding:"required" example:"10"`
	ActualWeightKg float64 `json:"actual_weight_kg" binding:"gte=0" example:"2.8"`
}

// CancelPickupRequest represents a cancellation
type CancelPickupRequest struct {
	Reason string `json:"reason" binding:"max=255" example:"Tidak jadi"`
}

// UpdateLocationRequest is a driver position report
type UpdateLocationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required,latitude" example:"-6.2240"`
	Longitude *float64 `json:"longitude" binding:"required,longitude" example:"106.8490"`
}

// PickupService defines the interface for the pickup lifecycle, live tracking and attachments
type PickupService interface {
	CreatePickup(actor Actor, req *CreatePickupRequest) (*models.PickupRequest, error)
	GetPickup(actor Actor, id uint) (*models.PickupRequest, error)
	ListPickups(actor Actor, status *models.PickupStatus, page, perPage int) ([]*models.PickupRequest, int64, error)
	GetHistory(actor Actor, id uint) ([]*models.PickupStatusHistory, error)

	AcceptPickup(actor Actor, id uint) (*models.PickupRequest, error)
	StartPickup(actor Actor, id uint) (*models.PickupRequest, error)
	MarkPickedUp(actor Actor, id uint) (*models.PickupRequest, error)
	CompletePickup(actor Actor, id uint, req *CompletePickupRequest) (*response.CompletePickupResponse, error)
	CancelPickup(actor Actor, id uint, reason string) (*models.PickupRequest, error)
	ExpirePending(maxAge time.Duration) (int, error)

	UpdateLocation(ctx context.Context, actor Actor, id uint, lat, lng float64) (*response.LocationResponse, error)
	GetLocation(ctx context.Context, actor Actor, id uint) (*response.LocationResponse, error)

	UploadAttachment(actor Actor, id uint, filename string, content []byte) (*models.PickupAttachment, error)
	ListAttachments(actor Actor, id uint) ([]*models.PickupAttachment, error)
	AttachmentPath(actor Actor, id uint, name string) (string, error)
}

// PickupServiceConfig holds the storage settings of the pickup service
type PickupServiceConfig struct {
	UploadDir      string
	MaxUploadBytes int64
}

// pickupService implements PickupService
type pickupService struct {
	pickupRepo        repository.PickupRepository
	categoryRepo      repository.WasteCategoryRepository
	tpsRepo           repository.TPSRepository
	paymentConfigRepo repository.PaymentConfigRepository
	locations         cache.LocationCache
	notifications     NotificationService
	cfg               PickupServiceConfig
	logger            *logger.Logger
	now               func() time.Time
}

// NewPickupService creates a new instance of PickupService
func NewPickupService(
	pickupRepo repository.PickupRepository,
	categoryRepo repository.WasteCategoryRepository,
	tpsRepo repository.TPSRepository,
	paymentConfigRepo repository.PaymentConfigRepository,
	locations cache.LocationCache,
	notifications NotificationService,
	cfg PickupServiceConfig,
	logger *logger.Logger,
) PickupService {
	return &pickupService{
		pickupRepo:        pickupRepo,
		categoryRepo:      categoryRepo,
		tpsRepo:           tpsRepo,
		paymentConfigRepo: paymentConfigRepo,
		locations:         locations,
		notifications:     notifications,
		cfg:               cfg,
		logger:            logger,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// CreatePickup stores a PENDING pickup with its items and notifies the TPS that serve its area
func (s *pickupService) CreatePickup(actor Actor, req *CreatePickupRequest) (*models.PickupRequest, error) {
	if !actor.IsUser() {
		return nil, ErrForbidden
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Address) == "" {
		return nil, fmt.Errorf("%w: address is required", ErrInvalidInput)
	}

	ids := make([]uint, 0, len(req.Items))
	seen := map[uint]bool{}
	for _, item := range req.Items {
		if item.EstimatedWeightKg <= 0 {
			return nil, fmt.Errorf("%w: estimated weight must be positive", ErrInvalidInput)
		}
		if seen[item.WasteCategoryID] {
			return nil, fmt.Errorf("%w: category %d listed twice", ErrInvalidInput, item.WasteCategoryID)
		}
		seen[item.WasteCategoryID] = true
		ids = append(ids, item.WasteCategoryID)
	}

	categories, err := s.categoryRepo.GetByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	active := map[uint]bool{}
	for _, c := range categories {
		active[c.ID] = c.IsActive
	}

	pickup := &models.PickupRequest{
		DocumentID:  uuid.NewString(),
		UserID:      actor.UserID,
		Status:      models.PickupPending,
		Address:     strings.TrimSpace(req.Address),
		Kecamatan:   strings.TrimSpace(req.Kecamatan),
		Kelurahan:   strings.TrimSpace(req.Kelurahan),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		ScheduledAt: req.ScheduledAt,
		Notes:       req.Notes,
	}
	var total float64
	for _, item := range req.Items {
		if !active[item.WasteCategoryID] {
			return nil, fmt.Errorf("%w: category %d is not available", ErrInvalidInput, item.WasteCategoryID)
		}
		total += item.EstimatedWeightKg
		pickup.Items = append(pickup.Items, models.PickupItem{
			WasteCategoryID:   item.WasteCategoryID,
			EstimatedWeightKg: item.EstimatedWeightKg,
		})
	}
	pickup.EstimatedWeightKg = utils.RoundTo(total, 2)

	history := &models.PickupStatusHistory{
		ToStatus: models.PickupPending,
		ActorID:  actor.userIDPtr(),
		Note:     "created",
	}
	if err := s.pickupRepo.Create(pickup, history); err != nil {
		s.logger.WithError(err).WithField("user_id", actor.UserID).Error("Failed to create pickup")
		return nil, fmt.Errorf("failed to create pickup: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"pickup_id": pickup.ID,
		"user_id":   actor.UserID,
		"kecamatan": pickup.Kecamatan,
	}).Info("Pickup created")

	s.notifications.NotifyPickupCreated(pickup)

	created, err := s.pickupRepo.GetByID(pickup.ID)
	if err != nil {
		return pickup, nil
	}
	return created, nil
}

// actorTPS loads the caller's TPS profile
func (s *pickupService) actorTPS(actor Actor) (*models.TPSProfile, error) {
	if !actor.IsTPS() {
		return nil, ErrForbidden
	}
	tps, err := s.tpsRepo.GetByID(actor.TPSID)
	if err != nil {
		if translateRepoError(err) == ErrNotFound {
			return nil, ErrForbidden
		}
		return nil, err
	}
	return tps, nil
}

// canView applies the pickup read rules: owner, assigned TPS, admin, or any verified TPS while PENDING
func (s *pickupService) canView(actor Actor, pickup *models.PickupRequest) error {
	switch {
	case actor.IsAdmin():
		return nil
	case actor.IsUser() && pickup.UserID == actor.UserID:
		return nil
	case actor.IsTPS() && pickup.IsAssignedTo(actor.TPSID):
		return nil
	case actor.IsTPS() && pickup.Status == models.PickupPending:
		tps, err := s.actorTPS(actor)
		if err != nil {
			return err
		}
		if tps.IsVerified {
			return nil
		}
	}
	return ErrForbidden
}

func (s *pickupService) load(actor Actor, id uint) (*models.PickupRequest, error) {
	pickup, err := s.pickupRepo.GetByID(id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	if err := s.canView(actor, pickup); err != nil {
		return nil, err
	}
	return pickup, nil
}

func (s *pickupService) GetPickup(actor Actor, id uint) (*models.PickupRequest, error) {
	return s.load(actor, id)
}

// scopeFilter turns the caller's role into a pickup visibility filter
func (s *pickupService) scopeFilter(actor Actor) (repository.PickupFilter, error) {
	var filter repository.PickupFilter
	switch {
	case actor.IsAdmin():
	case actor.IsUser():
		userID := actor.UserID
		filter.UserID = &userID
	case actor.IsTPS():
		tps, err := s.actorTPS(actor)
		if err != nil {
			return filter, err
		}
		tpsID := tps.ID
		filter.TPSID = &tpsID
		filter.IncludePending = tps.IsVerified
		filter.PendingKecamatan = tps.Kecamatan
	default:
		return filter, ErrForbidden
	}
	return filter, nil
}

// ListPickups lists the pickups visible to the caller, newest first
func (s *pickupService) ListPickups(actor Actor, status *models.PickupStatus, page, perPage int) ([]*models.PickupRequest, int64, error) {
	if status != nil && !status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *status)
	}

	filter, err := s.scopeFilter(actor)
	if err != nil {
		return nil, 0, err
	}
	filter.Status = status

	list, total, err := s.pickupRepo.List(filter, page, perPage)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", actor.UserID).Error("Failed to list pickups")
		return nil, 0, err
	}
	return list, total, nil
}

func (s *pickupService) GetHistory(actor Actor, id uint) ([]*models.PickupStatusHistory, error) {
	if _, err := s.load(actor, id); err != nil {
		return nil, err
	}
	return s.pickupRepo.ListHistory(id)
}

// transition runs one compare-and-set status change and notifies the affected parties
func (s *pickupService) transition(actor Actor, pickup *models.PickupRequest, to models.PickupStatus, fields map[string]interface{}, note string) (*models.PickupRequest, error) {
	if !pickup.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, pickup.Status, to)
	}

	from := pickup.Status
	params := repository.TransitionParams{
		ID:     pickup.ID,
		From:   from,
		To:     to,
		Fields: fields,
		History: &models.PickupStatusHistory{
			FromStatus: &from,
			ToStatus:   to,
			ActorID:    actor.userIDPtr(),
			Note:       note,
		},
	}
	if actor.IsTPS() && from != models.PickupPending {
		tpsID := actor.TPSID
		params.RequireTPSID = &tpsID
	}

	if err := s.pickupRepo.Transition(params); err != nil {
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"pickup_id": pickup.ID,
			"from":      from,
			"to":        to,
		}).Warn("Pickup transition failed")
		return nil, translateRepoError(err)
	}

	s.logger.WithFields(map[string]interface{}{
		"pickup_id": pickup.ID,
		"from":      from,
		"to":        to,
		"actor_id":  actor.UserID,
	}).Info("Pickup status changed")

	updated, err := s.pickupRepo.GetByID(pickup.ID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	s.notifications.NotifyPickupStatus(updated, actor)
	return updated, nil
}

// assigned loads a pickup that must be assigned to the calling TPS
func (s *pickupService) assigned(actor Actor, id uint) (*models.PickupRequest, error) {
	if !actor.IsTPS() {
		return nil, ErrForbidden
	}
	pickup, err := s.pickupRepo.GetByID(id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	if !pickup.IsAssignedTo(actor.TPSID) {
		return nil, ErrForbidden
	}
	return pickup, nil
}

// AcceptPickup assigns a PENDING pickup to the calling verified TPS. Concurrent accepts have one winner.
func (s *pickupService) AcceptPickup(actor Actor, id uint) (*models.PickupRequest, error) {
	tps, err := s.actorTPS(actor)
	if err != nil {
		return nil, err
	}
	if !tps.IsVerified {
		return nil, fmt.Errorf("%w: TPS is not verified", ErrForbidden)
	}

	pickup, err := s.pickupRepo.GetByID(id)
	if err != nil {
		return nil, translateRepoError(err)
	}

	return s.transition(actor, pickup, models.PickupAccepted, map[string]interface{}{
		"tps_id":      tps.ID,
		"accepted_at": s.now(),
	}, "accepted")
}

func (s *pickupService) StartPickup(actor Actor, id uint) (*models.PickupRequest, error) {
	pickup, err := s.assigned(actor, id)
	if err != nil {
		return nil, err
	}
	return s.transition(actor, pickup, models.PickupOnTheWay, map[string]interface{}{
		"on_the_way_at": s.now(),
	}, "on the way")
}

func (s *pickupService) MarkPickedUp(actor Actor, id uint) (*models.PickupRequest, error) {
	pickup, err := s.assigned(actor, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.transition(actor, pickup, models.PickupPickedUp, map[string]interface{}{
		"picked_up_at": s.now(),
	}, "picked up")
	if err != nil {
		return nil, err
	}
	s.dropLocation(id)
	return updated, nil
}

// CompletePickup records actual weights, snapshots category prices and creates the
// transaction in the same database transaction as the status change
func (s *pickupService) CompletePickup(actor Actor, id uint, req *CompletePickupRequest) (*response.CompletePickupResponse, error) {
	pickup, err := s.assigned(actor, id)
	if err != nil {
		return nil, err
	}
	if !pickup.Status.CanTransitionTo(models.PickupCompleted) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, pickup.Status, models.PickupCompleted)
	}

	weights := map[uint]float64{}
	for _, item := range req.Items {
		if item.ActualWeightKg < 0 {
			return nil, fmt.Errorf("%w: weight cannot be negative", ErrInvalidInput)
		}
		weights[item.ItemID] = item.ActualWeightKg
	}
	if len(weights) != len(pickup.Items) {
		return nil, fmt.Errorf("%w: every pickup item needs exactly one actual weight", ErrInvalidInput)
	}

	var (
		items       []*models.PickupItem
		subtotal    int64
		totalWeight float64
	)
	for i := range pickup.Items {
		item := &pickup.Items[i]
		weight, ok := weights[item.ID]
		if !ok {
			return nil, fmt.Errorf("%w: missing weight for item %d", ErrInvalidInput, item.ID)
		}
		if item.WasteCategory == nil {
			return nil, fmt.Errorf("category %d of item %d not loaded", item.WasteCategoryID, item.ID)
		}

		price := item.WasteCategory.PricePerKg
		lineTotal := int64(math.Round(weight * float64(price)))
		item.ActualWeightKg = &weight
		item.PricePerKg = &price
		item.Subtotal = &lineTotal

		items = append(items, item)
		subtotal += lineTotal
		totalWeight += weight
	}

	fee := s.serviceFee()
	trx := &models.Transaction{
		DocumentID:    uuid.NewString(),
		PickupID:      pickup.ID,
		UserID:        pickup.UserID,
		TPSID:         actor.TPSID,
		TotalWeightKg: utils.RoundTo(totalWeight, 2),
		Subtotal:      subtotal,
		ServiceFee:    fee,
		TotalAmount:   subtotal + fee,
		PaymentStatus: models.PaymentUnpaid,
	}

	from := pickup.Status
	tpsID := actor.TPSID
	params := repository.TransitionParams{
		ID:           pickup.ID,
		From:         from,
		To:           models.PickupCompleted,
		RequireTPSID: &tpsID,
		Fields:       map[string]interface{}{"completed_at": s.now()},
		History: &models.PickupStatusHistory{
			FromStatus: &from,
			ToStatus:   models.PickupCompleted,
			ActorID:    actor.userIDPtr(),
			Note:       "completed",
		},
	}
	if err := s.pickupRepo.Complete(params, items, trx); err != nil {
		s.logger.WithError(err).WithField("pickup_id", pickup.ID).Error("Failed to complete pickup")
		return nil, translateRepoError(err)
	}

	s.logger.WithFields(map[string]interface{}{
		"pickup_id":      pickup.ID,
		"transaction_id": trx.ID,
		"total_amount":   trx.TotalAmount,
	}).Info("Pickup completed")

	updated, err := s.pickupRepo.GetByID(pickup.ID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	s.notifications.NotifyPickupStatus(updated, actor)

	return &response.CompletePickupResponse{Pickup: updated, Transaction: trx}, nil
}

// serviceFee returns the active fee, or 0 when none is configured
func (s *pickupService) serviceFee() int64 {
	fee, err := s.paymentConfigRepo.CurrentServiceFee()
	if err != nil {
		s.logger.WithError(err).Warn("Failed to read service fee, using zero")
		return 0
	}
	return fee
}

// CancelPickup cancels a non-terminal pickup. The owner, the assigned TPS and admins may cancel.
func (s *pickupService) CancelPickup(actor Actor, id uint, reason string) (*models.PickupRequest, error) {
	pickup, err := s.pickupRepo.GetByID(id)
	if err != nil {
		return nil, translateRepoError(err)
	}

	switch {
	case actor.IsAdmin():
	case actor.IsUser() && pickup.UserID == actor.UserID:
	case actor.IsTPS() && pickup.IsAssignedTo(actor.TPSID):
	default:
		return nil, ErrForbidden
	}

	reason = strings.TrimSpace(reason)
	fields := map[string]interface{}{
		"cancel_reason":   reason,
		"cancelled_by_id": actor.userIDPtr(),
		"cancelled_at":    s.now(),
	}
	updated, err := s.transition(actor, pickup, models.PickupCancelled, fields, reason)
	if err != nil {
		return nil, err
	}
	s.dropLocation(id)
	return updated, nil
}

// ExpirePending cancels PENDING pickups older than maxAge on behalf of the system
func (s *pickupService) ExpirePending(maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, fmt.Errorf("%w: max pending age must be positive", ErrInvalidInput)
	}
	cutoff := s.now().Add(-maxAge)

	expired := 0
	var lastID uint
	for {
		list, err := s.pickupRepo.ListExpiredPending(cutoff, lastID, expireBatchSize)
		if err != nil {
			return expired, fmt.Errorf("failed to list expired pickups: %w", err)
		}

		for _, pickup := range list {
			lastID = pickup.ID
			_, err := s.transition(SystemActor, pickup, models.PickupCancelled, map[string]interface{}{
				"cancel_reason": "expired",
				"cancelled_at":  s.now(),
			}, "expired")
			if err != nil {
				// accepted by a TPS in the meantime, or a storage error retried next run
				s.logger.WithError(err).WithField("pickup_id", pickup.ID).Warn("Failed to expire pickup")
				continue
			}
			expired++
		}

		if len(list) < expireBatchSize {
			break
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"expired": expired,
		"cutoff":  cutoff,
	}).Info("Pending pickups expired")
	return expired, nil
}

func (s *pickupService) dropLocation(pickupID uint) {
	if err := s.locations.Delete(context.Background(), pickupID); err != nil {
		s.logger.WithError(err).WithField("pickup_id", pickupID).Warn("Failed to drop cached location")
	}
}

// UpdateLocation records the driver position of a trackable pickup assigned to the caller
func (s *pickupService) UpdateLocation(ctx context.Context, actor Actor, id uint, lat, lng float64) (*response.LocationResponse, error) {
	pickup, err := s.assigned(actor, id)
	if err != nil {
		return nil, err
	}
	if !pickup.Status.IsTrackable() {
		return nil, fmt.Errorf("%w: location cannot be updated while %s", ErrInvalidTransition, pickup.Status)
	}

	at := s.now()
	if err := s.pickupRepo.UpdateDriverLocation(id, actor.TPSID, lat, lng, at); err != nil {
		return nil, translateRepoError(err)
	}

	source := response.LocationSourceDatabase
	if err := s.locations.Set(ctx, id, cache.Location{Latitude: lat, Longitude: lng, UpdatedAt: at}); err != nil {
		s.logger.WithError(err).WithField("pickup_id", id).Warn("Failed to cache driver location")
	} else {
		source = response.LocationSourceCache
	}

	return &response.LocationResponse{
		PickupID:   id,
		Latitude:   lat,
		Longitude:  lng,
		UpdatedAt:  at,
		DistanceKm: utils.RoundTo(utils.HaversineKm(lat, lng, pickup.Latitude, pickup.Longitude), 2),
		Source:     source,
	}, nil
}

// GetLocation returns the latest driver position, from the cache when available
func (s *pickupService) GetLocation(ctx context.Context, actor Actor, id uint) (*response.LocationResponse, error) {
	pickup, err := s.load(actor, id)
	if err != nil {
		return nil, err
	}

	result := &response.LocationResponse{PickupID: id}

	loc, ok, err := s.locations.Get(ctx, id)
	if err != nil {
		s.logger.WithError(err).WithField("pickup_id", id).Warn("Location cache unavailable, falling back to database")
	}
	switch {
	case err == nil && ok:
		result.Latitude = loc.Latitude
		result.Longitude = loc.Longitude
		result.UpdatedAt = loc.UpdatedAt
		result.Source = response.LocationSourceCache
	case pickup.DriverLatitude != nil && pickup.DriverLongitude != nil:
		result.Latitude = *pickup.DriverLatitude
		result.Longitude = *pickup.DriverLongitude
		if pickup.DriverLocationAt != nil {
			result.UpdatedAt = *pickup.DriverLocationAt
		}
		result.Source = response.LocationSourceDatabase
	default:
		return nil, ErrNotFound
	}

	result.DistanceKm = utils.RoundTo(utils.HaversineKm(result.Latitude, result.Longitude, pickup.Latitude, pickup.Longitude), 2)
	return result, nil
}
