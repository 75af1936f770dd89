package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goclean-be-svc/internal/cache"
	"goclean-be-svc/internal/models"
	"goclean-be-svc/internal/models/response"
	"goclean-be-svc/internal/repository"
)

func TestPickupService_CreatePickup(t *testing.T) {
	f := newFixture(t, nil)
	owner := f.user(t, "warga@test.id", "Tebet")
	tebet := f.tps(t, "tebet@tps.id", "Tebet", true)
	menteng := f.tps(t, "menteng@tps.id", "Menteng", true)
	plastic := f.category(t, "PLASTIC", 3000, true)
	glass := f.category(t, "GLASS", 1000, false)

	t.Run("only users create pickups", func(t *testing.T) {
		_, err := f.pickups.CreatePickup(tebet, &CreatePickupRequest{Address: "x", Items: []PickupItemRequest{{WasteCategoryID: plastic.ID, EstimatedWeightKg: 1}}})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("rejects inactive category", func(t *testing.T) {
		_, err := f.pickups.CreatePickup(owner, &CreatePickupRequest{Address: "x", Items: []PickupItemRequest{{WasteCategoryID: glass.ID, EstimatedWeightKg: 1}}})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects empty items and non-positive weight", func(t *testing.T) {
		_, err := f.pickups.CreatePickup(owner, &CreatePickupRequest{Address: "x"})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = f.pickups.CreatePickup(owner, &CreatePickupRequest{Address: "x", Items: []PickupItemRequest{{WasteCategoryID: plastic.ID, EstimatedWeightKg: 0}}})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("creates pending pickup and notifies TPS in kecamatan", func(t *testing.T) {
		p := f.createPickup(t, owner, "Tebet", plastic)
		assert.Equal(t, models.PickupPending, p.Status)
		assert.Nil(t, p.TPSID)
		require.Len(t, p.Items, 1)
		assert.Equal(t, 2.0, p.EstimatedWeightKg)

		history, err := f.pickups.GetHistory(owner, p.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, models.PickupPending, history[0].ToStatus)

		tebetInbox := f.notificationsOf(t, tebet.UserID)
		require.Len(t, tebetInbox, 1)
		assert.Equal(t, models.NotifPickupCreated, tebetInbox[0].Type)
		assert.Empty(t, f.notificationsOf(t, menteng.UserID))
	})

	t.Run("falls back to every TPS when none serve the kecamatan", func(t *testing.T) {
		f.createPickup(t, owner, "Cilandak", plastic)
		assert.Len(t, f.notificationsOf(t, menteng.UserID), 1)
	})
}

func TestPickupService_FullLifecycle(t *testing.T) {
	f := newFixture(t, nil)
	f.serviceFee(t, 2000)
	owner := f.user(t, "warga@test.id", "Tebet")
	tps := f.tps(t, "a@tps.id", "Tebet", true)
	plastic := f.category(t, "PLASTIC", 3000, true)
	paper := f.category(t, "PAPER", 1500, true)

	p := f.createPickup(t, owner, "Tebet", plastic, paper)

	accepted, err := f.pickups.AcceptPickup(tps, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PickupAccepted, accepted.Status)
	assert.True(t, accepted.IsAssignedTo(tps.TPSID))
	assert.NotNil(t, accepted.AcceptedAt)

	_, err = f.pickups.MarkPickedUp(tps, p.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition, "cannot skip ON_THE_WAY")

	started, err := f.pickups.StartPickup(tps, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PickupOnTheWay, started.Status)

	pickedUp, err := f.pickups.MarkPickedUp(tps, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PickupPickedUp, pickedUp.Status)

	var weights []CompletePickupItemRequest
	for _, item := range pickedUp.Items {
		w := 2.0
		if item.WasteCategoryID == paper.ID {
			w = 1.5
		}
		weights = append(weights, CompletePickupItemRequest{ItemID: item.ID, ActualWeightKg: w})
	}

	t.Run("complete requires every item", func(t *testing.T) {
		_, err := f.pickups.CompletePickup(tps, p.ID, &CompletePickupRequest{Items: weights[:1]})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	result, err := f.pickups.CompletePickup(tps, p.ID, &CompletePickupRequest{Items: weights})
	require.NoError(t, err)
	assert.Equal(t, models.PickupCompleted, result.Pickup.Status)

	trx := result.Transaction
	// 2 kg * 3000 + 1.5 kg * 1500
	assert.Equal(t, int64(8250), trx.Subtotal)
	assert.Equal(t, int64(2000), trx.ServiceFee)
	assert.Equal(t, int64(10250), trx.TotalAmount)
	assert.Equal(t, 3.5, trx.TotalWeightKg)
	assert.Equal(t, models.PaymentUnpaid, trx.PaymentStatus)

	for _, item := range result.Pickup.Items {
		require.NotNil(t, item.PricePerKg)
		require.NotNil(t, item.Subtotal)
	}

	t.Run("terminal state rejects further transitions", func(t *testing.T) {
		_, err := f.pickups.CancelPickup(owner, p.ID, "late")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	history, err := f.pickups.GetHistory(owner, p.ID)
	require.NoError(t, err)
	var statuses []models.PickupStatus
	for _, h := range history {
		statuses = append(statuses, h.ToStatus)
	}
	assert.Equal(t, []models.PickupStatus{
		models.PickupPending, models.PickupAccepted, models.PickupOnTheWay, models.PickupPickedUp, models.PickupCompleted,
	}, statuses)

	ownerInbox := f.notificationsOf(t, owner.UserID)
	assert.Len(t, ownerInbox, 4)
}

func TestPickupService_AcceptRules(t *testing.T) {
	f := newFixture(t, nil)
	owner := f.user(t, "warga@test.id", "Tebet")
	first := f.tps(t, "a@tps.id", "Tebet", true)
	second := f.tps(t, "b@tps.id", "Tebet", true)
	unverified := f.tps(t, "c@tps.id", "Tebet", false)
	plastic := f.category(t, "PLASTIC", 3000, true)
	p := f.createPickup(t, owner, "Tebet", plastic)

	_, err := f.pickups.AcceptPickup(unverified, p.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.pickups.AcceptPickup(owner, p.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.pickups.AcceptPickup(first, p.ID)
	require.NoError(t, err)

	_, err = f.pickups.AcceptPickup(second, p.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.pickups.StartPickup(second, p.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	t.Run("visibility", func(t *testing.T) {
		_, err := f.pickups.GetPickup(second, p.ID)
		assert.ErrorIs(t, err, ErrForbidden, "no longer pending and not assigned")

		_, err = f.pickups.GetPickup(first, p.ID)
		assert.NoError(t, err)

		stranger := f.user(t, "other@test.id", "Tebet")
		_, err = f.pickups.GetPickup(stranger, p.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestPickupService_ConcurrentAcceptHasOneWinner(t *testing.T) {
	f := newFixture(t, nil)
	owner := f.user(t, "warga@test.id", "Tebet")
	first := f.tps(t, "a@tps.id", "Tebet", true)
	second := f.tps(t, "b@tps.id", "Tebet", true)
	plastic := f.category(t, "PLASTIC", 3000, true)
	p := f.createPickup(t, owner, "Tebet", plastic)

	// both callers read the pickup while it is still PENDING
	stale, err := f.pickupRepo.GetByID(p.ID)
	require.NoError(t, err)
	svc := f.pickups.(*pickupService)

	_, err = svc.transition(first, stale, models.PickupAccepted, map[string]interface{}{"tps_id": first.TPSID}, "accepted")
	require.NoError(t, err)
	_, err = svc.transition(second, stale, models.PickupAccepted, map[string]interface{}{"tps_id": second.TPSID}, "accepted")
	assert.ErrorIs(t, err, ErrConflict)

	got, err := f.pickupRepo.GetByID(p.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAssignedTo(first.TPSID))
}

func TestPickupService_Cancel(t *testing.T) {
	f := newFixture(t, nil)
	owner := f.user(t, "warga@test.id", "Tebet")
	tps := f.tps(t, "a@tps.id", "Tebet", true)
	plastic := f.category(t, "PLASTIC", 3000, true)

	t.Run("owner cancels accepted pickup and TPS is notified", func(t *testing.T) {
		p := f.createPickup(t, owner, "Tebet", plastic)
		_, err := f.pickups.AcceptPickup(tps, p.ID)
		require.NoError(t, err)
		before := len(f.notificationsOf(t, tps.UserID))

		cancelled, err := f.pickups.CancelPickup(owner, p.ID, "berubah pikiran")
		require.NoError(t, err)
		assert.Equal(t, models.PickupCancelled, cancelled.Status)
		require.NotNil(t, cancelled.CancelReason)
		assert.Equal(t, "berubah pikiran", *cancelled.CancelReason)
		require.NotNil(t, cancelled.CancelledByID)
		assert.Equal(t, owner.UserID, *cancelled.CancelledByID)

		inbox := f.notificationsOf(t, tps.UserID)
		require.Len(t, inbox, before+1)
		assert.Equal(t, models.NotifPickupCancelled, inbox[0].Type)
	})

	t.Run("other user cannot cancel", func(t *testing.T) {
		p := f.createPickup(t, owner, "Tebet", plastic)
		stranger := f.user(t, "x@test.id", "Tebet")
		_, err := f.pickups.CancelPickup(stranger, p.ID, "")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("picked up pickup cannot be cancelled", func(t *testing.T) {
		p := f.createPickup(t, owner, "Tebet", plastic)
		_, err := f.pickups.AcceptPickup(tps, p.ID)
		require.NoError(t, err)
		_, err = f.pickups.StartPickup(tps, p.ID)
		require.NoError(t, err)
		_, err = f.pickups.MarkPickedUp(tps, p.ID)
		require.NoError(t, err)

		_, err = f.pickups.CancelPickup(tps, p.ID, "")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("admin cancels and both parties are notified", func(t *testing.T) {
		admin := f.admin(t)
		p := f.createPickup(t, owner, "Tebet", plastic)
		_, err := f.pickups.AcceptPickup(tps, p.ID)
		require.NoError(t, err)
		ownerBefore := len(f.notificationsOf(t, owner.UserID))
		tpsBefore := len(f.notificationsOf(t, tps.UserID))

		_, err = f.pickups.CancelPickup(admin, p.ID, "duplikat")
		require.NoError(t, err)
		assert.Len(t, f.notificationsOf(t, owner.UserID), ownerBefore+1)
		assert.Len(t, f.notificationsOf(t, tps.UserID), tpsBefore+1)
	})
}

func TestPickupService_ListScopes(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.user(t, "alice@test.id", "Tebet")
	bob := f.user(t, "bob@test.id", "Menteng")
	tps := f.tps(t, "a@tps.id", "Tebet", true)
	admin := f.admin(t)
	plastic := f.category(t, "PLASTIC", 3000, true)

	f.createPickup(t, alice, "Tebet", plastic)
	f.createPickup(t, bob, "Menteng", plastic)

	list, total, err := f.pickups.ListPickups(alice, nil, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, alice.UserID, list[0].UserID)

	_, total, err = f.pickups.ListPickups(tps, nil, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = f.pickups.ListPickups(admin, nil, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	bad := models.PickupStatus("LOST")
	_, _, err = f.pickups.ListPickups(admin, &bad, 1, 20)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPickupService_UnverifiedTPSSeesNoPendingPickups(t *testing.T) {
	f := newFixture(t, nil)
	owner := f.user(t, "warga@test.id", "Tebet")
	pending := f.tps(t, "new@tps.id", "Tebet", false)
	plastic := f.category(t, "PLASTIC", 3000, true)

	p := f.createPickup(t, owner, "Tebet", plastic)

	_, err := f.pickups.GetPickup(pending, p.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	list, total, err := f.pickups.ListPickups(pending, nil, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, list)

	sync := NewSyncService(f.pickupRepo, f.trxRepo, f.notifRepo, f.tpsRepo, f.log)
	res, err := sync.Sync(pending, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, res.Pickups)
}

func TestPickupService_ExpirePending(t *testing.T) {
	f := newFixture(t, nil)
	owner := f.user(t, "warga@test.id", "Tebet")
	tps := f.tps(t, "a@tps.id", "Tebet", true)
	plastic := f.category(t, "PLASTIC", 3000, true)

	old := f.createPickup(t, owner, "Tebet", plastic)
	fresh := f.createPickup(t, owner, "Tebet", plastic)
	acceptedOld := f.createPickup(t, owner, "Tebet", plastic)
	_, err := f.pickups.AcceptPickup(tps, acceptedOld.ID)
	require.NoError(t, err)

	past := time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, f.db.Model(&models.PickupRequest{}).Where("id IN ?", []uint{old.ID, acceptedOld.ID}).Update("created_at", past).Error)

	n, err := f.pickups.ExpirePending(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.pickupRepo.GetByID(old.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PickupCancelled, got.Status)
	require.NotNil(t, got.CancelReason)
	assert.Equal(t, "expired", *got.CancelReason)
	assert.Nil(t, got.CancelledByID)

	got, err = f.pickupRepo.GetByID(fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PickupPending, got.Status)

	got, err = f.pickupRepo.GetByID(acceptedOld.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PickupAccepted, got.Status)

	_, err = f.pickups.ExpirePending(0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// stuckPickups fails every transition of the listed pickups
type stuckPickups struct {
	repository.PickupRepository
	stuck map[uint]bool
}

func (r *stuckPickups) Transition(params repository.TransitionParams) error {
	if r.stuck[params.ID] {
		return repository.ErrStaleStatus
	}
	return r.PickupRepository.Transition(params)
}

func TestPickupService_ExpirePendingPastFailedBatch(t *testing.T) {
	f := newFixture(t, nil)
	owner := f.user(t, "warga@test.id", "Tebet")
	plastic := f.category(t, "PLASTIC", 3000, true)

	prev := expireBatchSize
	expireBatchSize = 2
	t.Cleanup(func() { expireBatchSize = prev })

	var ids []uint
	for i := 0; i < 5; i++ {
		ids = append(ids, f.createPickup(t, owner, "Tebet", plastic).ID)
	}
	past := time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, f.db.Model(&models.PickupRequest{}).Where("id IN ?", ids).Update("created_at", past).Error)

	repo := &stuckPickups{PickupRepository: f.pickupRepo, stuck: map[uint]bool{ids[0]: true, ids[1]: true}}
	svc := NewPickupService(repo, f.categoryRepo, f.tpsRepo, repository.NewPaymentConfigRepository(f.db),
		cache.NewNopLocationCache(), f.notifications, PickupServiceConfig{UploadDir: t.TempDir(), MaxUploadBytes: 1024}, f.log)

	n, err := svc.ExpirePending(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for i, id := range ids {
		got, err := f.pickupRepo.GetByID(id)
		require.NoError(t, err)
		if i < 2 {
			assert.Equal(t, models.PickupPending, got.Status)
		} else {
			assert.Equal(t, models.PickupCancelled, got.Status)
		}
	}
}

func TestPickupService_Location(t *testing.T) {
	mr := miniredis.RunT(t)
	locations, err := cache.NewRedisLocationCache(context.Background(), mr.Addr(), "", 0, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = locations.Close() })

	f := newFixture(t, locations)
	owner := f.user(t, "warga@test.id", "Tebet")
	tps := f.tps(t, "a@tps.id", "Tebet", true)
	other := f.tps(t, "b@tps.id", "Tebet", true)
	plastic := f.category(t, "PLASTIC", 3000, true)
	p := f.createPickup(t, owner, "Tebet", plastic)
	ctx := context.Background()

	_, err = f.pickups.GetLocation(ctx, owner, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.pickups.AcceptPickup(tps, p.ID)
	require.NoError(t, err)

	_, err = f.pickups.UpdateLocation(ctx, other, p.ID, -6.22, 106.85)
	assert.ErrorIs(t, err, ErrForbidden)

	loc, err := f.pickups.UpdateLocation(ctx, tps, p.ID, -6.2240, 106.8490)
	require.NoError(t, err)
	assert.Equal(t, response.LocationSourceCache, loc.Source)
	assert.Greater(t, loc.DistanceKm, 0.0)
	assert.True(t, mr.Exists("pickup:1:location"))

	got, err := f.pickups.GetLocation(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, response.LocationSourceCache, got.Source)
	assert.Equal(t, -6.2240, got.Latitude)

	t.Run("falls back to database after cache expiry", func(t *testing.T) {
		mr.FastForward(2 * time.Minute)
		got, err := f.pickups.GetLocation(ctx, owner, p.ID)
		require.NoError(t, err)
		assert.Equal(t, response.LocationSourceDatabase, got.Source)
		assert.Equal(t, 106.8490, got.Longitude)
	})

	t.Run("picked up pickups are no longer trackable", func(t *testing.T) {
		_, err := f.pickups.StartPickup(tps, p.ID)
		require.NoError(t, err)
		_, err = f.pickups.UpdateLocation(ctx, tps, p.ID, -6.2230, 106.8480)
		require.NoError(t, err)

		_, err = f.pickups.MarkPickedUp(tps, p.ID)
		require.NoError(t, err)
		assert.False(t, mr.Exists("pickup:1:location"))

		_, err = f.pickups.UpdateLocation(ctx, tps, p.ID, -6.2230, 106.8480)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestPickupService_Attachments(t *testing.T) {
	f := newFixture(t, nil)
	owner := f.user(t, "warga@test.id", "Tebet")
	stranger := f.user(t, "x@test.id", "Tebet")
	plastic := f.category(t, "PLASTIC", 3000, true)
	p := f.createPickup(t, owner, "Tebet", plastic)

	att, err := f.pickups.UploadAttachment(owner, p.ID, "../foto sampah.jpg", []byte("jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "foto_sampah.jpg", att.FileName)
	assert.Contains(t, att.Name, "_foto_sampah.jpg")

	_, err = f.pickups.UploadAttachment(owner, p.ID, "big.jpg", make([]byte, 2048))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.pickups.UploadAttachment(stranger, p.ID, "x.jpg", []byte("x"))
	assert.ErrorIs(t, err, ErrForbidden)

	list, err := f.pickups.ListAttachments(owner, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "foto_sampah.jpg", list[0].FileName)

	path, err := f.pickups.AttachmentPath(owner, p.ID, att.Name)
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(content))

	_, err = f.pickups.AttachmentPath(owner, p.ID, "../../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.pickups.AttachmentPath(owner, p.ID, "missing.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
}
