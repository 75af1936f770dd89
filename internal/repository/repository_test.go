package repository

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"goclean-be-svc/internal/database"
	"goclean-be-svc/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a new database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func uintPtr(v uint) *uint { return &v }

func seedUser(t *testing.T, db *gorm.DB, email string, role models.Role, kecamatan string) *models.User {
	t.Helper()
	u := &models.User{
		DocumentID:   "doc-" + email,
		Name:         email,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		Kecamatan:    kecamatan,
		IsActive:     true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedTPS(t *testing.T, db *gorm.DB, email, kecamatan string, verified bool) (*models.User, *models.TPSProfile) {
	t.Helper()
	u := seedUser(t, db, email, models.RoleTPS, kecamatan)
	tps := &models.TPSProfile{UserID: u.ID, Name: "TPS " + email, Kecamatan: kecamatan, Kelurahan: "K1", IsVerified: verified, IsOpen: true}
	require.NoError(t, db.Create(tps).Error)
	return u, tps
}

func seedPickup(t *testing.T, db *gorm.DB, userID uint, kecamatan string, status models.PickupStatus) *models.PickupRequest {
	t.Helper()
	cat := &models.WasteCategory{Code: "C" + time.Now().Format("150405.000000000"), Name: "Plastik", PricePerKg: 3000, IsActive: true}
	require.NoError(t, db.Create(cat).Error)

	p := &models.PickupRequest{
		DocumentID: "pickup-" + time.Now().Format("150405.000000000"),
		UserID:     userID,
		Status:     status,
		Address:    "Jl. Melati 1",
		Kecamatan:  kecamatan,
		Items:      []models.PickupItem{{WasteCategoryID: cat.ID, EstimatedWeightKg: 2}},
	}
	repo := NewPickupRepository(db)
	require.NoError(t, repo.Create(p, &models.PickupStatusHistory{ToStatus: status}))
	return p
}

func TestPickupRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewPickupRepository(db)
	user := seedUser(t, db, "warga@test.id", models.RoleUser, "Tebet")

	p := seedPickup(t, db, user.ID, "Tebet", models.PickupPending)

	got, err := repo.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PickupPending, got.Status)
	require.Len(t, got.Items, 1)
	require.NotNil(t, got.Items[0].WasteCategory)
	assert.Equal(t, "Plastik", got.Items[0].WasteCategory.Name)

	history, err := repo.ListHistory(p.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.PickupPending, history[0].ToStatus)

	_, err = repo.GetByID(9999)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestPickupRepository_TransitionIsCompareAndSet(t *testing.T) {
	db := newTestDB(t)
	repo := NewPickupRepository(db)
	user := seedUser(t, db, "warga@test.id", models.RoleUser, "Tebet")
	_, tpsA := seedTPS(t, db, "a@tps.id", "Tebet", true)
	_, tpsB := seedTPS(t, db, "b@tps.id", "Tebet", true)
	p := seedPickup(t, db, user.ID, "Tebet", models.PickupPending)

	accept := func(tpsID uint) error {
		return repo.Transition(TransitionParams{
			ID:      p.ID,
			From:    models.PickupPending,
			To:      models.PickupAccepted,
			Fields:  map[string]interface{}{"tps_id": tpsID},
			History: &models.PickupStatusHistory{ToStatus: models.PickupAccepted, ActorID: uintPtr(tpsID)},
		})
	}

	require.NoError(t, accept(tpsA.ID))
	err := accept(tpsB.ID)
	assert.ErrorIs(t, err, ErrStaleStatus)

	got, err := repo.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PickupAccepted, got.Status)
	assert.True(t, got.IsAssignedTo(tpsA.ID))

	history, err := repo.ListHistory(p.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2, "the losing accept must not leave a history row")

	t.Run("requires assigned TPS", func(t *testing.T) {
		err := repo.Transition(TransitionParams{
			ID:           p.ID,
			From:         models.PickupAccepted,
			To:           models.PickupOnTheWay,
			RequireTPSID: uintPtr(tpsB.ID),
		})
		assert.ErrorIs(t, err, ErrStaleStatus)
	})
}

func TestPickupRepository_Complete(t *testing.T) {
	db := newTestDB(t)
	repo := NewPickupRepository(db)
	user := seedUser(t, db, "warga@test.id", models.RoleUser, "Tebet")
	_, tps := seedTPS(t, db, "a@tps.id", "Tebet", true)
	p := seedPickup(t, db, user.ID, "Tebet", models.PickupPickedUp)
	require.NoError(t, db.Model(&models.PickupRequest{}).Where("id = ?", p.ID).Update("tps_id", tps.ID).Error)

	weight := 2.5
	price := int64(3000)
	subtotal := int64(7500)
	items := []*models.PickupItem{{ID: p.Items[0].ID, ActualWeightKg: &weight, PricePerKg: &price, Subtotal: &subtotal}}
	trx := &models.Transaction{DocumentID: "trx-1", PickupID: p.ID, UserID: user.ID, TPSID: tps.ID, TotalWeightKg: weight, Subtotal: subtotal, TotalAmount: subtotal, PaymentStatus: models.PaymentUnpaid}

	err := repo.Complete(TransitionParams{ID: p.ID, From: models.PickupPickedUp, To: models.PickupCompleted, RequireTPSID: uintPtr(tps.ID)}, items, trx)
	require.NoError(t, err)
	assert.NotZero(t, trx.ID)

	got, err := repo.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PickupCompleted, got.Status)
	require.NotNil(t, got.Items[0].Subtotal)
	assert.Equal(t, int64(7500), *got.Items[0].Subtotal)

	t.Run("second completion rolls back", func(t *testing.T) {
		dup := &models.Transaction{DocumentID: "trx-2", PickupID: p.ID, UserID: user.ID, TPSID: tps.ID, PaymentStatus: models.PaymentUnpaid}
		err := repo.Complete(TransitionParams{ID: p.ID, From: models.PickupPickedUp, To: models.PickupCompleted}, nil, dup)
		assert.ErrorIs(t, err, ErrStaleStatus)

		var count int64
		require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestPickupRepository_UpdateDriverLocation(t *testing.T) {
	db := newTestDB(t)
	repo := NewPickupRepository(db)
	user := seedUser(t, db, "warga@test.id", models.RoleUser, "Tebet")
	_, tps := seedTPS(t, db, "a@tps.id", "Tebet", true)
	p := seedPickup(t, db, user.ID, "Tebet", models.PickupOnTheWay)
	require.NoError(t, db.Model(&models.PickupRequest{}).Where("id = ?", p.ID).Update("tps_id", tps.ID).Error)

	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateDriverLocation(p.ID, tps.ID, -6.22, 106.85, at))

	got, err := repo.GetByID(p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DriverLatitude)
	assert.Equal(t, -6.22, *got.DriverLatitude)

	assert.ErrorIs(t, repo.UpdateDriverLocation(p.ID, tps.ID+100, 0, 0, at), ErrStaleStatus)

	require.NoError(t, db.Model(&models.PickupRequest{}).Where("id = ?", p.ID).Update("status", models.PickupPickedUp).Error)
	assert.ErrorIs(t, repo.UpdateDriverLocation(p.ID, tps.ID, 0, 0, at), ErrStaleStatus)
}

func TestPickupRepository_ScopesAndSync(t *testing.T) {
	db := newTestDB(t)
	repo := NewPickupRepository(db)
	alice := seedUser(t, db, "alice@test.id", models.RoleUser, "Tebet")
	bob := seedUser(t, db, "bob@test.id", models.RoleUser, "Menteng")
	_, tps := seedTPS(t, db, "a@tps.id", "Tebet", true)

	pTebet := seedPickup(t, db, alice.ID, "Tebet", models.PickupPending)
	pMenteng := seedPickup(t, db, bob.ID, "Menteng", models.PickupPending)
	pAssigned := seedPickup(t, db, bob.ID, "Menteng", models.PickupAccepted)
	require.NoError(t, db.Model(&models.PickupRequest{}).Where("id = ?", pAssigned.ID).Update("tps_id", tps.ID).Error)

	t.Run("user sees own", func(t *testing.T) {
		list, total, err := repo.List(PickupFilter{UserID: &bob.ID}, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, list, 2)
	})

	t.Run("tps sees assigned plus pending in kecamatan", func(t *testing.T) {
		list, total, err := repo.List(PickupFilter{TPSID: &tps.ID, IncludePending: true, PendingKecamatan: "Tebet"}, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		ids := []uint{list[0].ID, list[1].ID}
		assert.ElementsMatch(t, []uint{pTebet.ID, pAssigned.ID}, ids)
		assert.NotContains(t, ids, pMenteng.ID)
	})

	t.Run("tps without pending sees only assigned", func(t *testing.T) {
		list, total, err := repo.List(PickupFilter{TPSID: &tps.ID, PendingKecamatan: "Tebet"}, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, list, 1)
		assert.Equal(t, pAssigned.ID, list[0].ID)
	})

	t.Run("sync returns rows changed after since", func(t *testing.T) {
		old := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		recent := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
		require.NoError(t, db.Model(&models.PickupRequest{}).Where("id IN ?", []uint{pTebet.ID, pMenteng.ID}).Update("updated_at", old).Error)
		require.NoError(t, db.Model(&models.PickupRequest{}).Where("id = ?", pAssigned.ID).Update("updated_at", recent).Error)

		list, err := repo.ListUpdatedSince(PickupFilter{}, old.Add(time.Hour), 50)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, pAssigned.ID, list[0].ID)
		assert.Len(t, list[0].Items, 1)

		list, err = repo.ListUpdatedSince(PickupFilter{UserID: &alice.ID}, time.Time{}, 50)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, pTebet.ID, list[0].ID)
	})

	t.Run("expired pending", func(t *testing.T) {
		require.NoError(t, db.Model(&models.PickupRequest{}).Where("id = ?", pTebet.ID).Update("created_at", time.Now().UTC().Add(-48*time.Hour)).Error)
		list, err := repo.ListExpiredPending(time.Now().UTC().Add(-24*time.Hour), 0, 10)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, pTebet.ID, list[0].ID)

		list, err = repo.ListExpiredPending(time.Now().UTC().Add(-24*time.Hour), pTebet.ID, 10)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestTransactionRepository_MarkPaidIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)

	for i, status := range []models.PaymentStatus{models.PaymentPending, models.PaymentPaid, models.PaymentUnpaid} {
		trx := &models.Transaction{DocumentID: "trx-" + string(status), PickupID: uint(i + 1), UserID: 1, TPSID: 1, TotalAmount: 1000, PaymentStatus: status}
		require.NoError(t, db.Create(trx).Error)
	}

	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	ref := "mayar-123"
	changed, err := repo.MarkPaid([]uint{1, 2}, models.PaymentOnline, &ref, now)
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, changed)

	changed, err = repo.MarkPaid([]uint{1, 2}, models.PaymentOnline, &ref, now)
	require.NoError(t, err)
	assert.Empty(t, changed)

	got, err := repo.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, got.PaymentStatus)
	require.NotNil(t, got.PaymentReference)
	assert.Equal(t, "mayar-123", *got.PaymentReference)

	t.Run("mark pending only touches payable rows", func(t *testing.T) {
		require.NoError(t, repo.MarkPending([]uint{2, 3}, "https://pay.test/x", "ref"))
		paid, err := repo.GetByID(2)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentPaid, paid.PaymentStatus)
		pending, err := repo.GetByID(3)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentPending, pending.PaymentStatus)
	})
}

func TestTransactionRepository_OverlappingMarkPaidClaimsOnce(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)

	trx := &models.Transaction{DocumentID: "trx-1", PickupID: 1, UserID: 1, TPSID: 1, TotalAmount: 1000, PaymentStatus: models.PaymentPending}
	require.NoError(t, db.Create(trx).Error)

	const callers = 8
	var wg sync.WaitGroup
	results := make([][]uint, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = repo.MarkPaid([]uint{trx.ID}, models.PaymentOnline, nil, time.Now().UTC())
		}(i)
	}
	wg.Wait()

	claimed := 0
	for i := range results {
		require.NoError(t, errs[i])
		claimed += len(results[i])
	}
	assert.Equal(t, 1, claimed)
}

func TestPaymentConfigRepository_ServiceFee(t *testing.T) {
	db := newTestDB(t)
	repo := NewPaymentConfigRepository(db)

	fee, err := repo.CurrentServiceFee()
	require.NoError(t, err)
	assert.Equal(t, int64(0), fee)

	_, err = repo.SetServiceFee(2000)
	require.NoError(t, err)
	current, err := repo.SetServiceFee(2500)
	require.NoError(t, err)
	assert.True(t, current.IsActive)

	fee, err = repo.CurrentServiceFee()
	require.NoError(t, err)
	assert.Equal(t, int64(2500), fee)

	var active int64
	require.NoError(t, db.Model(&models.PaymentConfig{}).Where("is_active = ?", true).Count(&active).Error)
	assert.Equal(t, int64(1), active)
}

func TestNotificationRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)

	require.NoError(t, repo.CreateBatch([]*models.Notification{
		{UserID: 1, Type: models.NotifPickupAccepted, Title: "a"},
		{UserID: 1, Type: models.NotifPickupOnTheWay, Title: "b"},
		{UserID: 2, Type: models.NotifPickupCreated, Title: "c"},
	}))

	count, err := repo.CountUnread(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	list, total, err := repo.List(1, true, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 2)

	now := time.Now().UTC()
	assert.ErrorIs(t, repo.MarkRead(2, list[0].ID, now), gorm.ErrRecordNotFound)
	require.NoError(t, repo.MarkRead(1, list[0].ID, now))

	count, err = repo.CountUnread(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	n, err := repo.MarkAllRead(1, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	deleted, err := repo.DeleteReadBefore(now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	count, err = repo.CountUnread(2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	user := &models.User{DocumentID: "u1", Name: "Sari", Email: "sari@test.id", PasswordHash: "h", Role: models.RoleTPS, IsActive: true}
	tps := &models.TPSProfile{Name: "TPS Sari", Kecamatan: "Tebet", IsOpen: true}
	require.NoError(t, repo.CreateWithTPS(user, tps))
	assert.Equal(t, user.ID, tps.UserID)

	got, err := repo.GetByEmail("  SARI@test.id ")
	require.NoError(t, err)
	require.NotNil(t, got.TPSProfile)
	assert.Equal(t, "TPS Sari", got.TPSProfile.Name)

	role := models.RoleTPS
	list, total, err := repo.List(UserFilter{Role: &role, Search: "sar"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, repo.Update(999, map[string]interface{}{"name": "x"}), gorm.ErrRecordNotFound)
}

func TestTPSRepository_ListAvailable(t *testing.T) {
	db := newTestDB(t)
	repo := NewTPSRepository(db)

	seedTPS(t, db, "a@tps.id", "Tebet", true)
	seedTPS(t, db, "b@tps.id", "Tebet", false)
	seedTPS(t, db, "c@tps.id", "Menteng", true)
	inactiveUser, _ := seedTPS(t, db, "d@tps.id", "Tebet", true)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", inactiveUser.ID).Update("is_active", false).Error)

	list, err := repo.ListAvailable("Tebet")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "TPS a@tps.id", list[0].Name)

	list, err = repo.ListAvailable("")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	regions, err := repo.ListRegions()
	require.NoError(t, err)
	assert.Len(t, regions, 2)
}
