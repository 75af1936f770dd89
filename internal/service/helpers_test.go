package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"goclean-be-svc/internal/cache"
	"goclean-be-svc/internal/database"
	"goclean-be-svc/internal/models"
	"goclean-be-svc/internal/repository"
	"goclean-be-svc/pkg/logger"
)

// mockGateway is a function-field PaymentGateway
type mockGateway struct {
	CreatePaymentLinkFunc func(ctx context.Context, amount int64, description string, customer MayarCustomer) (*PaymentLink, error)
	calls                 int
}

func (m *mockGateway) CreatePaymentLink(ctx context.Context, amount int64, description string, customer MayarCustomer) (*PaymentLink, error) {
	m.calls++
	if m.CreatePaymentLinkFunc != nil {
		return m.CreatePaymentLinkFunc(ctx, amount, description, customer)
	}
	return &PaymentLink{URL: "https://pay.test/link", Reference: "ref-1"}, nil
}

type fixture struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repository.UserRepository
	tpsRepo       repository.TPSRepository
	categoryRepo  repository.WasteCategoryRepository
	pickupRepo    repository.PickupRepository
	trxRepo       repository.TransactionRepository
	notifRepo     repository.NotificationRepository
	notifications NotificationService
	pickups       PickupService
	transactions  TransactionService
	gateway       *mockGateway
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func newFixture(t *testing.T, locations cache.LocationCache) *fixture {
	t.Helper()
	if locations == nil {
		locations = cache.NewNopLocationCache()
	}

	db := newTestDB(t)
	log := logger.NewNopLogger()
	f := &fixture{
		db:           db,
		log:          log,
		userRepo:     repository.NewUserRepository(db),
		tpsRepo:      repository.NewTPSRepository(db),
		categoryRepo: repository.NewWasteCategoryRepository(db),
		pickupRepo:   repository.NewPickupRepository(db),
		trxRepo:      repository.NewTransactionRepository(db),
		notifRepo:    repository.NewNotificationRepository(db),
		gateway:      &mockGateway{},
	}
	f.notifications = NewNotificationService(f.notifRepo, f.tpsRepo, log)
	f.pickups = NewPickupService(
		f.pickupRepo,
		f.categoryRepo,
		f.tpsRepo,
		repository.NewPaymentConfigRepository(db),
		locations,
		f.notifications,
		PickupServiceConfig{UploadDir: t.TempDir(), MaxUploadBytes: 1024},
		log,
	)
	f.transactions = NewTransactionService(f.trxRepo, f.userRepo, f.gateway, f.notifications, log)
	return f
}

func (f *fixture) user(t *testing.T, email, kecamatan string) Actor {
	t.Helper()
	u := &models.User{DocumentID: "doc-" + email, Name: email, Email: email, PasswordHash: "x", Role: models.RoleUser, Kecamatan: kecamatan, IsActive: true}
	require.NoError(t, f.userRepo.Create(u))
	return Actor{UserID: u.ID, Role: models.RoleUser}
}

func (f *fixture) tps(t *testing.T, email, kecamatan string, verified bool) Actor {
	t.Helper()
	u := &models.User{DocumentID: "doc-" + email, Name: email, Email: email, PasswordHash: "x", Role: models.RoleTPS, IsActive: true}
	p := &models.TPSProfile{Name: "TPS " + email, Kecamatan: kecamatan, IsVerified: verified, IsOpen: true, Latitude: -6.21, Longitude: 106.84}
	require.NoError(t, f.userRepo.CreateWithTPS(u, p))
	return Actor{UserID: u.ID, Role: models.RoleTPS, TPSID: p.ID}
}

func (f *fixture) admin(t *testing.T) Actor {
	t.Helper()
	u := &models.User{DocumentID: "doc-admin", Name: "admin", Email: "admin@goclean.id", PasswordHash: "x", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, f.userRepo.Create(u))
	return Actor{UserID: u.ID, Role: models.RoleAdmin}
}

func (f *fixture) category(t *testing.T, code string, price int64, active bool) *models.WasteCategory {
	t.Helper()
	c := &models.WasteCategory{Code: code, Name: code, PricePerKg: price, IsActive: active}
	require.NoError(t, f.categoryRepo.Create(c))
	return c
}

func (f *fixture) serviceFee(t *testing.T, fee int64) {
	t.Helper()
	_, err := repository.NewPaymentConfigRepository(f.db).SetServiceFee(fee)
	require.NoError(t, err)
}

func (f *fixture) createPickup(t *testing.T, owner Actor, kecamatan string, categories ...*models.WasteCategory) *models.PickupRequest {
	t.Helper()
	req := &CreatePickupRequest{Address: "Jl. Melati 1", Kecamatan: kecamatan, Latitude: -6.2261, Longitude: 106.8503}
	for _, c := range categories {
		req.Items = append(req.Items, PickupItemRequest{WasteCategoryID: c.ID, EstimatedWeightKg: 2})
	}
	p, err := f.pickups.CreatePickup(owner, req)
	require.NoError(t, err)
	return p
}

func (f *fixture) notificationsOf(t *testing.T, userID uint) []*models.Notification {
	t.Helper()
	list, _, err := f.notifRepo.List(userID, false, 1, 100)
	require.NoError(t, err)
	return list
}
