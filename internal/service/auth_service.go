package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"goclean-be-svc/internal/models"
	"goclean-be-svc/internal/models/response"
	"goclean-be-svc/internal/repository"
	"goclean-be-svc/pkg/logger"
)

// RegisterRequest represents a self-service account registration
type RegisterRequest struct {
	Name      string           `json:"name" binding:"required,max=120" example:"Sari Wulandari"`
	Email     string           `json:"email" binding:"required,email" example:"sari@example.com"`
	Phone     string           `json:"phone" binding:"max=32" example:"+6281234567890"`
	Password  string           `json:"password" binding:"required,min=8" example:"rahasia123"`
	Role      models.Role      `json:"role" binding:"required,oneof=USER TPS" example:"USER"`
	Address   string           `json:"address" example:"Jl. Melati No. 1"`
	Kecamatan string           `json:"kecamatan" example:"Tebet"`
	Kelurahan string           `json:"kelurahan" example:"Manggarai"`
	Latitude  *float64         `json:"latitude" binding:"omitempty,latitude" example:"-6.2261"`
	Longitude *float64         `json:"longitude" binding:"omitempty,longitude" example:"106.8503"`
	TPS       *TPSRegistration `json:"tps,omitempty"`
}

// TPSRegistration carries the TPS profile created together with a TPS account
type TPSRegistration struct {
	Name           string  `json:"name" binding:"required,max=120" example:"TPS Manggarai"`
	Address        string  `json:"address" example:"Jl. Sahardjo No. 10"`
	Kecamatan      string  `json:"kecamatan" example:"Tebet"`
	Kelurahan      string  `json:"kelurahan" example:"Manggarai"`
	Latitude       float64 `json:"latitude" binding:"latitude" example:"-6.2115"`
	Longitude      float64 `json:"longitude" binding:"longitude" example:"106.8452"`
	OperatingHours string  `json:"operating_hours" example:"07:00-16:00"`
	CapacityKg     float64 `json:"capacity_kg" binding:"gte=0" example:"500"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"sari@example.com"`
	Password string `json:"password" binding:"required" example:"rahasia123"`
}

// UpdateProfileRequest is a partial profile update; nil fields stay unchanged
type UpdateProfileRequest struct {
	Name      *string  `json:"name" binding:"omitempty,min=1,max=120" example:"Sari W."`
	Phone     *string  `json:"phone" binding:"omitempty,max=32" example:"+6281234567890"`
	Address   *string  `json:"address" example:"Jl. Melati No. 2"`
	Kecamatan *string  `json:"kecamatan" example:"Tebet"`
	Kelurahan *string  `json:"kelurahan" example:"Bukit Duri"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,latitude" example:"-6.2261"`
	Longitude *float64 `json:"longitude" binding:"omitempty,longitude" example:"106.8503"`
}

// ChangePasswordRequest represents a password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required" example:"rahasia123"`
	NewPassword string `json:"new_password" binding:"required,min=8" example:"lebihrahasia456"`
}

// TokenClaims are the JWT claims issued at login
type TokenClaims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthService defines the interface for account and authentication operations
type AuthService interface {
	Register(req *RegisterRequest) (*models.User, error)
	Login(req *LoginRequest) (*response.LoginResponse, error)
	Authenticate(token string) (*Actor, error)
	Me(userID uint) (*models.User, error)
	UpdateProfile(userID uint, req *UpdateProfileRequest) (*models.User, error)
	ChangePassword(userID uint, req *ChangePasswordRequest) error
	CreateAdmin(name, email, password string) (*models.User, error)
}

// authService implements AuthService
type authService struct {
	userRepo repository.UserRepository
	secret   []byte
	ttl      time.Duration
	logger   *logger.Logger
	now      func() time.Time
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(userRepo repository.UserRepository, secret string, ttl time.Duration, logger *logger.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		secret:   []byte(secret),
		ttl:      ttl,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ensureEmailFree returns ErrEmailTaken when the address is already registered
func (s *authService) ensureEmailFree(email string) error {
	_, err := s.userRepo.GetByEmail(email)
	if err == nil {
		return ErrEmailTaken
	}
	if translateRepoError(err) != ErrNotFound {
		return fmt.Errorf("failed to check email: %w", err)
	}
	return nil
}

// Register creates a USER or TPS account. TPS accounts start unverified.
func (s *authService) Register(req *RegisterRequest) (*models.User, error) {
	if req.Role != models.RoleUser && req.Role != models.RoleTPS {
		return nil, fmt.Errorf("%w: role must be USER or TPS", ErrInvalidInput)
	}
	if req.Role == models.RoleTPS && req.TPS == nil {
		return nil, fmt.Errorf("%w: tps profile is required for TPS accounts", ErrInvalidInput)
	}

	email := normalizeEmail(req.Email)
	if err := s.ensureEmailFree(email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		DocumentID:   uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         req.Role,
		Address:      req.Address,
		Kecamatan:    req.Kecamatan,
		Kelurahan:    req.Kelurahan,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		IsActive:     true,
	}

	if req.Role == models.RoleTPS {
		tps := &models.TPSProfile{
			Name:           req.TPS.Name,
			Address:        firstNonEmpty(req.TPS.Address, req.Address),
			Kecamatan:      firstNonEmpty(req.TPS.Kecamatan, req.Kecamatan),
			Kelurahan:      firstNonEmpty(req.TPS.Kelurahan, req.Kelurahan),
			Latitude:       req.TPS.Latitude,
			Longitude:      req.TPS.Longitude,
			OperatingHours: req.TPS.OperatingHours,
			CapacityKg:     req.TPS.CapacityKg,
			IsVerified:     false,
			IsOpen:         true,
		}
		err = s.userRepo.CreateWithTPS(user, tps)
	} else {
		err = s.userRepo.Create(user)
	}
	if err != nil {
		s.logger.WithError(err).WithField("email", email).Error("Failed to register user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("User registered successfully")

	return user, nil
}

// Login verifies credentials and issues a signed token
func (s *authService) Login(req *LoginRequest) (*response.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(normalizeEmail(req.Email))
	if err != nil {
		if translateRepoError(err) == ErrNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsActive {
		s.logger.WithField("user_id", user.ID).Warn("Login attempt on inactive account")
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", user.ID).Info("User logged in")

	return &response.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

func (s *authService) issueToken(user *models.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := TokenClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Authenticate validates a token and resolves the caller. The account must still exist and be active.
func (s *authService) Authenticate(token string) (*Actor, error) {
	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidCredentials
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil || id == 0 {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByID(uint(id))
	if err != nil {
		if translateRepoError(err) == ErrNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	actor := &Actor{UserID: user.ID, Role: user.Role}
	if user.TPSProfile != nil {
		actor.TPSID = user.TPSProfile.ID
	}
	return actor, nil
}

// Me returns the caller's account with its TPS profile, if any
func (s *authService) Me(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of req
func (s *authService) UpdateProfile(userID uint, req *UpdateProfileRequest) (*models.User, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		fields["name"] = name
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.Kecamatan != nil {
		fields["kecamatan"] = *req.Kecamatan
	}
	if req.Kelurahan != nil {
		fields["kelurahan"] = *req.Kelurahan
	}
	if req.Latitude != nil {
		fields["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		fields["longitude"] = *req.Longitude
	}

	if len(fields) > 0 {
		fields["updated_at"] = s.now()
		if err := s.userRepo.Update(userID, fields); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Error("Failed to update profile")
			return nil, translateRepoError(err)
		}
	}

	return s.Me(userID)
}

// ChangePassword replaces the password after verifying the old one
func (s *authService) ChangePassword(userID uint, req *ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return translateRepoError(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.Update(userID, map[string]interface{}{
		"password_hash": string(hash),
		"updated_at":    s.now(),
	}); err != nil {
		return translateRepoError(err)
	}

	s.logger.WithField("user_id", userID).Info("Password changed")
	return nil
}

// CreateAdmin creates an ADMIN account. It is only reachable from the admin CLI.
func (s *authService) CreateAdmin(name, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if strings.TrimSpace(name) == "" || email == "" || len(password) < 8 {
		return nil, fmt.Errorf("%w: name, email and a password of at least 8 characters are required", ErrInvalidInput)
	}
	if err := s.ensureEmailFree(email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		DocumentID:   uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return user, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
