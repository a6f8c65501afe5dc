package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rahulverma-dev/commerce-backoffice/internal/config"
	"github.com/rahulverma-dev/commerce-backoffice/internal/dto"
	"github.com/rahulverma-dev/commerce-backoffice/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrPhoneTaken         = errors.New("phone number already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

type AuthService struct {
	db       *gorm.DB
	cfg      *config.Config
	profiles *ProfileService
}

func NewAuthService(db *gorm.DB, cfg *config.Config, profiles *ProfileService) *AuthService {
	return &AuthService{db: db, cfg: cfg, profiles: profiles}
}

// Register creates a buyer account: the identity record plus the buyer
// extension with its referral code.
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if len(req.Password) < 8 {
		return nil, ErrWeakPassword
	}

	user := models.User{
		UserType:  models.UserTypeUnassigned,
		IsActive:  true,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if req.Email != "" {
		email := models.NormalizeEmail(req.Email)
		user.Email = &email
	}
	if req.Phone != "" {
		phone := req.Phone
		user.Phone = &phone
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkContactTaken(user.Email, user.Phone, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	// User row and buyer extension commit together: a rejected referral code
	// must not leave an orphan identity holding the email or phone.
	profileReq := dto.BuyerProfileRequest{ReferralCode: req.ReferralCode}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		_, err := attachBuyerProfile(tx, user.ID, &profileReq)
		return err
	})
	if err != nil {
		return nil, err
	}
	user.UserType = models.UserTypeBuyer

	return s.generateTokenPair(&user)
}

// Login authenticates by email or phone.
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var user models.User
	query := s.db.Preload("PlatformProfile")
	switch {
	case req.Email != "":
		query = query.Where("email = ?", models.NormalizeEmail(req.Email))
	case req.Phone != "":
		query = query.Where("phone = ?", req.Phone)
	default:
		return nil, ErrInvalidCredentials
	}
	if err := query.First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	now := time.Now().UTC()
	s.db.Model(&user).Update("last_login", now)
	user.LastLogin = &now

	return s.generateTokenPair(&user)
}

func (s *AuthService) Refresh(req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ? AND revoked = false", tokenHash).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}

	if time.Now().After(stored.ExpiresAt) {
		s.db.Model(&stored).Update("revoked", true)
		return nil, ErrInvalidToken
	}

	s.db.Model(&stored).Update("revoked", true)

	var user models.User
	if err := s.db.Preload("PlatformProfile").First(&user, "id = ?", stored.UserID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	return s.generateTokenPair(&user)
}

func (s *AuthService) Logout(req *dto.LogoutRequest) error {
	tokenHash := hashToken(req.RefreshToken)
	return s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

// ChangePassword verifies the current password before rotating the hash and
// revoking every outstanding refresh token.
func (s *AuthService) ChangePassword(userID uuid.UUID, req *dto.ChangePasswordRequest) error {
	if len(req.NewPassword) < 8 {
		return ErrWeakPassword
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("password_hash", string(hash)).Error; err != nil {
			return err
		}
		return tx.Model(&models.RefreshToken{}).
			Where("user_id = ?", userID).
			Update("revoked", true).Error
	})
}

func (s *AuthService) checkContactTaken(email, phone *string, excludeID uuid.UUID) error {
	var count int64
	if email != nil {
		q := s.db.Model(&models.User{}).Where("email = ?", *email)
		if excludeID != uuid.Nil {
			q = q.Where("id <> ?", excludeID)
		}
		q.Count(&count)
		if count > 0 {
			return ErrEmailTaken
		}
	}
	if phone != nil {
		q := s.db.Model(&models.User{}).Where("phone = ?", *phone)
		if excludeID != uuid.Nil {
			q = q.Where("id <> ?", excludeID)
		}
		q.Count(&count)
		if count > 0 {
			return ErrPhoneTaken
		}
	}
	return nil
}

func (s *AuthService) generateTokenPair(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: dto.UserResponse{
			ID:          user.ID,
			Email:       user.Email,
			Phone:       user.Phone,
			UserType:    user.UserType,
			DisplayName: user.DisplayName(),
		},
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":       user.ID.String(),
		"user_type": string(user.UserType),
		"iat":       time.Now().Unix(),
		"exp":       time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}
	if user.Email != nil {
		claims["email"] = *user.Email
	}
	if user.PlatformProfile != nil {
		claims["role"] = string(user.PlatformProfile.Role)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)
	tokenHash := hashToken(rawToken)

	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
