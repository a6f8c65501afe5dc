package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rahulverma-dev/commerce-backoffice/internal/dto"
	"github.com/rahulverma-dev/commerce-backoffice/internal/models"
	"gorm.io/gorm"
)

var (
	ErrProfileConflict    = errors.New("user already has a profile of the other type")
	ErrBuyerNotFound      = errors.New("buyer profile not found")
	ErrInvalidRole        = errors.New("invalid platform role")
	ErrInvalidStatus      = errors.New("invalid buyer status")
	ErrReferralNotFound   = errors.New("referral code not found")
	ErrReferralExhausted  = errors.New("could not generate a unique referral code")
	ErrInsufficientPoints = errors.New("insufficient loyalty points")
)

const (
	referralAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referralCodeLength  = 8
	referralMaxAttempts = 10
)

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// AttachPlatformProfile creates or updates the platform extension for a user.
// The owning user's type is forced to PLATFORM inside the same transaction,
// so two requests attaching conflicting profile types cannot interleave.
func (s *ProfileService) AttachPlatformProfile(userID uuid.UUID, req *dto.PlatformProfileRequest) (*models.PlatformProfile, error) {
	role := models.PlatformRole(req.Role)
	if req.Role == "" {
		role = models.RoleAdmin
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	var profile models.PlatformProfile
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Preload("PlatformProfile").Preload("BuyerProfile").
			First(&user, "id = ?", userID).Error; err != nil {
			return ErrUserNotFound
		}
		if user.BuyerProfile != nil {
			return ErrProfileConflict
		}

		if user.PlatformProfile != nil {
			profile = *user.PlatformProfile
		} else {
			profile = models.PlatformProfile{UserID: user.ID, HireDate: time.Now().UTC()}
		}

		profile.Role = role
		profile.Department = req.Department
		profile.EmployeeID = req.EmployeeID
		if req.HireDate != nil {
			profile.HireDate = *req.HireDate
		}
		profile.IsManagement = req.IsManagement
		profile.CanManageUsers = req.CanManageUsers
		profile.CanManageProducts = req.CanManageProducts
		profile.CanManageOrders = req.CanManageOrders
		profile.CanManageContent = req.CanManageContent
		profile.CanViewReports = req.CanViewReports
		profile.Bio = req.Bio

		user.PlatformProfile = &profile
		user.UserType = models.UserTypePlatform
		if err := user.Validate(); err != nil {
			return err
		}

		if err := tx.Save(&profile).Error; err != nil {
			return fmt.Errorf("failed to save platform profile: %w", err)
		}
		return tx.Model(&models.User{}).Where("id = ?", user.ID).
			Update("user_type", models.UserTypePlatform).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// AttachBuyerProfile creates or updates the buyer extension, forcing the
// owner's type to BUYER and issuing a referral code on first save.
func (s *ProfileService) AttachBuyerProfile(userID uuid.UUID, req *dto.BuyerProfileRequest) (*models.BuyerProfile, error) {
	var profile *models.BuyerProfile
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		profile, err = attachBuyerProfile(tx, userID, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// attachBuyerProfile is the transactional body of AttachBuyerProfile. Callers
// that create the user and its profile in one unit of work (registration)
// invoke it inside their own transaction so a failed attach rolls back the
// user row too.
func attachBuyerProfile(tx *gorm.DB, userID uuid.UUID, req *dto.BuyerProfileRequest) (*models.BuyerProfile, error) {
	var user models.User
	if err := tx.Preload("PlatformProfile").Preload("BuyerProfile").
		First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	if user.PlatformProfile != nil {
		return nil, ErrProfileConflict
	}

	var profile models.BuyerProfile
	if user.BuyerProfile != nil {
		profile = *user.BuyerProfile
	} else {
		profile = models.BuyerProfile{
			UserID:               user.ID,
			Tier:                 models.TierStandard,
			Status:               models.BuyerActive,
			PreferredChannel:     models.ChannelEmail,
			NewsletterSubscribed: true,
		}
	}

	if req.Status != "" {
		status := models.BuyerStatus(req.Status)
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		profile.Status = status
	}
	if req.PreferredChannel != "" {
		channel := models.ContactChannel(req.PreferredChannel)
		if !channel.Valid() {
			return nil, errors.New("invalid preferred channel")
		}
		profile.PreferredChannel = channel
	}
	profile.PreferredPaymentMethod = req.PreferredPaymentMethod
	profile.PreferredShippingMethod = req.PreferredShippingMethod
	if req.NewsletterSubscribed != nil {
		profile.NewsletterSubscribed = *req.NewsletterSubscribed
	}
	if req.MarketingOptIn != nil {
		profile.MarketingOptIn = *req.MarketingOptIn
	}
	if req.PersonalizedAdsOptIn != nil {
		profile.PersonalizedAdsOptIn = *req.PersonalizedAdsOptIn
	}

	if req.ReferralCode != "" && profile.ReferredByID == nil {
		var referrer models.BuyerProfile
		if err := tx.Where("referral_code = ?", req.ReferralCode).
			First(&referrer).Error; err != nil {
			return nil, ErrReferralNotFound
		}
		profile.ReferredByID = &referrer.UserID
	}

	if profile.ReferralCode == nil {
		code, err := generateReferralCode(tx)
		if err != nil {
			return nil, err
		}
		profile.ReferralCode = &code
	}

	user.BuyerProfile = &profile
	user.UserType = models.UserTypeBuyer
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := tx.Save(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to save buyer profile: %w", err)
	}
	if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
		Update("user_type", models.UserTypeBuyer).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// generateReferralCode draws random 8-character uppercase tokens until one is
// unused. Collisions are astronomically unlikely; the attempt cap only guards
// against a broken generator, and the unique index on referral_code remains
// the backstop for a lost race between concurrent inserts.
func generateReferralCode(tx *gorm.DB) (string, error) {
	buf := make([]byte, referralCodeLength)
	for attempt := 0; attempt < referralMaxAttempts; attempt++ {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate random bytes: %w", err)
		}
		code := make([]byte, referralCodeLength)
		for i, b := range buf {
			code[i] = referralAlphabet[int(b)%len(referralAlphabet)]
		}

		var count int64
		if err := tx.Model(&models.BuyerProfile{}).
			Where("referral_code = ?", string(code)).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return string(code), nil
		}
	}
	return "", ErrReferralExhausted
}

// RecomputeTier reprojects the loyalty tier from lifetime value. Calling it
// again with an unchanged lifetime value is a no-op.
func (s *ProfileService) RecomputeTier(userID uuid.UUID) (*models.BuyerProfile, error) {
	var profile models.BuyerProfile
	if err := s.db.First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, ErrBuyerNotFound
	}

	tier := models.TierFor(profile.LifetimeValue)
	if tier != profile.Tier {
		if err := s.db.Model(&profile).Update("tier", tier).Error; err != nil {
			return nil, err
		}
		profile.Tier = tier
	}
	return &profile, nil
}

// GrantLoyaltyPoints credits the current balance and the lifetime earned counter.
func (s *ProfileService) GrantLoyaltyPoints(userID uuid.UUID, points uint) (*models.BuyerProfile, error) {
	var profile models.BuyerProfile
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&profile, "user_id = ?", userID).Error; err != nil {
			return ErrBuyerNotFound
		}
		profile.LoyaltyPoints += points
		profile.LoyaltyPointsEarned += points
		return tx.Model(&profile).Updates(map[string]interface{}{
			"loyalty_points":        profile.LoyaltyPoints,
			"loyalty_points_earned": profile.LoyaltyPointsEarned,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// RedeemLoyaltyPoints debits the balance, refusing to overdraw it.
func (s *ProfileService) RedeemLoyaltyPoints(userID uuid.UUID, points uint) (*models.BuyerProfile, error) {
	var profile models.BuyerProfile
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&profile, "user_id = ?", userID).Error; err != nil {
			return ErrBuyerNotFound
		}
		if profile.LoyaltyPoints < points {
			return ErrInsufficientPoints
		}
		profile.LoyaltyPoints -= points
		profile.LoyaltyPointsRedeemed += points
		return tx.Model(&profile).Updates(map[string]interface{}{
			"loyalty_points":          profile.LoyaltyPoints,
			"loyalty_points_redeemed": profile.LoyaltyPointsRedeemed,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
