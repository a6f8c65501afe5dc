package models

import (
	"time"

	"github.com/google/uuid"
)

// Tier thresholds on lifetime spend, evaluated high to low.
const (
	TierThresholdVIP      = 50000
	TierThresholdPlatinum = 20000
	TierThresholdGold     = 10000
	TierThresholdSilver   = 5000
)

// BuyerProfile extends a User with commerce metrics, loyalty balances and
// the referral linkage. Keyed by the owning user's id.
type BuyerProfile struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`

	Tier   BuyerTier   `gorm:"size:10;not null;default:'STANDARD';index" json:"tier"`
	Status BuyerStatus `gorm:"size:15;not null;default:'ACTIVE';index" json:"status"`

	LifetimeValue     float64    `gorm:"type:decimal(12,2);not null;default:0;index" json:"lifetime_value"`
	AverageOrderValue float64    `gorm:"type:decimal(10,2);not null;default:0" json:"average_order_value"`
	OrderCount        uint       `gorm:"not null;default:0" json:"order_count"`
	FirstOrderAt      *time.Time `json:"first_order_at,omitempty"`
	LastOrderAt       *time.Time `gorm:"index" json:"last_order_at,omitempty"`

	// Loyalty balances. Current points tracking earned-redeemed is a
	// bookkeeping convention, not an enforced constraint.
	LoyaltyPoints         uint `gorm:"not null;default:0" json:"loyalty_points"`
	LoyaltyPointsEarned   uint `gorm:"not null;default:0" json:"loyalty_points_earned"`
	LoyaltyPointsRedeemed uint `gorm:"not null;default:0" json:"loyalty_points_redeemed"`

	PreferredPaymentMethod  *string        `gorm:"size:50" json:"preferred_payment_method,omitempty"`
	PreferredShippingMethod *string        `gorm:"size:50" json:"preferred_shipping_method,omitempty"`
	PreferredChannel        ContactChannel `gorm:"size:20;not null;default:'EMAIL'" json:"preferred_channel"`

	NewsletterSubscribed bool `gorm:"not null;default:true" json:"newsletter_subscribed"`
	MarketingOptIn       bool `gorm:"not null;default:false" json:"marketing_opt_in"`
	PersonalizedAdsOptIn bool `gorm:"not null;default:false" json:"personalized_ads_opt_in"`

	AccountBalance float64    `gorm:"type:decimal(10,2);not null;default:0" json:"account_balance"`
	ReferralCode   *string    `gorm:"size:20;uniqueIndex" json:"referral_code,omitempty"`
	ReferredByID   *uuid.UUID `gorm:"type:uuid" json:"referred_by_id,omitempty"`
	Notes          *string    `gorm:"type:text" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ReferredBy *BuyerProfile `gorm:"foreignKey:ReferredByID" json:"-"`
}

func (BuyerProfile) TableName() string {
	return "buyer_profiles"
}

// TierFor maps a lifetime value onto the loyalty tier.
func TierFor(lifetimeValue float64) BuyerTier {
	switch {
	case lifetimeValue >= TierThresholdVIP:
		return TierVIP
	case lifetimeValue >= TierThresholdPlatinum:
		return TierPlatinum
	case lifetimeValue >= TierThresholdGold:
		return TierGold
	case lifetimeValue >= TierThresholdSilver:
		return TierSilver
	}
	return TierStandard
}
