package services

import (
	"regexp"
	"testing"

	"github.com/rahulverma-dev/commerce-backoffice/internal/dto"
	"github.com/rahulverma-dev/commerce-backoffice/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var referralCodePattern = regexp.MustCompile(`^[A-Z0-9]{8}$`)

func TestAttachBuyerProfile_ForcesUserTypeAndIssuesReferralCode(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProfileService(db)
	user := createTestUser(t, db, "buyer@example.com", "password123")

	profile, err := svc.AttachBuyerProfile(user.ID, &dto.BuyerProfileRequest{})
	require.NoError(t, err)

	require.NotNil(t, profile.ReferralCode)
	assert.Regexp(t, referralCodePattern, *profile.ReferralCode)
	assert.Equal(t, models.TierStandard, profile.Tier)
	assert.Equal(t, models.BuyerActive, profile.Status)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, models.UserTypeBuyer, stored.UserType)
}

func TestAttachBuyerProfile_KeepsReferralCodeOnResave(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProfileService(db)
	user := createTestUser(t, db, "buyer@example.com", "password123")

	first, err := svc.AttachBuyerProfile(user.ID, &dto.BuyerProfileRequest{})
	require.NoError(t, err)

	second, err := svc.AttachBuyerProfile(user.ID, &dto.BuyerProfileRequest{Status: "SUSPENDED"})
	require.NoError(t, err)

	assert.Equal(t, *first.ReferralCode, *second.ReferralCode)
	assert.Equal(t, models.BuyerSuspended, second.Status)
}

func TestAttachBuyerProfile_ResolvesReferrer(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProfileService(db)

	referrer := createTestUser(t, db, "referrer@example.com", "password123")
	refProfile, err := svc.AttachBuyerProfile(referrer.ID, &dto.BuyerProfileRequest{})
	require.NoError(t, err)

	referred := createTestUser(t, db, "referred@example.com", "password123")
	profile, err := svc.AttachBuyerProfile(referred.ID, &dto.BuyerProfileRequest{
		ReferralCode: *refProfile.ReferralCode,
	})
	require.NoError(t, err)
	require.NotNil(t, profile.ReferredByID)
	assert.Equal(t, referrer.ID, *profile.ReferredByID)

	other := createTestUser(t, db, "other@example.com", "password123")
	_, err = svc.AttachBuyerProfile(other.ID, &dto.BuyerProfileRequest{ReferralCode: "NOPE1234"})
	assert.ErrorIs(t, err, ErrReferralNotFound)
}

func TestAttachPlatformProfile_ForcesUserType(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProfileService(db)
	user := createTestUser(t, db, "staff@example.com", "password123")

	profile, err := svc.AttachPlatformProfile(user.ID, &dto.PlatformProfileRequest{
		Role:           string(models.RoleProductManager),
		CanManageUsers: true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleProductManager, profile.Role)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, models.UserTypePlatform, stored.UserType)
}

func TestAttachPlatformProfile_DefaultsRoleToAdmin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProfileService(db)
	user := createTestUser(t, db, "staff@example.com", "password123")

	profile, err := svc.AttachPlatformProfile(user.ID, &dto.PlatformProfileRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, profile.Role)

	_, err = svc.AttachPlatformProfile(user.ID, &dto.PlatformProfileRequest{Role: "JANITOR"})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestAttachProfile_ConflictingTypesRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProfileService(db)

	buyer := createTestUser(t, db, "buyer@example.com", "password123")
	_, err := svc.AttachBuyerProfile(buyer.ID, &dto.BuyerProfileRequest{})
	require.NoError(t, err)
	_, err = svc.AttachPlatformProfile(buyer.ID, &dto.PlatformProfileRequest{})
	assert.ErrorIs(t, err, ErrProfileConflict)

	staff := createTestUser(t, db, "staff@example.com", "password123")
	_, err = svc.AttachPlatformProfile(staff.ID, &dto.PlatformProfileRequest{})
	require.NoError(t, err)
	_, err = svc.AttachBuyerProfile(staff.ID, &dto.BuyerProfileRequest{})
	assert.ErrorIs(t, err, ErrProfileConflict)
}

func TestReferralCodesAreUniquePerBuyer(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProfileService(db)

	seen := make(map[string]bool)
	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com", "d@x.com", "e@x.com"} {
		user := createTestUser(t, db, email, "password123")
		profile, err := svc.AttachBuyerProfile(user.ID, &dto.BuyerProfileRequest{})
		require.NoError(t, err)
		require.NotNil(t, profile.ReferralCode)
		assert.False(t, seen[*profile.ReferralCode], "duplicate referral code issued")
		seen[*profile.ReferralCode] = true
	}
}

func TestRecomputeTier(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProfileService(db)
	user := createTestUser(t, db, "buyer@example.com", "password123")
	_, err := svc.AttachBuyerProfile(user.ID, &dto.BuyerProfileRequest{})
	require.NoError(t, err)

	cases := []struct {
		lifetimeValue float64
		want          models.BuyerTier
	}{
		{0, models.TierStandard},
		{12000, models.TierGold},
		{50000, models.TierVIP},
	}
	for _, tc := range cases {
		require.NoError(t, db.Model(&models.BuyerProfile{}).
			Where("user_id = ?", user.ID).
			Update("lifetime_value", tc.lifetimeValue).Error)

		profile, err := svc.RecomputeTier(user.ID)
		require.NoError(t, err)
		assert.Equal(t, tc.want, profile.Tier, "lifetime_value=%v", tc.lifetimeValue)

		// Idempotent: a second call with the same lifetime value changes nothing.
		again, err := svc.RecomputeTier(user.ID)
		require.NoError(t, err)
		assert.Equal(t, profile.Tier, again.Tier)
	}
}

func TestLoyaltyPoints(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProfileService(db)
	user := createTestUser(t, db, "buyer@example.com", "password123")
	_, err := svc.AttachBuyerProfile(user.ID, &dto.BuyerProfileRequest{})
	require.NoError(t, err)

	profile, err := svc.GrantLoyaltyPoints(user.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, uint(100), profile.LoyaltyPoints)
	assert.Equal(t, uint(100), profile.LoyaltyPointsEarned)

	profile, err = svc.RedeemLoyaltyPoints(user.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, uint(60), profile.LoyaltyPoints)
	assert.Equal(t, uint(40), profile.LoyaltyPointsRedeemed)

	_, err = svc.RedeemLoyaltyPoints(user.ID, 1000)
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	_, err = svc.GrantLoyaltyPoints(user.ID, 0)
	require.NoError(t, err)
}
