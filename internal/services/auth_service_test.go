package services

import (
	"testing"
	"time"

	"github.com/rahulverma-dev/commerce-backoffice/internal/dto"
	"github.com/rahulverma-dev/commerce-backoffice/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *ProfileService) {
	t.Helper()
	db := setupTestDB(t)
	profiles := NewProfileService(db)
	return NewAuthService(db, testConfig(), profiles), profiles
}

func TestRegister_CreatesBuyerWithProfile(t *testing.T) {
	auth, _ := newAuthService(t)

	resp, err := auth.Register(&dto.RegisterRequest{
		Email:     "New.Buyer@EXAMPLE.COM",
		Password:  "password123",
		FirstName: "Asha",
		LastName:  "Rao",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, models.UserTypeBuyer, resp.User.UserType)
	require.NotNil(t, resp.User.Email)
	assert.Equal(t, "New.Buyer@example.com", *resp.User.Email)

	var profile models.BuyerProfile
	require.NoError(t, auth.db.First(&profile, "user_id = ?", resp.User.ID).Error)
	require.NotNil(t, profile.ReferralCode)
	assert.Equal(t, models.TierStandard, profile.Tier)
}

func TestRegister_WithReferralCode(t *testing.T) {
	auth, _ := newAuthService(t)

	first, err := auth.Register(&dto.RegisterRequest{
		Email:    "referrer@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	var refProfile models.BuyerProfile
	require.NoError(t, auth.db.First(&refProfile, "user_id = ?", first.User.ID).Error)

	second, err := auth.Register(&dto.RegisterRequest{
		Email:        "referred@example.com",
		Password:     "password123",
		ReferralCode: *refProfile.ReferralCode,
	})
	require.NoError(t, err)

	var profile models.BuyerProfile
	require.NoError(t, auth.db.First(&profile, "user_id = ?", second.User.ID).Error)
	require.NotNil(t, profile.ReferredByID)
	assert.Equal(t, first.User.ID, *profile.ReferredByID)

	_, err = auth.Register(&dto.RegisterRequest{
		Email:        "third@example.com",
		Password:     "password123",
		ReferralCode: "NOPE1234",
	})
	assert.ErrorIs(t, err, ErrReferralNotFound)
}

func TestRegister_FailedAttachLeavesNoOrphanUser(t *testing.T) {
	auth, _ := newAuthService(t)

	_, err := auth.Register(&dto.RegisterRequest{
		Email:        "orphan@example.com",
		Password:     "password123",
		ReferralCode: "NOPE1234",
	})
	require.ErrorIs(t, err, ErrReferralNotFound)

	var count int64
	auth.db.Model(&models.User{}).Where("email = ?", "orphan@example.com").Count(&count)
	assert.Zero(t, count)

	// The corrected retry reuses the email without a conflict.
	resp, err := auth.Register(&dto.RegisterRequest{
		Email:    "orphan@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeBuyer, resp.User.UserType)
}

func TestRegister_Rejections(t *testing.T) {
	auth, _ := newAuthService(t)

	_, err := auth.Register(&dto.RegisterRequest{Email: "a@x.com", Password: "short"})
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = auth.Register(&dto.RegisterRequest{Password: "password123"})
	assert.ErrorIs(t, err, models.ErrContactRequired)

	_, err = auth.Register(&dto.RegisterRequest{Phone: "nope", Password: "password123"})
	assert.ErrorIs(t, err, models.ErrInvalidPhone)

	_, err = auth.Register(&dto.RegisterRequest{Email: "taken@x.com", Password: "password123"})
	require.NoError(t, err)
	_, err = auth.Register(&dto.RegisterRequest{Email: "TAKEN@X.COM", Password: "password123"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = auth.Register(&dto.RegisterRequest{Phone: "+919876543210", Password: "password123"})
	require.NoError(t, err)
	_, err = auth.Register(&dto.RegisterRequest{Phone: "+919876543210", Password: "password123"})
	assert.ErrorIs(t, err, ErrPhoneTaken)
}

func TestLogin_ByEmailAndPhone(t *testing.T) {
	auth, _ := newAuthService(t)

	phone := "+919876543210"
	_, err := auth.Register(&dto.RegisterRequest{
		Email:    "buyer@example.com",
		Phone:    phone,
		Password: "password123",
	})
	require.NoError(t, err)

	resp, err := auth.Login(&dto.LoginRequest{Email: "BUYER@EXAMPLE.COM", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	resp, err = auth.Login(&dto.LoginRequest{Phone: phone, Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	var user models.User
	require.NoError(t, auth.db.First(&user, "id = ?", resp.User.ID).Error)
	assert.NotNil(t, user.LastLogin)
}

func TestLogin_Failures(t *testing.T) {
	auth, _ := newAuthService(t)

	_, err := auth.Register(&dto.RegisterRequest{Email: "buyer@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = auth.Login(&dto.LoginRequest{Email: "buyer@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(&dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(&dto.LoginRequest{Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, auth.db.Model(&models.User{}).
		Where("email = ?", "buyer@example.com").
		Update("is_active", false).Error)
	_, err = auth.Login(&dto.LoginRequest{Email: "buyer@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestRefresh_RotatesToken(t *testing.T) {
	auth, _ := newAuthService(t)

	reg, err := auth.Register(&dto.RegisterRequest{Email: "buyer@example.com", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := auth.Refresh(&dto.RefreshRequest{RefreshToken: reg.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, reg.RefreshToken, refreshed.RefreshToken)

	// The consumed token no longer refreshes.
	_, err = auth.Refresh(&dto.RefreshRequest{RefreshToken: reg.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefresh_ExpiredAndGarbage(t *testing.T) {
	auth, _ := newAuthService(t)

	reg, err := auth.Register(&dto.RegisterRequest{Email: "buyer@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, auth.db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", hashToken(reg.RefreshToken)).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)
	_, err = auth.Refresh(&dto.RefreshRequest{RefreshToken: reg.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = auth.Refresh(&dto.RefreshRequest{RefreshToken: "not-a-token"})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout_RevokesToken(t *testing.T) {
	auth, _ := newAuthService(t)

	reg, err := auth.Register(&dto.RegisterRequest{Email: "buyer@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, auth.Logout(&dto.LogoutRequest{RefreshToken: reg.RefreshToken}))
	_, err = auth.Refresh(&dto.RefreshRequest{RefreshToken: reg.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	auth, _ := newAuthService(t)

	reg, err := auth.Register(&dto.RegisterRequest{Email: "buyer@example.com", Password: "password123"})
	require.NoError(t, err)
	userID := reg.User.ID

	err = auth.ChangePassword(userID, &dto.ChangePasswordRequest{
		CurrentPassword: "wrong-pass",
		NewPassword:     "new-password-1",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = auth.ChangePassword(userID, &dto.ChangePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "short",
	})
	assert.ErrorIs(t, err, ErrWeakPassword)

	require.NoError(t, auth.ChangePassword(userID, &dto.ChangePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "new-password-1",
	}))

	_, err = auth.Login(&dto.LoginRequest{Email: "buyer@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(&dto.LoginRequest{Email: "buyer@example.com", Password: "new-password-1"})
	require.NoError(t, err)

	// Every refresh token issued before the change is revoked.
	_, err = auth.Refresh(&dto.RefreshRequest{RefreshToken: reg.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessTokenCarriesRoleForPlatformUsers(t *testing.T) {
	auth, profiles := newAuthService(t)

	staff := createTestUser(t, auth.db, "staff@example.com", "password123")
	_, err := profiles.AttachPlatformProfile(staff.ID, &dto.PlatformProfileRequest{
		Role: string(models.RoleCustomerSupport),
	})
	require.NoError(t, err)

	resp, err := auth.Login(&dto.LoginRequest{Email: "staff@example.com", Password: "password123"})
	require.NoError(t, err)

	claims := parseClaims(t, resp.AccessToken, testConfig().JWTSecret)
	assert.Equal(t, staff.ID.String(), claims["sub"])
	assert.Equal(t, string(models.UserTypePlatform), claims["user_type"])
	assert.Equal(t, string(models.RoleCustomerSupport), claims["role"])
}
